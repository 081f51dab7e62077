package models

// ProviderStat is the per-provider slice of the connection breakdown.
type ProviderStat struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// VerificationStats aggregates only verification_success/verification_failed
// events.
type VerificationStats struct {
	Total       int     `json:"total"`
	Successful  int     `json:"successful"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

// TrendPoint is one dense time bucket in a trend series. Buckets with no
// events are present with Count 0.
type TrendPoint struct {
	Period string `json:"period"`
	Count  int    `json:"count"`
}

// ConnectionTrends holds the daily, weekly and monthly bucketed counts over
// the analytics window.
type ConnectionTrends struct {
	Daily   []TrendPoint `json:"daily"`
	Weekly  []TrendPoint `json:"weekly"`
	Monthly []TrendPoint `json:"monthly"`
}

// AnalyticsSummary is the aggregate view over connection events in a window.
// Available is false when the event source could not be read; consumers must
// treat such a summary as "unavailable", not "no activity".
type AnalyticsSummary struct {
	Available             bool                    `json:"available"`
	WindowDays            int                     `json:"window_days"`
	TotalConnections      int                     `json:"total_connections"`
	UniqueWallets         int                     `json:"unique_wallets"`
	ConnectionSuccessRate float64                 `json:"connection_success_rate"`
	MostUsedProvider      string                  `json:"most_used_provider"`
	ProviderBreakdown     map[string]ProviderStat `json:"provider_breakdown"`
	VerificationStats     VerificationStats       `json:"verification_stats"`
	ConnectionTrends      ConnectionTrends        `json:"connection_trends"`
}

// EmptySummary is the all-zero summary returned when the event source is
// unreadable.
func EmptySummary(windowDays int, available bool) *AnalyticsSummary {
	return &AnalyticsSummary{
		Available:         available,
		WindowDays:        windowDays,
		ProviderBreakdown: map[string]ProviderStat{},
		ConnectionTrends: ConnectionTrends{
			Daily:   []TrendPoint{},
			Weekly:  []TrendPoint{},
			Monthly: []TrendPoint{},
		},
	}
}
