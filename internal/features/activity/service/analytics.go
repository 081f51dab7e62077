package service

import (
	"context"
	"sort"
	"time"

	"academy-backend/internal/common/logger"
	"academy-backend/internal/features/activity/models"
)

// ComputeAnalytics aggregates connection events from the last windowDays
// days. A read failure degrades to an all-zero summary with Available=false
// instead of an error.
func (s *ActivityService) ComputeAnalytics(ctx context.Context, windowDays int) *models.AnalyticsSummary {
	if windowDays <= 0 {
		windowDays = 7
	}

	now := s.now().UTC()
	since := now.AddDate(0, 0, -windowDays)

	if s.repo == nil {
		return models.EmptySummary(windowDays, false)
	}
	events, err := s.repo.ConnectionsSince(ctx, since)
	if err != nil {
		logger.Warn().Int("window_days", windowDays).Err(err).Msg("Connection analytics source unreadable")
		return models.EmptySummary(windowDays, false)
	}

	summary := models.EmptySummary(windowDays, true)
	summary.TotalConnections = len(events)

	wallets := make(map[string]struct{})
	providers := make(map[string]int)
	successful := 0

	for _, event := range events {
		wallets[event.WalletAddress] = struct{}{}
		if event.Provider != "" {
			providers[event.Provider]++
		}
		if event.IsSuccessful() {
			successful++
		}

		switch event.ConnectionType {
		case models.ConnTypeVerificationSuccess:
			summary.VerificationStats.Total++
			summary.VerificationStats.Successful++
		case models.ConnTypeVerificationFailed:
			summary.VerificationStats.Total++
			summary.VerificationStats.Failed++
		}
	}

	summary.UniqueWallets = len(wallets)
	if summary.TotalConnections > 0 {
		summary.ConnectionSuccessRate = float64(successful) / float64(summary.TotalConnections) * 100
	}
	if summary.VerificationStats.Total > 0 {
		summary.VerificationStats.SuccessRate = float64(summary.VerificationStats.Successful) / float64(summary.VerificationStats.Total) * 100
	}

	summary.MostUsedProvider = mostUsedProvider(providers)
	for provider, count := range providers {
		summary.ProviderBreakdown[provider] = models.ProviderStat{
			Count:      count,
			Percentage: float64(count) / float64(summary.TotalConnections) * 100,
		}
	}

	summary.ConnectionTrends = buildTrends(events, now, windowDays)
	return summary
}

// mostUsedProvider returns the provider with the highest count. Ties resolve
// to the lexicographically smallest name so the result is deterministic.
func mostUsedProvider(providers map[string]int) string {
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)

	best := ""
	bestCount := 0
	for _, name := range names {
		if providers[name] > bestCount {
			best = name
			bestCount = providers[name]
		}
	}
	return best
}

func buildTrends(events []models.ConnectionEvent, now time.Time, windowDays int) models.ConnectionTrends {
	today := dateOf(now)

	daily := make([]models.TrendPoint, 0, windowDays)
	dailyIndex := make(map[string]int, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		label := day.Format("2006-01-02")
		dailyIndex[label] = len(daily)
		daily = append(daily, models.TrendPoint{Period: label})
	}

	numWeeks := (windowDays + 6) / 7
	weekly := make([]models.TrendPoint, 0, numWeeks)
	for w := numWeeks - 1; w >= 0; w-- {
		start := today.AddDate(0, 0, -(7*w + 6))
		weekly = append(weekly, models.TrendPoint{Period: start.Format("2006-01-02")})
	}

	windowStart := today.AddDate(0, 0, -windowDays)
	firstMonth := time.Date(windowStart.Year(), windowStart.Month(), 1, 0, 0, 0, 0, time.UTC)
	currentMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthly := make([]models.TrendPoint, 0, 2)
	monthlyIndex := make(map[string]int)
	for m := firstMonth; !m.After(currentMonth); m = m.AddDate(0, 1, 0) {
		label := m.Format("2006-01")
		monthlyIndex[label] = len(monthly)
		monthly = append(monthly, models.TrendPoint{Period: label})
	}

	for _, event := range events {
		eventDay := dateOf(event.ConnectionTimestamp.UTC())

		if idx, ok := dailyIndex[eventDay.Format("2006-01-02")]; ok {
			daily[idx].Count++
		}

		daysAgo := int(today.Sub(eventDay).Hours() / 24)
		if daysAgo >= 0 {
			week := daysAgo / 7
			if week < numWeeks {
				weekly[numWeeks-1-week].Count++
			}
		}

		if idx, ok := monthlyIndex[eventDay.Format("2006-01")]; ok {
			monthly[idx].Count++
		}
	}

	return models.ConnectionTrends{Daily: daily, Weekly: weekly, Monthly: monthly}
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
