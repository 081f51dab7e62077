package models

import (
	"fmt"
	"time"
)

// UserProfile is the canonical per-wallet profile record. The wallet address
// is an opaque string identity; no format validation happens at this layer.
type UserProfile struct {
	WalletAddress          string    `json:"wallet_address"`
	DisplayName            string    `json:"display_name"`
	Squad                  *string   `json:"squad"`
	ProfileCompleted       bool      `json:"profile_completed"`
	SquadTestCompleted     bool      `json:"squad_test_completed"`
	PlacementTestCompleted bool      `json:"placement_test_completed"`
	IsAdmin                bool      `json:"is_admin"`
	CreatedAt              time.Time `json:"created_at"`
	LastActive             time.Time `json:"last_active"`
	LastSeen               time.Time `json:"last_seen"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// DefaultDisplayName synthesizes a display name from the wallet address when
// none was provided.
func DefaultDisplayName(wallet string) string {
	prefix := wallet
	if len(prefix) > 6 {
		prefix = prefix[:6]
	}
	return fmt.Sprintf("User %s...", prefix)
}

// NewDefaultProfile builds a fresh profile with synthesized defaults for a
// wallet that has never been seen.
func NewDefaultProfile(wallet string, now time.Time) *UserProfile {
	return &UserProfile{
		WalletAddress: wallet,
		DisplayName:   DefaultDisplayName(wallet),
		CreatedAt:     now,
		LastActive:    now,
		LastSeen:      now,
		UpdatedAt:     now,
	}
}

// ApplyHints overlays non-empty hint fields onto the profile. Existing
// non-default values are only replaced by explicit hints, never by
// synthesized defaults.
func (p *UserProfile) ApplyHints(hints SyncHints) {
	if hints.DisplayName != "" {
		p.DisplayName = hints.DisplayName
	}
	if hints.Squad != nil {
		p.Squad = hints.Squad
	}
}
