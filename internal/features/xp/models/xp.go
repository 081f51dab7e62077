package models

import "time"

// XPSource names the bucket an XP gain is attributed to. The general source
// raises only the total, no bucket.
type XPSource string

const (
	SourceBounty  XPSource = "bounty"
	SourceCourse  XPSource = "course"
	SourceStreak  XPSource = "streak"
	SourceGeneral XPSource = "general"
)

// Valid reports whether s is a known XP source.
func (s XPSource) Valid() bool {
	switch s {
	case SourceBounty, SourceCourse, SourceStreak, SourceGeneral:
		return true
	}
	return false
}

// XPRecord is the per-wallet experience-point ledger. total_xp equals the sum
// of the buckets plus unbucketed general gains; level is derived from the
// total. Records are only ever mutated additively.
type XPRecord struct {
	WalletAddress string    `json:"wallet_address"`
	TotalXP       int64     `json:"total_xp"`
	BountyXP      int64     `json:"bounty_xp"`
	CourseXP      int64     `json:"course_xp"`
	StreakXP      int64     `json:"streak_xp"`
	Level         int       `json:"level"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LevelForXP derives the level for a total: floor(total/1000)+1.
func LevelForXP(totalXP int64) int {
	return int(totalXP/1000) + 1
}

// NewZeroRecord is the ledger state for a wallet that has never earned XP.
func NewZeroRecord(wallet string) *XPRecord {
	return &XPRecord{
		WalletAddress: wallet,
		Level:         1,
	}
}
