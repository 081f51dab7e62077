package repository

import (
	"context"
	"errors"

	"academy-backend/internal/features/xp/models"
)

var ErrRecordNotFound = errors.New("xp record not found")

// XPRepository persists the per-wallet XP ledger. Increment must be atomic at
// the storage layer so concurrent gains for the same wallet cannot lose an
// update.
type XPRepository interface {
	// Get returns the wallet's record, or ErrRecordNotFound when the wallet
	// has never earned XP.
	Get(ctx context.Context, wallet string) (*models.XPRecord, error)

	// Increment adds amount to total_xp and to the bucket matching source
	// (general touches no bucket), recomputes the level and returns the new
	// record. Creates a zeroed record first when the wallet is unknown.
	Increment(ctx context.Context, wallet string, amount int64, source models.XPSource) (*models.XPRecord, error)
}
