package repository

import (
	"context"
	"errors"

	"academy-backend/internal/features/profile/models"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileRepository abstracts the authoritative profile persistence tier.
// Upsert merges rather than overwrites: stored non-null fields win over
// incoming defaults, and is_admin is never downgraded by Upsert (only
// SetAdmin may clear it).
type ProfileRepository interface {
	GetByWallet(ctx context.Context, wallet string) (*models.UserProfile, error)

	// Upsert inserts or merges a profile. Non-privileged path.
	Upsert(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error)

	// Update updates an existing row; returns ErrProfileNotFound when no row
	// matched the wallet.
	Update(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error)

	// Insert creates a new row; a duplicate wallet surfaces as a
	// unique-constraint violation.
	Insert(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error)

	// TouchLastSeen refreshes last_seen/last_active for the wallet.
	TouchLastSeen(ctx context.Context, wallet string) error

	// SetAdmin sets the privilege flag. Privileged path only.
	SetAdmin(ctx context.Context, wallet string, isAdmin bool) error
}
