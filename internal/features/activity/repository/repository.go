package repository

import (
	"context"
	"time"

	"academy-backend/internal/features/activity/models"
)

// ActivityRepository is the append-only event sink. Events are never mutated
// or deleted; reads are by wallet or by time window.
type ActivityRepository interface {
	InsertActivity(ctx context.Context, event *models.ActivityEvent) error
	InsertConnection(ctx context.Context, event *models.ConnectionEvent) error

	// ActivityByWallet returns the wallet's events, newest first.
	ActivityByWallet(ctx context.Context, wallet string, limit int) ([]models.ActivityEvent, error)

	// ConnectionsSince returns all connection events at or after since,
	// oldest first.
	ConnectionsSince(ctx context.Context, since time.Time) ([]models.ConnectionEvent, error)
}
