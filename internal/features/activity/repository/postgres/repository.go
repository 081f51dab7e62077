package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"academy-backend/internal/features/activity/models"
	"academy-backend/internal/features/activity/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.ActivityRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) InsertActivity(ctx context.Context, event *models.ActivityEvent) error {
	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO activity_events (id, wallet_address, activity_type, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.WalletAddress, event.ActivityType, metadata, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert activity event: %w", err)
	}
	return nil
}

func (r *postgresRepository) InsertConnection(ctx context.Context, event *models.ConnectionEvent) error {
	sessionData, err := json.Marshal(event.SessionData)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}
	var verification []byte
	if event.VerificationResult != nil {
		verification, err = json.Marshal(event.VerificationResult)
		if err != nil {
			return fmt.Errorf("failed to marshal verification result: %w", err)
		}
	}

	query := `
		INSERT INTO connection_events (id, wallet_address, connection_type, provider,
			session_data, verification_result, connection_timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.WalletAddress, event.ConnectionType, event.Provider,
		sessionData, verification, event.ConnectionTimestamp)
	if err != nil {
		return fmt.Errorf("failed to insert connection event: %w", err)
	}
	return nil
}

func (r *postgresRepository) ActivityByWallet(ctx context.Context, wallet string, limit int) ([]models.ActivityEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, wallet_address, activity_type, metadata, created_at
		FROM activity_events
		WHERE wallet_address = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, wallet, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity events: %w", err)
	}
	defer rows.Close()

	var events []models.ActivityEvent
	for rows.Next() {
		var event models.ActivityEvent
		var metadata []byte
		if err := rows.Scan(&event.ID, &event.WalletAddress, &event.ActivityType, &metadata, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity event: %w", err)
		}
		if len(metadata) > 0 {
			_ = json.Unmarshal(metadata, &event.Metadata)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *postgresRepository) ConnectionsSince(ctx context.Context, since time.Time) ([]models.ConnectionEvent, error) {
	query := `
		SELECT id, wallet_address, connection_type, provider,
			session_data, verification_result, connection_timestamp
		FROM connection_events
		WHERE connection_timestamp >= $1
		ORDER BY connection_timestamp ASC`

	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query connection events: %w", err)
	}
	defer rows.Close()

	var events []models.ConnectionEvent
	for rows.Next() {
		var event models.ConnectionEvent
		var sessionData, verification []byte
		if err := rows.Scan(&event.ID, &event.WalletAddress, &event.ConnectionType, &event.Provider,
			&sessionData, &verification, &event.ConnectionTimestamp); err != nil {
			return nil, fmt.Errorf("failed to scan connection event: %w", err)
		}
		if len(sessionData) > 0 {
			_ = json.Unmarshal(sessionData, &event.SessionData)
		}
		if len(verification) > 0 {
			_ = json.Unmarshal(verification, &event.VerificationResult)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
