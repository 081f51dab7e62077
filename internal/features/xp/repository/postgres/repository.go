package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"academy-backend/internal/features/xp/models"
	"academy-backend/internal/features/xp/repository"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.XPRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Get(ctx context.Context, wallet string) (*models.XPRecord, error) {
	query := `
		SELECT wallet_address, total_xp, bounty_xp, course_xp, streak_xp, level, updated_at
		FROM xp_records
		WHERE wallet_address = $1`

	var record models.XPRecord
	err := r.db.QueryRowContext(ctx, query, wallet).Scan(
		&record.WalletAddress, &record.TotalXP, &record.BountyXP,
		&record.CourseXP, &record.StreakXP, &record.Level, &record.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get xp record: %w", err)
	}
	return &record, nil
}

// Increment is a single upsert statement so concurrent gains for the same
// wallet serialize at the row level instead of racing a read-modify-write.
func (r *postgresRepository) Increment(ctx context.Context, wallet string, amount int64, source models.XPSource) (*models.XPRecord, error) {
	var bounty, course, streak int64
	switch source {
	case models.SourceBounty:
		bounty = amount
	case models.SourceCourse:
		course = amount
	case models.SourceStreak:
		streak = amount
	}

	query := `
		INSERT INTO xp_records (wallet_address, total_xp, bounty_xp, course_xp, streak_xp, level)
		VALUES ($1, $2, $3, $4, $5, ($2 / 1000) + 1)
		ON CONFLICT (wallet_address) DO UPDATE SET
			total_xp = xp_records.total_xp + EXCLUDED.total_xp,
			bounty_xp = xp_records.bounty_xp + EXCLUDED.bounty_xp,
			course_xp = xp_records.course_xp + EXCLUDED.course_xp,
			streak_xp = xp_records.streak_xp + EXCLUDED.streak_xp,
			level = ((xp_records.total_xp + EXCLUDED.total_xp) / 1000) + 1,
			updated_at = NOW()
		RETURNING wallet_address, total_xp, bounty_xp, course_xp, streak_xp, level, updated_at`

	var record models.XPRecord
	err := r.db.QueryRowContext(ctx, query, wallet, amount, bounty, course, streak).Scan(
		&record.WalletAddress, &record.TotalXP, &record.BountyXP,
		&record.CourseXP, &record.StreakXP, &record.Level, &record.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to increment xp: %w", err)
	}
	return &record, nil
}
