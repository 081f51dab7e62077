package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"academy-backend/internal/features/profile/models"
	"academy-backend/internal/features/profile/repository"
)

const profileColumns = `wallet_address, display_name, squad, profile_completed,
	squad_test_completed, placement_test_completed, is_admin,
	created_at, last_active, last_seen, updated_at`

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.ProfileRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetByWallet(ctx context.Context, wallet string) (*models.UserProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE wallet_address = $1`, profileColumns)

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, wallet))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

// Upsert inserts the profile or merges it into the existing row. Merge rules:
// empty display_name keeps the stored name, nil squad keeps the stored squad,
// completion flags and is_admin only ever go from false to true here.
func (r *postgresRepository) Upsert(ctx context.Context, p *models.UserProfile) (*models.UserProfile, error) {
	query := fmt.Sprintf(`
		INSERT INTO profiles (wallet_address, display_name, squad, profile_completed,
			squad_test_completed, placement_test_completed, is_admin)
		VALUES ($1, CASE WHEN $2 = '' THEN $8 ELSE $2 END, $3, $4, $5, $6, $7)
		ON CONFLICT (wallet_address) DO UPDATE SET
			display_name = CASE WHEN $2 = '' THEN profiles.display_name ELSE $2 END,
			squad = COALESCE($3, profiles.squad),
			profile_completed = profiles.profile_completed OR EXCLUDED.profile_completed,
			squad_test_completed = profiles.squad_test_completed OR EXCLUDED.squad_test_completed,
			placement_test_completed = profiles.placement_test_completed OR EXCLUDED.placement_test_completed,
			is_admin = profiles.is_admin OR EXCLUDED.is_admin,
			last_active = NOW(),
			last_seen = NOW(),
			updated_at = NOW()
		RETURNING %s`, profileColumns)

	stored, err := scanProfile(r.db.QueryRowContext(ctx, query,
		p.WalletAddress, p.DisplayName, p.Squad,
		p.ProfileCompleted, p.SquadTestCompleted, p.PlacementTestCompleted, p.IsAdmin,
		models.DefaultDisplayName(p.WalletAddress)))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return stored, nil
}

func (r *postgresRepository) Update(ctx context.Context, p *models.UserProfile) (*models.UserProfile, error) {
	query := fmt.Sprintf(`
		UPDATE profiles SET
			display_name = CASE WHEN $2 = '' THEN display_name ELSE $2 END,
			squad = COALESCE($3, squad),
			profile_completed = profile_completed OR $4,
			squad_test_completed = squad_test_completed OR $5,
			placement_test_completed = placement_test_completed OR $6,
			last_active = NOW(),
			last_seen = NOW(),
			updated_at = NOW()
		WHERE wallet_address = $1
		RETURNING %s`, profileColumns)

	stored, err := scanProfile(r.db.QueryRowContext(ctx, query,
		p.WalletAddress, p.DisplayName, p.Squad,
		p.ProfileCompleted, p.SquadTestCompleted, p.PlacementTestCompleted))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return stored, nil
}

func (r *postgresRepository) Insert(ctx context.Context, p *models.UserProfile) (*models.UserProfile, error) {
	query := fmt.Sprintf(`
		INSERT INTO profiles (wallet_address, display_name, squad, profile_completed,
			squad_test_completed, placement_test_completed, is_admin)
		VALUES ($1, CASE WHEN $2 = '' THEN $8 ELSE $2 END, $3, $4, $5, $6, $7)
		RETURNING %s`, profileColumns)

	stored, err := scanProfile(r.db.QueryRowContext(ctx, query,
		p.WalletAddress, p.DisplayName, p.Squad,
		p.ProfileCompleted, p.SquadTestCompleted, p.PlacementTestCompleted, p.IsAdmin,
		models.DefaultDisplayName(p.WalletAddress)))
	if err != nil {
		// Unique violations are left intact for the caller to resolve.
		return nil, err
	}
	return stored, nil
}

func (r *postgresRepository) TouchLastSeen(ctx context.Context, wallet string) error {
	query := `
		UPDATE profiles
		SET last_seen = NOW(), last_active = NOW(), updated_at = NOW()
		WHERE wallet_address = $1`

	result, err := r.db.ExecContext(ctx, query, wallet)
	if err != nil {
		return fmt.Errorf("failed to touch last_seen: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrProfileNotFound
	}
	return nil
}

func (r *postgresRepository) SetAdmin(ctx context.Context, wallet string, isAdmin bool) error {
	query := `
		UPDATE profiles
		SET is_admin = $2, updated_at = NOW()
		WHERE wallet_address = $1`

	result, err := r.db.ExecContext(ctx, query, wallet, isAdmin)
	if err != nil {
		return fmt.Errorf("failed to set admin flag: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrProfileNotFound
	}
	return nil
}

func scanProfile(row *sql.Row) (*models.UserProfile, error) {
	var p models.UserProfile
	var squad sql.NullString

	err := row.Scan(
		&p.WalletAddress, &p.DisplayName, &squad,
		&p.ProfileCompleted, &p.SquadTestCompleted, &p.PlacementTestCompleted, &p.IsAdmin,
		&p.CreatedAt, &p.LastActive, &p.LastSeen, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if squad.Valid {
		p.Squad = &squad.String
	}
	return &p, nil
}
