package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"academy-backend/internal/common/apperrors"
	"academy-backend/internal/common/fallback"
	"academy-backend/internal/common/logger"
	"academy-backend/internal/features/profile/models"
	"academy-backend/internal/features/profile/remote"
	"academy-backend/internal/features/profile/repository"
)

// SyncStrategy is one tier of the ordered profile sync chain. Each tier is
// attempted at most once per sync; an error means "advance to the next tier".
type SyncStrategy interface {
	Source() models.SyncSource
	Sync(ctx context.Context, wallet string, hints models.SyncHints) (*models.UserProfile, error)
}

// NewDefaultStrategies builds the standard tier order: remote API, privileged
// direct write, update-or-insert reconcile, local fallback. The order prefers
// consistency (authoritative remote) over availability (local best-effort).
func NewDefaultStrategies(client *remote.Client, repo repository.ProfileRepository, store fallback.Store) []SyncStrategy {
	return []SyncStrategy{
		NewRemoteAPIStrategy(client),
		NewDirectWriteStrategy(repo),
		NewReconcileStrategy(repo),
		NewLocalFallbackStrategy(store),
	}
}

type remoteAPIStrategy struct {
	client *remote.Client
}

func NewRemoteAPIStrategy(client *remote.Client) SyncStrategy {
	return &remoteAPIStrategy{client: client}
}

func (s *remoteAPIStrategy) Source() models.SyncSource {
	return models.SourceRemoteAPI
}

func (s *remoteAPIStrategy) Sync(ctx context.Context, wallet string, hints models.SyncHints) (*models.UserProfile, error) {
	if s.client == nil || !s.client.Configured() {
		return nil, apperrors.New(apperrors.ErrCodeBackendUnavailable, "profile API not configured")
	}
	profile, err := s.client.EnsureProfile(ctx, wallet, hints)
	if err != nil {
		return nil, apperrors.NewBackendError("ensure profile", err)
	}
	return profile, nil
}

type directWriteStrategy struct {
	repo repository.ProfileRepository
}

// NewDirectWriteStrategy upserts straight against the database, bypassing the
// remote API tier entirely.
func NewDirectWriteStrategy(repo repository.ProfileRepository) SyncStrategy {
	return &directWriteStrategy{repo: repo}
}

func (s *directWriteStrategy) Source() models.SyncSource {
	return models.SourceDirectWrite
}

func (s *directWriteStrategy) Sync(ctx context.Context, wallet string, hints models.SyncHints) (*models.UserProfile, error) {
	p := &models.UserProfile{WalletAddress: wallet}
	p.ApplyHints(hints)
	stored, err := s.repo.Upsert(ctx, p)
	if err != nil {
		return nil, apperrors.NewBackendError("direct upsert", err)
	}
	return stored, nil
}

type reconcileStrategy struct {
	repo repository.ProfileRepository
}

// NewReconcileStrategy updates the row by wallet and inserts when no row
// matched. A unique violation on the insert means a concurrent writer won the
// race; the update is retried once against their row.
func NewReconcileStrategy(repo repository.ProfileRepository) SyncStrategy {
	return &reconcileStrategy{repo: repo}
}

func (s *reconcileStrategy) Source() models.SyncSource {
	return models.SourceReconcile
}

func (s *reconcileStrategy) Sync(ctx context.Context, wallet string, hints models.SyncHints) (*models.UserProfile, error) {
	p := &models.UserProfile{WalletAddress: wallet}
	p.ApplyHints(hints)

	stored, err := s.repo.Update(ctx, p)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, apperrors.NewBackendError("reconcile update", err)
	}

	stored, err = s.repo.Insert(ctx, p)
	if err == nil {
		return stored, nil
	}
	if apperrors.IsConflict(err) {
		stored, err = s.repo.Update(ctx, p)
		if err != nil {
			return nil, apperrors.NewBackendError("reconcile update after conflict", err)
		}
		return stored, nil
	}
	return nil, apperrors.NewBackendError("reconcile insert", err)
}

type localFallbackStrategy struct {
	store fallback.Store
	now   func() time.Time
}

// NewLocalFallbackStrategy synthesizes a profile and mirrors it into the
// fallback store. It is the backstop tier: it returns a profile even when the
// store write fails.
func NewLocalFallbackStrategy(store fallback.Store) SyncStrategy {
	return &localFallbackStrategy{store: store, now: time.Now}
}

func (s *localFallbackStrategy) Source() models.SyncSource {
	return models.SourceLocalFallback
}

func (s *localFallbackStrategy) Sync(ctx context.Context, wallet string, hints models.SyncHints) (*models.UserProfile, error) {
	now := s.now()
	key := fallback.ProfileKey(wallet)

	profile := models.NewDefaultProfile(wallet, now)
	if s.store != nil {
		if data, ok, err := s.store.Get(ctx, key); err == nil && ok {
			var mirrored models.UserProfile
			if jsonErr := json.Unmarshal(data, &mirrored); jsonErr == nil && mirrored.WalletAddress == wallet {
				profile = &mirrored
			}
		}
	}

	profile.ApplyHints(hints)
	profile.LastActive = now
	profile.LastSeen = now
	profile.UpdatedAt = now

	if s.store != nil {
		data, err := json.Marshal(profile)
		if err == nil {
			err = s.store.Set(ctx, key, data)
		}
		if err != nil {
			// Already the last resort: log and return the synthesized value.
			logger.Warn().Str("wallet", wallet).Err(err).Msg("Fallback store write failed")
		}
	}
	return profile, nil
}
