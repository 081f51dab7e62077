package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"academy-backend/internal/common/apperrors"
	"academy-backend/internal/common/fallback"
	"academy-backend/internal/common/logger"
	activitymodels "academy-backend/internal/features/activity/models"
	"academy-backend/internal/features/profile/models"
	"academy-backend/internal/features/profile/repository"
)

// ActivityRecorder is the slice of the activity log the sync layer needs.
// Record is fire-and-forget.
type ActivityRecorder interface {
	Record(ctx context.Context, wallet, activityType string, metadata map[string]interface{})
}

// SyncService reconciles a wallet's profile across the ordered tier chain on
// every wallet connect. SyncOnConnect only fails on invalid input; backend
// failures degrade tier by tier down to a synthesized local profile.
type SyncService struct {
	strategies []SyncStrategy
	repo       repository.ProfileRepository
	store      fallback.Store
	activity   ActivityRecorder
	now        func() time.Time
}

func NewSyncService(strategies []SyncStrategy, repo repository.ProfileRepository, store fallback.Store, activity ActivityRecorder) *SyncService {
	return &SyncService{
		strategies: strategies,
		repo:       repo,
		store:      store,
		activity:   activity,
		now:        time.Now,
	}
}

// SyncOnConnect drives the tier chain for the wallet. Tiers run sequentially,
// each at most once; the first success wins. Re-running with the same wallet
// and no new hints converges to the same stored fields: every tier merges
// rather than overwrites.
func (s *SyncService) SyncOnConnect(ctx context.Context, wallet string, hints models.SyncHints) (*models.SyncResult, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return nil, apperrors.NewValidationError("wallet_address", "must not be empty")
	}

	for _, strategy := range s.strategies {
		profile, err := strategy.Sync(ctx, wallet, hints)
		if err != nil {
			logger.Warn().
				Str("wallet", wallet).
				Str("tier", string(strategy.Source())).
				Err(err).
				Msg("Sync tier failed, advancing")
			continue
		}
		return s.finish(ctx, wallet, profile, strategy.Source()), nil
	}

	// Unreachable with the default chain (the fallback tier cannot fail), but
	// the contract is to always return a profile.
	profile := models.NewDefaultProfile(wallet, s.now())
	profile.ApplyHints(hints)
	return s.finish(ctx, wallet, profile, models.SourceLocalFallback), nil
}

func (s *SyncService) finish(ctx context.Context, wallet string, profile *models.UserProfile, source models.SyncSource) *models.SyncResult {
	result := &models.SyncResult{
		Profile:  profile,
		Source:   source,
		Degraded: source == models.SourceLocalFallback,
	}

	if s.activity != nil {
		s.activity.Record(ctx, wallet, activitymodels.ActivityWalletConnected, map[string]interface{}{
			"source":   string(source),
			"degraded": result.Degraded,
		})
	}

	logger.Debug().
		Str("wallet", wallet).
		Str("source", string(source)).
		Bool("degraded", result.Degraded).
		Msg("Wallet sync completed")

	return result
}

// GetProfile reads the profile from the authoritative store, falling back to
// the local mirror when the read fails. A mirror hit may be stale.
func (s *SyncService) GetProfile(ctx context.Context, wallet string) (*models.UserProfile, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return nil, apperrors.NewValidationError("wallet_address", "must not be empty")
	}

	if s.repo != nil {
		profile, err := s.repo.GetByWallet(ctx, wallet)
		if err == nil {
			return profile, nil
		}
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "profile not found").WithDetail("wallet", wallet)
		}
		logger.Warn().Str("wallet", wallet).Err(err).Msg("Primary profile read failed, trying mirror")
	}

	if s.store != nil {
		if data, ok, err := s.store.Get(ctx, fallback.ProfileKey(wallet)); err == nil && ok {
			var mirrored models.UserProfile
			if jsonErr := json.Unmarshal(data, &mirrored); jsonErr == nil {
				return &mirrored, nil
			}
		}
	}

	return nil, apperrors.New(apperrors.ErrCodeNotFound, "profile not found").WithDetail("wallet", wallet)
}
