package service

import (
	"context"
	"errors"
	"strings"

	"academy-backend/internal/common/apperrors"
	activitymodels "academy-backend/internal/features/activity/models"
	"academy-backend/internal/features/xp/models"
	"academy-backend/internal/features/xp/repository"
)

// ActivityRecorder is the slice of the activity log the ledger needs.
type ActivityRecorder interface {
	Record(ctx context.Context, wallet, activityType string, metadata map[string]interface{})
}

type XPService interface {
	// AddXP credits amount to the wallet's ledger under source and returns
	// the new record. Amounts must be positive integers.
	AddXP(ctx context.Context, wallet string, amount int64, source models.XPSource) (*models.XPRecord, error)

	// GetXP returns the wallet's record, zeroed (level 1) when the wallet has
	// never earned XP.
	GetXP(ctx context.Context, wallet string) (*models.XPRecord, error)
}

type xpService struct {
	repo     repository.XPRepository
	activity ActivityRecorder
}

func NewXPService(repo repository.XPRepository, activity ActivityRecorder) XPService {
	return &xpService{repo: repo, activity: activity}
}

func (s *xpService) AddXP(ctx context.Context, wallet string, amount int64, source models.XPSource) (*models.XPRecord, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return nil, apperrors.NewValidationError("wallet_address", "must not be empty")
	}
	if amount <= 0 {
		return nil, apperrors.NewValidationError("amount", "must be a positive integer")
	}
	if !source.Valid() {
		return nil, apperrors.NewValidationError("source", "must be one of bounty, course, streak, general")
	}

	record, err := s.repo.Increment(ctx, wallet, amount, source)
	if err != nil {
		return nil, apperrors.NewBackendError("increment xp", err)
	}

	if s.activity != nil {
		s.activity.Record(ctx, wallet, activitymodels.ActivityXPGained, map[string]interface{}{
			"amount":    amount,
			"source":    string(source),
			"new_total": record.TotalXP,
			"new_level": record.Level,
		})
	}

	return record, nil
}

func (s *xpService) GetXP(ctx context.Context, wallet string) (*models.XPRecord, error) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return nil, apperrors.NewValidationError("wallet_address", "must not be empty")
	}

	record, err := s.repo.Get(ctx, wallet)
	if err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return models.NewZeroRecord(wallet), nil
		}
		return nil, apperrors.NewBackendError("get xp", err)
	}
	return record, nil
}
