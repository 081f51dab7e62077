package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"academy-backend/internal/common/apperrors"
	"academy-backend/internal/features/profile/models"
	"academy-backend/internal/features/profile/repository"
)

// memProfileRepo mimics the postgres repository's merge semantics in memory.
type memProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.UserProfile
	failAll  bool
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{profiles: make(map[string]*models.UserProfile)}
}

func (r *memProfileRepo) seed(p *models.UserProfile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	r.profiles[p.WalletAddress] = &cp
}

func (r *memProfileRepo) GetByWallet(_ context.Context, wallet string) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, errors.New("backend down")
	}
	p, ok := r.profiles[wallet]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memProfileRepo) Upsert(_ context.Context, p *models.UserProfile) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, errors.New("backend down")
	}
	return r.merge(p, true), nil
}

func (r *memProfileRepo) Update(_ context.Context, p *models.UserProfile) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, errors.New("backend down")
	}
	if _, ok := r.profiles[p.WalletAddress]; !ok {
		return nil, repository.ErrProfileNotFound
	}
	return r.merge(p, false), nil
}

func (r *memProfileRepo) Insert(_ context.Context, p *models.UserProfile) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, errors.New("backend down")
	}
	if _, ok := r.profiles[p.WalletAddress]; ok {
		return nil, apperrors.NewConflictError("profile", "wallet already exists")
	}
	return r.merge(p, true), nil
}

func (r *memProfileRepo) TouchLastSeen(_ context.Context, wallet string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[wallet]
	if !ok {
		return repository.ErrProfileNotFound
	}
	now := time.Now()
	p.LastSeen = now
	p.LastActive = now
	return nil
}

func (r *memProfileRepo) SetAdmin(_ context.Context, wallet string, isAdmin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[wallet]
	if !ok {
		return repository.ErrProfileNotFound
	}
	p.IsAdmin = isAdmin
	return nil
}

// merge applies the same rules as the SQL upsert: empty display name keeps
// the stored one, nil squad keeps the stored one, flags only go false->true.
func (r *memProfileRepo) merge(p *models.UserProfile, allowAdmin bool) *models.UserProfile {
	now := time.Now()
	existing, ok := r.profiles[p.WalletAddress]
	if !ok {
		stored := *p
		if stored.DisplayName == "" {
			stored.DisplayName = models.DefaultDisplayName(p.WalletAddress)
		}
		stored.CreatedAt = now
		stored.LastActive = now
		stored.LastSeen = now
		stored.UpdatedAt = now
		r.profiles[p.WalletAddress] = &stored
		cp := stored
		return &cp
	}

	if p.DisplayName != "" {
		existing.DisplayName = p.DisplayName
	}
	if p.Squad != nil {
		existing.Squad = p.Squad
	}
	existing.ProfileCompleted = existing.ProfileCompleted || p.ProfileCompleted
	existing.SquadTestCompleted = existing.SquadTestCompleted || p.SquadTestCompleted
	existing.PlacementTestCompleted = existing.PlacementTestCompleted || p.PlacementTestCompleted
	if allowAdmin {
		existing.IsAdmin = existing.IsAdmin || p.IsAdmin
	}
	existing.LastActive = now
	existing.LastSeen = now
	existing.UpdatedAt = now
	cp := *existing
	return &cp
}

// stubStrategy is a canned sync tier for ordering tests.
type stubStrategy struct {
	source  models.SyncSource
	profile *models.UserProfile
	err     error
	calls   int
}

func (s *stubStrategy) Source() models.SyncSource { return s.source }

func (s *stubStrategy) Sync(context.Context, string, models.SyncHints) (*models.UserProfile, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

// recorderSpy captures fire-and-forget activity records.
type recorderSpy struct {
	mu      sync.Mutex
	wallets []string
	types   []string
}

func (r *recorderSpy) Record(_ context.Context, wallet, activityType string, _ map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wallets = append(r.wallets, wallet)
	r.types = append(r.types, activityType)
}
