package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"academy-backend/internal/common/fallback"
	"academy-backend/internal/common/logger"
	"academy-backend/internal/features/profile/models"
	"academy-backend/internal/features/profile/repository"
)

// AdminResolver resolves the admin privilege flag for a wallet. It never
// returns an error: a static allow-list short-circuits before any I/O, then
// the primary store is consulted, then the local mirror; anything left
// unresolved is false (fail-closed).
type AdminResolver struct {
	allowList map[string]struct{}
	repo      repository.ProfileRepository
	store     fallback.Store
}

func NewAdminResolver(allowList []string, repo repository.ProfileRepository, store fallback.Store) *AdminResolver {
	normalized := make(map[string]struct{}, len(allowList))
	for _, w := range allowList {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			normalized[w] = struct{}{}
		}
	}
	return &AdminResolver{allowList: normalized, repo: repo, store: store}
}

func (r *AdminResolver) IsAdmin(ctx context.Context, wallet string) bool {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return false
	}

	if _, ok := r.allowList[strings.ToLower(wallet)]; ok {
		return true
	}

	if r.repo != nil {
		profile, err := r.repo.GetByWallet(ctx, wallet)
		if err == nil {
			return profile.IsAdmin
		}
		if errors.Is(err, repository.ErrProfileNotFound) {
			// Unknown wallet is a definitive non-admin.
			return false
		}
		logger.Warn().Str("wallet", wallet).Err(err).Msg("Admin lookup failed, trying mirror")
	}

	if r.store != nil {
		if data, ok, err := r.store.Get(ctx, fallback.ProfileKey(wallet)); err == nil && ok {
			var mirrored models.UserProfile
			if jsonErr := json.Unmarshal(data, &mirrored); jsonErr == nil {
				return mirrored.IsAdmin
			}
		}
	}

	return false
}
