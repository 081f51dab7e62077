package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-backend/internal/common/apperrors"
	"academy-backend/internal/common/fallback"
	activitymodels "academy-backend/internal/features/activity/models"
	"academy-backend/internal/features/profile/models"
)

func TestSyncOnConnectRejectsEmptyWallet(t *testing.T) {
	svc := NewSyncService(nil, nil, nil, nil)

	_, err := svc.SyncOnConnect(context.Background(), "   ", models.SyncHints{})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestSyncOnConnectFallbackOrdering(t *testing.T) {
	tier2Profile := &models.UserProfile{
		WalletAddress: "W1",
		DisplayName:   "From tier two",
		IsAdmin:       true,
	}
	tier1 := &stubStrategy{source: models.SourceRemoteAPI, err: errors.New("remote down")}
	tier2 := &stubStrategy{source: models.SourceDirectWrite, profile: tier2Profile}
	tier3 := &stubStrategy{source: models.SourceReconcile, profile: &models.UserProfile{WalletAddress: "W1"}}

	svc := NewSyncService([]SyncStrategy{tier1, tier2, tier3}, nil, nil, nil)

	result, err := svc.SyncOnConnect(context.Background(), "W1", models.SyncHints{})
	require.NoError(t, err)

	// Tier 2's profile is returned field-for-field, not a later tier's.
	assert.Equal(t, tier2Profile, result.Profile)
	assert.Equal(t, models.SourceDirectWrite, result.Source)
	assert.False(t, result.Degraded)

	assert.Equal(t, 1, tier1.calls)
	assert.Equal(t, 1, tier2.calls)
	assert.Equal(t, 0, tier3.calls, "tiers after the first success must not run")
}

func TestSyncOnConnectEachTierAttemptedOnce(t *testing.T) {
	tier1 := &stubStrategy{source: models.SourceRemoteAPI, err: errors.New("down")}
	tier2 := &stubStrategy{source: models.SourceDirectWrite, err: errors.New("down")}
	tier3 := &stubStrategy{source: models.SourceReconcile, profile: &models.UserProfile{WalletAddress: "W1"}}

	svc := NewSyncService([]SyncStrategy{tier1, tier2, tier3}, nil, nil, nil)

	_, err := svc.SyncOnConnect(context.Background(), "W1", models.SyncHints{})
	require.NoError(t, err)
	assert.Equal(t, 1, tier1.calls)
	assert.Equal(t, 1, tier2.calls)
	assert.Equal(t, 1, tier3.calls)
}

func TestSyncOnConnectIdempotent(t *testing.T) {
	repo := newMemProfileRepo()
	svc := NewSyncService([]SyncStrategy{NewDirectWriteStrategy(repo)}, repo, nil, nil)

	first, err := svc.SyncOnConnect(context.Background(), "WALLET1", models.SyncHints{})
	require.NoError(t, err)
	second, err := svc.SyncOnConnect(context.Background(), "WALLET1", models.SyncHints{})
	require.NoError(t, err)

	// Same stored field values, only timestamps may refresh.
	assert.Equal(t, first.Profile.WalletAddress, second.Profile.WalletAddress)
	assert.Equal(t, first.Profile.DisplayName, second.Profile.DisplayName)
	assert.Equal(t, first.Profile.Squad, second.Profile.Squad)
	assert.Equal(t, first.Profile.ProfileCompleted, second.Profile.ProfileCompleted)
	assert.Equal(t, first.Profile.IsAdmin, second.Profile.IsAdmin)
	assert.Equal(t, "User WALLET...", second.Profile.DisplayName)
}

func TestSyncOnConnectMergeDoesNotOverwrite(t *testing.T) {
	squad := "Raiders"
	repo := newMemProfileRepo()
	repo.seed(&models.UserProfile{
		WalletAddress: "WALLET1",
		DisplayName:   "Old Name",
		Squad:         &squad,
	})

	svc := NewSyncService([]SyncStrategy{NewDirectWriteStrategy(repo)}, repo, nil, nil)

	result, err := svc.SyncOnConnect(context.Background(), "WALLET1", models.SyncHints{DisplayName: "X"})
	require.NoError(t, err)

	assert.Equal(t, "X", result.Profile.DisplayName)
	require.NotNil(t, result.Profile.Squad)
	assert.Equal(t, "Raiders", *result.Profile.Squad, "fields without hints must stay untouched")
}

func TestReconcileStrategyInsertsWhenMissing(t *testing.T) {
	repo := newMemProfileRepo()
	strategy := NewReconcileStrategy(repo)

	profile, err := strategy.Sync(context.Background(), "NEW1", models.SyncHints{DisplayName: "Fresh"})
	require.NoError(t, err)
	assert.Equal(t, "Fresh", profile.DisplayName)

	stored, err := repo.GetByWallet(context.Background(), "NEW1")
	require.NoError(t, err)
	assert.Equal(t, "Fresh", stored.DisplayName)
}

func TestSyncOnConnectAllRemoteTiersDown(t *testing.T) {
	store := fallback.NewMemoryStore()
	repo := newMemProfileRepo()
	repo.failAll = true
	spy := &recorderSpy{}

	strategies := []SyncStrategy{
		NewDirectWriteStrategy(repo),
		NewReconcileStrategy(repo),
		NewLocalFallbackStrategy(store),
	}
	svc := NewSyncService(strategies, repo, store, spy)

	result, err := svc.SyncOnConnect(context.Background(), "ABC123", models.SyncHints{})
	require.NoError(t, err, "sync must never fail past validation")

	assert.Equal(t, models.SourceLocalFallback, result.Source)
	assert.True(t, result.Degraded)
	assert.Equal(t, "ABC123", result.Profile.WalletAddress)
	assert.Equal(t, "User ABC123...", result.Profile.DisplayName)
	assert.False(t, result.Profile.IsAdmin)

	// The synthesized profile is mirrored into the fallback store.
	data, ok, storeErr := store.Get(context.Background(), fallback.ProfileKey("ABC123"))
	require.NoError(t, storeErr)
	require.True(t, ok)
	var mirrored models.UserProfile
	require.NoError(t, json.Unmarshal(data, &mirrored))
	assert.Equal(t, "ABC123", mirrored.WalletAddress)

	// A wallet_connected event was still recorded.
	require.Len(t, spy.types, 1)
	assert.Equal(t, activitymodels.ActivityWalletConnected, spy.types[0])
	assert.Equal(t, "ABC123", spy.wallets[0])
}

func TestLocalFallbackMergesMirroredProfile(t *testing.T) {
	store := fallback.NewMemoryStore()
	squad := "Raiders"
	mirrored := &models.UserProfile{WalletAddress: "W9", DisplayName: "Kept", Squad: &squad}
	data, err := json.Marshal(mirrored)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), fallback.ProfileKey("W9"), data))

	strategy := NewLocalFallbackStrategy(store)
	profile, err := strategy.Sync(context.Background(), "W9", models.SyncHints{})
	require.NoError(t, err)

	assert.Equal(t, "Kept", profile.DisplayName)
	require.NotNil(t, profile.Squad)
	assert.Equal(t, "Raiders", *profile.Squad)
}

func TestGetProfileFallsBackToMirror(t *testing.T) {
	store := fallback.NewMemoryStore()
	repo := newMemProfileRepo()
	repo.failAll = true

	mirrored := &models.UserProfile{WalletAddress: "W2", DisplayName: "Mirror"}
	data, err := json.Marshal(mirrored)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), fallback.ProfileKey("W2"), data))

	svc := NewSyncService(nil, repo, store, nil)

	profile, err := svc.GetProfile(context.Background(), "W2")
	require.NoError(t, err)
	assert.Equal(t, "Mirror", profile.DisplayName)

	_, err = svc.GetProfile(context.Background(), "unknown")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}
