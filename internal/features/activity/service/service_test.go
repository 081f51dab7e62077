package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy-backend/internal/common/fallback"
	"academy-backend/internal/features/activity/models"
)

type fakeActivityRepo struct {
	mu          sync.Mutex
	failInsert  bool
	failRead    bool
	activities  []models.ActivityEvent
	connections []models.ConnectionEvent
}

func (r *fakeActivityRepo) InsertActivity(_ context.Context, event *models.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsert {
		return errors.New("event sink down")
	}
	r.activities = append(r.activities, *event)
	return nil
}

func (r *fakeActivityRepo) InsertConnection(_ context.Context, event *models.ConnectionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failInsert {
		return errors.New("event sink down")
	}
	r.connections = append(r.connections, *event)
	return nil
}

func (r *fakeActivityRepo) ActivityByWallet(_ context.Context, wallet string, limit int) ([]models.ActivityEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failRead {
		return nil, errors.New("event sink down")
	}
	var out []models.ActivityEvent
	for i := len(r.activities) - 1; i >= 0 && len(out) < limit; i-- {
		if r.activities[i].WalletAddress == wallet {
			out = append(out, r.activities[i])
		}
	}
	return out, nil
}

func (r *fakeActivityRepo) ConnectionsSince(_ context.Context, since time.Time) ([]models.ConnectionEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failRead {
		return nil, errors.New("event sink down")
	}
	var out []models.ConnectionEvent
	for _, ev := range r.connections {
		if !ev.ConnectionTimestamp.Before(since) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func TestRecordPersistsRemotely(t *testing.T) {
	repo := &fakeActivityRepo{}
	store := fallback.NewMemoryStore()
	svc := NewActivityService(repo, store)

	svc.Record(context.Background(), "W1", models.ActivityProfileUpdate, map[string]interface{}{"field": "squad"})

	require.Len(t, repo.activities, 1)
	event := repo.activities[0]
	assert.Equal(t, "W1", event.WalletAddress)
	assert.Equal(t, models.ActivityProfileUpdate, event.ActivityType)
	assert.Equal(t, svc.SessionID(), event.Metadata["session_id"])
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())

	// Nothing buffered locally on the happy path.
	list, err := store.List(context.Background(), fallback.ActivityKey("W1"), 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRecordBuffersLocallyOnRemoteFailure(t *testing.T) {
	repo := &fakeActivityRepo{failInsert: true}
	store := fallback.NewMemoryStore()
	svc := NewActivityService(repo, store)
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		svc.Record(ctx, "W1", models.ActivityCourseComplete, map[string]interface{}{"i": i})
	}

	list, err := store.List(ctx, fallback.ActivityKey("W1"), 0)
	require.NoError(t, err)
	require.Len(t, list, 100, "the local buffer is capped at 100 entries")

	var newest, oldest models.ActivityEvent
	require.NoError(t, json.Unmarshal(list[0], &newest))
	require.NoError(t, json.Unmarshal(list[99], &oldest))
	assert.Equal(t, float64(149), newest.Metadata["i"], "newest entry survives")
	assert.Equal(t, float64(50), oldest.Metadata["i"], "entries 0-49 were dropped oldest-first")
}

func TestRecordNeverPanicsWithoutStoreOrRepo(t *testing.T) {
	svc := NewActivityService(nil, nil)

	svc.Record(context.Background(), "W1", models.ActivityProfileUpdate, nil)
	svc.Record(context.Background(), "", models.ActivityProfileUpdate, nil)
	svc.Record(context.Background(), "W1", "", nil)
}

func TestTrackConnectionEnrichesEvent(t *testing.T) {
	repo := &fakeActivityRepo{}
	svc := NewActivityService(repo, fallback.NewMemoryStore())

	svc.TrackConnection(context.Background(), models.ConnectionEvent{
		WalletAddress:  "W1",
		ConnectionType: models.ConnTypeConnect,
		Provider:       "phantom",
	})

	require.Len(t, repo.connections, 1)
	event := repo.connections[0]
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.ConnectionTimestamp.IsZero())
	assert.Equal(t, svc.SessionID(), event.SessionData["session_id"])
}

func TestRecentActivityFallsBackToLocalBuffer(t *testing.T) {
	repo := &fakeActivityRepo{failInsert: true, failRead: true}
	store := fallback.NewMemoryStore()
	svc := NewActivityService(repo, store)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		svc.Record(ctx, "W1", models.ActivityXPGained, map[string]interface{}{"i": fmt.Sprintf("%d", i)})
	}

	events := svc.RecentActivity(ctx, "W1", 3)
	require.Len(t, events, 3)
	assert.Equal(t, "4", events[0].Metadata["i"], "newest first")
	assert.Equal(t, models.ActivityXPGained, events[0].ActivityType)
}
