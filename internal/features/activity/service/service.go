package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"academy-backend/internal/common/fallback"
	"academy-backend/internal/common/logger"
	"academy-backend/internal/features/activity/models"
	"academy-backend/internal/features/activity/repository"
)

const (
	connectionBufferKey      = "connections"
	connectionBufferCapacity = 500
)

// ActivityService records activity and connection events. Recording is
// fire-and-forget: a failed remote append falls back to the bounded local
// buffer, and a failed local append is logged and dropped. Callers must not
// assume an event is durable before a subsequent read.
type ActivityService struct {
	repo      repository.ActivityRepository
	store     fallback.Store
	sessionID string
	now       func() time.Time
}

func NewActivityService(repo repository.ActivityRepository, store fallback.Store) *ActivityService {
	return &ActivityService{
		repo:      repo,
		store:     store,
		sessionID: uuid.NewString(),
		now:       time.Now,
	}
}

// SessionID returns the id generated for this client session. Every event
// recorded by this service is tagged with it.
func (s *ActivityService) SessionID() string {
	return s.sessionID
}

// Record appends an activity event for the wallet. It never fails from the
// caller's perspective.
func (s *ActivityService) Record(ctx context.Context, wallet, activityType string, metadata map[string]interface{}) {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" || activityType == "" {
		logger.Warn().Str("activity_type", activityType).Msg("Dropping activity event with missing wallet or type")
		return
	}

	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadata["session_id"] = s.sessionID

	event := &models.ActivityEvent{
		ID:            uuid.NewString(),
		WalletAddress: wallet,
		ActivityType:  activityType,
		Metadata:      metadata,
		CreatedAt:     s.now(),
	}

	if s.repo != nil {
		err := s.repo.InsertActivity(ctx, event)
		if err == nil {
			return
		}
		logger.Warn().Str("wallet", wallet).Str("activity_type", activityType).Err(err).
			Msg("Remote activity append failed, buffering locally")
	}

	s.bufferLocally(ctx, fallback.ActivityKey(wallet), event, fallback.ActivityBufferCapacity)
}

// TrackConnection records a wallet connection lifecycle event.
func (s *ActivityService) TrackConnection(ctx context.Context, event models.ConnectionEvent) {
	event.WalletAddress = strings.TrimSpace(event.WalletAddress)
	if event.WalletAddress == "" || event.ConnectionType == "" {
		logger.Warn().Str("connection_type", event.ConnectionType).Msg("Dropping connection event with missing wallet or type")
		return
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.ConnectionTimestamp.IsZero() {
		event.ConnectionTimestamp = s.now()
	}
	if event.SessionData == nil {
		event.SessionData = map[string]interface{}{}
	}
	event.SessionData["session_id"] = s.sessionID

	if s.repo != nil {
		err := s.repo.InsertConnection(ctx, &event)
		if err == nil {
			return
		}
		logger.Warn().Str("wallet", event.WalletAddress).Str("connection_type", event.ConnectionType).Err(err).
			Msg("Remote connection append failed, buffering locally")
	}

	s.bufferLocally(ctx, connectionBufferKey, event, connectionBufferCapacity)
}

// RecentActivity returns the wallet's latest events, newest first, reading
// from the remote sink and degrading to the local buffer.
func (s *ActivityService) RecentActivity(ctx context.Context, wallet string, limit int) []models.ActivityEvent {
	wallet = strings.TrimSpace(wallet)
	if wallet == "" {
		return nil
	}

	if s.repo != nil {
		events, err := s.repo.ActivityByWallet(ctx, wallet, limit)
		if err == nil {
			return events
		}
		logger.Warn().Str("wallet", wallet).Err(err).Msg("Remote activity read failed, reading local buffer")
	}

	if s.store == nil {
		return nil
	}
	raw, err := s.store.List(ctx, fallback.ActivityKey(wallet), limit)
	if err != nil {
		logger.Warn().Str("wallet", wallet).Err(err).Msg("Local activity read failed")
		return nil
	}

	events := make([]models.ActivityEvent, 0, len(raw))
	for _, data := range raw {
		var event models.ActivityEvent
		if jsonErr := json.Unmarshal(data, &event); jsonErr == nil {
			events = append(events, event)
		}
	}
	return events
}

func (s *ActivityService) bufferLocally(ctx context.Context, key string, event interface{}, capacity int) {
	if s.store == nil {
		return
	}
	data, err := json.Marshal(event)
	if err == nil {
		err = s.store.AppendBounded(ctx, key, data, capacity)
	}
	if err != nil {
		logger.Warn().Str("key", key).Err(err).Msg("Local event buffering failed, event dropped")
	}
}
