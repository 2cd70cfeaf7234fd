package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	types "github.com/rulemine/rulemine-backend/internal/domain"
	"github.com/rulemine/rulemine-backend/internal/pkg/logger"
)

// Event names published on the bus.
const (
	EventAchievementEarned  = "achievement.earned"
	EventAchievementRevoked = "achievement.revoked"
	EventDiscoveryClaimed   = "discovery.claimed"
)

// Event is the wire frame for bus messages. Data holds event-specific fields.
type Event struct {
	Name   string         `json:"name"`
	UserID uuid.UUID      `json:"user_id"`
	At     time.Time      `json:"at"`
	Data   map[string]any `json:"data,omitempty"`
}

// Notifier fans out domain events to interested consumers (the frontend's
// realtime layer subscribes to the redis channel). Notifications are best
// effort: a failed publish is logged, never propagated to the caller.
type Notifier interface {
	AchievementEarned(userID uuid.UUID, achievementID string)
	AchievementRevoked(userID uuid.UUID, achievementID string)
	DiscoveryClaimed(d *types.Discovery)
	Close() error
}

type redisNotifier struct {
	log     *logger.Logger
	rdb     *redis.Client
	channel string
}

// NewRedisNotifier connects to REDIS_ADDR and publishes events on
// REDIS_CHANNEL (default "rulemine.events"). Returns an error when the
// address is missing or unreachable; callers fall back to NewNoopNotifier.
func NewRedisNotifier(log *logger.Logger) (Notifier, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(os.Getenv("REDIS_CHANNEL"))
	if ch == "" {
		ch = "rulemine.events"
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisNotifier{
		log:     log.With("service", "RedisNotifier"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (n *redisNotifier) AchievementEarned(userID uuid.UUID, achievementID string) {
	n.publish(Event{
		Name:   EventAchievementEarned,
		UserID: userID,
		At:     time.Now().UTC(),
		Data:   map[string]any{"achievement_id": achievementID},
	})
}

func (n *redisNotifier) AchievementRevoked(userID uuid.UUID, achievementID string) {
	n.publish(Event{
		Name:   EventAchievementRevoked,
		UserID: userID,
		At:     time.Now().UTC(),
		Data:   map[string]any{"achievement_id": achievementID},
	})
}

func (n *redisNotifier) DiscoveryClaimed(d *types.Discovery) {
	if d == nil {
		return
	}
	n.publish(Event{
		Name:   EventDiscoveryClaimed,
		UserID: d.DiscoveredByUserID,
		At:     time.Now().UTC(),
		Data: map[string]any{
			"fingerprint": d.Fingerprint,
			"entity_kind": d.EntityKind,
			"entity_id":   d.EntityID,
		},
	})
}

func (n *redisNotifier) publish(ev Event) {
	if n == nil || n.rdb == nil {
		return
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		n.log.Warn("marshal event", "event", ev.Name, "error", err)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := n.rdb.Publish(ctx, n.channel, raw).Err(); err != nil {
		n.log.Warn("publish event", "event", ev.Name, "error", err)
	}
}

func (n *redisNotifier) Close() error {
	if n == nil || n.rdb == nil {
		return nil
	}
	return n.rdb.Close()
}

type noopNotifier struct{}

// NewNoopNotifier is used when no redis address is configured.
func NewNoopNotifier() Notifier { return noopNotifier{} }

func (noopNotifier) AchievementEarned(uuid.UUID, string)  {}
func (noopNotifier) AchievementRevoked(uuid.UUID, string) {}
func (noopNotifier) DiscoveryClaimed(*types.Discovery)    {}
func (noopNotifier) Close() error                         { return nil }
