package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/semillerodigital/classroom-progress/internal/event_bus"
	"github.com/semillerodigital/classroom-progress/internal/observability"
	"github.com/semillerodigital/classroom-progress/pkg/progress"
	log "github.com/sirupsen/logrus"
)

// Snapshot is the upstream data a dashboard is derived from. Metrics are
// recomputed from it on every request so they always reflect the current time.
type Snapshot struct {
	Items       []progress.CourseworkItem             `json:"items"`
	Submissions map[string]*progress.SubmissionRecord `json:"submissions"`
}

type Cache interface {
	// Get returns nil without error on a miss.
	Get(ctx context.Context, userId int, courseId string) (*Snapshot, error)
	Set(ctx context.Context, userId int, courseId string, snapshot Snapshot) error
	InvalidateUser(ctx context.Context, userId int) error
}

type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, userId int, courseId string) (*Snapshot, error) {
	raw, err := c.client.Get(ctx, cacheKey(userId, courseId)).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.DashboardCacheLookups().WithLabelValues("miss").Inc()
		return nil, nil
	}
	if err != nil {
		observability.DashboardCacheLookups().WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to read dashboard cache: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		observability.DashboardCacheLookups().WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to decode dashboard cache: %w", err)
	}
	observability.DashboardCacheLookups().WithLabelValues("hit").Inc()
	return &snapshot, nil
}

func (c *RedisCache) Set(ctx context.Context, userId int, courseId string, snapshot Snapshot) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(userId, courseId), raw, c.ttl).Err()
}

func (c *RedisCache) InvalidateUser(ctx context.Context, userId int) error {
	pattern := fmt.Sprintf("dashboard:user:%d:*", userId)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan dashboard cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	log.Debugf("Invalidating %d dashboard cache entries for user %d", len(keys), userId)
	return c.client.Del(ctx, keys...).Err()
}

func cacheKey(userId int, courseId string) string {
	return fmt.Sprintf("dashboard:user:%d:course:%s", userId, courseId)
}

// NoopCache is used when Redis is disabled.
type NoopCache struct{}

func (NoopCache) Get(ctx context.Context, userId int, courseId string) (*Snapshot, error) {
	return nil, nil
}

func (NoopCache) Set(ctx context.Context, userId int, courseId string, snapshot Snapshot) error {
	return nil
}

func (NoopCache) InvalidateUser(ctx context.Context, userId int) error {
	return nil
}

// InvalidateOnConnectionChange drops a user's cached dashboards when they
// connect a new Google account or disconnect Google Classroom.
func InvalidateOnConnectionChange(bus *event_bus.EventBus, cache Cache) (unsubscribe func()) {
	unsubscribeConnected := event_bus.SubscribeTyped(bus, event_bus.ClassroomConnectedEvent,
		func(e event_bus.EventT[event_bus.ClassroomConnected]) error {
			return cache.InvalidateUser(e.Context(), e.Data.UserId)
		})
	unsubscribeDisconnected := event_bus.SubscribeTyped(bus, event_bus.ClassroomDisconnectedEvent,
		func(e event_bus.EventT[event_bus.ClassroomDisconnected]) error {
			return cache.InvalidateUser(e.Context(), e.Data.UserId)
		})
	return func() {
		unsubscribeConnected()
		unsubscribeDisconnected()
	}
}
