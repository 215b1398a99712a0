// Package storefx adapts connfx connections to the narrow store ports
// pkg/kinexis declares (kinexis.StreamReader, kinexis.CacheStore,
// kinexis.PrimaryStore, kinexis.Applier, ...). Each adapter here owns one
// physical technology; pkg/kinexis never imports connfx directly.
package storefx

import (
	"context"
	"time"

	"github.com/foogaro/kinexis/pkg/ajan/connfx"
	"github.com/foogaro/kinexis/pkg/kinexis"
)

// RedisStreamAdapter bridges a connfx.RedisAdapter to kinexis's
// StreamReader, StreamAppender, PendingStore, Acknowledger and
// ExpirationSubscriber ports. One instance is shared across every entity's
// consumer/producer/reaper/listener, matching spec.md §5's "connection
// pool... shared across all components".
type RedisStreamAdapter struct {
	redis *connfx.RedisAdapter
}

func NewRedisStreamAdapter(redis *connfx.RedisAdapter) *RedisStreamAdapter {
	return &RedisStreamAdapter{redis: redis}
}

func (a *RedisStreamAdapter) XAddFields(
	ctx context.Context, stream string, fields map[string]string,
) (string, error) {
	return a.redis.XAddFields(ctx, stream, fields)
}

func (a *RedisStreamAdapter) EnsureConsumerGroup(ctx context.Context, stream, group, startID string) error {
	return a.redis.EnsureConsumerGroup(ctx, stream, group, startID)
}

func (a *RedisStreamAdapter) ReadGroupFields(
	ctx context.Context, stream, group, consumer string, count int64, blockTimeout time.Duration,
) ([]kinexis.StreamEntry, error) {
	raw, err := a.redis.ReadGroupFields(ctx, stream, group, consumer, count, blockTimeout)
	if err != nil {
		return nil, err
	}

	out := make([]kinexis.StreamEntry, len(raw))
	for i, e := range raw {
		out[i] = kinexis.StreamEntry{ID: e.ID, Fields: e.Fields}
	}

	return out, nil
}

func (a *RedisStreamAdapter) AckID(ctx context.Context, stream, group, id string) error {
	return a.redis.AckID(ctx, stream, group, id)
}

func (a *RedisStreamAdapter) PendingCount(ctx context.Context, stream, group string) (int64, error) {
	return a.redis.PendingCount(ctx, stream, group)
}

func (a *RedisStreamAdapter) PendingForConsumer(
	ctx context.Context, stream, group, consumer string, count int64,
) ([]kinexis.PendingEntry, error) {
	raw, err := a.redis.PendingForConsumer(ctx, stream, group, consumer, count)
	if err != nil {
		return nil, err
	}

	out := make([]kinexis.PendingEntry, len(raw))
	for i, p := range raw {
		out[i] = kinexis.PendingEntry{ID: p.ID, Consumer: p.Consumer, Idle: p.Idle, RetryCount: p.RetryCount}
	}

	return out, nil
}

func (a *RedisStreamAdapter) ReadByID(ctx context.Context, stream, id string) (kinexis.StreamEntry, bool, error) {
	e, found, err := a.redis.ReadByID(ctx, stream, id)
	if err != nil || !found {
		return kinexis.StreamEntry{}, found, err //nolint:exhaustruct
	}

	return kinexis.StreamEntry{ID: e.ID, Fields: e.Fields}, true, nil
}

func (a *RedisStreamAdapter) IncrCounter(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	return a.redis.IncrCounter(ctx, key, ttl)
}

func (a *RedisStreamAdapter) DeleteCounter(ctx context.Context, key string) error {
	return a.redis.DeleteCounter(ctx, key)
}

func (a *RedisStreamAdapter) SubscribeExpired(ctx context.Context) (<-chan string, func() error, error) {
	return a.redis.SubscribeExpired(ctx)
}

func (a *RedisStreamAdapter) EnsureKeyspaceNotifications(ctx context.Context) error {
	return a.redis.EnsureKeyspaceNotifications(ctx)
}
