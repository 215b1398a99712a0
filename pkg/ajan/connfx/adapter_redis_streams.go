package connfx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StreamFieldEntry is a single stream entry exposed as its raw field map,
// with no "data"-wrapper envelope: callers that need the wire format to
// match an exact, documented set of field names (the kinexis envelope of
// spec.md §3) read and write through these methods instead.
type StreamFieldEntry struct {
	Fields map[string]string
	ID     string
}

// PendingFieldEntry describes one row of a consumer group's pending list.
type PendingFieldEntry struct {
	ID         string
	Consumer   string
	Idle       time.Duration
	RetryCount int64
}

var (
	ErrStreamGroupCreateFailed = errors.New("failed to create consumer group")
	ErrStreamEntryNotFound     = errors.New("stream entry not found")
)

// XAddFields appends a flat string field map to a stream and returns the
// server-generated entry id. Unlike PublishWithHeaders, the fields are
// written verbatim as the entry's values -- no "data" wrapper key.
func (ra *RedisAdapter) XAddFields(
	ctx context.Context,
	stream string,
	fields map[string]string,
) (string, error) {
	if ra.client == nil {
		return "", fmt.Errorf("%w (stream=%q)", ErrRedisClientNotInitialized, stream)
	}

	values := make(map[string]any, len(fields))
	for k, v := range fields {
		values[k] = v
	}

	id, err := ra.client.XAdd(ctx, &redis.XAddArgs{ //nolint:exhaustruct
		Stream: stream,
		Values: values,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("%w (operation=xadd, stream=%q): %w", ErrRedisOperation, stream, err)
	}

	return id, nil
}

// EnsureConsumerGroup creates a consumer group at startID. If the stream
// does not exist yet, it appends an init marker entry to create it and then
// creates the group at "$", so the marker itself is never delivered
// (mirrors the NOGROUP-then-create dance of spec.md §4.3).
func (ra *RedisAdapter) EnsureConsumerGroup(
	ctx context.Context,
	stream, group, startID string,
) error {
	if ra.client == nil {
		return fmt.Errorf("%w (stream=%q)", ErrRedisClientNotInitialized, stream)
	}

	err := ra.client.XGroupCreate(ctx, stream, group, startID).Err()
	if err == nil {
		return nil
	}

	if isBusyGroup(err) {
		return nil
	}

	if !isNoGroup(err) {
		return fmt.Errorf(
			"%w (stream=%q, group=%q): %w",
			ErrStreamGroupCreateFailed,
			stream,
			group,
			err,
		)
	}

	if _, addErr := ra.XAddFields(ctx, stream, map[string]string{"init": "true"}); addErr != nil {
		return fmt.Errorf(
			"%w (stream=%q, group=%q): %w",
			ErrStreamGroupCreateFailed,
			stream,
			group,
			addErr,
		)
	}

	err = ra.client.XGroupCreate(ctx, stream, group, "$").Err()
	if err != nil && !isBusyGroup(err) {
		return fmt.Errorf(
			"%w (stream=%q, group=%q): %w",
			ErrStreamGroupCreateFailed,
			stream,
			group,
			err,
		)
	}

	return nil
}

func isBusyGroup(err error) bool {
	return err != nil && errContains(err, "BUSYGROUP")
}

// isNoGroup reports a missing stream: Redis answers XGROUP CREATE on an
// absent key with "requires the key to exist" rather than a NOGROUP code.
func isNoGroup(err error) bool {
	return err != nil && (errContains(err, "NOGROUP") || errContains(err, "requires the key to exist"))
}

func errContains(err error, substr string) bool {
	msg := err.Error()

	for i := 0; i+len(substr) <= len(msg); i++ {
		if msg[i:i+len(substr)] == substr {
			return true
		}
	}

	return false
}

// ReadGroupFields reads up to count new entries for consumer in group,
// blocking at most blockTimeout waiting for delivery.
func (ra *RedisAdapter) ReadGroupFields(
	ctx context.Context,
	stream, group, consumer string,
	count int64,
	blockTimeout time.Duration,
) ([]StreamFieldEntry, error) {
	if ra.client == nil {
		return nil, fmt.Errorf("%w (stream=%q)", ErrRedisClientNotInitialized, stream)
	}

	res, err := ra.client.XReadGroup(ctx, &redis.XReadGroupArgs{ //nolint:exhaustruct
		Group:    group,
		Consumer: consumer,
		Streams:  []string{stream, ">"},
		Count:    count,
		Block:    blockTimeout,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, context.DeadlineExceeded) {
			return nil, nil
		}

		return nil, fmt.Errorf(
			"%w (operation=xreadgroup, stream=%q, group=%q): %w",
			ErrRedisOperation,
			stream,
			group,
			err,
		)
	}

	return flattenStreams(res), nil
}

// AckID acknowledges a single entry id in group on stream.
func (ra *RedisAdapter) AckID(ctx context.Context, stream, group, id string) error {
	if ra.client == nil {
		return fmt.Errorf("%w (stream=%q)", ErrRedisClientNotInitialized, stream)
	}

	err := ra.client.XAck(ctx, stream, group, id).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf(
			"%w (operation=xack, stream=%q, group=%q, id=%q): %w",
			ErrRedisOperation,
			stream,
			group,
			id,
			err,
		)
	}

	return nil
}

// PendingCount returns the total number of pending entries for group.
func (ra *RedisAdapter) PendingCount(ctx context.Context, stream, group string) (int64, error) {
	if ra.client == nil {
		return 0, fmt.Errorf("%w (stream=%q)", ErrRedisClientNotInitialized, stream)
	}

	summary, err := ra.client.XPending(ctx, stream, group).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		return 0, fmt.Errorf(
			"%w (operation=xpending, stream=%q, group=%q): %w",
			ErrRedisOperation,
			stream,
			group,
			err,
		)
	}

	return summary.Count, nil
}

// PendingForConsumer lists up to count pending entries currently owned by
// consumer within group, oldest first.
func (ra *RedisAdapter) PendingForConsumer(
	ctx context.Context,
	stream, group, consumer string,
	count int64,
) ([]PendingFieldEntry, error) {
	if ra.client == nil {
		return nil, fmt.Errorf("%w (stream=%q)", ErrRedisClientNotInitialized, stream)
	}

	rows, err := ra.client.XPendingExt(ctx, &redis.XPendingExtArgs{ //nolint:exhaustruct
		Stream:   stream,
		Group:    group,
		Start:    "-",
		End:      "+",
		Count:    count,
		Consumer: consumer,
	}).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf(
			"%w (operation=xpending_ext, stream=%q, group=%q): %w",
			ErrRedisOperation,
			stream,
			group,
			err,
		)
	}

	entries := make([]PendingFieldEntry, len(rows))
	for i, row := range rows {
		entries[i] = PendingFieldEntry{
			ID:         row.ID,
			Consumer:   row.Consumer,
			Idle:       row.Idle,
			RetryCount: row.RetryCount,
		}
	}

	return entries, nil
}

// ReadByID fetches a single stream entry by its id via XRANGE. Returns
// ok=false if the entry is no longer present (e.g. trimmed).
func (ra *RedisAdapter) ReadByID(
	ctx context.Context,
	stream, id string,
) (StreamFieldEntry, bool, error) {
	if ra.client == nil {
		return StreamFieldEntry{}, false, fmt.Errorf( //nolint:exhaustruct
			"%w (stream=%q)", ErrRedisClientNotInitialized, stream,
		)
	}

	rows, err := ra.client.XRange(ctx, stream, id, id).Result()
	if err != nil {
		return StreamFieldEntry{}, false, fmt.Errorf( //nolint:exhaustruct
			"%w (operation=xrange, stream=%q, id=%q): %w",
			ErrRedisOperation, stream, id, err,
		)
	}

	if len(rows) == 0 {
		return StreamFieldEntry{}, false, nil //nolint:exhaustruct
	}

	return StreamFieldEntry{ID: rows[0].ID, Fields: convertValues(rows[0].Values)}, true, nil
}

// ReadRange lists up to count entries from stream in id order, oldest
// first -- used to inspect a dead-letter stream from operator tooling
// (spec.md §5 "the DLQ stream has no configured bound; operators are
// expected to drain it").
func (ra *RedisAdapter) ReadRange(ctx context.Context, stream string, count int64) ([]StreamFieldEntry, error) {
	if ra.client == nil {
		return nil, fmt.Errorf("%w (stream=%q)", ErrRedisClientNotInitialized, stream)
	}

	rows, err := ra.client.XRangeN(ctx, stream, "-", "+", count).Result()
	if err != nil {
		return nil, fmt.Errorf("%w (operation=xrange, stream=%q): %w", ErrRedisOperation, stream, err)
	}

	entries := make([]StreamFieldEntry, len(rows))
	for i, row := range rows {
		entries[i] = StreamFieldEntry{ID: row.ID, Fields: convertValues(row.Values)}
	}

	return entries, nil
}

func flattenStreams(res []redis.XStream) []StreamFieldEntry {
	var entries []StreamFieldEntry

	for _, stream := range res {
		for _, msg := range stream.Messages {
			entries = append(entries, StreamFieldEntry{
				ID:     msg.ID,
				Fields: convertValues(msg.Values),
			})
		}
	}

	return entries
}

// SubscribeExpired subscribes to the "expired" keyevent channel of every
// database (pattern __keyevent@*__:expired) and returns a channel of expired
// key names. Call the returned close function to unsubscribe.
func (ra *RedisAdapter) SubscribeExpired(ctx context.Context) (<-chan string, func() error, error) {
	if ra.client == nil {
		return nil, nil, fmt.Errorf("%w", ErrRedisClientNotInitialized)
	}

	pubsub := ra.client.PSubscribe(ctx, "__keyevent@*__:expired")
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()

		return nil, nil, fmt.Errorf("%w (operation=psubscribe): %w", ErrRedisOperation, err)
	}

	out := make(chan string)

	go func() {
		defer close(out)

		for msg := range pubsub.Channel() {
			select {
			case out <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, pubsub.Close, nil
}

// IncrCounter atomically increments key and (re)sets its TTL on every call,
// so a burst of retries keeps extending the counter's lifetime rather than
// letting it expire mid-sequence.
func (ra *RedisAdapter) IncrCounter(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if ra.client == nil {
		return 0, fmt.Errorf("%w (key=%q)", ErrRedisClientNotInitialized, key)
	}

	n, err := ra.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w (operation=incr, key=%q): %w", ErrRedisOperation, key, err)
	}

	if err := ra.client.Expire(ctx, key, ttl).Err(); err != nil {
		return n, fmt.Errorf("%w (operation=expire, key=%q): %w", ErrRedisOperation, key, err)
	}

	return n, nil
}

// DeleteCounter removes a retry counter key. Deleting a key that does not
// exist is not an error.
func (ra *RedisAdapter) DeleteCounter(ctx context.Context, key string) error {
	if ra.client == nil {
		return fmt.Errorf("%w (key=%q)", ErrRedisClientNotInitialized, key)
	}

	if err := ra.client.Del(ctx, key).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w (operation=del, key=%q): %w", ErrRedisOperation, key, err)
	}

	return nil
}

// EnsureKeyspaceNotifications makes sure the server is configured to emit
// expired-key events, a one-time process-wide setup step (spec.md §4.6).
func (ra *RedisAdapter) EnsureKeyspaceNotifications(ctx context.Context) error {
	if ra.client == nil {
		return fmt.Errorf("%w", ErrRedisClientNotInitialized)
	}

	current, err := ra.client.ConfigGet(ctx, "notify-keyspace-events").Result()
	if err != nil {
		return fmt.Errorf("%w (operation=config_get): %w", ErrRedisOperation, err)
	}

	existing := current["notify-keyspace-events"]
	if hasKeyspaceFlags(existing, "Ex") {
		return nil
	}

	err = ra.client.ConfigSet(ctx, "notify-keyspace-events", existing+"Ex").Err()
	if err != nil {
		return fmt.Errorf("%w (operation=config_set): %w", ErrRedisOperation, err)
	}

	return nil
}

func hasKeyspaceFlags(existing, want string) bool {
	for _, flag := range want {
		found := false

		for _, have := range existing {
			if have == flag {
				found = true

				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}

// convertValues coerces a stream entry's raw field map (go-redis decodes
// XRANGE/XREADGROUP values as map[string]any) down to map[string]string,
// the type kinexis's envelope codec expects.
func convertValues(values map[string]any) map[string]string {
	result := make(map[string]string)

	for k, v := range values {
		if str, ok := v.(string); ok {
			result[k] = str
		} else {
			result[k] = fmt.Sprintf("%v", v)
		}
	}

	return result
}
