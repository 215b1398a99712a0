package storefx

import (
	"context"
	"fmt"

	"github.com/foogaro/kinexis/pkg/ajan/connfx"
	"github.com/foogaro/kinexis/pkg/kinexis"
)

// RedisCacheStore implements kinexis.CacheStore[E, ID] over a
// connfx.RedisAdapter (spec.md §4.7).
type RedisCacheStore[E kinexis.Identifiable[ID], ID any] struct {
	redis  *connfx.RedisAdapter
	codec  kinexis.IDCodec[ID]
	prefix string
}

func NewRedisCacheStore[E kinexis.Identifiable[ID], ID any](
	redis *connfx.RedisAdapter, codec kinexis.IDCodec[ID], prefix string,
) *RedisCacheStore[E, ID] {
	return &RedisCacheStore[E, ID]{redis: redis, codec: codec, prefix: prefix}
}

func (s *RedisCacheStore[E, ID]) FindByID(ctx context.Context, id ID) (E, bool, error) {
	var zero E

	raw, err := s.redis.Get(ctx, s.keyFor(id))
	if err != nil {
		return zero, false, fmt.Errorf("%w: %w", kinexis.ErrCacheUnavailable, err)
	}

	if raw == nil {
		return zero, false, nil
	}

	e, err := kinexis.DecodePayload[E](string(raw), kinexis.FormatJSON)
	if err != nil {
		return zero, false, err
	}

	return e, true, nil
}

func (s *RedisCacheStore[E, ID]) Save(ctx context.Context, id ID, e E, policy kinexis.Policy) error {
	content, err := kinexis.EncodePayload(e, policy.Format)
	if err != nil {
		return err
	}

	key := s.keyFor(id)

	if policy.TTL > 0 {
		if err := s.redis.SetWithExpiration(ctx, key, []byte(content), policy.TTL); err != nil {
			return fmt.Errorf("%w: %w", kinexis.ErrCacheUnavailable, err)
		}

		return nil
	}

	if err := s.redis.Set(ctx, key, []byte(content)); err != nil {
		return fmt.Errorf("%w: %w", kinexis.ErrCacheUnavailable, err)
	}

	return nil
}

func (s *RedisCacheStore[E, ID]) DeleteByID(ctx context.Context, id ID) error {
	if err := s.redis.Remove(ctx, s.keyFor(id)); err != nil {
		return fmt.Errorf("%w: %w", kinexis.ErrCacheUnavailable, err)
	}

	return nil
}

func (s *RedisCacheStore[E, ID]) keyFor(id ID) string {
	return kinexis.CacheKey(s.prefix, s.codec.Encode(id))
}
