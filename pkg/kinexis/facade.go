package kinexis

import (
	"context"
	"fmt"

	"github.com/foogaro/kinexis/pkg/ajan/logfx"
)

// StreamAppender is the narrow slice of connfx.RedisAdapter the Facade and
// Producer need: appending flat field maps to a stream.
type StreamAppender interface {
	XAddFields(ctx context.Context, stream string, fields map[string]string) (string, error)
}

// Facade is the per-entity CRUD surface an application calls into
// (spec.md §4.2). It is generic over the entity type E, its identifier
// type ID, and codec the caller supplies for encoding IDs to strings.
type Facade[E Identifiable[ID], ID any] struct {
	entityName string
	policy     Policy
	codec      IDCodec[ID]
	cache      CacheStore[E, ID]
	primary    PrimaryStore[E, ID]
	appender   StreamAppender
	logger     *logfx.Logger
}

// NewFacade builds a Facade for entityName. primary may be nil when no
// WRITE_BEHIND-backed primary store is bound (pure cache-aside usage).
func NewFacade[E Identifiable[ID], ID any](
	entityName string,
	policy Policy,
	codec IDCodec[ID],
	cache CacheStore[E, ID],
	primary PrimaryStore[E, ID],
	appender StreamAppender,
	logger *logfx.Logger,
) *Facade[E, ID] {
	return &Facade[E, ID]{
		entityName: entityName,
		policy:     policy,
		codec:      codec,
		cache:      cache,
		primary:    primary,
		appender:   appender,
		logger:     logger,
	}
}

// Save implements spec.md §4.2 "save(e)". Under WRITE_BEHIND it appends an
// intent to the entity stream and returns immediately; otherwise it writes
// synchronously to the cache store.
func (f *Facade[E, ID]) Save(ctx context.Context, e E) error {
	if f.policy.Has(WriteBehind) {
		content, err := EncodePayload(e, f.policy.Format)
		if err != nil {
			return err
		}

		_, err = f.appender.XAddFields(ctx, StreamName(f.entityName), EncodeSave(content))
		if err != nil {
			if f.logger != nil {
				f.logger.ErrorContext(ctx, "kinexis: failed to append save intent",
					"entity", f.entityName, "error", err)
			}

			return nil
		}

		return nil
	}

	if err := f.cache.Save(ctx, e.GetID(), e, f.policy); err != nil {
		if f.logger != nil {
			f.logger.WarnContext(ctx, "kinexis: cache save failed",
				"entity", f.entityName, "error", err)
		}
	}

	return nil
}

// FindByID implements spec.md §4.2 "findById(id)".
func (f *Facade[E, ID]) FindByID(ctx context.Context, id ID) (E, error) {
	var zero E

	e, found, cacheErr := f.cache.FindByID(ctx, id)
	if cacheErr == nil && found {
		return e, nil
	}

	if !f.policy.Has(CacheAside) && !f.policy.Has(RefreshAhead) {
		if cacheErr != nil {
			return zero, fmt.Errorf("%w: %w", ErrCacheUnavailable, cacheErr)
		}

		return zero, ErrNotFound
	}

	if f.primary == nil {
		return zero, ErrNotFound
	}

	pe, found, err := f.primary.FindByID(ctx, id)
	if err != nil {
		if cacheErr != nil {
			return zero, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}

		return zero, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if !found {
		return zero, ErrNotFound
	}

	if err := f.cache.Save(ctx, id, pe, f.policy); err != nil && f.logger != nil {
		f.logger.WarnContext(ctx, "kinexis: cache writeback failed",
			"entity", f.entityName, "error", err)
	}

	return pe, nil
}

// Delete implements spec.md §4.2 "delete(id)".
func (f *Facade[E, ID]) Delete(ctx context.Context, id ID) error {
	if f.policy.Has(WriteBehind) {
		_, err := f.appender.XAddFields(
			ctx, StreamName(f.entityName), EncodeDelete(f.codec.Encode(id)),
		)
		if err != nil && f.logger != nil {
			f.logger.ErrorContext(ctx, "kinexis: failed to append delete intent",
				"entity", f.entityName, "error", err)
		}

		return nil
	}

	if err := f.cache.DeleteByID(ctx, id); err != nil && f.logger != nil {
		f.logger.WarnContext(ctx, "kinexis: cache delete failed",
			"entity", f.entityName, "error", err)
	}

	return nil
}
