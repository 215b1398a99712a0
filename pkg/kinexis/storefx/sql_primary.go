package storefx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/foogaro/kinexis/pkg/ajan/resiliencefx"
	"github.com/foogaro/kinexis/pkg/kinexis"
)

// RowMapper scans a single *sql.Row into an E.
type RowMapper[E any] func(row *sql.Row) (E, error)

// ArgBinder extracts the positional upsert arguments from an E, in the
// same order as the adapter's upsertQuery placeholders.
type ArgBinder[E any] func(e E) []any

// SQLPrimaryStore implements kinexis.PrimaryStore[E, ID] over
// database/sql + lib/pq (spec.md §4.8, the store of record). It is
// table-agnostic: callers supply the three SQL statements and the
// scan/bind functions for their entity.
type SQLPrimaryStore[E kinexis.Identifiable[ID], ID any] struct {
	db *sql.DB

	selectQuery string // one placeholder: id
	upsertQuery string // placeholders match binder's order; id first
	deleteQuery string // one placeholder: id

	mapRow RowMapper[E]
	bind   ArgBinder[E]
	codec  kinexis.IDCodec[ID]
	breaker *resiliencefx.CircuitBreaker
}

// NewSQLPrimaryStore builds a store of record guarded by a circuit breaker:
// repeated ErrStoreUnavailable failures trip it open so the Reaper's retries
// fail fast instead of piling up against a database that is already down.
func NewSQLPrimaryStore[E kinexis.Identifiable[ID], ID any](
	db *sql.DB,
	selectQuery, upsertQuery, deleteQuery string,
	mapRow RowMapper[E],
	bind ArgBinder[E],
	codec kinexis.IDCodec[ID],
) *SQLPrimaryStore[E, ID] {
	return &SQLPrimaryStore[E, ID]{
		db:          db,
		selectQuery: selectQuery,
		upsertQuery: upsertQuery,
		deleteQuery: deleteQuery,
		mapRow:      mapRow,
		bind:        bind,
		codec:       codec,
		breaker:     resiliencefx.NewCircuitBreaker(resiliencefx.NewDefaultCircuitBreakerConfig()),
	}
}

func (s *SQLPrimaryStore[E, ID]) FindByID(ctx context.Context, id ID) (E, bool, error) {
	var zero E

	if !s.breaker.IsAllowed() {
		return zero, false, fmt.Errorf("%w: select on %T", kinexis.ErrCircuitOpen, zero)
	}

	row := s.db.QueryRowContext(ctx, s.selectQuery, s.codec.Encode(id))

	e, err := s.mapRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.breaker.OnSuccess()

			return zero, false, nil
		}

		s.breaker.OnFailure()

		return zero, false, fmt.Errorf("%w: %w", kinexis.ErrStoreUnavailable, classify(err))
	}

	s.breaker.OnSuccess()

	return e, true, nil
}

// Save is an upsert: the stream is at-least-once, so spec.md §4.4's
// idempotence requirement means duplicate CREATE/UPDATE intents for the
// same id must converge rather than error.
func (s *SQLPrimaryStore[E, ID]) Save(ctx context.Context, e E) error {
	if !s.breaker.IsAllowed() {
		return fmt.Errorf("%w: upsert on %T", kinexis.ErrCircuitOpen, e)
	}

	args := s.bind(e)

	_, err := s.db.ExecContext(ctx, s.upsertQuery, args...)
	if err != nil {
		s.breaker.OnFailure()

		return fmt.Errorf("%w: %w", kinexis.ErrStoreUnavailable, classify(err))
	}

	s.breaker.OnSuccess()

	return nil
}

// DeleteByID is "delete if exists": a missing row is not an error.
func (s *SQLPrimaryStore[E, ID]) DeleteByID(ctx context.Context, id ID) error {
	if !s.breaker.IsAllowed() {
		return fmt.Errorf("%w: delete on %T", kinexis.ErrCircuitOpen, id)
	}

	_, err := s.db.ExecContext(ctx, s.deleteQuery, s.codec.Encode(id))
	if err != nil {
		s.breaker.OnFailure()

		return fmt.Errorf("%w: %w", kinexis.ErrStoreUnavailable, classify(err))
	}

	s.breaker.OnSuccess()

	return nil
}

// classify unwraps a *pq.Error to surface the Postgres error code in the
// wrapped message, which is what an operator actually needs when a DLQ
// entry's diagnostic string is all they have to go on.
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Errorf("pq error %s (%s): %w", pqErr.Code, pqErr.Message, err)
	}

	return err
}
