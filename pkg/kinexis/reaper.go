package kinexis

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/foogaro/kinexis/pkg/ajan/logfx"
)

// PendingStore is the narrow connfx slice the Reaper needs: listing a
// consumer's pending entries, re-reading an entry by id, counters, and
// appending to the DLQ stream.
type PendingStore interface {
	PendingCount(ctx context.Context, stream, group string) (int64, error)
	PendingForConsumer(
		ctx context.Context, stream, group, consumer string, count int64,
	) ([]PendingEntry, error)
	ReadByID(ctx context.Context, stream, id string) (StreamEntry, bool, error)
	IncrCounter(ctx context.Context, key string, ttl time.Duration) (int64, error)
	DeleteCounter(ctx context.Context, key string) error
	Acknowledger
	StreamAppender
}

// PendingEntry is the consumer-facing alias of connfx.PendingFieldEntry.
type PendingEntry struct {
	ID         string
	Consumer   string
	Idle       time.Duration
	RetryCount int64
}

// ReaperConfig tunes one (E, R) binding's Reaper (spec.md §4.5, §6
// "listener.pel.*").
type ReaperConfig struct {
	MaxAttempts  int
	MaxRetention time.Duration
	BatchSize    int
	FixedDelay   time.Duration
}

// Reaper implements spec.md §4.5, one instance per (E, R) binding.
type Reaper struct {
	entityName string
	target     string
	cfg        ReaperConfig
	store      PendingStore
	processor  *Processor
	logger     *logfx.Logger
	counters   *operationCounters

	inFlight atomic.Bool
}

func NewReaper(
	entityName, target string,
	cfg ReaperConfig,
	store PendingStore,
	processor *Processor,
	logger *logfx.Logger,
) *Reaper {
	return &Reaper{
		entityName: entityName,
		target:     target,
		cfg:        cfg,
		store:      store,
		processor:  processor,
		logger:     logger,
		counters:   newOperationCounters(logger, "kinexis.reaper"),
	}
}

// Run ticks on cfg.FixedDelay until ctx is cancelled, waiting for any
// in-flight tick to finish before returning (spec.md §5 "Cancellation").
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.FixedDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

// tick runs a single pass, suppressing overlap with any tick already in
// flight (spec.md §4.5 "Single-flight per (E, R)").
func (r *Reaper) tick(ctx context.Context) {
	if !r.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer r.inFlight.Store(false)

	ctx, end := startSpan(ctx, r.logger, "kinexis.reaper.tick", "entity", r.entityName, "target", r.target)
	defer func() { end(nil) }()

	stream := StreamName(r.entityName)
	group := GroupName(r.target)
	consumer := ConsumerName(r.entityName, r.target)

	count, err := r.store.PendingCount(ctx, stream, group)
	if err != nil {
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "kinexis: reaper pending-summary failed",
				"entity", r.entityName, "target", r.target, "error", err)
		}

		return
	}

	if count == 0 {
		return
	}

	pending, err := r.store.PendingForConsumer(ctx, stream, group, consumer, int64(r.cfg.BatchSize))
	if err != nil {
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "kinexis: reaper pending-list failed",
				"entity", r.entityName, "target", r.target, "error", err)
		}

		return
	}

	for _, p := range pending {
		if !r.retryOne(ctx, p.ID) {
			return
		}
	}
}

// retryOne runs spec.md §4.5 step 3 for a single pending entry id. It
// returns false when the batch must stop (a DLQ transfer surfaced a
// failure), true otherwise.
func (r *Reaper) retryOne(ctx context.Context, id string) bool {
	stream := StreamName(r.entityName)
	group := GroupName(r.target)
	consumer := ConsumerName(r.entityName, r.target)
	counterKey := RetryCounterKey(r.entityName, id)

	r.counters.incRetried(ctx, "entity", r.entityName, "target", r.target)

	n, err := r.store.IncrCounter(ctx, counterKey, retryCounterTTL(r.cfg.MaxRetention))
	if err != nil {
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "kinexis: reaper counter increment failed",
				"entity", r.entityName, "target", r.target, "id", id, "error", err)
		}

		return true
	}

	entry, found, err := r.store.ReadByID(ctx, stream, id)
	if err != nil || !found {
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "kinexis: reaper could not re-read entry",
				"entity", r.entityName, "target", r.target, "id", id, "found", found, "error", err)
		}

		return true
	}

	err = r.processor.Process(ctx, entry.Fields)
	if err == nil {
		if ackErr := r.processor.Acknowledge(ctx, id); ackErr != nil {
			return r.handleFailure(ctx, entry, id, n, "Long lasting message", ackErr)
		}

		_ = r.store.DeleteCounter(ctx, counterKey)

		return true
	}

	if errors.Is(err, ErrProcessMessage) {
		return r.handleFailure(ctx, entry, id, n, "Too many attempts", err)
	}

	return true
}

// handleFailure implements spec.md §4.5 steps (d)/(e): below MAX_ATTEMPTS
// the entry is left pending for a later tick; at or above it, it moves to
// the DLQ and the batch stops.
func (r *Reaper) handleFailure(
	ctx context.Context, entry StreamEntry, id string, attempts int64, reason string, cause error,
) bool {
	if int(attempts) < r.cfg.MaxAttempts {
		return true
	}

	r.transferToDLQ(ctx, entry, id, reason, cause)
	_ = r.store.DeleteCounter(ctx, RetryCounterKey(r.entityName, id))

	return false
}

// transferToDLQ implements spec.md §4.5 "DLQ transfer".
func (r *Reaper) transferToDLQ(ctx context.Context, entry StreamEntry, id, reason string, cause error) {
	stream := StreamName(r.entityName)
	group := GroupName(r.target)
	consumer := ConsumerName(r.entityName, r.target)

	errText := ""
	if cause != nil {
		errText = cause.Error()
	}

	record := DeadLetterRecord(entry.Fields, reason, errText, stream, id, consumer, group)

	if _, err := r.store.XAddFields(ctx, DLQStreamName(r.entityName), record); err != nil {
		if r.logger != nil {
			r.logger.ErrorContext(ctx, "kinexis: DLQ transfer failed",
				"entity", r.entityName, "target", r.target, "id", id, "error", err)
		}

		return
	}

	r.counters.incDeadLettered(ctx, "entity", r.entityName, "target", r.target, "reason", reason)

	if err := r.store.AckID(ctx, stream, group, id); err != nil && r.logger != nil {
		r.logger.ErrorContext(ctx, "kinexis: DLQ ack of original entry failed",
			"entity", r.entityName, "target", r.target, "id", id, "error", err)
	}
}
