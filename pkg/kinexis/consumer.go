package kinexis

import (
	"context"
	"errors"
	"time"

	"github.com/foogaro/kinexis/pkg/ajan/lib"
	"github.com/foogaro/kinexis/pkg/ajan/logfx"
)

// pollBackoff is how long Run waits before retrying a poll that failed for
// a reason other than context cancellation, so a down stream doesn't spin
// the loop.
const pollBackoff = 500 * time.Millisecond

// StreamReader is the narrow slice of connfx.RedisAdapter the Consumer
// needs to bootstrap a group and poll it.
type StreamReader interface {
	EnsureConsumerGroup(ctx context.Context, stream, group, startID string) error
	ReadGroupFields(
		ctx context.Context, stream, group, consumer string, count int64, blockTimeout time.Duration,
	) ([]StreamEntry, error)
}

// StreamEntry is the consumer-facing alias of connfx.StreamFieldEntry, kept
// as its own type here so pkg/kinexis does not otherwise depend on connfx.
type StreamEntry struct {
	Fields map[string]string
	ID     string
}

// EntryHandler processes a single delivered entry. It returns an error
// only for conditions the caller wants logged; the consumer itself never
// retries inline -- that is the Reaper's job (spec.md §4.5).
type EntryHandler func(ctx context.Context, entry StreamEntry) error

// Consumer implements spec.md §4.3, one instance per (E, R) binding.
type Consumer struct {
	entityName  string
	target      string
	reader      StreamReader
	pollTimeout time.Duration
	batchSize   int64
	logger      *logfx.Logger
	counters    *operationCounters
}

func NewConsumer(
	entityName, target string,
	reader StreamReader,
	pollTimeout time.Duration,
	batchSize int64,
	logger *logfx.Logger,
) *Consumer {
	return &Consumer{
		entityName:  entityName,
		target:      target,
		reader:      reader,
		pollTimeout: pollTimeout,
		batchSize:   batchSize,
		logger:      logger,
		counters:    newOperationCounters(logger, "kinexis.consumer"),
	}
}

// Bootstrap performs the idempotent startup dance of spec.md §4.3 steps 1-3.
func (c *Consumer) Bootstrap(ctx context.Context) error {
	stream := StreamName(c.entityName)
	group := GroupName(c.target)

	return c.reader.EnsureConsumerGroup(ctx, stream, group, "0")
}

// Run polls stream(E) under group(R) until ctx is cancelled, dispatching
// each delivered entry to handle one at a time -- the consumer does not
// start a new batch until handle returns for every entry in the current
// one (spec.md §4.3 "Delivery is cooperative").
func (c *Consumer) Run(ctx context.Context, handle EntryHandler) error {
	stream := StreamName(c.entityName)
	group := GroupName(c.target)
	consumer := ConsumerName(c.entityName, c.target)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		entries, err := c.reader.ReadGroupFields(ctx, stream, group, consumer, c.batchSize, c.pollTimeout)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}

			if c.logger != nil {
				c.logger.ErrorContext(ctx, "kinexis: stream poll failed",
					"entity", c.entityName, "target", c.target, "error", err)
			}

			lib.SleepContext(ctx, pollBackoff)

			continue
		}

		for _, entry := range entries {
			if IsBootstrap(entry.Fields) {
				continue
			}

			c.counters.incConsumed(ctx, "entity", c.entityName, "target", c.target)

			if err := handle(ctx, StreamEntry{ID: entry.ID, Fields: entry.Fields}); err != nil && c.logger != nil {
				c.logger.WarnContext(ctx, "kinexis: entry handling failed, left pending",
					"entity", c.entityName, "target", c.target, "id", entry.ID, "error", err)
			}
		}
	}
}
