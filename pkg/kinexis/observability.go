package kinexis

import (
	"context"

	"github.com/foogaro/kinexis/pkg/ajan/logfx"
)

// startSpan opens a tracing span for one kinexis operation through the
// logger's bound tracer provider (real, once EnableOTLP is wired, or the
// logfx noop default otherwise). Tests across this package construct their
// components with a nil logger, so this is the one place that nil check
// lives for every caller below.
func startSpan(ctx context.Context, logger *logfx.Logger, name string, attrs ...any) (context.Context, func(err error)) {
	if logger == nil {
		return ctx, func(error) {}
	}

	spanCtx, span := logger.StartSpan(ctx, name, attrs...)

	return spanCtx, func(err error) {
		if err != nil {
			span.RecordError(err)
		}

		span.End()
	}
}

// operationCounters are the reaper/consumer/DLQ counters spec.md §6's
// observability table implies an operator needs: entries consumed,
// attempts retried, and entries moved to a dead-letter stream. Built once
// per component against the logger's bound meter provider (again real
// once EnableOTLP is wired, noop otherwise) rather than per call.
type operationCounters struct {
	consumed     *logfx.CounterMetric
	retried      *logfx.CounterMetric
	deadLettered *logfx.CounterMetric
}

// newOperationCounters builds the counter set for one (E, R) binding. A
// nil logger (every unit test in this package) yields a nil set; callers
// must use the incConsumed/incRetried/incDeadLettered methods, which
// tolerate that.
func newOperationCounters(logger *logfx.Logger, scope string) *operationCounters {
	if logger == nil {
		return nil
	}

	mb := logger.NewMetricsBuilder(scope)

	consumed, err := mb.Counter("kinexis_entries_consumed_total", "entries dispatched from a stream to a handler").Build()
	if err != nil {
		return nil
	}

	retried, err := mb.Counter("kinexis_retry_attempts_total", "reaper retry attempts against a pending entry").Build()
	if err != nil {
		return nil
	}

	deadLettered, err := mb.Counter("kinexis_dead_lettered_total", "entries moved to a dead-letter stream").Build()
	if err != nil {
		return nil
	}

	return &operationCounters{consumed: consumed, retried: retried, deadLettered: deadLettered}
}

func (c *operationCounters) incConsumed(ctx context.Context, attrs ...any) {
	if c == nil {
		return
	}

	c.consumed.Inc(ctx, attrs...)
}

func (c *operationCounters) incRetried(ctx context.Context, attrs ...any) {
	if c == nil {
		return
	}

	c.retried.Inc(ctx, attrs...)
}

func (c *operationCounters) incDeadLettered(ctx context.Context, attrs ...any) {
	if c == nil {
		return
	}

	c.deadLettered.Inc(ctx, attrs...)
}
