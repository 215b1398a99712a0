package kinexis

import (
	"context"
	"errors"
	"fmt"

	"github.com/foogaro/kinexis/pkg/ajan/logfx"
)

// Acknowledger is the narrow connfx slice Orchestrator needs to ack an
// entry once every bound store for a binding has applied it.
type Acknowledger interface {
	AckID(ctx context.Context, stream, group, id string) error
}

// Applier is one store bound to an (E, R) pairing. Delete/Save operate on
// the entry's raw, still-encoded content; the concrete store adapter owns
// decoding per the entity's Format.
type Applier interface {
	ApplySave(ctx context.Context, content string) error
	ApplyDelete(ctx context.Context, idText string) error
}

// Processor implements spec.md §4.4 process(entry)/acknowledge(entry) for
// one (E, R) binding, fanning out across every store Applier bound to it.
type Processor struct {
	entityName string
	target     string
	stores     []Applier
	ack        Acknowledger
	logger     *logfx.Logger
	counters   *operationCounters
}

func NewProcessor(
	entityName, target string, stores []Applier, ack Acknowledger, logger *logfx.Logger,
) *Processor {
	return &Processor{
		entityName: entityName,
		target:     target,
		stores:     stores,
		ack:        ack,
		logger:     logger,
		counters:   newOperationCounters(logger, "kinexis.processor"),
	}
}

// Process implements process(entry): decode the intent and apply it to
// every bound store, aggregating any failures into one ProcessMessageError.
func (p *Processor) Process(ctx context.Context, fields map[string]string) (err error) {
	ctx, end := startSpan(ctx, p.logger, "kinexis.process", "entity", p.entityName, "target", p.target)
	defer func() { end(err) }()

	intent := DecodeIntent(fields)

	var errs []error

	for _, store := range p.stores {
		var storeErr error

		if intent.Operation == OpDelete {
			storeErr = store.ApplyDelete(ctx, intent.Content)
		} else {
			storeErr = store.ApplySave(ctx, intent.Content)
		}

		if storeErr != nil {
			errs = append(errs, storeErr)
		}
	}

	if len(errs) > 0 {
		err = fmt.Errorf("%w (entity=%q, target=%q): %w", ErrProcessMessage, p.entityName, p.target, errors.Join(errs...))

		return err
	}

	p.counters.incConsumed(ctx, "entity", p.entityName, "target", p.target)

	return nil
}

// Acknowledge implements acknowledge(entry).
func (p *Processor) Acknowledge(ctx context.Context, id string) (err error) {
	ctx, end := startSpan(ctx, p.logger, "kinexis.acknowledge", "entity", p.entityName, "target", p.target, "id", id)
	defer func() { end(err) }()

	stream := StreamName(p.entityName)
	group := GroupName(p.target)

	if ackErr := p.ack.AckID(ctx, stream, group, id); ackErr != nil {
		err = fmt.Errorf("%w (entity=%q, target=%q, id=%q): %w",
			ErrAcknowledgeMessage, p.entityName, p.target, id, ackErr)

		return err
	}

	return nil
}

// Orchestrate implements spec.md §4.4 orchestrate(entry): run Process, then
// Acknowledge on success. Failures are returned to the caller (the
// Consumer's EntryHandler), which logs and leaves the entry pending for
// the Reaper to re-drive.
func (p *Processor) Orchestrate(ctx context.Context, entry StreamEntry) error {
	if IsBootstrap(entry.Fields) {
		return nil
	}

	if err := p.Process(ctx, entry.Fields); err != nil {
		return err
	}

	return p.Acknowledge(ctx, entry.ID)
}
