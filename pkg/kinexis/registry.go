package kinexis

import (
	"context"
	"time"

	"github.com/foogaro/kinexis/pkg/ajan/logfx"
	"github.com/foogaro/kinexis/pkg/ajan/processfx"
)

// Binding is one (E, R) pairing: a named target R, the store Appliers
// bound to it, and the reaper tuning for that pairing (spec.md §9's
// resolution of the "per-(E,R)" design: a single R may group one or more
// physical stores that must all succeed before that R's group acks).
type Binding struct {
	Target string
	Stores []Applier
	Reaper ReaperConfig
}

// Registration describes everything needed to wire one entity type's
// write-behind pipeline: its stream reader/appender/pending-store/
// acknowledger (all satisfied by a single connfx.RedisAdapter in
// practice) and the bindings to drive.
type Registration struct {
	EntityName  string
	Reader      StreamReader
	Appender    StreamAppender
	Pending     PendingStore
	PollTimeout time.Duration
	BatchSize   int64
	Bindings    []Binding
}

// Registry owns the write-behind pipeline (Consumer + Processor + Reaper)
// for every registered entity/binding and the single process-wide
// Refresh-Ahead expiration listener. It is the explicit registration
// entry point spec.md §9 leaves to the implementer's discretion.
type Registry struct {
	logger   *logfx.Logger
	listener *ExpirationListener
}

func NewRegistry(expirationSub ExpirationSubscriber, logger *logfx.Logger) *Registry {
	return &Registry{
		logger:   logger,
		listener: NewExpirationListener(expirationSub, logger),
	}
}

// RegisterRefreshAhead wires prefix's expired-key events to handle. Call
// once per REFRESH_AHEAD-enabled entity before Start.
func (r *Registry) RegisterRefreshAhead(prefix string, handle RefreshHandler) {
	r.listener.Register(prefix, handle)
}

// Start launches one Consumer+Reaper goroutine pair per binding, plus a
// single shared expiration-listener goroutine, under proc's lifecycle.
func (r *Registry) Start(proc *processfx.Process, reg Registration) error {
	for _, binding := range reg.Bindings {
		consumer := NewConsumer(
			reg.EntityName, binding.Target, reg.Reader,
			reg.PollTimeout, reg.BatchSize, r.logger,
		)

		if err := consumer.Bootstrap(proc.Ctx); err != nil {
			return err
		}

		processor := NewProcessor(reg.EntityName, binding.Target, binding.Stores, reg.Pending, r.logger)
		reaper := NewReaper(reg.EntityName, binding.Target, binding.Reaper, reg.Pending, processor, r.logger)

		proc.StartGoroutine(reg.EntityName+"/"+binding.Target+"/consumer", func(ctx context.Context) error {
			return consumer.Run(ctx, processor.Orchestrate)
		})

		proc.StartGoroutine(reg.EntityName+"/"+binding.Target+"/reaper", func(ctx context.Context) error {
			reaper.Run(ctx)

			return nil
		})
	}

	return nil
}

// StartExpirationListener launches the shared expiration listener.
func (r *Registry) StartExpirationListener(proc *processfx.Process) {
	proc.StartGoroutine("expiration-listener", r.listener.Run)
}
