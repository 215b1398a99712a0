package main

import (
	"context"
	"fmt"

	"github.com/foogaro/kinexis/pkg/ajan/processfx"
	"github.com/foogaro/kinexis/pkg/kinexis"
	"github.com/foogaro/kinexis/pkg/kinexis/examples"
	"github.com/foogaro/kinexis/pkg/kinexis/storefx"
)

const (
	employerEntity     = "Employer"
	employerAuditQueue = "employer.audit"
)

// employerPipeline is every wired component for the demo Employer entity:
// a Redis cache store, a Postgres primary store, and an AMQP audit sink
// bound alongside it as a second (E, R) binding (spec.md §4.8).
type employerPipeline struct {
	Facade       *kinexis.Facade[examples.Employer, int]
	Registry     *kinexis.Registry
	Registration kinexis.Registration
}

// wireEmployerPipeline builds the pipeline's components but does not
// start any goroutines, so callers can reuse it for both `serve` (start
// everything) and one-off commands that only need the Facade.
func wireEmployerPipeline(app *AppContext) (*employerPipeline, error) {
	redisAdapter, err := app.RedisAdapter()
	if err != nil {
		return nil, fmt.Errorf("employer pipeline: %w", err)
	}

	sqlDB, err := app.SQLDB()
	if err != nil {
		return nil, fmt.Errorf("employer pipeline: %w", err)
	}

	amqpAdapter, err := app.AMQPAdapter()
	if err != nil {
		return nil, fmt.Errorf("employer pipeline: %w", err)
	}

	policy := examples.EmployerPolicy()
	codec := examples.EmployerIDCodec{}

	streamAdapter := storefx.NewRedisStreamAdapter(redisAdapter)
	cacheStore := storefx.NewRedisCacheStore[examples.Employer, int](redisAdapter, codec, examples.EmployerPrefix)
	sqlStore := storefx.NewSQLPrimaryStore[examples.Employer, int](
		sqlDB,
		examples.EmployerSelectQuery, examples.EmployerUpsertQuery, examples.EmployerDeleteQuery,
		examples.EmployerRowMapper, examples.EmployerArgBinder, codec,
	)

	auditSink, err := storefx.NewAMQPAuditSink(amqpAdapter, employerEntity, employerAuditQueue)
	if err != nil {
		return nil, fmt.Errorf("employer pipeline: %w", err)
	}

	facade := kinexis.NewFacade[examples.Employer, int](
		employerEntity, policy, codec, cacheStore, sqlStore, streamAdapter, app.Logger,
	)

	registry := kinexis.NewRegistry(streamAdapter, app.Logger)
	registry.RegisterRefreshAhead(examples.EmployerPrefix, func(ctx context.Context, idText string) error {
		id, err := codec.Decode(idText)
		if err != nil {
			return err
		}

		_, err = facade.FindByID(ctx, id)

		return err
	})

	pel := app.Config.Listener.PEL
	reaperCfg := kinexis.ReaperConfig{
		MaxAttempts:  pel.MaxAttempts,
		MaxRetention: pel.MaxRetention,
		BatchSize:    pel.BatchSize,
		FixedDelay:   pel.FixedDelay,
	}

	sqlApplier := kinexis.NewStoreApplier[examples.Employer, int](sqlStore, codec, policy.Format)

	registration := kinexis.Registration{
		EntityName:  employerEntity,
		Reader:      streamAdapter,
		Appender:    streamAdapter,
		Pending:     streamAdapter,
		PollTimeout: app.Config.Stream.PollTimeout,
		BatchSize:   app.Config.Stream.BatchSize,
		Bindings: []kinexis.Binding{
			{Target: "sql", Stores: []kinexis.Applier{sqlApplier}, Reaper: reaperCfg},
			{Target: "audit", Stores: []kinexis.Applier{auditSink}, Reaper: reaperCfg},
		},
	}

	return &employerPipeline{Facade: facade, Registry: registry, Registration: registration}, nil
}

// RunEmployerPipeline launches every Employer worker under proc's
// lifecycle: one consumer+reaper goroutine pair per binding, plus the
// shared expiration listener.
func RunEmployerPipeline(proc *processfx.Process, app *AppContext) error {
	pipeline, err := wireEmployerPipeline(app)
	if err != nil {
		return err
	}

	if err := pipeline.Registry.Start(proc, pipeline.Registration); err != nil {
		return err
	}

	pipeline.Registry.StartExpirationListener(proc)

	return nil
}
