package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foogaro/kinexis/pkg/ajan"
	"github.com/foogaro/kinexis/pkg/ajan/configfx"
	"github.com/foogaro/kinexis/pkg/ajan/connfx"
	"github.com/foogaro/kinexis/pkg/ajan/logfx"
)

const (
	redisTarget = "redis"
	sqlTarget   = "sql"
	amqpTarget  = "amqp"
	otlpTarget  = "otlp"
)

// AppContext mirrors the teacher's appcontext.New()/Init(ctx) shape: one
// struct assembling config, logging and connections, built once at
// process startup and threaded through every subcommand.
type AppContext struct {
	Config      *ajan.BaseConfig
	Logger      *logfx.Logger
	Connections *connfx.Registry
}

func NewAppContext() *AppContext {
	return &AppContext{ //nolint:exhaustruct
		Config: &ajan.BaseConfig{}, //nolint:exhaustruct
	}
}

func (a *AppContext) Init(ctx context.Context) error {
	configManager := configfx.NewConfigManager()

	if err := configManager.LoadDefaults(a.Config); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	a.Logger = logfx.NewLogger(
		logfx.WithConfig(&a.Config.Log),
		logfx.WithScopeName(a.Config.AppName),
	)

	a.Connections = connfx.NewRegistry(
		connfx.WithLogger(a.Logger),
		connfx.WithDefaultFactories(),
	)

	if err := a.Connections.LoadFromConfig(ctx, &a.Config.Conn); err != nil {
		return fmt.Errorf("failed to load connections: %w", err)
	}

	// Force lazy client/channel/db initialization once, up front, so later
	// adapter access never races the first real call against a nil client.
	a.Connections.HealthCheck(ctx)

	a.enableOTLP()

	return nil
}

// enableOTLP binds the logger's span/metric/log providers to a real OTLP
// exporter when an "otlp" target is present in configuration. Without one
// configured, the logger keeps the noop providers logfx.NewLogger installs
// by default, so every StartSpan/NewMetricsBuilder call in pkg/kinexis
// stays cheap and side-effect-free.
func (a *AppContext) enableOTLP() {
	otlpConn, ok := a.Connections.GetNamed(otlpTarget).(*connfx.OTLPConnection)
	if !ok || otlpConn == nil {
		return
	}

	resource, err := otlpConn.CreateResource(a.Config.AppName, a.Config.AppVersion, a.Config.AppEnv)
	if err != nil {
		a.Logger.Warn("kinexis: failed to build OTLP resource, keeping noop telemetry",
			"error", err)

		return
	}

	a.Logger.EnableOTLP(resource)
}

func (a *AppContext) RedisAdapter() (*connfx.RedisAdapter, error) {
	conn, ok := a.Connections.GetNamed(redisTarget).(*connfx.RedisConnection)
	if !ok || conn == nil {
		return nil, fmt.Errorf("connection %q is not a redis connection", redisTarget)
	}

	return conn.GetAdapter(), nil
}

func (a *AppContext) SQLDB() (*sql.DB, error) {
	return connfx.GetTypedConnection[*sql.DB](a.Connections, sqlTarget)
}

func (a *AppContext) AMQPAdapter() (*connfx.AMQPAdapter, error) {
	return connfx.GetTypedConnection[*connfx.AMQPAdapter](a.Connections, amqpTarget)
}
