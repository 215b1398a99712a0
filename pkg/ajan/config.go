package ajan

import (
	"time"

	"github.com/foogaro/kinexis/pkg/ajan/connfx"
	"github.com/foogaro/kinexis/pkg/ajan/logfx"
)

// PELConfig configures the pending-entry reaper (spec.md §6, "listener.pel.*").
type PELConfig struct {
	MaxAttempts  int           `conf:"max_attempts"  default:"3"`
	MaxRetention time.Duration `conf:"max_retention" default:"120000ms"`
	BatchSize    int           `conf:"batch_size"    default:"50"`
	FixedDelay   time.Duration `conf:"fixed_delay"   default:"300000ms"`
}

// StreamConfig configures the stream consumer (spec.md §6, "stream.*").
type StreamConfig struct {
	PollTimeout time.Duration `conf:"poll_timeout" default:"1000ms"`
	BatchSize   int64         `conf:"batch_size"   default:"100"`
}

// ListenerConfig groups the reaper under the "listener" prefix, matching
// the dotted key names in spec.md §6 ("listener.pel.max-attempts", ...).
type ListenerConfig struct {
	PEL PELConfig `conf:"pel"`
}

// BaseConfig is the root configuration for a kinexis process: connection
// targets (Redis, primary SQL store, optional AMQP audit sink), logging,
// and the write-behind pipeline's tunables.
type BaseConfig struct {
	Conn connfx.Config `conf:"conn"`

	AppName    string `conf:"name"    default:"kinexis"`
	AppEnv     string `conf:"env"     default:"development"`
	AppVersion string `conf:"version" default:"0.0.0"`

	Log      logfx.Config   `conf:"log"`
	Listener ListenerConfig `conf:"listener"`
	Stream   StreamConfig   `conf:"stream"`
}
