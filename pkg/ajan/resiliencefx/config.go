package resiliencefx

import "time"

const (
	DefaultFailureThreshold = 5
	DefaultResetTimeout     = 30 * time.Second
	DefaultHalfOpenSuccess  = 2
)

// CircuitBreakerConfig controls when a store adapter is tripped open after
// repeated StoreUnavailable failures.
type CircuitBreakerConfig struct {
	Enabled               bool          `conf:"enabled"                 default:"true"`
	FailureThreshold      uint          `conf:"failure_threshold"       default:"5"`
	ResetTimeout          time.Duration `conf:"reset_timeout"           default:"30s"`
	HalfOpenSuccessNeeded uint          `conf:"half_open_success_needed" default:"2"`
}

func NewDefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		Enabled:               true,
		FailureThreshold:      DefaultFailureThreshold,
		ResetTimeout:          DefaultResetTimeout,
		HalfOpenSuccessNeeded: DefaultHalfOpenSuccess,
	}
}

// RetryStrategyConfig is kept for components that back off before a
// retry, such as the AMQP audit sink's publish attempts.
type RetryStrategyConfig struct {
	Enabled         bool          `conf:"enabled"          default:"true"`
	MaxAttempts     uint          `conf:"max_attempts"     default:"3"`
	InitialInterval time.Duration `conf:"initial_interval" default:"100ms"`
	MaxInterval     time.Duration `conf:"max_interval"     default:"10s"`
	Multiplier      float64       `conf:"multiplier"       default:"2.0"`
	RandomFactor    float64       `conf:"random_factor"    default:"0.1"`
}

func NewDefaultRetryStrategyConfig() *RetryStrategyConfig {
	return &RetryStrategyConfig{
		Enabled:         true,
		MaxAttempts:     DefaultMaxAttempts,
		InitialInterval: DefaultInitialInterval,
		MaxInterval:     DefaultMaxInterval,
		Multiplier:      DefaultMultiplier,
		RandomFactor:    DefaultRandomFactor,
	}
}
