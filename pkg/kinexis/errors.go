package kinexis

import "errors"

// Error kinds from spec.md §7. Each is a sentinel wrapped with call-specific
// context via fmt.Errorf("%w (...): %w", ...) at the call site, in the same
// idiom connfx uses for its own operation errors.
var (
	// ErrBadPayload marks an encode/decode failure: the entry can never be
	// applied. The reaper counts it as a failed attempt like any other store
	// failure and moves the entry to the DLQ once MaxAttempts is reached.
	ErrBadPayload = errors.New("bad payload")

	// ErrStoreUnavailable marks a transient store-adapter failure.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrProcessMessage aggregates one or more store-application failures
	// for a single stream entry.
	ErrProcessMessage = errors.New("process message failed")

	// ErrAcknowledgeMessage marks a failure to XACK an entry after it was
	// successfully applied.
	ErrAcknowledgeMessage = errors.New("acknowledge message failed")

	// ErrCacheUnavailable marks a cache-adapter failure; reads fall through
	// to the primary store and writes are a logged no-op.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrPolicyMisconfigured is fatal at startup.
	ErrPolicyMisconfigured = errors.New("policy misconfigured")

	// ErrNotFound is returned by Facade.FindByID when neither the cache nor
	// (when enabled) the primary store has the entity.
	ErrNotFound = errors.New("not found")

	// ErrCircuitOpen is returned by a store adapter instead of attempting
	// the call while its circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit open")
)
