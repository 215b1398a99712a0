package kinexis

import (
	"context"
	"strings"

	"github.com/foogaro/kinexis/pkg/ajan/logfx"
)

// ExpirationSubscriber is the narrow connfx slice the listener needs.
type ExpirationSubscriber interface {
	SubscribeExpired(ctx context.Context) (<-chan string, func() error, error)
	EnsureKeyspaceNotifications(ctx context.Context) error
}

// RefreshHandler is called with the id text extracted from an expired
// cache key whose prefix matched a registered entity.
type RefreshHandler func(ctx context.Context, idText string) error

// ExpirationListener implements spec.md §4.6, one instance per process
// fanning out to per-entity handlers by cache key prefix.
type ExpirationListener struct {
	sub      ExpirationSubscriber
	handlers map[string]RefreshHandler
	logger   *logfx.Logger
}

func NewExpirationListener(sub ExpirationSubscriber, logger *logfx.Logger) *ExpirationListener {
	return &ExpirationListener{
		sub:      sub,
		handlers: make(map[string]RefreshHandler),
		logger:   logger,
	}
}

// Register binds prefix (an entity's cache namespace) to handle, called
// for every expired key starting with "<prefix>:".
func (l *ExpirationListener) Register(prefix string, handle RefreshHandler) {
	l.handlers[prefix+":"] = handle
}

// Run ensures keyspace notifications are enabled, subscribes, and
// dispatches until ctx is cancelled (spec.md §5 "Cancellation... unsubscribes
// the expiration listener").
func (l *ExpirationListener) Run(ctx context.Context) error {
	if err := l.sub.EnsureKeyspaceNotifications(ctx); err != nil {
		return err
	}

	keys, unsubscribe, err := l.sub.SubscribeExpired(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = unsubscribe() }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case key, ok := <-keys:
			if !ok {
				return nil
			}

			l.dispatch(ctx, key)
		}
	}
}

func (l *ExpirationListener) dispatch(ctx context.Context, key string) {
	for prefix, handle := range l.handlers {
		if !strings.HasPrefix(key, prefix) {
			continue
		}

		idText := key[len(prefix):]

		if err := handle(ctx, idText); err != nil && l.logger != nil {
			l.logger.WarnContext(ctx, "kinexis: refresh-ahead handler failed",
				"key", key, "error", err)
		}

		return
	}
}
