package kinexis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foogaro/kinexis/pkg/kinexis"
)

type fakeExpirationSubscriber struct {
	ensureErr   error
	keys        chan string
	unsubscribe func() error
	subscribeErr error
}

func (s *fakeExpirationSubscriber) EnsureKeyspaceNotifications(_ context.Context) error {
	return s.ensureErr
}

func (s *fakeExpirationSubscriber) SubscribeExpired(_ context.Context) (<-chan string, func() error, error) {
	if s.subscribeErr != nil {
		return nil, nil, s.subscribeErr
	}

	unsub := s.unsubscribe
	if unsub == nil {
		unsub = func() error { return nil }
	}

	return s.keys, unsub, nil
}

func TestExpirationListenerDispatchesToMatchingPrefix(t *testing.T) {
	t.Parallel()

	keys := make(chan string, 1)
	sub := &fakeExpirationSubscriber{keys: keys} //nolint:exhaustruct

	listener := kinexis.NewExpirationListener(sub, nil)

	var handledID string

	done := make(chan struct{})
	listener.Register("employer", func(_ context.Context, idText string) error {
		handledID = idText
		close(done)

		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = listener.Run(ctx) }()

	keys <- "employer:7"
	<-done
	cancel()

	assert.Equal(t, "7", handledID)
}

func TestExpirationListenerIgnoresNonMatchingPrefix(t *testing.T) {
	t.Parallel()

	keys := make(chan string, 1)
	sub := &fakeExpirationSubscriber{keys: keys} //nolint:exhaustruct

	listener := kinexis.NewExpirationListener(sub, nil)

	called := false
	listener.Register("employer", func(_ context.Context, _ string) error {
		called = true

		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())

	go func() { _ = listener.Run(ctx) }()

	keys <- "otherentity:1"
	cancel()

	assert.False(t, called)
}

func TestExpirationListenerRunPropagatesEnsureFailure(t *testing.T) {
	t.Parallel()

	sub := &fakeExpirationSubscriber{ensureErr: errors.New("notify-keyspace-events unset")} //nolint:exhaustruct

	listener := kinexis.NewExpirationListener(sub, nil)

	err := listener.Run(context.Background())
	require.Error(t, err)
}
