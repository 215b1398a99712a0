package storefx

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/foogaro/kinexis/pkg/ajan/lib"
	"github.com/foogaro/kinexis/pkg/ajan/resiliencefx"
	"github.com/foogaro/kinexis/pkg/kinexis"
)

// amqpPublisher is the narrow slice of connfx.AMQPAdapter AMQPAuditSink
// needs, declared here so the sink can be exercised against a test double
// without an AMQP broker.
type amqpPublisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
	QueueDeclare(ctx context.Context, name string) (string, error)
}

// auditRecord is what AMQPAuditSink publishes: the entity name, the
// operation, and its still-encoded content, so a downstream consumer can
// reconstruct the full intent without coupling to the entity's Go type.
type auditRecord struct {
	Entity    string    `json:"entity"`
	Operation string    `json:"operation"`
	Content   string    `json:"content"`
	ObservedAt time.Time `json:"observedAt"`
}

// AMQPAuditSink is a second kinexis.Applier bound alongside a primary
// store: every save/delete intent applied to the store of record is also
// published as an audit event to a durable queue. It never decodes
// content to E -- an audit trail only needs the wire-level fact that
// something happened, not the typed entity (spec.md §4.8 "multiple
// primary stores may be registered for one E").
type AMQPAuditSink struct {
	amqp       amqpPublisher
	entityName string
	queue      string
	retry      *resiliencefx.RetryStrategy
}

// NewAMQPAuditSink declares queue and wraps every publish in the same
// retry/backoff strategy the teacher's HTTP client used for outbound
// calls (pkg/ajan/resiliencefx), repointed here at a flaky broker instead:
// a transient Publish failure is retried with exponential backoff before
// it is surfaced to the Processor as an ErrStoreUnavailable failure.
func NewAMQPAuditSink(amqp amqpPublisher, entityName, queue string) (*AMQPAuditSink, error) {
	sink := &AMQPAuditSink{
		amqp:       amqp,
		entityName: entityName,
		queue:      queue,
		retry:      resiliencefx.NewRetryStrategy(resiliencefx.NewDefaultRetryStrategyConfig()),
	}

	if _, err := amqp.QueueDeclare(context.Background(), queue); err != nil {
		return nil, fmt.Errorf("%w: declare audit queue %q: %w", kinexis.ErrStoreUnavailable, queue, err)
	}

	return sink, nil
}

func (s *AMQPAuditSink) ApplySave(ctx context.Context, content string) error {
	return s.publish(ctx, "SAVE", content)
}

func (s *AMQPAuditSink) ApplyDelete(ctx context.Context, idText string) error {
	return s.publish(ctx, "DELETE", idText)
}

func (s *AMQPAuditSink) publish(ctx context.Context, operation, content string) error {
	rec := auditRecord{
		Entity:     s.entityName,
		Operation:  operation,
		Content:    content,
		ObservedAt: time.Now().UTC(),
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: encode audit record: %w", kinexis.ErrBadPayload, err)
	}

	var publishErr error

	for attempt := uint(0); ; attempt++ {
		publishErr = s.amqp.Publish(ctx, s.queue, body)
		if publishErr == nil {
			return nil
		}

		backoff := s.retry.NextBackoff(attempt)
		if backoff <= 0 {
			break
		}

		lib.SleepContext(ctx, backoff)
	}

	return fmt.Errorf("%w: publish audit record: %w", kinexis.ErrStoreUnavailable, publishErr)
}
