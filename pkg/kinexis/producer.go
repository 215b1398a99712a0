package kinexis

import (
	"context"
	"fmt"

	"github.com/foogaro/kinexis/pkg/ajan/logfx"
)

// Producer appends write-behind intents to an entity's stream. The Facade
// embeds this same behavior directly for the common case; Producer exists
// separately so non-Facade callers (migrations, backfills, the CLI's
// demo seeding) can append intents without constructing a full Facade.
type Producer struct {
	entityName string
	appender   StreamAppender
	logger     *logfx.Logger
}

func NewProducer(entityName string, appender StreamAppender, logger *logfx.Logger) *Producer {
	return &Producer{entityName: entityName, appender: appender, logger: logger}
}

// Save appends a CREATE/UPDATE intent already encoded to content.
func (p *Producer) Save(ctx context.Context, content string) (id string, err error) {
	ctx, end := startSpan(ctx, p.logger, "kinexis.produce", "entity", p.entityName, "operation", string(OpCreate))
	defer func() { end(err) }()

	id, err = p.appender.XAddFields(ctx, StreamName(p.entityName), EncodeSave(content))
	if err != nil {
		err = fmt.Errorf("%w: producer save (%s): %w", ErrStoreUnavailable, p.entityName, err)

		return "", err
	}

	return id, nil
}

// Delete appends a DELETE intent for idText.
func (p *Producer) Delete(ctx context.Context, idText string) (id string, err error) {
	ctx, end := startSpan(ctx, p.logger, "kinexis.produce", "entity", p.entityName, "operation", string(OpDelete))
	defer func() { end(err) }()

	id, err = p.appender.XAddFields(ctx, StreamName(p.entityName), EncodeDelete(idText))
	if err != nil {
		err = fmt.Errorf("%w: producer delete (%s): %w", ErrStoreUnavailable, p.entityName, err)

		return "", err
	}

	return id, nil
}
