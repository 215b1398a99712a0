package kinexis

import "time"

// Intent record field names (spec.md §3 "Intent record", §6 wire format).
const (
	FieldContent   = "content"
	FieldOperation = "operation"
)

// Dead-letter record field names (spec.md §3 "Dead-letter record").
const (
	FieldReason    = "reason"
	FieldError     = "error"
	FieldStreamKey = "streamKey"
	FieldStreamID  = "streamID"
	FieldConsumer  = "consumer"
	FieldGroup     = "group"
)

// Operation is the intent record's operation kind.
type Operation string

const (
	OpCreate Operation = "CREATE"
	OpRead   Operation = "READ"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

// Intent is the decoded form of a stream entry's field map.
type Intent struct {
	Content   string
	Operation Operation
}

// IsBootstrap reports whether fields is the "init" marker entry written
// by EnsureConsumerGroup when a stream is created fresh: it carries no
// content, so the processor must skip it rather than treat it as a
// malformed CREATE (spec.md §9 Open Question (b)).
func IsBootstrap(fields map[string]string) bool {
	_, hasContent := fields[FieldContent]

	return !hasContent
}

// DecodeIntent reads content/operation out of a stream entry's raw field
// map. Absence of operation defaults to OpCreate (spec.md §3).
func DecodeIntent(fields map[string]string) Intent {
	op := Operation(fields[FieldOperation])
	if op == "" {
		op = OpCreate
	}

	return Intent{Content: fields[FieldContent], Operation: op}
}

// EncodeSave builds the field map for a CREATE/UPDATE intent, content
// already encoded per the entity's Format.
func EncodeSave(content string) map[string]string {
	return map[string]string{FieldContent: content}
}

// EncodeDelete builds the field map for a DELETE intent.
func EncodeDelete(idText string) map[string]string {
	return map[string]string{FieldContent: idText, FieldOperation: string(OpDelete)}
}

// DeadLetterRecord builds the DLQ entry's field map: the original intent's
// fields, plus diagnostics (spec.md §4.5 "DLQ transfer").
func DeadLetterRecord(
	original map[string]string,
	reason, errText, streamKey, streamID, consumer, group string,
) map[string]string {
	rec := make(map[string]string, len(original)+6)

	for k, v := range original {
		rec[k] = v
	}

	rec[FieldReason] = reason
	rec[FieldError] = errText
	rec[FieldStreamKey] = streamKey
	rec[FieldStreamID] = streamID
	rec[FieldConsumer] = consumer
	rec[FieldGroup] = group

	return rec
}

// retryCounterTTL is MAX_RETENTION itself: spec.md §3 requires the retry
// counter's TTL equal MAX_RETENTION, and §6 names max-retention as both
// "oldest-retry horizon" and the counter's TTL.
func retryCounterTTL(maxRetention time.Duration) time.Duration {
	return maxRetention
}
