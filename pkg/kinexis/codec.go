package kinexis

import (
	"fmt"

	"github.com/foogaro/kinexis/pkg/lib/caching"
)

// EncodePayload serializes e into the intent record's content field per
// format. JSON uses the entity's plain JSON encoding (caching.ToBytes);
// HASH re-encodes the same JSON document but signals to readers (via the
// Format carried alongside) that it originated from a field-map-shaped
// entity rather than an opaque blob -- the distinction matters to a
// HASH-backed cache store adapter choosing HSET over SET, not to the
// wire content itself (spec.md §3: "a field map if F=HASH").
func EncodePayload[E any](e E, format Format) (string, error) {
	bytes, err := caching.ToBytes(e)
	if err != nil {
		return "", fmt.Errorf("%w: encode payload: %w", ErrBadPayload, err)
	}

	_ = format

	return string(bytes), nil
}

// DecodePayload deserializes content back into an E per format.
func DecodePayload[E any](content string, format Format) (E, error) {
	e, err := caching.FromBytes[E]([]byte(content))
	if err != nil {
		var zero E

		_ = format

		return zero, fmt.Errorf("%w: decode payload: %w", ErrBadPayload, err)
	}

	return e, nil
}
