package kinexis

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// IDCodec converts an entity's identifier type ID to and from the string
// representation carried on the wire (cache keys, stream field values).
// Entities key on whatever ID type fits their domain (spec.md §3: "the ID
// type is entity-specific"); the codec is the one place that knowledge
// lives, so Facade, Producer and Consumer stay generic over ID.
type IDCodec[ID any] interface {
	Encode(id ID) string
	Decode(s string) (ID, error)
}

// StringIDCodec is the identity codec for string-keyed entities.
type StringIDCodec struct{}

func (StringIDCodec) Encode(id string) string { return id }

func (StringIDCodec) Decode(s string) (string, error) { return s, nil }

// IntIDCodec codecs int-keyed entities via base-10 text.
type IntIDCodec struct{}

func (IntIDCodec) Encode(id int) string { return strconv.Itoa(id) }

func (IntIDCodec) Decode(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: int id %q: %w", ErrBadPayload, s, err)
	}

	return v, nil
}

// Int64IDCodec codecs int64-keyed entities via base-10 text.
type Int64IDCodec struct{}

func (Int64IDCodec) Encode(id int64) string { return strconv.FormatInt(id, 10) }

func (Int64IDCodec) Decode(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: int64 id %q: %w", ErrBadPayload, s, err)
	}

	return v, nil
}

// UUIDIDCodec codecs google/uuid.UUID-keyed entities via their canonical
// text form.
type UUIDIDCodec struct{}

func (UUIDIDCodec) Encode(id uuid.UUID) string { return id.String() }

func (UUIDIDCodec) Decode(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("%w: uuid id %q: %w", ErrBadPayload, s, err)
	}

	return id, nil
}
