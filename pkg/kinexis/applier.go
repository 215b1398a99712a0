package kinexis

import "context"

// StoreApplier adapts a PrimaryStore into the Processor's Applier port:
// it owns decoding the intent's still-encoded content/id text using the
// entity's Format and IDCodec before delegating to the store (spec.md
// §4.4 "decode content to E using F and apply save on every bound store").
type StoreApplier[E Identifiable[ID], ID any] struct {
	store  PrimaryStore[E, ID]
	codec  IDCodec[ID]
	format Format
}

func NewStoreApplier[E Identifiable[ID], ID any](
	store PrimaryStore[E, ID], codec IDCodec[ID], format Format,
) *StoreApplier[E, ID] {
	return &StoreApplier[E, ID]{store: store, codec: codec, format: format}
}

func (a *StoreApplier[E, ID]) ApplySave(ctx context.Context, content string) error {
	e, err := DecodePayload[E](content, a.format)
	if err != nil {
		return err
	}

	return a.store.Save(ctx, e)
}

func (a *StoreApplier[E, ID]) ApplyDelete(ctx context.Context, idText string) error {
	id, err := a.codec.Decode(idText)
	if err != nil {
		return err
	}

	return a.store.DeleteByID(ctx, id)
}
