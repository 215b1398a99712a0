package kinexis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foogaro/kinexis/pkg/kinexis"
)

func TestStoreApplierApplySaveDecodesAndSaves(t *testing.T) {
	t.Parallel()

	primary := newFakePrimary()
	applier := kinexis.NewStoreApplier[testEntity, int](primary, kinexis.IntIDCodec{}, kinexis.FormatJSON)

	err := applier.ApplySave(context.Background(), `{"ID":7,"Name":"from-stream"}`)
	require.NoError(t, err)

	assert.Equal(t, "from-stream", primary.store[7].Name)
}

func TestStoreApplierApplySaveRejectsMalformedContent(t *testing.T) {
	t.Parallel()

	primary := newFakePrimary()
	applier := kinexis.NewStoreApplier[testEntity, int](primary, kinexis.IntIDCodec{}, kinexis.FormatJSON)

	err := applier.ApplySave(context.Background(), `not-json`)
	require.Error(t, err)
	assert.Empty(t, primary.store)
}

func TestStoreApplierApplyDeleteDecodesIDAndDeletes(t *testing.T) {
	t.Parallel()

	primary := newFakePrimary(testEntity{ID: 7, Name: "gone"})
	applier := kinexis.NewStoreApplier[testEntity, int](primary, kinexis.IntIDCodec{}, kinexis.FormatJSON)

	err := applier.ApplyDelete(context.Background(), "7")
	require.NoError(t, err)

	_, ok := primary.store[7]
	assert.False(t, ok)
}

func TestStoreApplierApplyDeleteRejectsBadID(t *testing.T) {
	t.Parallel()

	applier := kinexis.NewStoreApplier[testEntity, int](newFakePrimary(), kinexis.IntIDCodec{}, kinexis.FormatJSON)

	err := applier.ApplyDelete(context.Background(), "not-a-number")
	require.ErrorIs(t, err, kinexis.ErrBadPayload)
}
