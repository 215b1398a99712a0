package storefx_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foogaro/kinexis/pkg/ajan/connfx"
	"github.com/foogaro/kinexis/pkg/kinexis"
	"github.com/foogaro/kinexis/pkg/kinexis/storefx"
)

type cacheEntity struct {
	ID   int
	Name string
}

func (e cacheEntity) GetID() int { return e.ID }

func newTestCacheStore(t *testing.T, prefix string) (*storefx.RedisCacheStore[cacheEntity, int], *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()}) //nolint:exhaustruct

	t.Cleanup(func() { _ = client.Close() })

	raw := connfx.NewRedisAdapterWithClient(client, &connfx.RedisConfig{Address: mr.Addr()}) //nolint:exhaustruct

	return storefx.NewRedisCacheStore[cacheEntity, int](raw, kinexis.IntIDCodec{}, prefix), mr
}

func TestRedisCacheStoreSaveAndFindByIDRoundTrip(t *testing.T) {
	t.Parallel()

	store, mr := newTestCacheStore(t, "employer")

	policy := kinexis.Policy{Prefix: "employer", Format: kinexis.FormatJSON, Enabled: true} //nolint:exhaustruct

	require.NoError(t, store.Save(context.Background(), 7, cacheEntity{ID: 7, Name: "Acme"}, policy))
	assert.True(t, mr.Exists("employer:7"))

	e, found, err := store.FindByID(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Acme", e.Name)
}

func TestRedisCacheStoreSaveWithTTLSetsExpiration(t *testing.T) {
	t.Parallel()

	store, mr := newTestCacheStore(t, "employer")

	policy := kinexis.Policy{Prefix: "employer", Format: kinexis.FormatJSON, TTL: time.Second, Enabled: true} //nolint:exhaustruct

	require.NoError(t, store.Save(context.Background(), 7, cacheEntity{ID: 7, Name: "Acme"}, policy))
	assert.True(t, mr.TTL("employer:7") > 0)
}

func TestRedisCacheStoreFindByIDMissReturnsNotFound(t *testing.T) {
	t.Parallel()

	store, _ := newTestCacheStore(t, "employer")

	_, found, err := store.FindByID(context.Background(), 404)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCacheStoreDeleteByIDRemovesKey(t *testing.T) {
	t.Parallel()

	store, mr := newTestCacheStore(t, "employer")

	policy := kinexis.Policy{Prefix: "employer", Format: kinexis.FormatJSON, Enabled: true} //nolint:exhaustruct
	require.NoError(t, store.Save(context.Background(), 7, cacheEntity{ID: 7, Name: "Acme"}, policy))

	require.NoError(t, store.DeleteByID(context.Background(), 7))
	assert.False(t, mr.Exists("employer:7"))
}
