package redis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/patrocinios/internal/entity"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewStore(client, "test", time.Second)
}

func TestStore_CreateAndList_PreservesCreationOrder(t *testing.T) {
	_, store := setupTestRedis(t)
	ctx := context.Background()

	first, err := store.CreateDocument(ctx, "patrocinadores", map[string]any{
		"name":          "Acme Brews",
		"interestAreas": []string{"beverages"},
		"conversations": []any{},
	})
	require.NoError(t, err)
	second, err := store.CreateDocument(ctx, "patrocinadores", map[string]any{"name": "Beta"})
	require.NoError(t, err)

	docs, err := store.ListDocuments(ctx, "patrocinadores")

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, first, docs[0].ID)
	assert.Equal(t, second, docs[1].ID)
	assert.Equal(t, "Acme Brews", docs[0].Fields["name"])
	assert.Equal(t, []any{"beverages"}, docs[0].Fields["interestAreas"])
	assert.Equal(t, []any{}, docs[0].Fields["conversations"])
}

func TestStore_ListDocuments_EmptyCollection(t *testing.T) {
	_, store := setupTestRedis(t)

	docs, err := store.ListDocuments(context.Background(), "patrocinadores")

	assert.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStore_UpdateDocument_MergesFields(t *testing.T) {
	_, store := setupTestRedis(t)
	ctx := context.Background()
	id, err := store.CreateDocument(ctx, "patrocinadores", map[string]any{"name": "Acme", "status": "pending"})
	require.NoError(t, err)

	require.NoError(t, store.UpdateDocument(ctx, "patrocinadores", id, map[string]any{"status": "contacted"}))

	docs, err := store.ListDocuments(ctx, "patrocinadores")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Acme", docs[0].Fields["name"])
	assert.Equal(t, "contacted", docs[0].Fields["status"])
}

func TestStore_UpdateDocument_Missing(t *testing.T) {
	_, store := setupTestRedis(t)

	err := store.UpdateDocument(context.Background(), "patrocinadores", "nope", map[string]any{"name": "x"})

	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)
}

func TestStore_DeleteDocument(t *testing.T) {
	_, store := setupTestRedis(t)
	ctx := context.Background()
	id, err := store.CreateDocument(ctx, "patrocinadores", map[string]any{"name": "Acme"})
	require.NoError(t, err)

	require.NoError(t, store.DeleteDocument(ctx, "patrocinadores", id))
	assert.ErrorIs(t, store.DeleteDocument(ctx, "patrocinadores", id), entity.ErrDocumentNotFound)

	docs, err := store.ListDocuments(ctx, "patrocinadores")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStore_AppendToArrayField_KeepsOrderAndEveryEntry(t *testing.T) {
	_, store := setupTestRedis(t)
	ctx := context.Background()
	id, err := store.CreateDocument(ctx, "patrocinadores", map[string]any{"name": "Acme", "conversations": []any{}})
	require.NoError(t, err)

	require.NoError(t, store.AppendToArrayField(ctx, "patrocinadores", id, "conversations", map[string]any{"content": "A"}))
	require.NoError(t, store.AppendToArrayField(ctx, "patrocinadores", id, "conversations", map[string]any{"content": "B"}))

	docs, err := store.ListDocuments(ctx, "patrocinadores")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, []any{
		map[string]any{"content": "A"},
		map[string]any{"content": "B"},
	}, docs[0].Fields["conversations"])
}

func TestStore_AppendToArrayField_Concurrent(t *testing.T) {
	_, store := setupTestRedis(t)
	ctx := context.Background()
	id, err := store.CreateDocument(ctx, "patrocinadores", map[string]any{"name": "Acme"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, store.AppendToArrayField(ctx, "patrocinadores", id, "conversations", map[string]any{"n": n}))
		}(i)
	}
	wg.Wait()

	docs, err := store.ListDocuments(ctx, "patrocinadores")
	require.NoError(t, err)
	assert.Len(t, docs[0].Fields["conversations"], 20)
}

func TestStore_AppendToArrayField_Missing(t *testing.T) {
	_, store := setupTestRedis(t)

	err := store.AppendToArrayField(context.Background(), "patrocinadores", "nope", "conversations", map[string]any{})

	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)
}

func TestStore_AppendToArrayField_ScalarField(t *testing.T) {
	_, store := setupTestRedis(t)
	ctx := context.Background()
	id, err := store.CreateDocument(ctx, "patrocinadores", map[string]any{"conversations": "texto"})
	require.NoError(t, err)

	err = store.AppendToArrayField(ctx, "patrocinadores", id, "conversations", map[string]any{"content": "x"})

	assert.ErrorIs(t, err, entity.ErrFieldNotArray)
	docs, err := store.ListDocuments(ctx, "patrocinadores")
	require.NoError(t, err)
	assert.Equal(t, "texto", docs[0].Fields["conversations"])
}

func TestStore_Unavailable(t *testing.T) {
	mr, store := setupTestRedis(t)
	mr.Close()

	_, err := store.ListDocuments(context.Background(), "patrocinadores")

	assert.ErrorIs(t, err, entity.ErrStoreUnavailable)
}
