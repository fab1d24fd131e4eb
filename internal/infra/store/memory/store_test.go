package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/patrocinios/internal/entity"
)

const col = "patrocinadores"

func TestStore_ListKeepsCreationOrder(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"A", "B", "C"} {
		id, err := s.CreateDocument(ctx, col, map[string]any{"name": name})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	docs, err := s.ListDocuments(ctx, col)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	for i, doc := range docs {
		assert.Equal(t, ids[i], doc.ID)
	}
	assert.Equal(t, "B", docs[1].Fields["name"])
}

func TestStore_UnknownCollectionIsEmpty(t *testing.T) {
	docs, err := NewStore().ListDocuments(context.Background(), "nada")

	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStore_UpdateMergesFields(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	id, err := s.CreateDocument(ctx, col, map[string]any{"name": "A", entity.ConversationsField: []any{"x"}})
	require.NoError(t, err)

	require.NoError(t, s.UpdateDocument(ctx, col, id, map[string]any{"name": "B", "notes": ""}))

	docs, _ := s.ListDocuments(ctx, col)
	assert.Equal(t, "B", docs[0].Fields["name"])
	assert.Equal(t, "", docs[0].Fields["notes"])
	assert.Equal(t, []any{"x"}, docs[0].Fields[entity.ConversationsField])
}

func TestStore_MissingDocument(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	assert.ErrorIs(t, s.UpdateDocument(ctx, col, "x", map[string]any{}), entity.ErrDocumentNotFound)
	assert.ErrorIs(t, s.DeleteDocument(ctx, col, "x"), entity.ErrDocumentNotFound)
	assert.ErrorIs(t, s.AppendToArrayField(ctx, col, "x", "f", 1), entity.ErrDocumentNotFound)
}

func TestStore_Delete(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	id, _ := s.CreateDocument(ctx, col, map[string]any{"name": "A"})

	require.NoError(t, s.DeleteDocument(ctx, col, id))

	docs, _ := s.ListDocuments(ctx, col)
	assert.Empty(t, docs)
}

func TestStore_ReturnedDocumentsAreCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_, _ = s.CreateDocument(ctx, col, map[string]any{"tags": []string{"a"}})

	docs, _ := s.ListDocuments(ctx, col)
	tags := docs[0].Fields["tags"].([]any)
	tags[0] = "mutado"

	again, _ := s.ListDocuments(ctx, col)
	assert.Equal(t, []any{"a"}, again[0].Fields["tags"])
}

func TestStore_ConcurrentAppendsKeepEveryElement(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	id, _ := s.CreateDocument(ctx, col, map[string]any{entity.ConversationsField: []any{}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.AppendToArrayField(ctx, col, id, entity.ConversationsField, map[string]any{"n": i}))
		}(i)
	}
	wg.Wait()

	docs, _ := s.ListDocuments(ctx, col)
	assert.Len(t, docs[0].Fields[entity.ConversationsField], 50)
}

func TestStore_AppendCreatesMissingField(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	id, _ := s.CreateDocument(ctx, col, map[string]any{"name": "A"})

	require.NoError(t, s.AppendToArrayField(ctx, col, id, entity.ConversationsField, "primeiro"))

	docs, _ := s.ListDocuments(ctx, col)
	assert.Equal(t, []any{"primeiro"}, docs[0].Fields[entity.ConversationsField])
}

func TestStore_RejectsValuesThatAreNotJSON(t *testing.T) {
	_, err := NewStore().CreateDocument(context.Background(), col, map[string]any{"fn": func() {}})

	assert.Error(t, err)
}

func TestStore_AppendToScalarFieldFails(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	id, _ := s.CreateDocument(ctx, col, map[string]any{entity.ConversationsField: "texto"})

	err := s.AppendToArrayField(ctx, col, id, entity.ConversationsField, "x")

	assert.ErrorIs(t, err, entity.ErrFieldNotArray)
	docs, _ := s.ListDocuments(ctx, col)
	assert.Equal(t, "texto", docs[0].Fields[entity.ConversationsField])
}
