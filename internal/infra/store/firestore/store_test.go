package firestore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/patrocinios/internal/entity"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *Store {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := NewStore(Config{
		BaseURL:   srv.URL + "/v1",
		ProjectID: "club",
		APIKey:    "secret",
		Timeout:   2 * time.Second,
	}, nil)
	require.NoError(t, err)
	return store
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestNewStore_RequiresProject(t *testing.T) {
	_, err := NewStore(Config{}, nil)
	assert.Error(t, err)
}

func TestStore_ListDocuments_FollowsPages(t *testing.T) {
	calls := 0
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/projects/club/databases/(default)/documents/patrocinadores", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		if r.URL.Query().Get("pageToken") == "" {
			writeJSON(w, http.StatusOK, `{
				"documents": [{
					"name": "projects/club/databases/(default)/documents/patrocinadores/abc",
					"fields": {
						"nombre": {"stringValue": "Acme Brews"},
						"interesadoEn": {"arrayValue": {"values": [{"stringValue": "deportes"}]}},
						"conversaciones": {"arrayValue": {"values": [{"mapValue": {"fields": {
							"fecha": {"timestampValue": "2024-03-01T10:00:00Z"},
							"contenido": {"stringValue": "Primera llamada"},
							"tipo": {"stringValue": "llamada"}
						}}}]}}
					}
				}],
				"nextPageToken": "p2"
			}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"documents": [{
			"name": "projects/club/databases/(default)/documents/patrocinadores/def",
			"fields": {"name": {"stringValue": "Beta"}, "estimatedBudget": {"integerValue": "1500"}}
		}]}`)
	})

	docs, err := store.ListDocuments(context.Background(), "patrocinadores")

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, docs, 2)
	assert.Equal(t, "abc", docs[0].ID)
	assert.Equal(t, "def", docs[1].ID)
	assert.Equal(t, int64(1500), docs[1].Fields["estimatedBudget"])

	rec := entity.SponsorFromDocument(docs[0])
	assert.Equal(t, "Acme Brews", rec.Name)
	require.Len(t, rec.Conversations, 1)
	assert.Equal(t, "Primera llamada", rec.Conversations[0].Content)
	assert.Equal(t, entity.ChannelCall, rec.Conversations[0].Channel)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), rec.Conversations[0].Timestamp)
}

func TestStore_CreateDocument(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var body struct {
			Fields map[string]value `json:"fields"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Acme Brews", *body.Fields["name"].StringValue)
		assert.NotNil(t, body.Fields["conversations"].ArrayValue)

		writeJSON(w, http.StatusOK, `{"name": "projects/club/databases/(default)/documents/patrocinadores/nuevo123"}`)
	})

	id, err := store.CreateDocument(context.Background(), "patrocinadores", map[string]any{
		"name":          "Acme Brews",
		"conversations": []any{},
	})

	require.NoError(t, err)
	assert.Equal(t, "nuevo123", id)
}

func TestStore_UpdateDocument_SendsMaskAndPrecondition(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v1/projects/club/databases/(default)/documents/patrocinadores/abc", r.URL.Path)
		assert.Equal(t, []string{"name", "status"}, r.URL.Query()["updateMask.fieldPaths"])
		assert.Equal(t, "true", r.URL.Query().Get("currentDocument.exists"))
		writeJSON(w, http.StatusOK, `{}`)
	})

	err := store.UpdateDocument(context.Background(), "patrocinadores", "abc", map[string]any{
		"status": "confirmed",
		"name":   "Acme",
	})

	assert.NoError(t, err)
}

func TestStore_UpdateDocument_NotFound(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"error": {"code": 404, "message": "No document to update", "status": "NOT_FOUND"}}`)
	})

	err := store.UpdateDocument(context.Background(), "patrocinadores", "abc", map[string]any{"name": "x"})

	assert.ErrorIs(t, err, entity.ErrDocumentNotFound)
}

func TestStore_DeleteDocument_ServerError(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeJSON(w, http.StatusServiceUnavailable, `{"error": {"code": 503, "status": "UNAVAILABLE"}}`)
	})

	err := store.DeleteDocument(context.Background(), "patrocinadores", "abc")

	assert.ErrorIs(t, err, entity.ErrStoreUnavailable)
}

func TestStore_AppendToArrayField_UsesCommitTransform(t *testing.T) {
	store := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/projects/club/databases/(default)/documents:commit", r.URL.Path)

		var body commitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Writes, 1)
		tr := body.Writes[0].Transform
		require.NotNil(t, tr)
		assert.Equal(t, "projects/club/databases/(default)/documents/patrocinadores/abc", tr.Document)
		require.Len(t, tr.FieldTransforms, 1)
		assert.Equal(t, "conversations", tr.FieldTransforms[0].FieldPath)
		require.Len(t, tr.FieldTransforms[0].AppendMissingElements.Values, 1)
		assert.True(t, body.Writes[0].CurrentDocument.Exists)

		writeJSON(w, http.StatusOK, `{"writeResults": [{}]}`)
	})

	err := store.AppendToArrayField(context.Background(), "patrocinadores", "abc", "conversations",
		map[string]any{"content": "Llamada", "channel": "phone"})

	assert.NoError(t, err)
}

func TestCodec_EncodeDecode(t *testing.T) {
	enc, err := encodeFields(map[string]any{
		"name":  "Acme",
		"tags":  []string{"sports", "culture"},
		"count": 3,
		"ratio": 0.5,
		"nested": map[string]any{
			"ok": true,
		},
		"missing": nil,
	})
	require.NoError(t, err)

	raw, err := json.Marshal(enc)
	require.NoError(t, err)
	var back map[string]value
	require.NoError(t, json.Unmarshal(raw, &back))

	decoded := decodeFields(back)
	assert.Equal(t, "Acme", decoded["name"])
	assert.Equal(t, []any{"sports", "culture"}, decoded["tags"])
	assert.Equal(t, int64(3), decoded["count"])
	assert.Equal(t, 0.5, decoded["ratio"])
	assert.Equal(t, map[string]any{"ok": true}, decoded["nested"])
	assert.Nil(t, decoded["missing"])
}

func TestQuoteFieldPath(t *testing.T) {
	assert.Equal(t, "conversations", quoteFieldPath("conversations"))
	assert.Equal(t, "`fecha-contacto`", quoteFieldPath("fecha-contacto"))
}
