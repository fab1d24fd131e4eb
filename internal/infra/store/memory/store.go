// Package memory implementa entity.DocumentStore em memória, para testes e
// para rodar local sem banco (STORE_BACKEND=memory).
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/xavierca1/patrocinios/internal/entity"
)

var _ entity.DocumentStore = (*Store)(nil)

type storedDocument struct {
	seq    int
	fields map[string]any
}

type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]*storedDocument
	seq         int
}

func NewStore() *Store {
	return &Store{collections: make(map[string]map[string]*storedDocument)}
}

// ListDocuments devolve na ordem de criação.
func (s *Store) ListDocuments(_ context.Context, collection string) ([]entity.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := s.collections[collection]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return docs[ids[i]].seq < docs[ids[j]].seq
	})

	out := make([]entity.Document, 0, len(ids))
	for _, id := range ids {
		fields, err := cloneFields(docs[id].fields)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.Document{ID: id, Fields: fields})
	}
	return out, nil
}

func (s *Store) CreateDocument(_ context.Context, collection string, fields map[string]any) (string, error) {
	cloned, err := cloneFields(fields)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]*storedDocument)
		s.collections[collection] = docs
	}
	s.seq++
	id := uuid.NewString()
	docs[id] = &storedDocument{seq: s.seq, fields: cloned}
	return id, nil
}

func (s *Store) UpdateDocument(_ context.Context, collection, id string, fields map[string]any) error {
	cloned, err := cloneFields(fields)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return entity.ErrDocumentNotFound
	}
	for k, v := range cloned {
		doc.fields[k] = v
	}
	return nil
}

func (s *Store) DeleteDocument(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[collection][id]; !ok {
		return entity.ErrDocumentNotFound
	}
	delete(s.collections[collection], id)
	return nil
}

func (s *Store) AppendToArrayField(_ context.Context, collection, id, field string, element any) error {
	cloned, err := cloneValue(element)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return entity.ErrDocumentNotFound
	}
	current, ok := doc.fields[field].([]any)
	if !ok && doc.fields[field] != nil {
		return fmt.Errorf("%w: %s", entity.ErrFieldNotArray, field)
	}
	next := make([]any, 0, len(current)+1)
	next = append(next, current...)
	doc.fields[field] = append(next, cloned)
	return nil
}

// cloneFields passa por JSON: copia fundo e normaliza os tipos como um store
// remoto faria ([]string vira []any, int vira float64).
func cloneFields(fields map[string]any) (map[string]any, error) {
	out := map[string]any{}
	if fields == nil {
		return out, nil
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("campos inválidos para o documento: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("campos inválidos para o documento: %w", err)
	}
	return out, nil
}

func cloneValue(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("elemento inválido: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("elemento inválido: %w", err)
	}
	return out, nil
}
