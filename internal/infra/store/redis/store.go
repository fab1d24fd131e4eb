// Package redis implementa entity.DocumentStore sobre go-redis.
//
// Layout das chaves:
//
//	<prefix>:<collection>:doc:<id>  hash campo -> valor em JSON
//	<prefix>:<collection>:ids       sorted set de ids, score = ordem de criação
//	<prefix>:<collection>:seq       contador da ordem de criação
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/xavierca1/patrocinios/internal/entity"
)

const DefaultPrefix = "patrocinios"

var _ entity.DocumentStore = (*Store)(nil)

// updateScript grava os campos só se o documento existir.
var updateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV))
return 1
`)

// appendScript concatena o elemento no array JSON do campo, dentro do Redis.
// Trabalha no texto para não reserializar os elementos já gravados.
var appendScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
local raw = redis.call('HGET', KEYS[1], ARGV[1])
local updated
if (not raw) or raw == 'null' or raw == '[]' then
	updated = '[' .. ARGV[2] .. ']'
elseif string.sub(raw, 1, 1) ~= '[' or string.sub(raw, -1) ~= ']' then
	return -1
else
	updated = string.sub(raw, 1, -2) .. ',' .. ARGV[2] .. ']'
end
redis.call('HSET', KEYS[1], ARGV[1], updated)
return 1
`)

type Store struct {
	client  *redis.Client
	prefix  string
	timeout time.Duration
}

func NewStore(client *redis.Client, prefix string, timeout time.Duration) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Store{client: client, prefix: prefix, timeout: timeout}
}

func (s *Store) docKey(collection, id string) string {
	return fmt.Sprintf("%s:%s:doc:%s", s.prefix, collection, id)
}

func (s *Store) idsKey(collection string) string {
	return fmt.Sprintf("%s:%s:ids", s.prefix, collection)
}

func (s *Store) seqKey(collection string) string {
	return fmt.Sprintf("%s:%s:seq", s.prefix, collection)
}

func (s *Store) ListDocuments(ctx context.Context, collection string) ([]entity.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ids, err := s.client.ZRange(ctx, s.idsKey(collection), 0, -1).Result()
	if err != nil {
		return nil, unavailable("listar documentos", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.StringStringMapCmd, len(ids))
	_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, s.docKey(collection, id))
		}
		return nil
	})
	if err != nil {
		return nil, unavailable("listar documentos", err)
	}

	docs := make([]entity.Document, 0, len(ids))
	for i, id := range ids {
		raw := cmds[i].Val()
		// id órfão no índice: o hash já foi apagado
		if len(raw) == 0 {
			continue
		}
		fields, err := decodeHash(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: documento %s: %v", entity.ErrStoreUnavailable, id, err)
		}
		docs = append(docs, entity.Document{ID: id, Fields: fields})
	}
	return docs, nil
}

func (s *Store) CreateDocument(ctx context.Context, collection string, fields map[string]any) (string, error) {
	args, err := encodeHash(fields)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	seq, err := s.client.Incr(ctx, s.seqKey(collection)).Result()
	if err != nil {
		return "", unavailable("criar documento", err)
	}

	// hash precisa de ao menos um campo para existir
	if len(args) == 0 {
		args = []any{entity.ConversationsField, "[]"}
	}

	id := uuid.NewString()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.docKey(collection, id), args...)
		pipe.ZAdd(ctx, s.idsKey(collection), &redis.Z{Score: float64(seq), Member: id})
		return nil
	})
	if err != nil {
		return "", unavailable("criar documento", err)
	}
	return id, nil
}

func (s *Store) UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) error {
	args, err := encodeHash(fields)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := updateScript.Run(ctx, s.client, []string{s.docKey(collection, id)}, args...).Int()
	if err != nil {
		return unavailable("atualizar documento", err)
	}
	if n == 0 {
		return entity.ErrDocumentNotFound
	}
	return nil
}

func (s *Store) DeleteDocument(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var del *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, s.docKey(collection, id))
		pipe.ZRem(ctx, s.idsKey(collection), id)
		return nil
	})
	if err != nil {
		return unavailable("excluir documento", err)
	}
	if del.Val() == 0 {
		return entity.ErrDocumentNotFound
	}
	return nil
}

func (s *Store) AppendToArrayField(ctx context.Context, collection, id, field string, element any) error {
	raw, err := json.Marshal(element)
	if err != nil {
		return fmt.Errorf("elemento inválido: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := appendScript.Run(ctx, s.client, []string{s.docKey(collection, id)}, field, string(raw)).Int()
	if err != nil {
		return unavailable("registrar elemento", err)
	}
	switch n {
	case 0:
		return entity.ErrDocumentNotFound
	case -1:
		return fmt.Errorf("%w: %s", entity.ErrFieldNotArray, field)
	}
	return nil
}

func encodeHash(fields map[string]any) ([]any, error) {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("campo %s inválido: %w", k, err)
		}
		args = append(args, k, string(raw))
	}
	return args, nil
}

func decodeHash(raw map[string]string) (map[string]any, error) {
	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err != nil {
			return nil, fmt.Errorf("campo %s: %w", k, err)
		}
		fields[k] = decoded
	}
	return fields, nil
}

func unavailable(op string, err error) error {
	if errors.Is(err, redis.Nil) {
		return entity.ErrDocumentNotFound
	}
	return fmt.Errorf("%w: erro ao %s: %w", entity.ErrStoreUnavailable, op, err)
}
