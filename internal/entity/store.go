package entity

import (
	"context"
	"errors"
)

var (
	ErrDocumentNotFound = errors.New("documento não encontrado")
	ErrStoreUnavailable = errors.New("store indisponível")
	ErrFieldNotArray    = errors.New("campo não é um array")
)

const (
	DefaultSponsorsCollection = "patrocinadores"
	ConversationsField        = "conversations"
	LegacyConversationsField  = "conversaciones"
)

// Document é a forma neutra trocada com o store: valores compatíveis com JSON
// (string, float64, bool, nil, []any, map[string]any).
type Document struct {
	ID     string
	Fields map[string]any
}

// DocumentStore é a fronteira com o banco remoto de documentos. Não conhece
// regras de negócio.
type DocumentStore interface {
	ListDocuments(ctx context.Context, collection string) ([]Document, error)
	CreateDocument(ctx context.Context, collection string, fields map[string]any) (string, error)
	// UpdateDocument sobrescreve cada campo informado; campos não informados
	// (como o log de conversas) ficam como estão.
	UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) error
	DeleteDocument(ctx context.Context, collection, id string) error
	// AppendToArrayField precisa ser atômico no servidor: nunca ler-modificar-gravar
	// o documento inteiro.
	AppendToArrayField(ctx context.Context, collection, id, field string, element any) error
}
