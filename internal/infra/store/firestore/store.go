// Package firestore fala com a API REST do Firestore via resty. Cada
// coleção do Firestore é uma coleção do entity.DocumentStore.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/xavierca1/patrocinios/internal/entity"
)

const (
	DefaultBaseURL = "https://firestore.googleapis.com/v1"
	listPageSize   = "300"
)

var _ entity.DocumentStore = (*Store)(nil)

type Config struct {
	BaseURL   string
	ProjectID string
	APIKey    string
	Timeout   time.Duration
}

type Store struct {
	client    *resty.Client
	projectID string
	apiKey    string
	logger    *zap.Logger
}

type document struct {
	Name   string           `json:"name,omitempty"`
	Fields map[string]value `json:"fields,omitempty"`
}

type listResponse struct {
	Documents     []document `json:"documents"`
	NextPageToken string     `json:"nextPageToken"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

type commitRequest struct {
	Writes []write `json:"writes"`
}

type write struct {
	Transform       *documentTransform `json:"transform,omitempty"`
	CurrentDocument *precondition      `json:"currentDocument,omitempty"`
}

type documentTransform struct {
	Document        string           `json:"document"`
	FieldTransforms []fieldTransform `json:"fieldTransforms"`
}

type fieldTransform struct {
	FieldPath             string      `json:"fieldPath"`
	AppendMissingElements *arrayValue `json:"appendMissingElements,omitempty"`
}

type precondition struct {
	Exists bool `json:"exists"`
}

func NewStore(cfg Config, logger *zap.Logger) (*Store, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("FIRESTORE_PROJECT_ID é obrigatório")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Store{
		client:    client,
		projectID: cfg.ProjectID,
		apiKey:    cfg.APIKey,
		logger:    logger,
	}, nil
}

func (s *Store) documentsRoot() string {
	return fmt.Sprintf("projects/%s/databases/(default)/documents", s.projectID)
}

func (s *Store) collectionPath(collection string) string {
	return "/" + s.documentsRoot() + "/" + url.PathEscape(collection)
}

func (s *Store) documentName(collection, id string) string {
	return s.documentsRoot() + "/" + collection + "/" + id
}

func (s *Store) request(ctx context.Context) *resty.Request {
	req := s.client.R().SetContext(ctx).SetError(&apiError{})
	if s.apiKey != "" {
		req.SetQueryParam("key", s.apiKey)
	}
	return req
}

func (s *Store) ListDocuments(ctx context.Context, collection string) ([]entity.Document, error) {
	var docs []entity.Document
	pageToken := ""
	for {
		var page listResponse
		req := s.request(ctx).
			SetQueryParam("pageSize", listPageSize).
			SetResult(&page)
		if pageToken != "" {
			req.SetQueryParam("pageToken", pageToken)
		}

		resp, err := req.Get(s.collectionPath(collection))
		if err := s.check("listar documentos", resp, err); err != nil {
			return nil, err
		}

		for _, d := range page.Documents {
			docs = append(docs, entity.Document{
				ID:     idFromName(d.Name),
				Fields: decodeFields(d.Fields),
			})
		}
		if page.NextPageToken == "" {
			return docs, nil
		}
		pageToken = page.NextPageToken
	}
}

func (s *Store) CreateDocument(ctx context.Context, collection string, fields map[string]any) (string, error) {
	encoded, err := encodeFields(fields)
	if err != nil {
		return "", err
	}

	var created document
	resp, err := s.request(ctx).
		SetBody(document{Fields: encoded}).
		SetResult(&created).
		Post(s.collectionPath(collection))
	if err := s.check("criar documento", resp, err); err != nil {
		return "", err
	}

	id := idFromName(created.Name)
	if id == "" {
		return "", fmt.Errorf("%w: resposta de criação sem nome de documento", entity.ErrStoreUnavailable)
	}
	return id, nil
}

// UpdateDocument usa updateMask só com as chaves informadas; as demais
// chaves do documento ficam como estão.
func (s *Store) UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) error {
	encoded, err := encodeFields(fields)
	if err != nil {
		return err
	}

	params := url.Values{}
	for _, k := range sortedKeys(fields) {
		params.Add("updateMask.fieldPaths", quoteFieldPath(k))
	}
	params.Set("currentDocument.exists", "true")

	resp, err := s.request(ctx).
		SetQueryParamsFromValues(params).
		SetBody(document{Fields: encoded}).
		Patch(s.collectionPath(collection) + "/" + url.PathEscape(id))
	return s.check("atualizar documento", resp, err)
}

func (s *Store) DeleteDocument(ctx context.Context, collection, id string) error {
	resp, err := s.request(ctx).
		SetQueryParam("currentDocument.exists", "true").
		Delete(s.collectionPath(collection) + "/" + url.PathEscape(id))
	return s.check("excluir documento", resp, err)
}

// AppendToArrayField usa o transform appendMissingElements, aplicado no
// servidor: appends concorrentes não se sobrescrevem.
func (s *Store) AppendToArrayField(ctx context.Context, collection, id, field string, element any) error {
	enc, err := encodeValue(element)
	if err != nil {
		return err
	}

	body := commitRequest{Writes: []write{{
		Transform: &documentTransform{
			Document: s.documentName(collection, id),
			FieldTransforms: []fieldTransform{{
				FieldPath:             quoteFieldPath(field),
				AppendMissingElements: &arrayValue{Values: []value{enc}},
			}},
		},
		CurrentDocument: &precondition{Exists: true},
	}}}

	resp, err := s.request(ctx).
		SetBody(body).
		Post("/" + s.documentsRoot() + ":commit")
	return s.check("registrar elemento", resp, err)
}

// check traduz a resposta: 404 ou NOT_FOUND vira ErrDocumentNotFound, o resto
// vira ErrStoreUnavailable.
func (s *Store) check(op string, resp *resty.Response, err error) error {
	if err != nil {
		s.logger.Error("firestore indisponível", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%w: erro ao %s: %w", entity.ErrStoreUnavailable, op, err)
	}
	if !resp.IsError() {
		return nil
	}

	status := ""
	if apiErr, ok := resp.Error().(*apiError); ok && apiErr != nil {
		status = apiErr.Error.Status
	}
	if resp.StatusCode() == http.StatusNotFound || status == "NOT_FOUND" {
		return entity.ErrDocumentNotFound
	}

	s.logger.Error("firestore respondeu com erro",
		zap.String("op", op),
		zap.Int("status_code", resp.StatusCode()),
		zap.String("status", status),
	)
	return fmt.Errorf("%w: erro ao %s: HTTP %d %s", entity.ErrStoreUnavailable, op, resp.StatusCode(), status)
}

func idFromName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}

// quoteFieldPath aplica crase em nomes que não são identificadores simples.
func quoteFieldPath(field string) string {
	for i, r := range field {
		simple := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9')
		if !simple {
			return "`" + strings.ReplaceAll(field, "`", "\\`") + "`"
		}
	}
	return field
}
