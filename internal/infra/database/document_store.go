package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/xavierca1/patrocinios/internal/entity"
)

var _ entity.DocumentStore = (*DocumentStore)(nil)

// DocumentStore guarda cada documento como uma linha JSONB na tabela documents.
type DocumentStore struct {
	DB      *sql.DB
	timeout time.Duration
}

func NewDocumentStore(db *sql.DB, timeout time.Duration) *DocumentStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &DocumentStore{DB: db, timeout: timeout}
}

func (r *DocumentStore) ListDocuments(ctx context.Context, collection string) ([]entity.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT id, fields FROM documents WHERE collection = $1 ORDER BY seq ASC`
	rows, err := r.DB.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, classify("listar documentos", err)
	}
	defer rows.Close()

	var docs []entity.Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, classify("ler documento", err)
		}
		fields := map[string]any{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("%w: documento %s com JSON inválido: %v", entity.ErrStoreUnavailable, id, err)
		}
		docs = append(docs, entity.Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, classify("listar documentos", err)
	}
	return docs, nil
}

func (r *DocumentStore) CreateDocument(ctx context.Context, collection string, fields map[string]any) (string, error) {
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("campos inválidos: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	id := uuid.NewString()
	query := `INSERT INTO documents (collection, id, fields) VALUES ($1, $2, $3::jsonb)`
	if _, err := r.DB.ExecContext(ctx, query, collection, id, string(raw)); err != nil {
		return "", classify("criar documento", err)
	}
	return id, nil
}

// UpdateDocument faz merge raso: as chaves informadas substituem as gravadas.
func (r *DocumentStore) UpdateDocument(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("campos inválidos: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE documents
		SET fields = fields || $3::jsonb, updated_at = NOW()
		WHERE collection = $1 AND id = $2
	`
	res, err := r.DB.ExecContext(ctx, query, collection, id, string(raw))
	if err != nil {
		return classify("atualizar documento", err)
	}
	return expectOneRow(res)
}

func (r *DocumentStore) DeleteDocument(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`
	res, err := r.DB.ExecContext(ctx, query, collection, id)
	if err != nil {
		return classify("excluir documento", err)
	}
	return expectOneRow(res)
}

// AppendToArrayField é um único UPDATE: o Postgres trava a linha, então appends
// concorrentes de outras sessões se somam em vez de se sobrescreverem. O UPDATE
// só casa se o campo não existe ou já é um array; sem linha afetada, uma
// segunda consulta separa documento inexistente de campo com outro tipo.
func (r *DocumentStore) AppendToArrayField(ctx context.Context, collection, id, field string, element any) error {
	raw, err := json.Marshal(element)
	if err != nil {
		return fmt.Errorf("elemento inválido: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `
		UPDATE documents
		SET fields = jsonb_set(
				fields,
				$3::text[],
				CASE WHEN jsonb_typeof(fields #> $3::text[]) = 'array'
					THEN fields #> $3::text[]
					ELSE '[]'::jsonb
				END || jsonb_build_array($4::jsonb),
				true
			),
			updated_at = NOW()
		WHERE collection = $1 AND id = $2
		  AND COALESCE(jsonb_typeof(fields #> $3::text[]), 'array') IN ('array', 'null')
	`
	path := pq.Array([]string{field})
	res, err := r.DB.ExecContext(ctx, query, collection, id, path, string(raw))
	if err != nil {
		return classify("registrar elemento", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}
	if n > 0 {
		return nil
	}

	var kind sql.NullString
	err = r.DB.QueryRowContext(ctx,
		`SELECT jsonb_typeof(fields #> $3::text[]) FROM documents WHERE collection = $1 AND id = $2`,
		collection, id, path,
	).Scan(&kind)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrDocumentNotFound
	}
	if err != nil {
		return classify("registrar elemento", err)
	}
	return fmt.Errorf("%w: %s é %s", entity.ErrFieldNotArray, field, kind.String)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrStoreUnavailable, err)
	}
	if n == 0 {
		return entity.ErrDocumentNotFound
	}
	return nil
}

// classify: id que não é UUID (22P02) nunca existe na tabela; o resto é
// tratado como store indisponível.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return entity.ErrDocumentNotFound
	}
	return fmt.Errorf("%w: erro ao %s: %w", entity.ErrStoreUnavailable, op, err)
}
