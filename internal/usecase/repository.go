package usecase

import (
	"context"

	"github.com/xavierca1/patrocinios/internal/entity"
)

// SponsorRepository espelha o store no cache da sessão. O cache só muda depois
// que o store confirmou a operação (write-through).
type SponsorRepository struct {
	store      entity.DocumentStore
	collection string
}

func NewSponsorRepository(store entity.DocumentStore, collection string) *SponsorRepository {
	if collection == "" {
		collection = entity.DefaultSponsorsCollection
	}
	return &SponsorRepository{store: store, collection: collection}
}

func (r *SponsorRepository) Collection() string {
	return r.collection
}

// maxLoadAttempts limita quantas vezes LoadAll relê a coleção quando uma
// escrita local confirmada cai no meio da leitura.
const maxLoadAttempts = 5

// LoadAll substitui o cache inteiro. Em caso de falha o cache fica vazio e o
// erro é devolvido, sem retry: "lista vazia" e "falha ao carregar" se
// distinguem pelo erro, nunca pelo tamanho do resultado.
//
// Se o cache recebeu uma escrita enquanto a lista era lida, a lista pode ser
// anterior a ela; nesse caso a coleção é lida de novo, já com a escrita no store.
func (r *SponsorRepository) LoadAll(ctx context.Context, s *Session) ([]entity.SponsorRecord, error) {
	for attempt := 1; ; attempt++ {
		s.mu.RLock()
		gen := s.writes
		s.mu.RUnlock()

		docs, err := r.store.ListDocuments(ctx, r.collection)
		if err != nil {
			s.mu.Lock()
			s.records = nil
			s.loaded = false
			s.mu.Unlock()
			return nil, &TechnicalError{
				Code:    CodeStoreUnavailable,
				Message: "falha ao carregar patrocinadores",
				Err:     err,
			}
		}

		records := decodeAll(docs)

		s.mu.Lock()
		if s.writes != gen && attempt < maxLoadAttempts {
			s.mu.Unlock()
			continue
		}
		s.records = records
		s.loaded = true
		s.mu.Unlock()

		return cloneAll(records), nil
	}
}

// decodeAll mantém a ordem do store; ids repetidos ficam com a última versão.
func decodeAll(docs []entity.Document) []entity.SponsorRecord {
	records := make([]entity.SponsorRecord, 0, len(docs))
	index := make(map[string]int, len(docs))
	for _, doc := range docs {
		rec := entity.SponsorFromDocument(doc)
		if i, dup := index[rec.ID]; dup {
			records[i] = rec
			continue
		}
		index[rec.ID] = len(records)
		records = append(records, rec)
	}
	return records
}

// UpsertLocal substitui o registro com o mesmo ID ou adiciona no fim.
func (r *SponsorRepository) UpsertLocal(s *Session, rec entity.SponsorRecord) {
	rec = rec.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	for i := range s.records {
		if s.records[i].ID == rec.ID {
			s.records[i] = rec
			return
		}
	}
	s.records = append(s.records, rec)
}

// RemoveLocal não faz nada se o ID não estiver no cache.
func (r *SponsorRepository) RemoveLocal(s *Session, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i:i], s.records[i+1:]...)
			return
		}
	}
}

func (r *SponsorRepository) Get(s *Session, id string) (entity.SponsorRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec.Clone(), true
		}
	}
	return entity.SponsorRecord{}, false
}

// List filtra pela classificação (as abas da UI); scope vazio devolve todos.
func (r *SponsorRepository) List(s *Session, scope entity.Scope) []entity.SponsorRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.SponsorRecord, 0, len(s.records))
	for _, rec := range s.records {
		if scope != "" && rec.Scope != scope {
			continue
		}
		out = append(out, rec.Clone())
	}
	return out
}

func (r *SponsorRepository) appendLocal(s *Session, id string, entry entity.ConversationEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	for i := range s.records {
		if s.records[i].ID == id {
			convs := make([]entity.ConversationEntry, 0, len(s.records[i].Conversations)+1)
			convs = append(convs, s.records[i].Conversations...)
			s.records[i].Conversations = append(convs, entry)
			return
		}
	}
}

func cloneAll(records []entity.SponsorRecord) []entity.SponsorRecord {
	out := make([]entity.SponsorRecord, len(records))
	for i := range records {
		out[i] = records[i].Clone()
	}
	return out
}
