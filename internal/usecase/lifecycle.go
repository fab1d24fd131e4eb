package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/patrocinios/internal/entity"
)

// LifecycleEngine valida e aplica criação, edição e exclusão de patrocinadores.
// Status não tem estado terminal: qualquer transição é aceita, para permitir
// corrigir cliques errados.
type LifecycleEngine struct {
	Repo   *SponsorRepository
	Events EventPublisher
	Clock  Clock
	Logger *zap.Logger
}

func NewLifecycleEngine(repo *SponsorRepository, events EventPublisher, clock Clock, logger *zap.Logger) *LifecycleEngine {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleEngine{
		Repo:   repo,
		Events: events,
		Clock:  clock,
		Logger: logger,
	}
}

func (e *LifecycleEngine) Create(ctx context.Context, s *Session, draft entity.SponsorRecord) (entity.SponsorRecord, error) {
	if errs := ValidateSponsorDraft(draft); len(errs) > 0 {
		return entity.SponsorRecord{}, validationFailed(errs)
	}

	rec := normalizeDraft(draft)
	rec.ID = ""
	rec.Conversations = nil
	if rec.Status == "" {
		rec.Status = entity.StatusPending
	}
	if rec.Scope == "" {
		rec.Scope = entity.ScopeLocal
	}
	if rec.ContactDate.IsZero() {
		rec.ContactDate = entity.Today(e.Clock.Now())
	}

	id, err := e.Repo.store.CreateDocument(ctx, e.Repo.collection, rec.CreateFields())
	if err != nil {
		return entity.SponsorRecord{}, storeError("criar patrocinador", "", err)
	}
	if id == "" {
		return entity.SponsorRecord{}, &TechnicalError{
			Code:    CodeStoreUnavailable,
			Message: "store não devolveu o id do documento",
		}
	}
	rec.ID = id

	e.Repo.UpsertLocal(s, rec)
	e.publish(ctx, s, entity.EventSponsorCreated, rec)
	return rec.Clone(), nil
}

// BeginEdit aponta a edição para id, descartando qualquer edição anterior.
func (e *LifecycleEngine) BeginEdit(s *Session, id string) (entity.SponsorRecord, error) {
	rec, ok := e.Repo.Get(s, id)
	if !ok {
		return entity.SponsorRecord{}, notFound(id)
	}

	s.mu.Lock()
	s.editingID = id
	s.mu.Unlock()

	return rec, nil
}

func (e *LifecycleEngine) CancelEdit(s *Session) {
	s.mu.Lock()
	s.editingID = ""
	s.mu.Unlock()
}

// CommitEdit grava o rascunho inteiro (sobrescrita, sem patch por campo). O log
// de conversas não vai no update: ele pertence ao ConversationLog.
func (e *LifecycleEngine) CommitEdit(ctx context.Context, s *Session, draft entity.SponsorRecord) (entity.SponsorRecord, error) {
	s.mu.Lock()
	switch {
	case s.editingID == "":
		s.mu.Unlock()
		return entity.SponsorRecord{}, stateError("nenhuma edição em andamento")
	case draft.ID != s.editingID:
		editing := s.editingID
		s.mu.Unlock()
		return entity.SponsorRecord{}, stateError(fmt.Sprintf("edição em andamento é de %s, não de %s", editing, draft.ID))
	case s.committing:
		s.mu.Unlock()
		return entity.SponsorRecord{}, stateError("já existe um commit em andamento nesta sessão")
	}
	s.committing = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.committing = false
		s.mu.Unlock()
	}()

	if errs := ValidateSponsorDraft(draft); len(errs) > 0 {
		return entity.SponsorRecord{}, validationFailed(errs)
	}

	rec := normalizeDraft(draft)
	rec.Conversations = nil
	if current, ok := e.Repo.Get(s, rec.ID); ok {
		rec.Conversations = current.Conversations
	}

	if err := e.Repo.store.UpdateDocument(ctx, e.Repo.collection, rec.ID, rec.RecordFields()); err != nil {
		return entity.SponsorRecord{}, storeError("atualizar patrocinador", rec.ID, err)
	}

	e.Repo.UpsertLocal(s, rec)

	s.mu.Lock()
	if s.editingID == rec.ID {
		s.editingID = ""
	}
	s.mu.Unlock()

	e.publish(ctx, s, entity.EventSponsorUpdated, rec)
	return rec.Clone(), nil
}

// Delete só age com confirmed == true; sem confirmação é um no-op.
func (e *LifecycleEngine) Delete(ctx context.Context, s *Session, id string, confirmed bool) error {
	if !confirmed {
		return nil
	}

	rec, _ := e.Repo.Get(s, id)

	if err := e.Repo.store.DeleteDocument(ctx, e.Repo.collection, id); err != nil {
		return storeError("excluir patrocinador", id, err)
	}

	e.Repo.RemoveLocal(s, id)

	s.mu.Lock()
	if s.editingID == id {
		s.editingID = ""
	}
	s.mu.Unlock()

	rec.ID = id
	e.publish(ctx, s, entity.EventSponsorDeleted, rec)
	return nil
}

func (e *LifecycleEngine) publish(ctx context.Context, s *Session, typ entity.EventType, rec entity.SponsorRecord) {
	if e.Events == nil {
		return
	}
	event := entity.SponsorEvent{
		Type:       typ,
		SponsorID:  rec.ID,
		SessionID:  s.ID,
		Name:       rec.Name,
		Scope:      rec.Scope,
		Status:     rec.Status,
		OccurredAt: e.Clock.Now(),
	}
	// a operação já foi confirmada pelo store; falha aqui não desfaz nada
	if err := e.Events.PublishSponsorEvent(ctx, event); err != nil {
		e.Logger.Warn("falha ao publicar evento",
			zap.String("type", string(typ)),
			zap.String("sponsor_id", rec.ID),
			zap.Error(err),
		)
	}
}

func normalizeDraft(draft entity.SponsorRecord) entity.SponsorRecord {
	rec := draft.Clone()
	rec.Scope = entity.ParseScope(string(rec.Scope))
	rec.Status = entity.ParseStatus(string(rec.Status))
	rec.InterestAreas = entity.NormalizeInterests(rec.InterestAreas)
	if !rec.ContactDate.IsZero() {
		rec.ContactDate = entity.Today(rec.ContactDate)
	}
	return rec
}
