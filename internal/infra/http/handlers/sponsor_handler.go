package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/patrocinios/internal/entity"
	"github.com/xavierca1/patrocinios/internal/infra/export"
	"github.com/xavierca1/patrocinios/internal/infra/http/middleware"
	"github.com/xavierca1/patrocinios/internal/usecase"
)

// DossierSender envia a ficha de um patrocinador por e-mail.
type DossierSender interface {
	SendDossier(to string, sponsor usecase.SponsorOutput) error
}

type SponsorHandler struct {
	Repo          *usecase.SponsorRepository
	Lifecycle     *usecase.LifecycleEngine
	Conversations *usecase.ConversationLog
	Mailer        DossierSender
	Logger        *zap.Logger
}

func NewSponsorHandler(
	repo *usecase.SponsorRepository,
	lifecycle *usecase.LifecycleEngine,
	conversations *usecase.ConversationLog,
	mailer DossierSender,
	logger *zap.Logger,
) *SponsorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SponsorHandler{
		Repo:          repo,
		Lifecycle:     lifecycle,
		Conversations: conversations,
		Mailer:        mailer,
		Logger:        logger,
	}
}

type SponsorListResponse struct {
	Sponsors  []usecase.SponsorOutput `json:"sponsors"`
	EditingID string                  `json:"editing_id"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

type DossierRequest struct {
	To string `json:"to"`
}

// session devolve a sessão da requisição, carregando o cache no primeiro uso.
func (h *SponsorHandler) session(w http.ResponseWriter, r *http.Request) (*usecase.Session, bool) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusInternalServerError, "NO_SESSION", "sessão não encontrada no contexto")
		return nil, false
	}
	if !s.Loaded() {
		if _, err := h.Repo.LoadAll(r.Context(), s); err != nil {
			writeUseCaseError(w, h.Logger, err)
			return nil, false
		}
	}
	return s, true
}

func (h *SponsorHandler) listResponse(s *usecase.Session, scope entity.Scope) SponsorListResponse {
	editing := s.EditingID()
	records := h.Repo.List(s, scope)
	out := SponsorListResponse{
		Sponsors:  make([]usecase.SponsorOutput, 0, len(records)),
		EditingID: editing,
	}
	for _, rec := range records {
		out.Sponsors = append(out.Sponsors, usecase.NewSponsorOutput(rec, editing))
	}
	return out
}

func scopeParam(r *http.Request) entity.Scope {
	raw := strings.TrimSpace(r.URL.Query().Get("scope"))
	if raw == "" {
		return ""
	}
	return entity.ParseScope(raw)
}

// List (GET /sponsors?scope=)
func (h *SponsorHandler) List(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.listResponse(s, scopeParam(r)))
}

// Reload (POST /sponsors/reload) relê tudo do store.
func (h *SponsorHandler) Reload(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusInternalServerError, "NO_SESSION", "sessão não encontrada no contexto")
		return
	}
	if _, err := h.Repo.LoadAll(r.Context(), s); err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, h.listResponse(s, scopeParam(r)))
}

// Create (POST /sponsors)
func (h *SponsorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.SponsorInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	draft, err := input.ToDraft("")
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}

	rec, err := h.Lifecycle.Create(r.Context(), s, draft)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, usecase.NewSponsorOutput(rec, s.EditingID()))
}

// BeginEdit (POST /sponsors/{id}/edit)
func (h *SponsorHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	rec, err := h.Lifecycle.BeginEdit(s, chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, usecase.NewSponsorOutput(rec, s.EditingID()))
}

// CancelEdit (DELETE /sponsors/{id}/edit)
func (h *SponsorHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFromContext(r.Context())
	if ok {
		h.Lifecycle.CancelEdit(s)
	}
	w.WriteHeader(http.StatusNoContent)
}

// CommitEdit (PUT /sponsors/{id}) sobrescreve o registro em edição.
func (h *SponsorHandler) CommitEdit(w http.ResponseWriter, r *http.Request) {
	var input usecase.SponsorInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	draft, err := input.ToDraft(chi.URLParam(r, "id"))
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}

	rec, err := h.Lifecycle.CommitEdit(r.Context(), s, draft)
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, usecase.NewSponsorOutput(rec, s.EditingID()))
}

// Delete (DELETE /sponsors/{id}?confirm=true). Sem confirm=true nada é apagado.
func (h *SponsorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	confirmed := r.URL.Query().Get("confirm") == "true"
	if err := h.Lifecycle.Delete(r.Context(), s, chi.URLParam(r, "id"), confirmed); err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteResponse{Deleted: confirmed})
}

// AppendConversation (POST /sponsors/{id}/conversations). Texto em branco
// devolve 204 sem gravar nada.
func (h *SponsorHandler) AppendConversation(w http.ResponseWriter, r *http.Request) {
	var input usecase.ConversationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	entry, err := h.Conversations.Append(r.Context(), s, chi.URLParam(r, "id"), input.Content, entity.Channel(input.Channel))
	if err != nil {
		writeUseCaseError(w, h.Logger, err)
		return
	}
	if entry == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, usecase.ConversationOutput{
		Timestamp: entry.Timestamp,
		Content:   entry.Content,
		Channel:   string(entry.Channel),
	})
}

// Export (GET /sponsors/export.xlsx?scope=)
func (h *SponsorHandler) Export(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	list := h.listResponse(s, scopeParam(r))
	raw, err := export.Workbook(list.Sponsors)
	if err != nil {
		h.Logger.Error("falha ao gerar planilha", zap.Error(err))
		writeErrorResponse(w, http.StatusInternalServerError, "EXPORT_ERROR", "erro ao gerar planilha")
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="patrocinadores.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

// SendDossier (POST /sponsors/{id}/dossier)
func (h *SponsorHandler) SendDossier(w http.ResponseWriter, r *http.Request) {
	if h.Mailer == nil {
		writeErrorResponse(w, http.StatusServiceUnavailable, "MAIL_NOT_CONFIGURED", "envio de e-mail não configurado")
		return
	}

	var req DossierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}
	if strings.TrimSpace(req.To) == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FIELDS", "to é obrigatório")
		return
	}

	s, ok := h.session(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	rec, found := h.Repo.Get(s, id)
	if !found {
		writeErrorResponse(w, http.StatusNotFound, usecase.CodeNotFound, "patrocinador não encontrado: "+id)
		return
	}

	if err := h.Mailer.SendDossier(req.To, usecase.NewSponsorOutput(rec, s.EditingID())); err != nil {
		h.Logger.Error("falha ao enviar dossier", zap.String("sponsor_id", id), zap.Error(err))
		writeErrorResponse(w, http.StatusBadGateway, "MAIL_ERROR", "falha ao enviar e-mail")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
