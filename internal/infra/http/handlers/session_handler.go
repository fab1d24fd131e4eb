package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/patrocinios/internal/infra/http/middleware"
	"github.com/xavierca1/patrocinios/internal/usecase"
)

type SessionHandler struct {
	Registry *usecase.SessionRegistry
	Logger   *zap.Logger
}

func NewSessionHandler(registry *usecase.SessionRegistry, logger *zap.Logger) *SessionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionHandler{Registry: registry, Logger: logger}
}

// Close (DELETE /session) descarta o cache e a edição da sessão.
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	id := middleware.SessionID(r)
	if h.Registry.Close(id) {
		h.Logger.Info("sessão encerrada", zap.String("session_id", id))
	}
	middleware.SetOpenSessions(h.Registry.Len())
	w.WriteHeader(http.StatusNoContent)
}
