package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/xavierca1/patrocinios/internal/usecase"
)

const (
	SessionHeader    = "X-Session-ID"
	DefaultSessionID = "default"
)

type sessionKey struct{}

// Session abre (ou reaproveita) a sessão indicada pelo header X-Session-ID e
// a coloca no contexto da requisição.
func Session(registry *usecase.SessionRegistry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := SessionID(r)
			s, created := registry.Open(id)
			if created {
				SetOpenSessions(registry.Len())
			}
			ctx := context.WithValue(r.Context(), sessionKey{}, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionID devolve o valor do header ou DefaultSessionID.
func SessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(SessionHeader)); id != "" {
		return id
	}
	return DefaultSessionID
}

func SessionFromContext(ctx context.Context) (*usecase.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*usecase.Session)
	return s, ok
}
