package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/patrocinios/internal/infra/http/middleware"
	"github.com/xavierca1/patrocinios/internal/usecase"
)

// SessionReaper descarta sessões de UI paradas há mais de idleTTL, liberando
// o cache e a edição pendente delas.
type SessionReaper struct {
	registry     *usecase.SessionRegistry
	idleTTL      time.Duration
	tickInterval time.Duration
	logger       *zap.Logger
}

func NewSessionReaper(registry *usecase.SessionRegistry, idleTTL time.Duration, logger *zap.Logger) *SessionReaper {
	if logger == nil {
		logger = zap.NewNop()
	}
	tick := idleTTL / 12
	if tick < time.Minute {
		tick = time.Minute
	}
	return &SessionReaper{
		registry:     registry,
		idleTTL:      idleTTL,
		tickInterval: tick,
		logger:       logger,
	}
}

func (w *SessionReaper) Start(ctx context.Context) {
	w.logger.Info("session reaper iniciado",
		zap.Duration("idle_ttl", w.idleTTL),
		zap.Duration("tick", w.tickInterval),
	)

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("session reaper encerrado")
			return
		case <-ticker.C:
			w.reap()
		}
	}
}

func (w *SessionReaper) reap() []string {
	ids := w.registry.Reap(w.idleTTL)
	middleware.SetOpenSessions(w.registry.Len())
	if len(ids) > 0 {
		middleware.RecordSessionsReaped(len(ids))
		w.logger.Info("sessões ociosas descartadas",
			zap.Int("count", len(ids)),
			zap.Strings("session_ids", ids),
		)
	}
	return ids
}
