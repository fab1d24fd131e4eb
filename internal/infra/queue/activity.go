package queue

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xavierca1/patrocinios/internal/entity"
	"github.com/xavierca1/patrocinios/internal/infra/http/middleware"
)

// ActivityRecorder é o EventHandler padrão: conta o evento no Prometheus e
// deixa uma linha no log de atividade.
type ActivityRecorder struct {
	Logger *zap.Logger
}

func NewActivityRecorder(logger *zap.Logger) *ActivityRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityRecorder{Logger: logger}
}

func (a *ActivityRecorder) HandleSponsorEvent(_ context.Context, event entity.SponsorEvent) error {
	if event.Type == "" || event.SponsorID == "" {
		return fmt.Errorf("evento incompleto: type=%q sponsor_id=%q", event.Type, event.SponsorID)
	}

	middleware.RecordSponsorEvent(string(event.Type))

	fields := []zap.Field{
		zap.String("type", string(event.Type)),
		zap.String("sponsor_id", event.SponsorID),
		zap.String("session_id", event.SessionID),
		zap.Time("occurred_at", event.OccurredAt),
	}
	if event.Name != "" {
		fields = append(fields, zap.String("name", event.Name))
	}
	if event.Status != "" {
		fields = append(fields, zap.String("status", string(event.Status)))
	}
	if event.Channel != "" {
		fields = append(fields, zap.String("channel", string(event.Channel)))
	}
	a.Logger.Info("atividade de patrocinador", fields...)
	return nil
}
