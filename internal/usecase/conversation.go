package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/patrocinios/internal/entity"
)

// ConversationLog registra entradas imutáveis no histórico de contatos. Não
// existe edição nem exclusão de entradas.
type ConversationLog struct {
	Repo   *SponsorRepository
	Events EventPublisher
	Clock  Clock
	Logger *zap.Logger
}

func NewConversationLog(repo *SponsorRepository, events EventPublisher, clock Clock, logger *zap.Logger) *ConversationLog {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConversationLog{
		Repo:   repo,
		Events: events,
		Clock:  clock,
		Logger: logger,
	}
}

// Append devolve (nil, nil) para texto em branco: é ignorado, não é erro.
// Canal vazio vira entity.DefaultChannel.
func (l *ConversationLog) Append(ctx context.Context, s *Session, sponsorID, text string, channel entity.Channel) (*entity.ConversationEntry, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	// mesma sessão + mesmo patrocinador: uma append por vez, na ordem das chamadas
	lock := s.sponsorLock(sponsorID)
	lock.Lock()
	defer lock.Unlock()

	entry := entity.ConversationEntry{
		Timestamp: l.Clock.Now().UTC(),
		Content:   text,
		Channel:   entity.ParseChannel(string(channel)),
	}
	if cached, ok := l.Repo.Get(s, sponsorID); ok {
		// estritamente depois da última entrada: duas entradas nunca ficam
		// iguais, mesmo com o relógio voltando
		if last := cached.LastConversationAt(); !last.IsZero() && !entry.Timestamp.After(last) {
			entry.Timestamp = last.Add(time.Nanosecond)
		}
	}

	err := l.Repo.store.AppendToArrayField(ctx, l.Repo.collection, sponsorID, entity.ConversationsField, entry.Fields())
	if err != nil {
		return nil, storeError("registrar conversa", sponsorID, err)
	}

	l.Repo.appendLocal(s, sponsorID, entry)

	if l.Events != nil {
		event := entity.SponsorEvent{
			Type:       entity.EventConversationAppended,
			SponsorID:  sponsorID,
			SessionID:  s.ID,
			Channel:    entry.Channel,
			OccurredAt: entry.Timestamp,
		}
		if err := l.Events.PublishSponsorEvent(ctx, event); err != nil {
			l.Logger.Warn("falha ao publicar evento",
				zap.String("type", string(event.Type)),
				zap.String("sponsor_id", sponsorID),
				zap.Error(err),
			)
		}
	}

	return &entry, nil
}
