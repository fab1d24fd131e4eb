package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/patrocinios/internal/entity"
)

// EventPublisher recebe eventos de operações já confirmadas pelo store.
type EventPublisher interface {
	PublishSponsorEvent(ctx context.Context, event entity.SponsorEvent) error
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

// Now em UTC e sem leitura monotônica, para comparar igual depois de ida e
// volta pelo store.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
