package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/patrocinios/internal/usecase"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestSessionReaper_DiscardsOnlyIdleSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
	registry := usecase.NewSessionRegistry(clock)
	registry.Open("manha")

	clock.Advance(3 * time.Hour)
	registry.Open("tarde")

	clock.Advance(2 * time.Hour)
	reaper := NewSessionReaper(registry, 4*time.Hour, nil)

	ids := reaper.reap()

	assert.Equal(t, []string{"manha"}, ids)
	assert.Equal(t, 1, registry.Len())
}

func TestSessionReaper_TouchKeepsSessionAlive(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
	registry := usecase.NewSessionRegistry(clock)
	registry.Open("a")

	clock.Advance(3 * time.Hour)
	registry.Open("a")
	clock.Advance(3 * time.Hour)

	ids := NewSessionReaper(registry, 4*time.Hour, nil).reap()

	assert.Empty(t, ids)
	assert.Equal(t, 1, registry.Len())
}

func TestSessionReaper_TickHasFloor(t *testing.T) {
	reaper := NewSessionReaper(usecase.NewSessionRegistry(nil), time.Second, nil)
	assert.Equal(t, time.Minute, reaper.tickInterval)
}

func TestSessionReaper_StopsOnCancel(t *testing.T) {
	reaper := NewSessionReaper(usecase.NewSessionRegistry(nil), time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		reaper.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reaper não parou após cancelamento")
	}
}
