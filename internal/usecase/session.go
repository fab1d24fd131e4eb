package usecase

import (
	"sort"
	"sync"
	"time"

	"github.com/xavierca1/patrocinios/internal/entity"
)

// Session é o estado de uma sessão de UI: o cache dos patrocinadores e o único
// ponteiro de edição. Nasce vazia, é populada por LoadAll e descartada no fim
// da sessão.
type Session struct {
	ID string

	mu         sync.RWMutex
	records    []entity.SponsorRecord
	loaded     bool
	editingID  string
	committing bool
	lastUsed   time.Time
	// writes conta as escritas locais no cache; LoadAll compara antes e depois
	writes uint64

	locksMu     sync.Mutex
	appendLocks map[string]*sync.Mutex
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:          id,
		lastUsed:    now,
		appendLocks: make(map[string]*sync.Mutex),
	}
}

// EditingID devolve "" quando nada está em edição.
func (s *Session) EditingID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editingID
}

func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) LastUsed() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUsed
}

// Close descarta o cache e a edição em andamento.
func (s *Session) Close() {
	s.mu.Lock()
	s.records = nil
	s.loaded = false
	s.editingID = ""
	s.mu.Unlock()
}

// sponsorLock serializa as operações de log de um mesmo patrocinador.
func (s *Session) sponsorLock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.appendLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.appendLocks[id] = l
	}
	return l
}

// SessionRegistry guarda as sessões abertas por ID (header X-Session-ID).
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	clock    Clock
}

func NewSessionRegistry(clock Clock) *SessionRegistry {
	if clock == nil {
		clock = SystemClock{}
	}
	return &SessionRegistry{
		sessions: make(map[string]*Session),
		clock:    clock,
	}
}

// Open devolve a sessão existente ou cria uma nova; created indica a criação.
func (r *SessionRegistry) Open(id string) (s *Session, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock.Now()
	if s, ok := r.sessions[id]; ok {
		s.Touch(now)
		return s, false
	}
	s = NewSession(id, now)
	r.sessions[id] = s
	return s, true
}

func (r *SessionRegistry) Close(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		s.Close()
	}
	return ok
}

// Reap fecha as sessões paradas há mais de idle e devolve seus IDs.
func (r *SessionRegistry) Reap(idle time.Duration) []string {
	cutoff := r.clock.Now().Add(-idle)

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.LastUsed().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	ids := make([]string, 0, len(expired))
	for _, s := range expired {
		s.Close()
		ids = append(ids, s.ID)
	}
	sort.Strings(ids)
	return ids
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
