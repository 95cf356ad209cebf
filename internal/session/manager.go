package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrSessionNotFound = errors.New("session not found")

type entry struct {
	mu       sync.Mutex
	id       string
	clientID primitive.ObjectID
	rt       *Runtime
	lastUsed time.Time
	evicted  bool
}

// Manager keeps the live runtimes of this process. Each runtime is guarded by its own
// mutex; a client holds at most one live session.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	byClient map[primitive.ObjectID]string
	idleTTL  time.Duration
	now      func() time.Time
}

func NewManager(idleTTL time.Duration, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		sessions: make(map[string]*entry),
		byClient: make(map[primitive.ObjectID]string),
		idleTTL:  idleTTL,
		now:      now,
	}
}

// Add registers rt and returns its session id. A previous live session of the same client
// is dropped.
func (m *Manager) Add(rt *Runtime) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.byClient[rt.ClientID()]; ok {
		delete(m.sessions, old)
		log.WithFields(log.Fields{"client": rt.ClientID().Hex(), "session": old}).Info("replacing live session")
	}
	id := uuid.NewString()
	m.sessions[id] = &entry{id: id, clientID: rt.ClientID(), rt: rt, lastUsed: m.now()}
	m.byClient[rt.ClientID()] = id
	return id
}

func (m *Manager) lookup(id string, clientID primitive.ObjectID) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok || e.clientID != clientID {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

// With runs fn on the runtime of session id while holding its lock. Sessions of other
// clients are reported as not found. Closed sessions are dropped afterwards.
func (m *Manager) With(id string, clientID primitive.ObjectID, fn func(*Runtime) error) error {
	e, err := m.lookup(id, clientID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.evicted {
		e.mu.Unlock()
		return ErrSessionNotFound
	}
	err = fn(e.rt)
	closed := e.rt.Phase() == PhaseClosed
	e.lastUsed = m.now()
	e.mu.Unlock()

	if closed {
		m.Remove(id)
	}
	return err
}

// ActiveFor returns the live session id of a client.
func (m *Manager) ActiveFor(clientID primitive.ObjectID) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byClient[clientID]
	return id, ok
}

func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return
	}
	delete(m.sessions, id)
	if m.byClient[e.clientID] == id {
		delete(m.byClient, e.clientID)
	}
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Evict drops sessions unused for longer than the idle TTL and returns how many went away.
func (m *Manager) Evict() int {
	if m.idleTTL <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.idleTTL)

	m.mu.Lock()
	defer m.mu.Unlock()
	evicted := 0
	for id, e := range m.sessions {
		// a runtime locked by With is in use, not idle
		if !e.mu.TryLock() {
			continue
		}
		if e.lastUsed.Before(cutoff) {
			e.evicted = true
			delete(m.sessions, id)
			if m.byClient[e.clientID] == id {
				delete(m.byClient, e.clientID)
			}
			evicted++
		}
		e.mu.Unlock()
	}
	return evicted
}

// Run evicts idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Evict(); n > 0 {
				log.Infof("evicted %d idle sessions", n)
			}
		}
	}
}
