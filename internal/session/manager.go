package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/catshop/storefront/internal/cart"
)

const (
	// DefaultTTL is how long an idle session stays alive.
	DefaultTTL = 30 * time.Minute

	// CleanupInterval is how often the expiry sweep runs.
	CleanupInterval = time.Minute
)

// Session is one visitor's interactive session. The cart for a session is
// created empty when the session starts and is discarded when it ends.
type Session struct {
	ID        string
	CreatedAt time.Time
	LastSeen  time.Time
}

// Manager owns session lifecycle: explicit creation, idle expiry and
// explicit disposal. Ending a session (explicitly or by expiry) clears
// its cart, which is how cart state stays strictly session-scoped.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	carts    cart.Store
	log      *logrus.Logger

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewManager(carts cart.Store, ttl time.Duration, log *logrus.Logger) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		sessions:    make(map[string]*Session),
		ttl:         ttl,
		carts:       carts,
		log:         log,
		stopCleanup: make(chan struct{}),
	}

	m.wg.Add(1)
	go m.cleanupLoop()

	return m
}

// Start creates a new session with an empty cart.
func (m *Manager) Start() *Session {
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		LastSeen:  now,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	return s
}

// Touch marks the session as active and reports whether it is still
// alive. An expired or unknown id returns false; callers should start a
// fresh session, which begins with an empty cart.
func (m *Manager) Touch(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if time.Since(s.LastSeen) > m.ttl {
		delete(m.sessions, id)
		m.clearCart(id)
		return nil, false
	}
	s.LastSeen = time.Now()
	return s, true
}

// End disposes a session and its cart.
func (m *Manager) End(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	if err := m.carts.Clear(ctx, id); err != nil {
		return err
	}
	return nil
}

// Close stops the expiry sweep and waits for it to finish.
func (m *Manager) Close() {
	close(m.stopCleanup)
	m.wg.Wait()
}

func (m *Manager) cleanupLoop() {
	defer m.wg.Done()

	ticker := time.NewTicker(CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.expireSessions()
		case <-m.stopCleanup:
			return
		}
	}
}

func (m *Manager) expireSessions() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, s := range m.sessions {
		if time.Since(s.LastSeen) > m.ttl {
			delete(m.sessions, id)
			m.clearCart(id)
		}
	}
}

func (m *Manager) clearCart(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := m.carts.Clear(ctx, id); err != nil {
		m.log.WithField("session_id", id).WithError(err).Warn("failed to clear cart for expired session")
	}
}
