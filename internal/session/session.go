// Package session tracks authenticated sessions so that one idle longer than
// the configured window is signed out, whatever the token lifetime says.
package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrExpired = errors.New("session expired")

type Tracker interface {
	// Start opens a session.
	Start(ctx context.Context, id string) error
	// Touch records activity; ErrExpired when the session is unknown or idle.
	Touch(ctx context.Context, id string) error
	// End closes a session (logout).
	End(ctx context.Context, id string) error
}

// Memory keeps sessions in process. Single instance deployments and tests.
type Memory struct {
	idle time.Duration
	now  func() time.Time

	mu       sync.Mutex
	lastSeen map[string]time.Time
}

var _ Tracker = (*Memory)(nil)

func NewMemory(idle time.Duration) *Memory {
	return &Memory{idle: idle, now: time.Now, lastSeen: make(map[string]time.Time)}
}

func (m *Memory) Start(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	m.lastSeen[id] = m.now()
	return nil
}

func (m *Memory) Touch(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen, ok := m.lastSeen[id]
	now := m.now()
	if !ok || now.Sub(seen) > m.idle {
		delete(m.lastSeen, id)
		return ErrExpired
	}
	m.lastSeen[id] = now
	return nil
}

func (m *Memory) End(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.lastSeen, id)
	return nil
}

// sweep drops idle sessions; called with mu held.
func (m *Memory) sweep() {
	now := m.now()
	for id, seen := range m.lastSeen {
		if now.Sub(seen) > m.idle {
			delete(m.lastSeen, id)
		}
	}
}
