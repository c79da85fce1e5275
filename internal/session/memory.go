package session

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/wanderquest/questbot/core/logger"
	"github.com/wanderquest/questbot/internal/flow"
)

type memoryEntry struct {
	mu      sync.Mutex
	sess    flow.Session
	touched time.Time
}

// Memory is the in-process session store. Sessions live until Reset or
// until PruneIdle collects them.
type Memory struct {
	mu      sync.RWMutex
	entries map[int64]*memoryEntry
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[int64]*memoryEntry)}
}

func (m *Memory) entry(userID int64) *memoryEntry {
	m.mu.RLock()
	e := m.entries[userID]
	m.mu.RUnlock()
	if e != nil {
		return e
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if e = m.entries[userID]; e == nil {
		e = &memoryEntry{sess: flow.NewSession(), touched: time.Now()}
		m.entries[userID] = e
	}
	return e
}

// Get returns a copy of the user's session, creating the default one on
// first sight.
func (m *Memory) Get(_ context.Context, userID int64) (flow.Session, error) {
	e := m.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess, nil
}

// Do runs fn under the user's lock and keeps the rewritten session unless
// fn fails.
func (m *Memory) Do(_ context.Context, userID int64, fn func(*flow.Session) error) error {
	e := m.entry(userID)
	e.mu.Lock()
	defer e.mu.Unlock()

	work := e.sess
	if err := fn(&work); err != nil {
		return err
	}
	e.sess = work
	e.touched = time.Now()
	return nil
}

// Update applies fn under the user's lock and always commits.
func (m *Memory) Update(ctx context.Context, userID int64, fn func(*flow.Session)) error {
	return m.Do(ctx, userID, func(s *flow.Session) error {
		fn(s)
		return nil
	})
}

// Reset drops the user's session.
func (m *Memory) Reset(_ context.Context, userID int64) error {
	m.mu.Lock()
	delete(m.entries, userID)
	m.mu.Unlock()
	return nil
}

// PruneIdle removes sessions untouched for longer than ttl and returns
// how many were dropped.
func (m *Memory) PruneIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := 0
	for id, e := range m.entries {
		e.mu.Lock()
		idle := e.touched.Before(cutoff)
		e.mu.Unlock()
		if idle {
			delete(m.entries, id)
			dropped++
		}
	}
	return dropped
}

// RunPruner prunes idle sessions on a fixed interval until ctx is done.
func (m *Memory) RunPruner(ctx context.Context, ttl, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.PruneIdle(ttl); n > 0 {
				logger.Debug(ctx, "sess", "prune", slog.Int("count", n))
			}
		}
	}
}
