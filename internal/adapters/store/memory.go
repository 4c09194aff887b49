// Package store holds the core.Store backends. One is picked at startup.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/dkeye/Poker/internal/domain"
)

type memEntry struct {
	room    *domain.Room
	expires time.Time
}

// Memory keeps snapshots in process. Expired entries read as absent and
// are dropped lazily.
type Memory struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]memEntry
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		rooms: make(map[domain.RoomID]memEntry),
		now:   time.Now,
	}
}

// WithClock swaps the clock used for ttl checks.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) live(e memEntry, now time.Time) bool {
	return e.expires.IsZero() || now.Before(e.expires)
}

func (m *Memory) Get(_ context.Context, id domain.RoomID) (*domain.Room, bool, error) {
	m.mu.RLock()
	e, ok := m.rooms[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !m.live(e, m.now()) {
		m.mu.Lock()
		if cur, ok := m.rooms[id]; ok && !m.live(cur, m.now()) {
			delete(m.rooms, id)
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	return e.room.Clone(), true, nil
}

func (m *Memory) Put(_ context.Context, room *domain.Room, ttl time.Duration) error {
	e := memEntry{room: room.Clone()}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.rooms[room.ID] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, id domain.RoomID) error {
	m.mu.Lock()
	delete(m.rooms, id)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Keys(_ context.Context) ([]domain.RoomID, error) {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.RoomID, 0, len(m.rooms))
	for id, e := range m.rooms {
		if !m.live(e, now) {
			delete(m.rooms, id)
			continue
		}
		out = append(out, id)
	}
	return out, nil
}
