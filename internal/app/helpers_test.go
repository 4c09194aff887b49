package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Poker/internal/adapters/store"
	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

var errFull = errors.New("buffer full")

// fakeConn records frames; full makes TrySend fail like a backpressured socket.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return errFull
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeConn) messages(t *testing.T) []map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.frames))
	for _, f := range c.frames {
		var m map[string]any
		require.NoError(t, json.Unmarshal(f, &m))
		out = append(out, m)
	}
	return out
}

func (c *fakeConn) updates(t *testing.T) []RoomUpdate {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []RoomUpdate
	for _, f := range c.frames {
		var u RoomUpdate
		require.NoError(t, json.Unmarshal(f, &u))
		if u.Type == MsgRoomUpdate {
			out = append(out, u)
		}
	}
	return out
}

func newTestProcessor() *Processor {
	return NewProcessor(core.NewRoomRegistry(store.NewMemory(), time.Hour), 0)
}

func mustCreate(t *testing.T, p *Processor, roomName, player string) (*domain.Room, domain.PlayerID) {
	t.Helper()
	room, pid, err := p.CreateRoom(context.Background(), roomName, player)
	require.NoError(t, err)
	return room, pid
}

func mustJoin(t *testing.T, p *Processor, id domain.RoomID, player string, spectator bool) domain.PlayerID {
	t.Helper()
	_, pid, err := p.JoinRoom(context.Background(), id, player, spectator)
	require.NoError(t, err)
	return pid
}
