package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkeye/Poker/internal/core"
)

func TestSessionsLifecycle(t *testing.T) {
	s := NewSessions()
	conn := &fakeConn{}
	s.Attach("s1", conn, nil)

	_, _, ok := s.Lookup("s1")
	assert.False(t, ok, "attached connection has no room yet")

	assert.True(t, s.Subscribe("s1", "R1"))
	room, player, ok := s.Lookup("s1")
	assert.True(t, ok)
	assert.Equal(t, "R1", string(room))
	assert.Empty(t, player)

	assert.True(t, s.Bind("s1", "R1", "p1"))
	_, player, _ = s.Lookup("s1")
	assert.Equal(t, "p1", string(player))

	subs := s.SubscribersOf("R1")
	if assert.Len(t, subs, 1) {
		assert.Equal(t, core.SessionID("s1"), subs[0].SID)
		assert.Same(t, conn, subs[0].Conn)
	}

	room, player, ok = s.Unsubscribe("s1")
	assert.True(t, ok)
	assert.Equal(t, "R1", string(room))
	assert.Equal(t, "p1", string(player))
	assert.Empty(t, s.SubscribersOf("R1"))
	assert.Equal(t, 0, s.Count())

	_, _, ok = s.Unsubscribe("s1")
	assert.False(t, ok)
}

func TestSubscribeToOtherRoomDropsBinding(t *testing.T) {
	s := NewSessions()
	s.Attach("s1", &fakeConn{}, nil)
	s.Bind("s1", "R1", "p1")

	s.Subscribe("s1", "R2")
	room, player, _ := s.Lookup("s1")
	assert.Equal(t, "R2", string(room))
	assert.Empty(t, player)
	assert.Empty(t, s.SubscribersOf("R1"))
}

func TestSubscribeUnknownSession(t *testing.T) {
	s := NewSessions()
	assert.False(t, s.Subscribe("ghost", "R1"))
	assert.False(t, s.Bind("ghost", "R1", "p1"))
	assert.False(t, s.Cancel("ghost"))
}

func TestLeaveKeepsConnection(t *testing.T) {
	s := NewSessions()
	s.Attach("s1", &fakeConn{}, nil)
	s.Bind("s1", "R1", "p1")

	room, player, ok := s.Leave("s1")
	assert.True(t, ok)
	assert.Equal(t, "R1", string(room))
	assert.Equal(t, "p1", string(player))

	_, ok = s.Conn("s1")
	assert.True(t, ok)
	_, _, ok = s.Leave("s1")
	assert.False(t, ok)
}

func TestDropRoom(t *testing.T) {
	s := NewSessions()
	for _, sid := range []core.SessionID{"a", "b", "c"} {
		s.Attach(sid, &fakeConn{}, nil)
	}
	s.Subscribe("a", "R1")
	s.Bind("b", "R1", "p2")
	s.Subscribe("c", "R2")

	dropped := s.DropRoom("R1")
	assert.Len(t, dropped, 2)
	assert.Empty(t, s.SubscribersOf("R1"))
	assert.Len(t, s.SubscribersOf("R2"), 1)
	assert.Equal(t, 3, s.Count())
}

func TestCancelCallsCancelFunc(t *testing.T) {
	s := NewSessions()
	called := false
	s.Attach("s1", &fakeConn{}, func() { called = true })
	assert.True(t, s.Cancel("s1"))
	assert.True(t, called)
}

func TestBound(t *testing.T) {
	s := NewSessions()
	s.Attach("tab1", &fakeConn{}, nil)
	s.Attach("tab2", &fakeConn{}, nil)
	s.Bind("tab1", "R1", "p1")
	s.Bind("tab2", "R1", "p1")

	s.Unsubscribe("tab1")
	assert.True(t, s.Bound("R1", "p1"))
	assert.False(t, s.Bound("R2", "p1"))

	s.Unsubscribe("tab2")
	assert.False(t, s.Bound("R1", "p1"))
}
