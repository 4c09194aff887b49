package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

type sessionEntry struct {
	Room   domain.RoomID
	Player domain.PlayerID
	Conn   core.SignalConnection
	Cancel context.CancelFunc
}

// Subscriber is a connection interested in a room.
type Subscriber struct {
	SID    core.SessionID
	Player domain.PlayerID
	Conn   core.SignalConnection
}

// Sessions tracks which room, and which player in it, each live
// connection belongs to. A connection follows at most one room.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewSessions() *Sessions {
	return &Sessions{
		sessions: make(map[core.SessionID]*sessionEntry),
	}
}

// Attach registers a live connection with no room yet.
func (s *Sessions) Attach(sid core.SessionID, conn core.SignalConnection, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sid] = &sessionEntry{Conn: conn, Cancel: cancel}
	log.Info().Str("module", "app.sessions").Str("sid", string(sid)).Msg("attached")
}

// Subscribe points the connection at room. Any previous room and player
// binding is dropped.
func (s *Sessions) Subscribe(sid core.SessionID, room domain.RoomID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sid]
	if !ok {
		return false
	}
	if e.Room != room {
		e.Player = ""
	}
	e.Room = room
	log.Info().Str("module", "app.sessions").Str("sid", string(sid)).Str("room", string(room)).Msg("subscribed")
	return true
}

// Bind attaches the player identity, subscribing to room if needed.
func (s *Sessions) Bind(sid core.SessionID, room domain.RoomID, player domain.PlayerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sid]
	if !ok {
		return false
	}
	e.Room = room
	e.Player = player
	log.Info().Str("module", "app.sessions").Str("sid", string(sid)).Str("room", string(room)).Str("player", string(player)).Msg("bound")
	return true
}

// Leave clears room and player but keeps the connection attached.
func (s *Sessions) Leave(sid core.SessionID) (domain.RoomID, domain.PlayerID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sid]
	if !ok || e.Room == "" {
		return "", "", false
	}
	room, player := e.Room, e.Player
	e.Room, e.Player = "", ""
	log.Info().Str("module", "app.sessions").Str("sid", string(sid)).Str("room", string(room)).Msg("left room")
	return room, player, true
}

// Unsubscribe forgets the connection entirely and reports what it was
// bound to, so the caller can apply the disconnect policy.
func (s *Sessions) Unsubscribe(sid core.SessionID) (domain.RoomID, domain.PlayerID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sid]
	if !ok {
		return "", "", false
	}
	delete(s.sessions, sid)
	log.Info().Str("module", "app.sessions").Str("sid", string(sid)).Msg("unsubscribed")
	return e.Room, e.Player, true
}

// Lookup returns the room and player of a connection.
func (s *Sessions) Lookup(sid core.SessionID) (domain.RoomID, domain.PlayerID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[sid]
	if !ok || e.Room == "" {
		return "", "", false
	}
	return e.Room, e.Player, true
}

func (s *Sessions) Conn(sid core.SessionID) (core.SignalConnection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.sessions[sid]; ok {
		return e.Conn, true
	}
	return nil, false
}

func (s *Sessions) SubscribersOf(room domain.RoomID) []Subscriber {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Subscriber, 0)
	for sid, e := range s.sessions {
		if e.Room == room {
			out = append(out, Subscriber{SID: sid, Player: e.Player, Conn: e.Conn})
		}
	}
	return out
}

// Bound reports whether any live connection is bound to player in room.
func (s *Sessions) Bound(room domain.RoomID, player domain.PlayerID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.sessions {
		if e.Room == room && e.Player == player {
			return true
		}
	}
	return false
}

// DropRoom detaches every subscriber of room and returns them.
func (s *Sessions) DropRoom(room domain.RoomID) []Subscriber {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Subscriber
	for sid, e := range s.sessions {
		if e.Room == room {
			out = append(out, Subscriber{SID: sid, Player: e.Player, Conn: e.Conn})
			e.Room, e.Player = "", ""
		}
	}
	log.Info().Str("module", "app.sessions").Str("room", string(room)).Int("count", len(out)).Msg("dropped room subscribers")
	return out
}

// Cancel stops the connection's pumps; cleanup follows from the adapter.
func (s *Sessions) Cancel(sid core.SessionID) bool {
	s.mu.RLock()
	e, ok := s.sessions[sid]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.sessions").Str("sid", string(sid)).Msg("canceled session")
	return true
}

func (s *Sessions) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
