package orch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

const cleanupTimeout = 5 * time.Second

// Subscribe makes the connection follow a room and sends it the current
// snapshot. Observers may subscribe before joining.
func (o *Orchestrator) Subscribe(ctx context.Context, sid core.SessionID, id domain.RoomID) (*domain.Room, error) {
	if _, err := o.Rooms.Room(ctx, id); err != nil {
		return nil, err
	}
	if !o.Sessions.Subscribe(sid, id) {
		return nil, domain.ErrInvalidInput
	}
	return o.snapshot(ctx, sid, id)
}

// Bind attaches a player identity to the connection. The player must
// already be in the room.
func (o *Orchestrator) Bind(ctx context.Context, sid core.SessionID, id domain.RoomID, pid domain.PlayerID) (*domain.Room, error) {
	room, err := o.Rooms.Room(ctx, id)
	if err != nil {
		return nil, err
	}
	if room.Player(pid) == nil {
		return nil, domain.ErrPlayerNotFound
	}
	if !o.Sessions.Bind(sid, id, pid) {
		return nil, domain.ErrInvalidInput
	}
	return o.snapshot(ctx, sid, id)
}

// snapshot reads the room after the connection is registered, so any
// change stored after the read is also broadcast to it.
func (o *Orchestrator) snapshot(ctx context.Context, sid core.SessionID, id domain.RoomID) (*domain.Room, error) {
	room, err := o.Rooms.Room(ctx, id)
	if err != nil {
		return nil, err
	}
	o.sendSnapshot(sid, room)
	return room, nil
}

// Leave unsubscribes the connection from its room without closing it.
func (o *Orchestrator) Leave(ctx context.Context, sid core.SessionID) {
	id, pid, ok := o.Sessions.Leave(sid)
	if ok {
		o.release(ctx, id, pid)
	}
}

// OnDisconnect forgets a closed connection and applies the disconnect
// policy to its bound player.
func (o *Orchestrator) OnDisconnect(ctx context.Context, sid core.SessionID) {
	id, pid, ok := o.Sessions.Unsubscribe(sid)
	if ok && id != "" {
		o.release(ctx, id, pid)
	}
}

func (o *Orchestrator) release(ctx context.Context, id domain.RoomID, pid domain.PlayerID) {
	if o.Disconnect != RemovePlayer || pid == "" {
		return
	}
	// another tab still plays as pid
	if o.Sessions.Bound(id, pid) {
		log.Debug().Str("module", "orch").Str("room", string(id)).Str("player", string(pid)).Msg("player still connected")
		return
	}
	// the connection's own context is usually already canceled here
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()
	if _, err := o.RemovePlayer(ctx, id, pid); err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(id)).Str("player", string(pid)).Msg("remove on disconnect")
	}
}

func (o *Orchestrator) sendSnapshot(sid core.SessionID, room *domain.Room) {
	conn, ok := o.Sessions.Conn(sid)
	if !ok || conn == nil {
		return
	}
	if err := o.Dispatcher.SendTo(conn, room); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("snapshot delivery failed")
	}
}
