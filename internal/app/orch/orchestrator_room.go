package orch

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/domain"
)

func (o *Orchestrator) CreateRoom(ctx context.Context, roomName, playerName string) (*domain.Room, domain.PlayerID, error) {
	room, pid, err := o.Rooms.CreateRoom(ctx, roomName, playerName)
	if err != nil {
		return nil, "", err
	}
	o.Dispatcher.Publish(room)
	return room, pid, nil
}

func (o *Orchestrator) JoinRoom(ctx context.Context, id domain.RoomID, playerName string, spectator bool) (*domain.Room, domain.PlayerID, error) {
	room, pid, err := o.Rooms.JoinRoom(ctx, id, playerName, spectator)
	if err != nil {
		return nil, "", err
	}
	o.Dispatcher.Publish(room)
	return room, pid, nil
}

func (o *Orchestrator) CastVote(ctx context.Context, id domain.RoomID, pid domain.PlayerID, vote domain.Vote) (*domain.Room, error) {
	return o.publish(o.Rooms.CastVote(ctx, id, pid, vote))
}

func (o *Orchestrator) RevealVotes(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	return o.publish(o.Rooms.RevealVotes(ctx, id))
}

func (o *Orchestrator) ResetVotes(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	return o.publish(o.Rooms.ResetVotes(ctx, id))
}

func (o *Orchestrator) RemovePlayer(ctx context.Context, id domain.RoomID, pid domain.PlayerID) (*domain.Room, error) {
	return o.publish(o.Rooms.RemovePlayer(ctx, id, pid))
}

func (o *Orchestrator) Room(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	return o.Rooms.Room(ctx, id)
}

func (o *Orchestrator) publish(room *domain.Room, err error) (*domain.Room, error) {
	if err != nil {
		return nil, err
	}
	if room != nil {
		o.Dispatcher.Publish(room)
	}
	return room, nil
}

// EvictRoom notifies subscribers that the room is gone. The room itself
// must already be deleted.
func (o *Orchestrator) EvictRoom(id domain.RoomID) {
	subs := o.Dispatcher.Close(id)
	log.Info().Str("module", "orch").Str("room", string(id)).Int("subscribers", len(subs)).Msg("room evicted")
}
