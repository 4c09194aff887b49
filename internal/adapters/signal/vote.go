package signal

import (
	"context"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

type target struct {
	Room   domain.RoomID   `json:"room"`
	Player domain.PlayerID `json:"player"`
}

// resolve fills missing room and player from the connection's binding.
func (ctl *SignalWSController) resolve(sid core.SessionID, t *target) {
	room, player, ok := ctl.Orch.Sessions.Lookup(sid)
	if !ok {
		return
	}
	if t.Room == "" {
		t.Room = room
	}
	if t.Player == "" && t.Room == room {
		t.Player = player
	}
}

func (ctl *SignalWSController) handleVote(ctx context.Context, sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p struct {
		target
		Vote domain.Vote `json:"vote"`
	}
	if !ctl.decode(conn, opVote, data, &p) {
		return
	}
	ctl.resolve(sid, &p.target)
	if p.Player == "" {
		ctl.sendError(conn, opVote, domain.ErrPlayerNotFound)
		return
	}
	ctl.reply(conn, opVote, func() error {
		_, err := ctl.Orch.CastVote(ctx, p.Room, p.Player, p.Vote)
		return err
	})
}

func (ctl *SignalWSController) handleReveal(ctx context.Context, sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p target
	if !ctl.decode(conn, opReveal, data, &p) {
		return
	}
	ctl.resolve(sid, &p)
	ctl.reply(conn, opReveal, func() error {
		_, err := ctl.Orch.RevealVotes(ctx, p.Room)
		return err
	})
}

func (ctl *SignalWSController) handleReset(ctx context.Context, sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p target
	if !ctl.decode(conn, opReset, data, &p) {
		return
	}
	ctl.resolve(sid, &p)
	ctl.reply(conn, opReset, func() error {
		_, err := ctl.Orch.ResetVotes(ctx, p.Room)
		return err
	})
}

func (ctl *SignalWSController) handleRemovePlayer(ctx context.Context, sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p target
	if !ctl.decode(conn, opRemovePlayer, data, &p) {
		return
	}
	ctl.resolve(sid, &p)
	if p.Player == "" {
		ctl.sendError(conn, opRemovePlayer, domain.ErrPlayerNotFound)
		return
	}
	ctl.reply(conn, opRemovePlayer, func() error {
		_, err := ctl.Orch.RemovePlayer(ctx, p.Room, p.Player)
		return err
	})
}

func (ctl *SignalWSController) reply(conn *WsSignalConn, op string, run func() error) {
	if err := run(); err != nil {
		ctl.sendError(conn, op, err)
		return
	}
	ctl.sendAck(conn, op)
}
