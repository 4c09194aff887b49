package signal

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

// handleCreateRoom creates a room and binds the connection to its first
// player.
func (ctl *SignalWSController) handleCreateRoom(ctx context.Context, sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p struct {
		RoomName   string `json:"roomName"`
		PlayerName string `json:"playerName"`
	}
	if !ctl.decode(conn, opCreateRoom, data, &p) {
		return
	}
	room, pid, err := ctl.Orch.CreateRoom(ctx, p.RoomName, p.PlayerName)
	if err != nil {
		ctl.sendError(conn, opCreateRoom, err)
		return
	}
	ctl.sendJSON(conn, playerMsg{Type: "room_created", Room: room.ID, Player: pid})
	ctl.bindAfterCommand(ctx, sid, room.ID, pid)
}

func (ctl *SignalWSController) handleJoinRoom(ctx context.Context, sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p struct {
		Room        domain.RoomID `json:"room"`
		PlayerName  string        `json:"playerName"`
		IsSpectator bool          `json:"isSpectator"`
	}
	if !ctl.decode(conn, opJoinRoom, data, &p) {
		return
	}
	room, pid, err := ctl.Orch.JoinRoom(ctx, p.Room, p.PlayerName, p.IsSpectator)
	if err != nil {
		ctl.sendError(conn, opJoinRoom, err)
		return
	}
	ctl.sendJSON(conn, playerMsg{Type: "joined", Room: room.ID, Player: pid})
	ctl.bindAfterCommand(ctx, sid, room.ID, pid)
}

func (ctl *SignalWSController) bindAfterCommand(ctx context.Context, sid core.SessionID, id domain.RoomID, pid domain.PlayerID) {
	if _, err := ctl.Orch.Bind(ctx, sid, id, pid); err != nil {
		// the room may have been evicted in between
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Str("room", string(id)).Msg("bind after command")
	}
}
