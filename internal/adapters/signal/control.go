package signal

import (
	"context"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

func (ctl *SignalWSController) handlePing(
	conn *WsSignalConn,
) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(conn, resp)
}

func (ctl *SignalWSController) handleSubscribe(ctx context.Context, sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p struct {
		Room domain.RoomID `json:"room"`
	}
	if !ctl.decode(conn, opSubscribe, data, &p) {
		return
	}
	if _, err := ctl.Orch.Subscribe(ctx, sid, p.Room); err != nil {
		ctl.sendError(conn, opSubscribe, err)
		return
	}
	ctl.sendAck(conn, opSubscribe)
}

func (ctl *SignalWSController) handleBind(ctx context.Context, sid core.SessionID, conn *WsSignalConn, data []byte) {
	var p struct {
		Room   domain.RoomID   `json:"room"`
		Player domain.PlayerID `json:"player"`
	}
	if !ctl.decode(conn, opBind, data, &p) {
		return
	}
	if _, err := ctl.Orch.Bind(ctx, sid, p.Room, p.Player); err != nil {
		ctl.sendError(conn, opBind, err)
		return
	}
	ctl.sendAck(conn, opBind)
}

// handleLeave unsubscribes from the current room; the connection stays open.
func (ctl *SignalWSController) handleLeave(ctx context.Context, sid core.SessionID, conn *WsSignalConn) {
	ctl.Orch.Leave(ctx, sid)
	ctl.sendAck(conn, opLeave)
}
