package app

import (
	"github.com/goccy/go-json"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

const (
	MsgRoomUpdate = "room-update"
	MsgRoomClosed = "room-closed"
)

type RoomUpdate struct {
	Type string          `json:"type"`
	Room domain.RoomView `json:"room"`
}

type RoomClosed struct {
	Type string        `json:"type"`
	Room domain.RoomID `json:"room"`
}

// EncodeRoomUpdate renders the broadcast payload. Votes stay hidden until
// the room is revealed.
func EncodeRoomUpdate(room *domain.Room) (core.Frame, error) {
	return json.Marshal(RoomUpdate{Type: MsgRoomUpdate, Room: room.View()})
}

func EncodeRoomClosed(id domain.RoomID) (core.Frame, error) {
	return json.Marshal(RoomClosed{Type: MsgRoomClosed, Room: id})
}
