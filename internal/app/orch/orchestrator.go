package orch

import (
	"fmt"

	"github.com/dkeye/Poker/internal/app"
	"github.com/dkeye/Poker/internal/config"
)

// DisconnectPolicy decides what a closing connection does to its player.
type DisconnectPolicy int

const (
	// KeepPlayer leaves the player in the room; they can rebind later.
	KeepPlayer DisconnectPolicy = iota
	// RemovePlayer drops the bound player from the room.
	RemovePlayer
)

func ParseDisconnectPolicy(s string) (DisconnectPolicy, error) {
	switch s {
	case config.DisconnectKeep, "":
		return KeepPlayer, nil
	case config.DisconnectRemove:
		return RemovePlayer, nil
	}
	return KeepPlayer, fmt.Errorf("unknown disconnect policy %q", s)
}

// Orchestrator is the single entry point for transports: every command
// goes to the processor and, when it changed a room, to the dispatcher.
// Delivery never decides the command's outcome.
type Orchestrator struct {
	Rooms      *app.Processor
	Sessions   *app.Sessions
	Dispatcher *app.Dispatcher
	Disconnect DisconnectPolicy
}
