package app

import "github.com/dkeye/Poker/internal/domain"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	MarkSlow
	KickMember
	DropFrame
)

// Policy decides what happens to a subscriber whose send buffer is full.
type Policy interface {
	OnBackPressure(room domain.RoomID, sub Subscriber) BackpressureAction
}

// SimplePolicy disconnects slow subscribers; they resync on reconnect.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(domain.RoomID, Subscriber) BackpressureAction {
	return KickMember
}
