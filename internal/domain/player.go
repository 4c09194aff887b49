// Package domain holds the poker room entities and the pure rules over them.
// No transport, storage or locking here.
package domain

import (
	"strings"
	"unicode/utf8"
)

const MaxPlayerNameLen = 36

type PlayerID string

type Player struct {
	ID          PlayerID `json:"id"`
	Name        string   `json:"name"`
	Vote        *Vote    `json:"vote"`
	IsSpectator bool     `json:"isSpectator"`
}

// NewPlayer trims the name and rejects empty or oversized ones.
func NewPlayer(id PlayerID, name string, spectator bool) (Player, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxPlayerNameLen {
		return Player{}, ErrInvalidInput
	}
	return Player{ID: id, Name: name, IsSpectator: spectator}, nil
}

func (p Player) HasVoted() bool { return p.Vote != nil }

func (p Player) clone() Player {
	if p.Vote != nil {
		v := *p.Vote
		p.Vote = &v
	}
	return p
}
