package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const MaxRoomNameLen = 64

type (
	RoomName string
	RoomID   string
)

// Room is one estimation session. Players keep join order.
type Room struct {
	ID        RoomID    `json:"id"`
	Name      RoomName  `json:"name"`
	Players   []Player  `json:"players"`
	Revealed  bool      `json:"revealed"`
	CreatedAt time.Time `json:"createdAt"`
	// Version grows by one on every stored mutation.
	Version uint64 `json:"version"`
}

// NewRoom builds a room with its first, voting player.
func NewRoom(id RoomID, name string, first Player, now time.Time) (*Room, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxRoomNameLen {
		return nil, ErrInvalidInput
	}
	first.IsSpectator = false
	return &Room{
		ID:        id,
		Name:      RoomName(name),
		Players:   []Player{first},
		CreatedAt: now,
	}, nil
}

// Clone returns a deep copy; mutations on it never reach r.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	c := *r
	c.Players = make([]Player, len(r.Players))
	for i, p := range r.Players {
		c.Players[i] = p.clone()
	}
	return &c
}

func (r *Room) index(id PlayerID) int {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// Player returns a pointer into r.Players, or nil.
func (r *Room) Player(id PlayerID) *Player {
	if i := r.index(id); i >= 0 {
		return &r.Players[i]
	}
	return nil
}

func (r *Room) AddPlayer(p Player) error {
	if r.index(p.ID) >= 0 {
		return ErrAlreadyExists
	}
	r.Players = append(r.Players, p)
	return nil
}

// RemovePlayer reports whether a player was removed.
func (r *Room) RemovePlayer(id PlayerID) bool {
	i := r.index(id)
	if i < 0 {
		return false
	}
	r.Players = append(r.Players[:i], r.Players[i+1:]...)
	return true
}

func (r *Room) Voters() []Player {
	out := make([]Player, 0, len(r.Players))
	for _, p := range r.Players {
		if !p.IsSpectator {
			out = append(out, p)
		}
	}
	return out
}

// AllVoted holds when the room has at least one voter and every voter holds a vote.
func (r *Room) AllVoted() bool {
	voters := r.Voters()
	if len(voters) == 0 {
		return false
	}
	for _, p := range voters {
		if !p.HasVoted() {
			return false
		}
	}
	return true
}

// Votes lists the votes of non-spectators in join order, skipping unset ones.
func (r *Room) Votes() []Vote {
	out := make([]Vote, 0, len(r.Players))
	for _, p := range r.Players {
		if p.IsSpectator || p.Vote == nil {
			continue
		}
		out = append(out, *p.Vote)
	}
	return out
}

func (r *Room) ClearVotes() {
	for i := range r.Players {
		r.Players[i].Vote = nil
	}
	r.Revealed = false
}

// IsExpired reports whether the room was created more than retention ago.
func (r *Room) IsExpired(now time.Time, retention time.Duration) bool {
	return now.Sub(r.CreatedAt) > retention
}
