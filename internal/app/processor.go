package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

const createAttempts = 5

// roomIDAlphabet leaves out 0/O and 1/I so ids survive being read aloud.
const roomIDAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const roomIDLen = 6

// NewRoomID returns a short upper-case room token.
func NewRoomID() domain.RoomID {
	b := uuid.New()
	out := make([]byte, roomIDLen)
	for i := range out {
		out[i] = roomIDAlphabet[int(b[i])%len(roomIDAlphabet)]
	}
	return domain.RoomID(out)
}

func NewPlayerID() domain.PlayerID {
	return domain.PlayerID(uuid.NewString())
}

// Processor validates player commands and applies them through the
// registry. It never talks to connections.
type Processor struct {
	Rooms *core.RoomRegistry
	// MaxPlayers caps room size; 0 means unlimited.
	MaxPlayers int

	NewRoomID   func() domain.RoomID
	NewPlayerID func() domain.PlayerID
	Now         func() time.Time
}

func NewProcessor(rooms *core.RoomRegistry, maxPlayers int) *Processor {
	return &Processor{
		Rooms:       rooms,
		MaxPlayers:  maxPlayers,
		NewRoomID:   NewRoomID,
		NewPlayerID: NewPlayerID,
		Now:         time.Now,
	}
}

// CreateRoom makes a room whose first player is a voter. Id collisions are
// retried with a fresh id.
func (p *Processor) CreateRoom(ctx context.Context, roomName, playerName string) (*domain.Room, domain.PlayerID, error) {
	first, err := domain.NewPlayer(p.NewPlayerID(), playerName, false)
	if err != nil {
		return nil, "", fmt.Errorf("player name: %w", err)
	}

	for attempt := 1; ; attempt++ {
		room, err := domain.NewRoom(p.NewRoomID(), roomName, first, p.Now())
		if err != nil {
			return nil, "", fmt.Errorf("room name: %w", err)
		}
		created, err := p.Rooms.Create(ctx, room)
		if err == nil {
			log.Info().Str("module", "app.processor").Str("room", string(created.ID)).Str("player", string(first.ID)).Msg("room created")
			return created, first.ID, nil
		}
		if !errors.Is(err, domain.ErrAlreadyExists) || attempt >= createAttempts {
			return nil, "", err
		}
		log.Warn().Str("module", "app.processor").Str("room", string(room.ID)).Int("attempt", attempt).Msg("room id collision, retrying")
	}
}

func (p *Processor) JoinRoom(ctx context.Context, id domain.RoomID, playerName string, spectator bool) (*domain.Room, domain.PlayerID, error) {
	player, err := domain.NewPlayer(p.NewPlayerID(), playerName, spectator)
	if err != nil {
		return nil, "", fmt.Errorf("player name: %w", err)
	}
	room, err := p.Rooms.Mutate(ctx, id, func(r *domain.Room) error {
		if p.MaxPlayers > 0 && len(r.Players) >= p.MaxPlayers {
			return domain.ErrRoomFull
		}
		return r.AddPlayer(player)
	})
	if err != nil {
		return nil, "", err
	}
	log.Info().Str("module", "app.processor").Str("room", string(id)).Str("player", string(player.ID)).Bool("spectator", spectator).Msg("player joined")
	return room, player.ID, nil
}

// CastVote sets one player's vote. Spectators cannot vote.
func (p *Processor) CastVote(ctx context.Context, id domain.RoomID, playerID domain.PlayerID, vote domain.Vote) (*domain.Room, error) {
	if !domain.IsValidVote(vote) {
		return nil, fmt.Errorf("%q: %w", vote, domain.ErrInvalidVote)
	}
	return p.Rooms.Mutate(ctx, id, func(r *domain.Room) error {
		if r.Revealed {
			return domain.ErrRoomAlreadyRevealed
		}
		player := r.Player(playerID)
		if player == nil {
			return domain.ErrPlayerNotFound
		}
		if player.IsSpectator {
			return fmt.Errorf("spectator %s: %w", playerID, domain.ErrInvalidInput)
		}
		v := vote
		player.Vote = &v
		return nil
	})
}

// RevealVotes requires every voter to have voted, so a client skipping the
// check cannot reveal a half-filled round.
func (p *Processor) RevealVotes(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	return p.Rooms.Mutate(ctx, id, func(r *domain.Room) error {
		if !r.AllVoted() {
			return domain.ErrNotAllVoted
		}
		r.Revealed = true
		return nil
	})
}

func (p *Processor) ResetVotes(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	return p.Rooms.Mutate(ctx, id, func(r *domain.Room) error {
		r.ClearVotes()
		return nil
	})
}

// RemovePlayer is idempotent: a missing room or player is not an error.
// The returned room is nil when the room does not exist.
func (p *Processor) RemovePlayer(ctx context.Context, id domain.RoomID, playerID domain.PlayerID) (*domain.Room, error) {
	removed := false
	room, err := p.Rooms.Mutate(ctx, id, func(r *domain.Room) error {
		removed = r.RemovePlayer(playerID)
		return nil
	})
	if errors.Is(err, domain.ErrRoomNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if removed {
		log.Info().Str("module", "app.processor").Str("room", string(id)).Str("player", string(playerID)).Msg("player removed")
	}
	return room, nil
}

func (p *Processor) Room(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	return p.Rooms.Get(ctx, id)
}
