package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

// Janitor evicts rooms older than Retention, counted from creation and
// regardless of activity.
type Janitor struct {
	Rooms     *core.RoomRegistry
	Retention time.Duration
	Period    time.Duration
	Now       func() time.Time
	// OnEvict runs after a room is deleted.
	OnEvict func(id domain.RoomID)
}

func NewJanitor(rooms *core.RoomRegistry, retention, period time.Duration, onEvict func(domain.RoomID)) *Janitor {
	return &Janitor{
		Rooms:     rooms,
		Retention: retention,
		Period:    period,
		Now:       time.Now,
		OnEvict:   onEvict,
	}
}

// Run sweeps every Period until ctx is done.
func (j *Janitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(j.Period)
	defer ticker.Stop()
	log.Info().Str("module", "app.janitor").Dur("period", j.Period).Dur("retention", j.Retention).Msg("janitor started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.janitor").Msg("janitor stopped")
			return nil
		case <-ticker.C:
			if _, err := j.Sweep(ctx); err != nil {
				log.Error().Err(err).Str("module", "app.janitor").Msg("sweep failed")
			}
		}
	}
}

// Sweep deletes expired rooms and returns their ids. A failed delete is
// logged and retried on the next sweep.
func (j *Janitor) Sweep(ctx context.Context) ([]domain.RoomID, error) {
	rooms, err := j.Rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	now := j.Now()
	var evicted []domain.RoomID
	for _, room := range rooms {
		if !room.IsExpired(now, j.Retention) {
			continue
		}
		if err := j.Rooms.Delete(ctx, room.ID); err != nil {
			log.Error().Err(err).Str("module", "app.janitor").Str("room", string(room.ID)).Msg("evict failed")
			continue
		}
		evicted = append(evicted, room.ID)
		if j.OnEvict != nil {
			j.OnEvict(room.ID)
		}
	}
	if len(evicted) > 0 {
		log.Info().Str("module", "app.janitor").Int("evicted", len(evicted)).Int("scanned", len(rooms)).Msg("sweep done")
	}
	return evicted, nil
}
