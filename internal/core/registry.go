package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/domain"
)

// MutateFunc changes a private copy of the room. Returning an error
// discards the copy.
type MutateFunc func(room *domain.Room) error

// RoomRegistry is the only owner of room state. Writes to one room are
// serialized; different rooms never wait on each other.
type RoomRegistry struct {
	store Store
	ttl   time.Duration

	mu    sync.Mutex
	locks map[domain.RoomID]*roomLock
}

type roomLock struct {
	sync.Mutex
	refs int
}

func NewRoomRegistry(store Store, ttl time.Duration) *RoomRegistry {
	return &RoomRegistry{
		store: store,
		ttl:   ttl,
		locks: make(map[domain.RoomID]*roomLock),
	}
}

// lock holds r.mu only long enough to find the room's mutex.
func (r *RoomRegistry) lock(id domain.RoomID) func() {
	r.mu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = &roomLock{}
		r.locks[id] = l
	}
	l.refs++
	r.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		r.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(r.locks, id)
		}
		r.mu.Unlock()
	}
}

func storageErr(op string, id domain.RoomID, err error) error {
	return fmt.Errorf("%w: %s %s: %w", domain.ErrStorageUnavailable, op, id, err)
}

// Create stores a new room. It fails with ErrAlreadyExists when the id is taken.
func (r *RoomRegistry) Create(ctx context.Context, room *domain.Room) (*domain.Room, error) {
	unlock := r.lock(room.ID)
	defer unlock()

	_, exists, err := r.store.Get(ctx, room.ID)
	if err != nil {
		return nil, storageErr("get", room.ID, err)
	}
	if exists {
		return nil, fmt.Errorf("room %s: %w", room.ID, domain.ErrAlreadyExists)
	}
	next := room.Clone()
	next.Version = 1
	if err := r.store.Put(ctx, next, r.ttl); err != nil {
		return nil, storageErr("put", room.ID, err)
	}
	log.Debug().Str("module", "core.registry").Str("room", string(room.ID)).Msg("room created")
	return next, nil
}

func (r *RoomRegistry) Get(ctx context.Context, id domain.RoomID) (*domain.Room, error) {
	room, ok, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, storageErr("get", id, err)
	}
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

// Mutate loads the room, applies fn to a copy and stores the result.
// The returned room is the new authoritative snapshot.
func (r *RoomRegistry) Mutate(ctx context.Context, id domain.RoomID, fn MutateFunc) (*domain.Room, error) {
	unlock := r.lock(id)
	defer unlock()

	cur, ok, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, storageErr("get", id, err)
	}
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	next := cur.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.Version = cur.Version + 1
	if err := r.store.Put(ctx, next, r.ttl); err != nil {
		return nil, storageErr("put", id, err)
	}
	log.Debug().Str("module", "core.registry").Str("room", string(id)).Uint64("version", next.Version).Msg("room mutated")
	return next, nil
}

// Delete removes the room; absent ids are not an error.
func (r *RoomRegistry) Delete(ctx context.Context, id domain.RoomID) error {
	unlock := r.lock(id)
	defer unlock()

	if err := r.store.Delete(ctx, id); err != nil {
		return storageErr("delete", id, err)
	}
	log.Debug().Str("module", "core.registry").Str("room", string(id)).Msg("room deleted")
	return nil
}

// List returns every live room. Rooms that vanish while listing are skipped.
func (r *RoomRegistry) List(ctx context.Context) ([]*domain.Room, error) {
	ids, err := r.store.Keys(ctx)
	if err != nil {
		return nil, storageErr("keys", "*", err)
	}
	out := make([]*domain.Room, 0, len(ids))
	for _, id := range ids {
		room, ok, err := r.store.Get(ctx, id)
		if err != nil {
			return nil, storageErr("get", id, err)
		}
		if ok {
			out = append(out, room)
		}
	}
	return out, nil
}
