package core

import (
	"context"
	"time"

	"github.com/dkeye/Poker/internal/domain"
)

//go:generate mockgen -source=store_iface.go -destination=mocks/mock_store.go -package=mocks

// Store persists room snapshots by id. Implementations own no locking
// beyond their own consistency; RoomRegistry serializes per room.
type Store interface {
	// Get returns false when the room is absent or expired.
	Get(ctx context.Context, id domain.RoomID) (*domain.Room, bool, error)
	// Put stores the snapshot and renews its ttl.
	Put(ctx context.Context, room *domain.Room, ttl time.Duration) error
	// Delete is a no-op for absent ids.
	Delete(ctx context.Context, id domain.RoomID) error
	Keys(ctx context.Context) ([]domain.RoomID, error)
}
