package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/dkeye/Poker/internal/domain"
)

const roomKeyPrefix = "room:"

// Redis stores each room as a JSON string under "room:<id>" with a
// server-side expiry renewed on every Put.
type Redis struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

// OpenRedis dials url (redis:// or rediss://) and checks the connection.
func OpenRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedis(client), nil
}

func roomKey(id domain.RoomID) string { return roomKeyPrefix + string(id) }

func (s *Redis) Get(ctx context.Context, id domain.RoomID) (*domain.Room, bool, error) {
	data, err := s.client.Get(ctx, roomKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var room domain.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, false, fmt.Errorf("decode room %s: %w", id, err)
	}
	return &room, true, nil
}

func (s *Redis) Put(ctx context.Context, room *domain.Room, ttl time.Duration) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("encode room %s: %w", room.ID, err)
	}
	return s.client.Set(ctx, roomKey(room.ID), data, ttl).Err()
}

func (s *Redis) Delete(ctx context.Context, id domain.RoomID) error {
	return s.client.Del(ctx, roomKey(id)).Err()
}

func (s *Redis) Keys(ctx context.Context) ([]domain.RoomID, error) {
	var out []domain.RoomID
	iter := s.client.Scan(ctx, 0, roomKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		out = append(out, domain.RoomID(iter.Val()[len(roomKeyPrefix):]))
	}
	return out, iter.Err()
}

func (s *Redis) Close() error { return s.client.Close() }
