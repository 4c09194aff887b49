package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/dkeye/Poker/internal/domain"
)

const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

// Both postgres and sqlite accept this DDL and the $n placeholders below.
const schema = `
CREATE TABLE IF NOT EXISTS rooms (
    id TEXT PRIMARY KEY,
    payload TEXT NOT NULL,
    expires_at BIGINT NOT NULL
);
`

// SQLStore keeps rooms in a single table. expires_at is unix millis,
// 0 meaning no expiry.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQL opens driver/dsn, pings it and creates the schema.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	s, err := NewSQLStore(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore creates the schema on db. Safe to call multiple times.
func NewSQLStore(ctx context.Context, db *sql.DB) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLStore{db: db, now: time.Now}, nil
}

func (s *SQLStore) WithClock(now func() time.Time) *SQLStore {
	s.now = now
	return s
}

func (s *SQLStore) Get(ctx context.Context, id domain.RoomID) (*domain.Room, bool, error) {
	var (
		payload string
		expires int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM rooms WHERE id = $1`, string(id),
	).Scan(&payload, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if expires > 0 && expires <= s.now().UnixMilli() {
		return nil, false, nil
	}
	var room domain.Room
	if err := json.Unmarshal([]byte(payload), &room); err != nil {
		return nil, false, fmt.Errorf("decode room %s: %w", id, err)
	}
	return &room, true, nil
}

func (s *SQLStore) Put(ctx context.Context, room *domain.Room, ttl time.Duration) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("encode room %s: %w", room.ID, err)
	}
	var expires int64
	if ttl > 0 {
		expires = s.now().Add(ttl).UnixMilli()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rooms (id, payload, expires_at) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, expires_at = excluded.expires_at`,
		string(room.ID), string(data), expires,
	)
	return err
}

func (s *SQLStore) Delete(ctx context.Context, id domain.RoomID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, string(id))
	return err
}

// Keys also prunes expired rows.
func (s *SQLStore) Keys(ctx context.Context) ([]domain.RoomID, error) {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM rooms WHERE expires_at > 0 AND expires_at <= $1`, s.now().UnixMilli(),
	); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM rooms`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RoomID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, domain.RoomID(id))
	}
	return out, rows.Err()
}

func (s *SQLStore) Close() error { return s.db.Close() }
