package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Poker/internal/config"
	"github.com/dkeye/Poker/internal/core"
)

// Open builds the backend named by cfg.Backend. The returned close func
// is never nil.
func Open(ctx context.Context, cfg config.StoreConfig) (core.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMemory, "":
		log.Info().Str("module", "store").Str("backend", config.BackendMemory).Msg("using in-memory store")
		return NewMemory(), noop, nil
	case config.BackendRedis:
		s, err := OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		log.Info().Str("module", "store").Str("backend", cfg.Backend).Msg("using redis store")
		return s, s.Close, nil
	case config.BackendPostgres, config.BackendSQLite:
		driver := DriverPostgres
		if cfg.Backend == config.BackendSQLite {
			driver = DriverSQLite
		}
		s, err := OpenSQL(ctx, driver, cfg.DSN)
		if err != nil {
			return nil, noop, err
		}
		log.Info().Str("module", "store").Str("backend", cfg.Backend).Msg("using sql store")
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
