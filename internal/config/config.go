package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"

	DisconnectKeep   = "keep"
	DisconnectRemove = "remove"
)

type StoreConfig struct {
	Backend  string `mapstructure:"backend"`
	RedisURL string `mapstructure:"redis_url"`
	DSN      string `mapstructure:"dsn"`
}

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	StaticPath string        `mapstructure:"static_path"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	Secret     string        `mapstructure:"secret"`
	LogLevel   string        `mapstructure:"log_level"`
	SendBuffer int           `mapstructure:"send_buffer"`

	Retention        time.Duration `mapstructure:"retention"`
	JanitorPeriod    time.Duration `mapstructure:"janitor_period"`
	DisconnectPolicy string        `mapstructure:"disconnect_policy"`
	MaxPlayers       int           `mapstructure:"max_players"`
	RateLimit        int           `mapstructure:"rate_limit"`
	RateInterval     time.Duration `mapstructure:"rate_interval"`

	Store StoreConfig `mapstructure:"store"`
}

// Load reads config/config.<CONFIG_ENV>.yaml on top of defaults. Values can be
// overridden with POKER_* variables, e.g. POKER_STORE_BACKEND=redis.
// .env.local and .env are loaded first when present.
func Load() (*Config, error) {
	for _, f := range []string{".env.local", ".env"} {
		if err := godotenv.Load(f); err == nil {
			log.Info().Str("module", "config").Str("file", f).Msg("loaded env file")
		}
	}

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)

	v.SetEnvPrefix("POKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	log.Info().
		Str("module", "config").
		Str("mode", cfg.Mode).
		Int("port", cfg.Port).
		Str("store", cfg.Store.Backend).
		Str("disconnect_policy", cfg.DisconnectPolicy).
		Msg("config ready")
	return &cfg, nil
}

// StoreTTL is how long backends keep a room. It outlives Retention by one
// janitor period so the janitor evicts every room, and announces it,
// before the store drops it silently.
func (c *Config) StoreTTL() time.Duration {
	return c.Retention + c.JanitorPeriod
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("secret", "change-me")
	v.SetDefault("log_level", "info")
	v.SetDefault("send_buffer", 32)

	v.SetDefault("retention", "24h")
	v.SetDefault("janitor_period", "1h")
	v.SetDefault("disconnect_policy", DisconnectKeep)
	v.SetDefault("max_players", 0)
	v.SetDefault("rate_limit", 20)
	v.SetDefault("rate_interval", "1s")

	v.SetDefault("store.backend", "")
	v.SetDefault("store.redis_url", "")
	v.SetDefault("store.dsn", "")
}

// normalize picks the store backend when unset: redis if a url is
// configured, memory otherwise.
func (c *Config) normalize() error {
	if c.Store.Backend == "" {
		if c.Store.RedisURL != "" {
			c.Store.Backend = BackendRedis
		} else {
			c.Store.Backend = BackendMemory
		}
	}
	switch c.Store.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Store.RedisURL == "" {
			return fmt.Errorf("store.redis_url required for %s backend", c.Store.Backend)
		}
	case BackendPostgres, BackendSQLite:
		if c.Store.DSN == "" {
			return fmt.Errorf("store.dsn required for %s backend", c.Store.Backend)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	switch c.DisconnectPolicy {
	case DisconnectKeep, DisconnectRemove:
	default:
		return fmt.Errorf("unknown disconnect_policy %q", c.DisconnectPolicy)
	}
	if c.MaxPlayers < 0 {
		return fmt.Errorf("max_players must not be negative")
	}
	if c.Retention <= 0 {
		return fmt.Errorf("retention must be positive")
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = 32
	}
	if c.PingPeriod <= 0 {
		c.PingPeriod = 54 * time.Second
	}
	if c.JanitorPeriod <= 0 {
		c.JanitorPeriod = time.Hour
	}
	return nil
}
