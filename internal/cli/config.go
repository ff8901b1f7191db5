package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/fieldmark/popover/pkg/trace"
)

// Config is the TOML configuration for the serve command.
//
//	[serve]
//	addr = ":8480"
//
//	[trace]
//	backend = "redis"      # memory | file | redis | mongo | none
//	redis_addr = "localhost:6379"
type Config struct {
	Serve ServeConfig `toml:"serve"`
	Trace TraceConfig `toml:"trace"`
}

// ServeConfig configures the HTTP server.
type ServeConfig struct {
	Addr string `toml:"addr"`
}

// TraceConfig selects and configures the trace store backend.
type TraceConfig struct {
	Backend string `toml:"backend"`

	// file backend
	Dir string `toml:"dir"`

	// redis backend
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// mongo backend
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// DefaultConfig returns the configuration used when no file is supplied:
// a local address and in-memory trace recording.
func DefaultConfig() Config {
	return Config{
		Serve: ServeConfig{Addr: ":8480"},
		Trace: TraceConfig{Backend: "memory"},
	}
}

// LoadConfig reads a TOML config file, layered over the defaults. An
// empty path returns the defaults untouched.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// OpenStore builds the trace store the config names. A "none" backend
// returns nil, which disables recording.
func (c TraceConfig) OpenStore(ctx context.Context) (trace.Store, error) {
	switch c.Backend {
	case "", "memory":
		return trace.NewMemoryStore(), nil
	case "file":
		return trace.NewFileStore(c.Dir)
	case "redis":
		return trace.NewRedisStore(ctx, trace.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
		})
	case "mongo":
		return trace.NewMongoStore(ctx, trace.MongoConfig{
			URI:        c.MongoURI,
			Database:   c.MongoDatabase,
			Collection: c.MongoCollection,
		})
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown trace backend %q", c.Backend)
	}
}
