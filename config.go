package ezstorage

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config describes a Storage assembled by Open.
type Config struct {
	// DurablePath is the SQLite file backing the durable tier. Empty keeps
	// the durable tier in memory.
	DurablePath string `env:"EZSTORAGE_DURABLE_PATH"`
	// CookiePath is the default cookie path.
	CookiePath string `env:"EZSTORAGE_COOKIE_PATH" envDefault:"/"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Open builds a Storage from cfg. opts are applied after the configured
// tiers, so they may add a cookie jar or replace a tier. The returned close
// function releases the durable database, if any.
func Open(ctx context.Context, cfg Config, opts ...Option) (*Storage, func() error, error) {
	closeFn := func() error { return nil }
	base := []Option{WithSession(NewMemory())}

	if cfg.DurablePath != "" {
		db, err := OpenSQLite(ctx, cfg.DurablePath)
		if err != nil {
			return nil, closeFn, fmt.Errorf("open durable storage: %w", err)
		}
		base = append(base, WithDurable(db))
		closeFn = db.Close
	}

	settings := DefaultSettings()
	if cfg.CookiePath != "" {
		settings.Path = cfg.CookiePath
	}
	base = append(base, WithSettings(settings))

	return New(append(base, opts...)...), closeFn, nil
}
