// Package engine selects and primes the storage backend and provides the
// repository that callers use to persist entities.
package engine

import (
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/hbnb/internal/dbstore"
	"github.com/mesh-intelligence/hbnb/internal/filestore"
	"github.com/mesh-intelligence/hbnb/internal/logging"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

type options struct {
	log zerolog.Logger
}

// Option configures Open.
type Option func(*options)

// WithLogger sets the logger handed to the selected backend.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// Open validates cfg, builds the backend it selects and primes it with
// Reload. StorageType "db" selects the database backend; anything else
// selects the file backend.
func Open(cfg types.Config, opts ...Option) (types.Storage, error) {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var store types.Storage
	if cfg.UsesDatabase() {
		cfg.Database.Name = databaseName(cfg)
		db, err := dbstore.Open(cfg, dbstore.WithLogger(logging.Component(o.log, "dbstore")))
		if err != nil {
			return nil, err
		}
		store = db
	} else {
		store = filestore.New(cfg.DocumentPath(), filestore.WithLogger(logging.Component(o.log, "filestore")))
	}

	if err := store.Reload(); err != nil {
		store.Detach()
		return nil, err
	}
	return store, nil
}

// databaseName resolves a relative sqlite database file against the data
// directory. Other names are used as given.
func databaseName(cfg types.Config) string {
	name := cfg.Database.Name
	if cfg.Database.DriverName() != types.DriverSQLite || name == ":memory:" {
		return name
	}
	if filepath.IsAbs(name) || cfg.DataDir == "" {
		return name
	}
	return filepath.Join(cfg.DataDir, name)
}
