// Package engine provides the public API for opening hbnb storage while
// keeping the backend implementations internal.
//
// Example:
//
//	store, err := engine.Open(types.Config{
//	    StorageType: types.StorageFile,
//	    DataDir:     ".hbnb",
//	})
//	if err != nil {
//	    return err
//	}
//	defer store.Detach()
//	repo := engine.NewRepository(store)
//	err = repo.Save(types.NewState("California"))
package engine

import (
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/hbnb/internal/engine"
	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Repository persists entities and answers relationship queries.
type Repository = engine.Repository

// SearchFilter narrows Repository.SearchPlaces.
type SearchFilter = engine.SearchFilter

// Open builds the backend selected by cfg and primes it with Reload.
func Open(cfg types.Config) (types.Storage, error) {
	return engine.Open(cfg)
}

// OpenWithLogger is Open with backend diagnostics sent to log.
func OpenWithLogger(cfg types.Config, log zerolog.Logger) (types.Storage, error) {
	return engine.Open(cfg, engine.WithLogger(log))
}

// NewRepository wraps store. Over the database backend every repository
// takes its own session, so use one repository per request.
func NewRepository(store types.Storage) *Repository {
	return engine.NewRepository(store)
}
