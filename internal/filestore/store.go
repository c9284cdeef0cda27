// Package filestore implements the JSON document storage backend. The
// whole registry lives in memory and Save rewrites one document on disk.
package filestore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Store implements types.Storage over a single JSON document.
type Store struct {
	mu      sync.RWMutex
	path    string
	objects map[string]types.Entity
	log     zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for reload diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates a store backed by the document at path. The registry is
// empty until Reload is called.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:    path,
		objects: make(map[string]types.Entity),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the location of the document.
func (s *Store) Path() string { return s.path }

// All returns the registered entities of the given kind keyed by
// composite key, or every entity for types.AnyKind. The returned map is a
// copy; the entities are shared with the registry.
func (s *Store) All(kind types.Kind) (map[string]types.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allLocked(kind), nil
}

func (s *Store) allLocked(kind types.Kind) map[string]types.Entity {
	out := make(map[string]types.Entity, len(s.objects))
	for key, e := range s.objects {
		if kind.Matches(e) {
			out[key] = e
		}
	}
	return out
}

// Get returns the entity with the given kind and id.
// Returns ErrNotFound when absent, for an unknown kind or an empty id.
func (s *Store) Get(kind types.Kind, id string) (types.Entity, error) {
	if !kind.Valid() || id == "" {
		return nil, types.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.objects[types.KeyOf(kind, id)]
	if !ok {
		return nil, types.ErrNotFound
	}
	return e, nil
}

// New registers e under its composite key, replacing any previous entry.
// A nil entity is ignored.
func (s *Store) New(e types.Entity) error {
	if e == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[types.Key(e)] = e
	return nil
}

// Touch stamps UpdatedAt of e with at, never moving it backwards, and
// registers e. Both happen under the registry lock that Save encodes
// under.
func (s *Store) Touch(e types.Entity, at time.Time) error {
	if e == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	types.Touch(e, at)
	s.objects[types.Key(e)] = e
	return nil
}

// Save writes every registered entity to the document, replacing it
// atomically. Returns an error wrapping ErrPersistence on I/O failure.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := encodeDocument(s.objects)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", types.ErrPersistence, s.path, err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", types.ErrPersistence, err)
		}
	}
	if err := writeDocument(s.path, data); err != nil {
		return fmt.Errorf("%w: %v", types.ErrPersistence, err)
	}
	s.log.Debug().Str("path", s.path).Int("objects", len(s.objects)).Msg("document saved")
	return nil
}

// Delete removes e from the registry. Nil or unregistered entities are a
// no-op. The document changes on the next Save.
func (s *Store) Delete(e types.Entity) error {
	if e == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, types.Key(e))
	return nil
}

// Count returns the number of entities of the given kind, or of every kind
// for types.AnyKind.
func (s *Store) Count(kind types.Kind) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if kind == types.AnyKind {
		return len(s.objects), nil
	}
	n := 0
	for _, e := range s.objects {
		if kind.Matches(e) {
			n++
		}
	}
	return n, nil
}

// Reload merges the document into the registry. Entries read from disk
// replace entries with the same key; entries never saved are kept. A
// missing document loads nothing. An unparseable document is logged and
// loads nothing. Records that cannot be reconstructed are logged and
// skipped.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("reading document")
		return nil
	}

	loaded, err := decodeDocument(data, func(key string, err error) {
		s.log.Warn().Err(err).Str("path", s.path).Str("key", key).Msg("skipping record")
	})
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("ignoring document")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range loaded {
		s.objects[key] = e
	}
	s.log.Debug().Str("path", s.path).Int("records", len(loaded)).Msg("document reloaded")
	return nil
}

// Close re-reads the document, so the registry reflects what is on disk
// plus any entries not yet saved.
func (s *Store) Close() error {
	return s.Reload()
}

// Detach holds no resources for the file backend.
func (s *Store) Detach() error {
	return nil
}

var (
	_ types.Storage = (*Store)(nil)
	_ types.Toucher = (*Store)(nil)
)
