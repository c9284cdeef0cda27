package dbstore

import (
	"fmt"
	"sync"
	"time"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Session is a request-scoped unit of work over a Store. It stages
// changes until Save and shares the store's connection pool with every
// other session. Staged changes are visible only through the session that
// staged them.
type Session struct {
	mu      sync.Mutex
	store   *Store
	changes *changeSet
}

// All returns committed rows of the given kind, or of every kind for
// types.AnyKind, with this session's staged changes applied on top.
func (s *Session) All(kind types.Kind) (map[string]types.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	objects, err := s.store.query(kind)
	if err != nil {
		return nil, err
	}
	s.changes.overlay(kind, objects)
	return objects, nil
}

// Get returns the entity with the given kind and id.
// Returns ErrNotFound when absent, for an unknown kind or an empty id.
func (s *Session) Get(kind types.Kind, id string) (types.Entity, error) {
	if !kind.Valid() || id == "" {
		return nil, types.ErrNotFound
	}
	all, err := s.All(kind)
	if err != nil {
		return nil, err
	}
	e, ok := all[types.KeyOf(kind, id)]
	if !ok {
		return nil, types.ErrNotFound
	}
	return e, nil
}

// Count returns len(All(kind)).
func (s *Session) Count(kind types.Kind) (int, error) {
	all, err := s.All(kind)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

// New stages an insert or update of e. Nothing is written until Save.
func (s *Session) New(e types.Entity) error {
	return s.stage(e, false, nil)
}

// Touch stamps UpdatedAt of e with at, never moving it backwards, and
// stages e, both under the session lock.
func (s *Session) Touch(e types.Entity, at time.Time) error {
	return s.stage(e, false, func() { types.Touch(e, at) })
}

// Delete stages the removal of e. A nil entity is a no-op.
func (s *Session) Delete(e types.Entity) error {
	return s.stage(e, true, nil)
}

func (s *Session) stage(e types.Entity, remove bool, prepare func()) error {
	if e == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.checkReady(); err != nil {
		return err
	}
	if prepare != nil {
		prepare()
	}
	s.changes.stage(e, remove)
	return nil
}

// Save commits the staged changes in one transaction. On failure the
// transaction is rolled back, the staged changes are dropped and the
// returned error wraps ErrPersistence.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.checkReady(); err != nil {
		return err
	}
	if s.changes.empty() {
		return nil
	}
	staged := s.changes
	s.changes = newChangeSet()

	if err := s.store.commit(staged); err != nil {
		s.store.log.Warn().Err(err).Int("ops", len(staged.order)).Msg("rolled back")
		return fmt.Errorf("%w: %v", types.ErrPersistence, describeError(err))
	}
	s.store.log.Debug().Int("ops", len(staged.order)).Msg("committed")
	return nil
}

// Reload makes sure the schema exists and drops staged changes.
func (s *Session) Reload() error {
	if err := s.store.ensureSchema(); err != nil {
		return err
	}
	s.discard()
	return nil
}

// Close discards staged changes. Committed data is untouched.
func (s *Session) Close() error {
	s.discard()
	return nil
}

// Detach ends the session. The store and its pool stay open.
func (s *Session) Detach() error {
	s.discard()
	return nil
}

func (s *Session) discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes = newChangeSet()
}

var (
	_ types.Storage = (*Session)(nil)
	_ types.Toucher = (*Session)(nil)
)
