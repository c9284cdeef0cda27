package types

import (
	"errors"
	"time"
)

// Storage defines the uniform, backend-agnostic persistence interface.
// Callers prime a store with Reload, stage changes with New and Delete,
// commit them with Save, and call Close at the end of every request
// boundary. Detach releases backend resources at process exit.
type Storage interface {
	// All returns every registered entity keyed by "<Type>.<id>", or only
	// those of the given kind. AnyKind disables the filter.
	All(kind Kind) (map[string]Entity, error)

	// Get returns the entity with the given kind and ID.
	// Returns ErrNotFound when absent, when kind is not a concrete
	// variant, or when id is empty.
	Get(kind Kind, id string) (Entity, error)

	// New registers e, replacing any entity with the same composite key.
	New(e Entity) error

	// Save persists every pending change. Failures wrap ErrPersistence.
	Save() error

	// Delete removes e. A nil or absent entity is a no-op.
	Delete(e Entity) error

	// Count returns len(All(kind)).
	Count(kind Kind) (int, error)

	// Reload primes the store from its backing medium.
	Reload() error

	// Close ends a request boundary.
	Close() error

	// Detach releases backend resources. Idempotent.
	Detach() error
}

// Toucher is implemented by stores that share registered entities
// between callers. Touch moves UpdatedAt of e forward to at and registers
// e in one step under the store's lock, so a concurrent Save never reads
// a half-written entity.
type Toucher interface {
	Touch(e Entity, at time.Time) error
}

// SessionProvider is implemented by stores whose pending changes live in
// a session. Each request takes its own session; sessions share the
// store's connections but never see or commit each other's staged
// changes. Closing or detaching a session leaves the store open.
type SessionProvider interface {
	Session() Storage
}

// Storage errors.
var (
	ErrNotFound        = errors.New("entity not found")
	ErrPersistence     = errors.New("persistence failure")
	ErrCorruptDocument = errors.New("corrupt storage document")
	ErrNotReloaded     = errors.New("storage has not been reloaded")
	ErrNilEntity       = errors.New("entity is nil")
)

// Entity errors.
var (
	ErrParse       = errors.New("malformed timestamp")
	ErrUnknownKind = errors.New("unknown entity type")
)
