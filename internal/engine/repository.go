package engine

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Repository persists entities through a Storage. Entities are plain
// records; saving and deleting them goes through here.
type Repository struct {
	store types.Storage
}

// NewRepository wraps store. When store hands out sessions the
// repository takes its own, so every repository is one request scope.
func NewRepository(store types.Storage) *Repository {
	if sp, ok := store.(types.SessionProvider); ok {
		store = sp.Session()
	}
	return &Repository{store: store}
}

// Storage returns the store the repository works on: its session when
// the backend hands out sessions, otherwise the store itself.
func (r *Repository) Storage() types.Storage { return r.store }

// Save refreshes UpdatedAt, registers e and commits. UpdatedAt never
// moves backwards. On failure the in-memory entity keeps its new
// UpdatedAt and the store error is returned.
func (r *Repository) Save(e types.Entity) error {
	if e == nil {
		return types.ErrNilEntity
	}
	now := types.Now()
	if t, ok := r.store.(types.Toucher); ok {
		if err := t.Touch(e, now); err != nil {
			return err
		}
	} else {
		types.Touch(e, now)
		if err := r.store.New(e); err != nil {
			return err
		}
	}
	return r.store.Save()
}

// Delete removes e from the store. The entity's attributes are left
// untouched. Call Commit to make the removal durable.
func (r *Repository) Delete(e types.Entity) error {
	return r.store.Delete(e)
}

// Commit persists pending changes.
func (r *Repository) Commit() error {
	return r.store.Save()
}

// Get returns the entity with the given kind and id.
func (r *Repository) Get(kind types.Kind, id string) (types.Entity, error) {
	return r.store.Get(kind, id)
}

// All returns the entities of kind ordered by creation time, then id.
func (r *Repository) All(kind types.Kind) ([]types.Entity, error) {
	objects, err := r.store.All(kind)
	if err != nil {
		return nil, err
	}
	out := make([]types.Entity, 0, len(objects))
	for _, e := range objects {
		out = append(out, e)
	}
	sortEntities(out)
	return out, nil
}

// Count returns the number of entities of kind.
func (r *Repository) Count(kind types.Kind) (int, error) {
	return r.store.Count(kind)
}

// Teardown ends a request boundary by closing the store.
func (r *Repository) Teardown() error {
	return r.store.Close()
}

// allOf returns the entities of kind as T, filtered by keep and ordered
// like All.
func allOf[T types.Entity](r *Repository, kind types.Kind, keep func(T) bool) ([]T, error) {
	objects, err := r.store.All(kind)
	if err != nil {
		return nil, err
	}
	var out []T
	for key, e := range objects {
		v, ok := e.(T)
		if !ok {
			return nil, fmt.Errorf("%s: stored as %T", key, e)
		}
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	slices.SortStableFunc(out, func(a, b T) int { return compareEntities(a, b) })
	return out, nil
}

func sortEntities(es []types.Entity) {
	slices.SortStableFunc(es, compareEntities)
}

func compareEntities(a, b types.Entity) int {
	if c := a.Meta().CreatedAt.Compare(b.Meta().CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.Meta().ID, b.Meta().ID)
}
