package dbstore

import "github.com/mesh-intelligence/hbnb/pkg/types"

// stagedOp is one pending change of the unit of work.
type stagedOp struct {
	entity types.Entity
	remove bool
}

// changeSet stages upserts and removals until Save. A later stage for
// the same composite key replaces the earlier one in place.
type changeSet struct {
	order []string
	ops   map[string]stagedOp
}

func newChangeSet() *changeSet {
	return &changeSet{ops: make(map[string]stagedOp)}
}

func (s *changeSet) stage(e types.Entity, remove bool) {
	key := types.Key(e)
	if _, ok := s.ops[key]; !ok {
		s.order = append(s.order, key)
	}
	s.ops[key] = stagedOp{entity: e, remove: remove}
}

func (s *changeSet) empty() bool {
	return len(s.order) == 0
}

// each visits staged ops in staging order.
func (s *changeSet) each(fn func(key string, op stagedOp) error) error {
	for _, key := range s.order {
		if err := fn(key, s.ops[key]); err != nil {
			return err
		}
	}
	return nil
}

// overlay applies the staged ops to a query result, so pending upserts
// are visible and pending removals hidden.
func (s *changeSet) overlay(kind types.Kind, objects map[string]types.Entity) {
	for _, key := range s.order {
		op := s.ops[key]
		if !kind.Matches(op.entity) {
			continue
		}
		if op.remove {
			delete(objects, key)
			continue
		}
		objects[key] = op.entity
	}
}
