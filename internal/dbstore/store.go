// Package dbstore implements the relational storage backend on
// database/sql, with sqlite (modernc.org/sqlite) and postgres
// (jackc/pgx) dialects. Changes are staged in a per-request Session and
// committed by Save in one transaction.
package dbstore

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Store owns the connection pool and hands out sessions. It implements
// types.Storage itself through a default session, for callers that run
// one request at a time.
type Store struct {
	mu      sync.Mutex // guards db and ready
	db      *sql.DB
	dialect dialect
	ready   bool // schema created by Reload
	root    *Session
	log     zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for commits, rollbacks and schema setup.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open connects to the database described by cfg. When cfg is in test
// mode every table is dropped. The store is unusable until Reload.
func Open(cfg types.Config, opts ...Option) (*Store, error) {
	db, d, err := openDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db, dialect: d, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.root = s.newSession()

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to %s: %w", d.name, describeError(err))
	}
	if cfg.TestMode() {
		if err := s.dropAll(); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *Store) dropAll() error {
	for _, name := range dropTables() {
		if _, err := s.db.Exec("DROP TABLE IF EXISTS " + name); err != nil {
			return fmt.Errorf("dropping %s: %w", name, describeError(err))
		}
	}
	s.log.Warn().Str("dialect", s.dialect.name).Msg("test mode: dropped all tables")
	return nil
}

func (s *Store) newSession() *Session {
	return &Session{store: s, changes: newChangeSet()}
}

// Session returns a new request-scoped session sharing the pool.
func (s *Store) Session() types.Storage {
	return s.newSession()
}

// Reload creates any missing tables and drops the default session's
// staged changes.
func (s *Store) Reload() error {
	return s.root.Reload()
}

func (s *Store) ensureSchema() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return fmt.Errorf("%w: store is detached", types.ErrPersistence)
	}
	for _, stmt := range schemaDDL {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", describeError(err))
		}
	}
	for _, stmt := range indexDDL {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating index: %w", describeError(err))
		}
	}
	s.ready = true
	s.log.Debug().Str("dialect", s.dialect.name).Msg("schema ready")
	return nil
}

func (s *Store) checkReady() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return types.ErrNotReloaded
	}
	return nil
}

// All returns committed rows with the default session's staged changes
// applied.
func (s *Store) All(kind types.Kind) (map[string]types.Entity, error) {
	return s.root.All(kind)
}

// Get returns the entity with the given kind and id.
func (s *Store) Get(kind types.Kind, id string) (types.Entity, error) {
	return s.root.Get(kind, id)
}

// Count returns len(All(kind)).
func (s *Store) Count(kind types.Kind) (int, error) {
	return s.root.Count(kind)
}

// New stages e in the default session.
func (s *Store) New(e types.Entity) error {
	return s.root.New(e)
}

// Touch stamps and stages e in the default session.
func (s *Store) Touch(e types.Entity, at time.Time) error {
	return s.root.Touch(e, at)
}

// Delete stages the removal of e in the default session.
func (s *Store) Delete(e types.Entity) error {
	return s.root.Delete(e)
}

// Save commits the default session.
func (s *Store) Save() error {
	return s.root.Save()
}

// Close discards the default session's staged changes.
func (s *Store) Close() error {
	return s.root.Close()
}

// query reads committed rows of the given kind, or of every kind for
// types.AnyKind.
func (s *Store) query(kind types.Kind) (map[string]types.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, types.ErrNotReloaded
	}
	out := make(map[string]types.Entity)
	var places map[string]*types.Place
	for _, t := range tablesFor(kind) {
		rows, err := s.queryTable(t)
		if err != nil {
			return nil, err
		}
		for _, e := range rows {
			out[types.Key(e)] = e
			if p, ok := e.(*types.Place); ok {
				if places == nil {
					places = make(map[string]*types.Place)
				}
				places[p.ID] = p
			}
		}
	}
	if len(places) > 0 {
		if err := s.loadAmenityLinks(places); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// queryTable reads every row of t. Rows are closed before returning so
// a single-connection pool can run the next query.
func (s *Store) queryTable(t table) ([]types.Entity, error) {
	rows, err := s.db.Query(t.selectSQL())
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", t.name, describeError(err))
	}
	defer rows.Close()

	var out []types.Entity
	for rows.Next() {
		vals := make([]any, len(t.columns))
		ptrs := make([]any, len(t.columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", t.name, err)
		}
		attrs := make(map[string]any, len(t.columns))
		for i, c := range t.columns {
			attrs[c] = normalize(vals[i])
		}
		e, err := types.FromMap(t.kind, attrs)
		if err != nil {
			s.log.Warn().Err(err).Str("table", t.name).Any("id", attrs["id"]).Msg("skipping row")
			continue
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", t.name, err)
	}
	return out, nil
}

// normalize converts driver values that mapstructure cannot decode.
func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func (s *Store) loadAmenityLinks(places map[string]*types.Place) error {
	rows, err := s.db.Query("SELECT place_id, amenity_id FROM " + placeAmenityTable + " ORDER BY place_id, amenity_id")
	if err != nil {
		return fmt.Errorf("querying %s: %w", placeAmenityTable, describeError(err))
	}
	defer rows.Close()

	for rows.Next() {
		var placeID, amenityID string
		if err := rows.Scan(&placeID, &amenityID); err != nil {
			return fmt.Errorf("scanning %s: %w", placeAmenityTable, err)
		}
		if p, ok := places[placeID]; ok {
			p.AmenityIDs = append(p.AmenityIDs, amenityID)
		}
	}
	return rows.Err()
}

// commit applies staged in one transaction, rolling back on failure.
func (s *Store) commit(staged *changeSet) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return types.ErrNotReloaded
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	err = staged.each(func(key string, op stagedOp) error {
		t, ok := tableFor(op.entity.Kind())
		if !ok {
			return fmt.Errorf("%s: %w", key, types.ErrUnknownKind)
		}
		if op.remove {
			return s.deleteRow(tx, t, op.entity)
		}
		return s.upsertRow(tx, t, op.entity)
	})
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) exec(tx *sql.Tx, query string, args ...any) error {
	_, err := tx.Exec(s.dialect.rebind(query), args...)
	return err
}

func (s *Store) upsertRow(tx *sql.Tx, t table, e types.Entity) error {
	if err := s.exec(tx, t.upsertSQL(), t.values(e)...); err != nil {
		return fmt.Errorf("saving %s: %w", types.Key(e), err)
	}
	p, ok := e.(*types.Place)
	if !ok {
		return nil
	}
	if err := s.exec(tx, "DELETE FROM "+placeAmenityTable+" WHERE place_id = ?", p.ID); err != nil {
		return fmt.Errorf("unlinking amenities of %s: %w", types.Key(e), err)
	}
	seen := make(map[string]bool, len(p.AmenityIDs))
	for _, id := range p.AmenityIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := s.exec(tx, "INSERT INTO "+placeAmenityTable+" (place_id, amenity_id) VALUES (?, ?)", p.ID, id); err != nil {
			return fmt.Errorf("linking amenity %s to %s: %w", id, types.Key(e), err)
		}
	}
	return nil
}

func (s *Store) deleteRow(tx *sql.Tx, t table, e types.Entity) error {
	id := e.Meta().ID
	if err := s.exec(tx, t.deleteSQL(), id); err != nil {
		return fmt.Errorf("deleting %s: %w", types.Key(e), err)
	}
	var link string
	switch t.kind {
	case types.KindPlace:
		link = "place_id"
	case types.KindAmenity:
		link = "amenity_id"
	default:
		return nil
	}
	if err := s.exec(tx, "DELETE FROM "+placeAmenityTable+" WHERE "+link+" = ?", id); err != nil {
		return fmt.Errorf("unlinking %s: %w", types.Key(e), err)
	}
	return nil
}

// Detach closes the connection pool. Sessions fail with ErrNotReloaded
// afterwards. Idempotent.
func (s *Store) Detach() error {
	err := s.closePool()
	s.root.discard()
	return err
}

func (s *Store) closePool() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.ready = false
	return err
}

var (
	_ types.Storage         = (*Store)(nil)
	_ types.Toucher         = (*Store)(nil)
	_ types.SessionProvider = (*Store)(nil)
)
