package dbstore

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// Schema DDL. Timestamps are TEXT in types.TimeFormat. References carry
// no foreign-key constraints; the store accepts dangling ids.
const (
	createStates = `CREATE TABLE IF NOT EXISTS states (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT ''
)`

	createCities = `CREATE TABLE IF NOT EXISTS cities (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    state_id TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL DEFAULT ''
)`

	createAmenities = `CREATE TABLE IF NOT EXISTS amenities (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT ''
)`

	createUsers = `CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    email TEXT NOT NULL DEFAULT '',
    password TEXT NOT NULL DEFAULT '',
    first_name TEXT NOT NULL DEFAULT '',
    last_name TEXT NOT NULL DEFAULT ''
)`

	createPlaces = `CREATE TABLE IF NOT EXISTS places (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    city_id TEXT NOT NULL DEFAULT '',
    user_id TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    number_rooms INTEGER NOT NULL DEFAULT 0,
    number_bathrooms INTEGER NOT NULL DEFAULT 0,
    max_guest INTEGER NOT NULL DEFAULT 0,
    price_by_night INTEGER NOT NULL DEFAULT 0,
    latitude DOUBLE PRECISION NOT NULL DEFAULT 0,
    longitude DOUBLE PRECISION NOT NULL DEFAULT 0
)`

	createReviews = `CREATE TABLE IF NOT EXISTS reviews (
    id TEXT PRIMARY KEY,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    place_id TEXT NOT NULL DEFAULT '',
    user_id TEXT NOT NULL DEFAULT '',
    text TEXT NOT NULL DEFAULT ''
)`

	createPlaceAmenity = `CREATE TABLE IF NOT EXISTS place_amenity (
    place_id TEXT NOT NULL,
    amenity_id TEXT NOT NULL,
    PRIMARY KEY (place_id, amenity_id)
)`
)

// Index DDL for the reference columns.
const (
	idxCitiesState         = `CREATE INDEX IF NOT EXISTS idx_cities_state ON cities(state_id)`
	idxPlacesCity          = `CREATE INDEX IF NOT EXISTS idx_places_city ON places(city_id)`
	idxPlacesUser          = `CREATE INDEX IF NOT EXISTS idx_places_user ON places(user_id)`
	idxReviewsPlace        = `CREATE INDEX IF NOT EXISTS idx_reviews_place ON reviews(place_id)`
	idxReviewsUser         = `CREATE INDEX IF NOT EXISTS idx_reviews_user ON reviews(user_id)`
	idxPlaceAmenityAmenity = `CREATE INDEX IF NOT EXISTS idx_place_amenity_amenity ON place_amenity(amenity_id)`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createStates,
	createCities,
	createAmenities,
	createUsers,
	createPlaces,
	createReviews,
	createPlaceAmenity,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxCitiesState,
	idxPlacesCity,
	idxPlacesUser,
	idxReviewsPlace,
	idxReviewsUser,
	idxPlaceAmenityAmenity,
}

// placeAmenityTable links places and amenities.
const placeAmenityTable = "place_amenity"

// table maps one entity kind onto its relational table.
type table struct {
	kind    types.Kind
	name    string
	columns []string // id, created_at and updated_at first
}

var baseColumns = []string{"id", "created_at", "updated_at"}

func newTable(kind types.Kind, name string, columns ...string) table {
	return table{kind: kind, name: name, columns: append(append([]string{}, baseColumns...), columns...)}
}

// tables holds one entry per kind, in types.Kinds order.
var tables = []table{
	newTable(types.KindState, "states", "name"),
	newTable(types.KindCity, "cities", "state_id", "name"),
	newTable(types.KindAmenity, "amenities", "name"),
	newTable(types.KindUser, "users", "email", "password", "first_name", "last_name"),
	newTable(types.KindPlace, "places", "city_id", "user_id", "name", "description",
		"number_rooms", "number_bathrooms", "max_guest", "price_by_night", "latitude", "longitude"),
	newTable(types.KindReview, "reviews", "place_id", "user_id", "text"),
}

// tableFor returns the table of kind.
func tableFor(kind types.Kind) (table, bool) {
	for _, t := range tables {
		if t.kind == kind {
			return t, true
		}
	}
	return table{}, false
}

// tablesFor returns the tables selected by a kind filter.
func tablesFor(kind types.Kind) []table {
	if kind == types.AnyKind {
		return tables
	}
	if t, ok := tableFor(kind); ok {
		return []table{t}
	}
	return nil
}

func (t table) selectSQL() string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(t.columns, ", "), t.name)
}

// upsertSQL inserts a row or, when the id exists, overwrites every
// column except id and created_at.
func (t table) upsertSQL() string {
	marks := make([]string, len(t.columns))
	for i := range marks {
		marks[i] = "?"
	}
	var sets []string
	for _, c := range t.columns {
		if c == "id" || c == "created_at" {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (id) DO UPDATE SET %s",
		t.name, strings.Join(t.columns, ", "), strings.Join(marks, ", "), strings.Join(sets, ", "))
}

func (t table) deleteSQL() string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.name)
}

// values returns the column values of e in column order.
func (t table) values(e types.Entity) []any {
	m := e.ToMap(false)
	args := make([]any, len(t.columns))
	for i, c := range t.columns {
		args[i] = m[c]
	}
	return args
}

// dropTables lists every table for test-mode teardown.
func dropTables() []string {
	names := make([]string, 0, len(tables)+1)
	names = append(names, placeAmenityTable)
	for _, t := range tables {
		names = append(names, t.name)
	}
	return names
}
