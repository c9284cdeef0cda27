package dbstore

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

func TestRebind(t *testing.T) {
	pg := dialect{name: types.DriverPostgres, numbered: true}
	lite := dialect{name: types.DriverSQLite}

	q := "INSERT INTO states (id, name) VALUES (?, ?)"
	assert.Equal(t, "INSERT INTO states (id, name) VALUES ($1, $2)", pg.rebind(q))
	assert.Equal(t, q, lite.rebind(q))
}

func TestPostgresURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  types.DatabaseConfig
		want string
	}{
		{
			name: "full",
			cfg:  types.DatabaseConfig{User: "hbnb_dev", Password: "hbnb_dev_pwd", Host: "db", Name: "hbnb_dev_db"},
			want: "postgres://hbnb_dev:hbnb_dev_pwd@db/hbnb_dev_db",
		},
		{
			name: "default host without credentials",
			cfg:  types.DatabaseConfig{Name: "hbnb"},
			want: "postgres://localhost/hbnb",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, postgresURL(tt.cfg))
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, _, err := openDB(types.DatabaseConfig{Driver: "mysql", Name: "x"})
	assert.ErrorIs(t, err, types.ErrDriverUnknown)
}

func TestDescribeError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42P01", Message: `relation "states" does not exist`}
	err := describeError(pgErr)
	assert.Contains(t, err.Error(), "42P01")
	assert.True(t, errors.Is(err, pgErr))

	plain := errors.New("boom")
	assert.Equal(t, plain, describeError(plain))
}

func TestUpsertSQL(t *testing.T) {
	tbl, ok := tableFor(types.KindCity)
	assert.True(t, ok)
	assert.Equal(t,
		"INSERT INTO cities (id, created_at, updated_at, state_id, name) VALUES (?, ?, ?, ?, ?) "+
			"ON CONFLICT (id) DO UPDATE SET updated_at = excluded.updated_at, state_id = excluded.state_id, name = excluded.name",
		tbl.upsertSQL())
}
