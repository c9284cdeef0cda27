package dbstore

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/hbnb/pkg/types"
)

// memoryDSN opens a private in-memory sqlite database.
const memoryDSN = ":memory:"

// dialect captures the differences between the supported SQL engines.
type dialect struct {
	name string

	// numbered placeholders ($1, $2, ...) instead of "?".
	numbered bool
}

// rebind rewrites "?" placeholders for the dialect.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// openDB opens the connection pool for cfg.
func openDB(cfg types.DatabaseConfig) (*sql.DB, dialect, error) {
	switch cfg.DriverName() {
	case types.DriverSQLite:
		return openSQLite(cfg.Name)
	case types.DriverPostgres:
		return openPostgres(cfg)
	default:
		return nil, dialect{}, fmt.Errorf("%w: %q", types.ErrDriverUnknown, cfg.Driver)
	}
}

func openSQLite(name string) (*sql.DB, dialect, error) {
	d := dialect{name: types.DriverSQLite}
	if name != memoryDSN {
		if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
			return nil, d, err
		}
	}
	db, err := sql.Open("sqlite", name)
	if err != nil {
		return nil, d, err
	}
	// A single connection serializes writers and keeps one view of an
	// in-memory database.
	db.SetMaxOpenConns(1)
	return db, d, nil
}

func openPostgres(cfg types.DatabaseConfig) (*sql.DB, dialect, error) {
	d := dialect{name: types.DriverPostgres, numbered: true}
	connCfg, err := pgx.ParseConfig(postgresURL(cfg))
	if err != nil {
		return nil, d, fmt.Errorf("parsing postgres config: %w", err)
	}
	return stdlib.OpenDB(*connCfg), d, nil
}

// postgresURL builds the connection URL from the configured parameters.
func postgresURL(cfg types.DatabaseConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   host,
		Path:   cfg.Name,
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	return u.String()
}

// describeError adds server detail to postgres errors.
func describeError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s (code: %s): %w", pgErr.Message, pgErr.Code, err)
	}
	return err
}
