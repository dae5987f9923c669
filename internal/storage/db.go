package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var migrationsFS embed.FS

// Dialect selects the SQL backend.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// driverName returns the database/sql driver registered for the dialect.
func (d Dialect) driverName() (string, error) {
	switch d {
	case SQLite:
		return "sqlite", nil
	case Postgres:
		return "pgx", nil
	}
	return "", fmt.Errorf("unsupported database driver %q", d)
}

// DB wraps a *sql.DB and provides the workout record store methods.
type DB struct {
	conn    *sql.DB
	dialect Dialect
	now     func() time.Time
}

// Option configures a DB.
type Option func(*DB)

// WithClock overrides the time source used for start/end/completed timestamps.
func WithClock(now func() time.Time) Option {
	return func(db *DB) { db.now = now }
}

// New opens the database and verifies the connection.
func New(ctx context.Context, dialect Dialect, dsn string, opts ...Option) (*DB, error) {
	driver, err := dialect.driverName()
	if err != nil {
		return nil, err
	}
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if dialect == SQLite {
		// One writer; avoids SQLITE_BUSY between pooled connections.
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db := &DB{conn: conn, dialect: dialect, now: time.Now}
	for _, opt := range opts {
		opt(db)
	}
	return db, nil
}

// Close closes the underlying connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// RunMigrations applies all pending embedded migrations for the dialect.
// databaseURL uses the golang-migrate scheme: sqlite://<path> or pgx5://...
func RunMigrations(dialect Dialect, databaseURL string) error {
	if _, err := dialect.driverName(); err != nil {
		return err
	}
	src, err := iofs.New(migrationsFS, "migrations/"+string(dialect))
	if err != nil {
		return fmt.Errorf("loading migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, databaseURL)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders to $N for PostgreSQL.
func (db *DB) rebind(query string) string {
	if db.dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
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
