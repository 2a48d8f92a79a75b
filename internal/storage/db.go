package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"finance-tracker/internal/finance"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

var _ finance.Repository = (*DB)(nil)

// ErrUsernameTaken is returned when creating a user whose name exists.
var ErrUsernameTaken = errors.New("username already taken")

// DB wraps a sql.DB connection.
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
}

// NewDB opens the sqlite database at path and applies the schema.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// sqlite has a single writer; one connection also keeps ":memory:"
	// databases from being split across the pool.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := runMigrations(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &DB{conn: conn, logger: slog.Default().With("component", "storage")}, nil
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return finance.ErrNotFound
	}
	return err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return finance.ErrNotFound
	}
	return nil
}
