// Package sqlitestore keeps key-value pairs in a single SQLite table.
//
// It is an alternative to the file backend for users who already keep their
// tasks next to other SQLite data, or who want WAL durability. Values are
// stored verbatim; the store never looks inside them.
package sqlitestore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// takeTimeout bounds how long Load and Save wait for the connection.
const takeTimeout = 5 * time.Second

const schema = `CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// Config holds the parameters for opening a store. Path is required.
type Config struct {
	// Path is the database file. Its parent directory must exist.
	Path string

	// Logger receives open/close messages. Nil discards.
	Logger *slog.Logger
}

// Store is a KV backed by one SQLite database file.
type Store struct {
	pool   *sqlitex.Pool
	logger *slog.Logger
	path   string
}

// Open creates the database if needed and prepares the kv table on first
// connection use.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlitestore: Path is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// One connection: there is a single writer and reads are tiny.
	pool, err := sqlitex.NewPool(cfg.Path, sqlitex.PoolOptions{
		PoolSize:    1,
		PrepareConn: prepareConnection,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: opening %s: %w", cfg.Path, err)
	}

	logger.Debug("sqlite store opened", "path", cfg.Path)
	return &Store{pool: pool, logger: logger, path: cfg.Path}, nil
}

func prepareConnection(conn *sqlite.Conn) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if err := sqlitex.ExecuteTransient(conn, pragma, nil); err != nil {
			return fmt.Errorf("sqlitestore: %s: %w", pragma, err)
		}
	}
	if err := sqlitex.ExecuteTransient(conn, schema, nil); err != nil {
		return fmt.Errorf("sqlitestore: create schema: %w", err)
	}
	return nil
}

func (s *Store) take() (*sqlite.Conn, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), takeTimeout)
	conn, err := s.pool.Take(ctx)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("sqlitestore: take: %w", err)
	}
	return conn, func() {
		s.pool.Put(conn)
		cancel()
	}, nil
}

func (s *Store) Load(key string) (string, bool, error) {
	conn, release, err := s.take()
	if err != nil {
		return "", false, err
	}
	defer release()

	var (
		value string
		found bool
	)
	err = sqlitex.Execute(conn, "SELECT value FROM kv WHERE key = ?", &sqlitex.ExecOptions{
		Args: []any{key},
		ResultFunc: func(stmt *sqlite.Stmt) error {
			value = stmt.ColumnText(0)
			found = true
			return nil
		},
	})
	if err != nil {
		return "", false, fmt.Errorf("sqlitestore: load %s: %w", key, err)
	}
	return value, found, nil
}

func (s *Store) Save(key, value string) error {
	conn, release, err := s.take()
	if err != nil {
		return err
	}
	defer release()

	err = sqlitex.Execute(conn,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		&sqlitex.ExecOptions{Args: []any{key, value}})
	if err != nil {
		return fmt.Errorf("sqlitestore: save %s: %w", key, err)
	}
	return nil
}

// Close closes the pool. Blocks until the connection is returned.
func (s *Store) Close() error {
	if err := s.pool.Close(); err != nil {
		s.logger.Error("sqlite store close error", "path", s.path, "error", err)
		return fmt.Errorf("sqlitestore: closing %s: %w", s.path, err)
	}
	s.logger.Debug("sqlite store closed", "path", s.path)
	return nil
}
