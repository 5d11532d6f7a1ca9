package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode/utf8"

	_ "github.com/glebarez/go-sqlite"
)

const DefaultTable = "kv"

var tableNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// SQLiteStorage is a durable Storage backed by a single SQLite table.
type SQLiteStorage struct {
	db    *sql.DB
	table string
	owned bool
}

// OpenSQLite opens (or creates) the database at path and prepares table.
func OpenSQLite(path, table string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// One connection serializes writers; upserts keep last write wins.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	storage, err := NewSQLiteStorage(db, table)
	if err != nil {
		db.Close()
		return nil, err
	}
	storage.owned = true
	return storage, nil
}

// NewSQLiteStorage uses an already opened database. The caller keeps
// ownership of db; Close does not close it.
func NewSQLiteStorage(db *sql.DB, table string) (*SQLiteStorage, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	schema := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`, table)
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create table %s: %w", table, err)
	}

	return &SQLiteStorage{db: db, table: table}, nil
}

// DB exposes the underlying handle so other tables can share the file.
func (s *SQLiteStorage) DB() *sql.DB {
	return s.db
}

func (s *SQLiteStorage) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	query := fmt.Sprintf("SELECT value FROM %s WHERE key = ?", s.table)
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStorage) Write(ctx context.Context, key string, value []byte) error {
	query := fmt.Sprintf(`INSERT INTO %s (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, s.table)
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStorage) Delete(ctx context.Context, keys ...string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE key = ?", s.table)
	for _, key := range keys {
		if _, err := s.db.ExecContext(ctx, query, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}

func (s *SQLiteStorage) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	// substr counts characters, not bytes; it avoids LIKE wildcard escaping
	query := fmt.Sprintf("DELETE FROM %s WHERE substr(key, 1, ?) = ?", s.table)
	res, err := s.db.ExecContext(ctx, query, utf8.RuneCountInString(prefix), prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to delete prefix %s: %w", prefix, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(n), nil
}

func (s *SQLiteStorage) Count(ctx context.Context) (int, error) {
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *SQLiteStorage) Close() error {
	if !s.owned {
		return nil
	}
	return s.db.Close()
}
