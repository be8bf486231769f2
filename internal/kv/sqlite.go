package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

// DBFileName is the database file created inside the store directory.
const DBFileName = "store.db"

// SQLiteStore implements Store on a single SQLite table.
//
// The database allows one connection, so callers must finish (or break out
// of) a ScanPrefix iteration before issuing writes.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (creating if missing) the store in dir.
func NewSQLiteStore(ctx context.Context, dir string) (*SQLiteStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, &IOError{Op: "open", Err: fmt.Errorf("failed to create store directory: %w", err)}
	}

	dbPath := filepath.Join(dir, DBFileName)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, &IOError{Op: "open", Err: fmt.Errorf("failed to open database: %w", err)}
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, &IOError{Op: "open", Err: err}
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Get returns the value stored at key.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &IOError{Op: "get", Key: key, Err: err}
	}
	return value, nil
}

// Put stores value at key.
func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return &IOError{Op: "put", Key: key, Err: err}
	}
	return nil
}

// Delete removes key. A missing key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return &IOError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// ScanPrefix streams matching rows in key order. The query runs when
// iteration starts and its rows are released when iteration ends.
func (s *SQLiteStore) ScanPrefix(ctx context.Context, prefix string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		var (
			rows *sql.Rows
			err  error
		)
		if end := prefixEnd(prefix); end != "" {
			rows, err = s.db.QueryContext(ctx,
				`SELECT key, value FROM kv WHERE key >= ? AND key < ? ORDER BY key`, prefix, end)
		} else {
			rows, err = s.db.QueryContext(ctx,
				`SELECT key, value FROM kv WHERE key >= ? ORDER BY key`, prefix)
		}
		if err != nil {
			yield(Entry{}, &IOError{Op: "scan", Key: prefix, Err: err})
			return
		}
		defer rows.Close()

		for rows.Next() {
			var e Entry
			if err := rows.Scan(&e.Key, &e.Value); err != nil {
				yield(Entry{}, &IOError{Op: "scan", Key: prefix, Err: err})
				return
			}
			if !yield(e, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(Entry{}, &IOError{Op: "scan", Key: prefix, Err: err})
		}
	}
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return &IOError{Op: "close", Err: err}
	}
	return nil
}
