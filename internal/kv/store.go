// Package kv defines the ordered byte-string store that graphs are persisted
// in, with a SQLite-backed implementation for the CLI and an in-memory one
// for tests.
package kv

import (
	"context"
	"errors"
	"fmt"
	"iter"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// Entry is one key/value pair produced by a prefix scan.
type Entry struct {
	Key   string
	Value []byte
}

// IOError wraps a failure of the underlying storage engine.
type IOError struct {
	Op  string // "open", "get", "put", "delete", "scan" or "close"
	Key string
	Err error
}

func (e *IOError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("kv %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("kv %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Store is an ordered key-value store. Keys are opaque and compared
// byte-lexicographically.
type Store interface {
	// Get returns the value stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value at key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key succeeds.
	Delete(ctx context.Context, key string) error

	// ScanPrefix yields every entry whose key starts with prefix, in key
	// order. The sequence is finite and single-use; a non-nil error is
	// yielded at most once and ends the scan.
	ScanPrefix(ctx context.Context, prefix string) iter.Seq2[Entry, error]

	Close() error
}

// prefixEnd returns the smallest key greater than every key with the given
// prefix, or "" when no such bound exists (empty or all-0xff prefix).
func prefixEnd(prefix string) string {
	b := []byte(prefix)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < 0xff {
			b[i]++
			return string(b[:i+1])
		}
	}
	return ""
}
