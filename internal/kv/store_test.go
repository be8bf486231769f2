package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeFactories runs each contract test against every implementation.
func storeFactories() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store {
			s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "graph"))
			require.NoError(t, err)
			return s
		},
	}
}

func collect(t *testing.T, s Store, prefix string) []Entry {
	t.Helper()
	var out []Entry
	for e, err := range s.ScanPrefix(context.Background(), prefix) {
		require.NoError(t, err)
		out = append(out, e)
	}
	return out
}

func keys(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Key)
	}
	return out
}

func TestStore_GetPutDelete(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := context.Background()

			_, err := s.Get(ctx, "graph-1")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Put(ctx, "graph-1", []byte(`{"id":1}`)))
			got, err := s.Get(ctx, "graph-1")
			require.NoError(t, err)
			assert.Equal(t, `{"id":1}`, string(got))

			require.NoError(t, s.Put(ctx, "graph-1", []byte(`{"id":1,"name":"x"}`)))
			got, err = s.Get(ctx, "graph-1")
			require.NoError(t, err)
			assert.Equal(t, `{"id":1,"name":"x"}`, string(got), "Put should replace the previous value")

			require.NoError(t, s.Delete(ctx, "graph-1"))
			_, err = s.Get(ctx, "graph-1")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.NoError(t, s.Delete(ctx, "graph-404"), "deleting a missing key should succeed")
		})
	}
}

func TestStore_ScanPrefixOrder(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := context.Background()

			for _, k := range []string{"graph-2", "graph-10", "checkpoint-1-1", "graph-1", "graphs", "graph"} {
				require.NoError(t, s.Put(ctx, k, []byte(k)))
			}

			got := collect(t, s, "graph-")
			assert.Equal(t, []string{"graph-1", "graph-10", "graph-2"}, keys(got))
			for _, e := range got {
				assert.Equal(t, e.Key, string(e.Value))
			}

			assert.Empty(t, collect(t, s, "relation-"))
			assert.Len(t, collect(t, s, ""), 6)
		})
	}
}

func TestStore_ScanPrefixEarlyBreak(t *testing.T) {
	for name, newStore := range storeFactories() {
		t.Run(name, func(t *testing.T) {
			s := newStore(t)
			defer s.Close()
			ctx := context.Background()

			for _, k := range []string{"graph-1", "graph-2", "graph-3"} {
				require.NoError(t, s.Put(ctx, k, []byte("v")))
			}

			seen := 0
			for _, err := range s.ScanPrefix(ctx, "graph-") {
				require.NoError(t, err)
				seen++
				break
			}
			assert.Equal(t, 1, seen)

			// The store must remain usable after an abandoned scan.
			require.NoError(t, s.Put(ctx, "graph-4", []byte("v")))
			assert.Len(t, collect(t, s, "graph-"), 4)
		})
	}
}

func TestStore_ScanPrefixCancelled(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Put(context.Background(), "graph-1", []byte("v")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var gotErr error
	for _, err := range s.ScanPrefix(ctx, "graph-") {
		gotErr = err
	}
	var ioErr *IOError
	require.True(t, errors.As(gotErr, &ioErr))
	assert.ErrorIs(t, gotErr, context.Canceled)
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	v := []byte("abc")
	require.NoError(t, s.Put(ctx, "k", v))
	v[0] = 'x'

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestSQLiteStore_Persists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "graph")
	ctx := context.Background()

	s, err := NewSQLiteStore(ctx, dir)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "graph-1", []byte("one")))
	require.NoError(t, s.Close())

	_, err = os.Stat(filepath.Join(dir, DBFileName))
	require.NoError(t, err, "database file should exist")

	s, err = NewSQLiteStore(ctx, dir)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "graph-1")
	require.NoError(t, err)
	assert.Equal(t, "one", string(got))
}

func TestPrefixEnd(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"graph-", "graph."},
		{"a", "b"},
		{"a\xff", "b"},
		{"\xff\xff", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, prefixEnd(tt.prefix), "prefixEnd(%q)", tt.prefix)
	}
}
