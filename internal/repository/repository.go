// Package repository stores whole graphs in a kv.Store. It owns the key
// conventions: a graph lives at "graph-<id>" and its checkpoints at
// "checkpoint-<graph id>-<checkpoint id>".
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/nvandessel/workgraph/internal/codec"
	"github.com/nvandessel/workgraph/internal/kv"
	"github.com/nvandessel/workgraph/internal/logging"
	"github.com/nvandessel/workgraph/internal/models"
)

// Key prefixes.
const (
	GraphKeyPrefix      = "graph-"
	CheckpointKeyPrefix = "checkpoint-"
)

var (
	// ErrGraphNotFound is returned when no graph is stored under the id.
	ErrGraphNotFound = errors.New("graph not found")

	// ErrCheckpointNotFound is returned when a checkpoint does not exist.
	ErrCheckpointNotFound = errors.New("checkpoint not found")
)

// GraphKey returns the store key of a graph.
func GraphKey(id int) string {
	return GraphKeyPrefix + strconv.Itoa(id)
}

// CheckpointKey returns the store key of a graph checkpoint.
func CheckpointKey(graphID, id int) string {
	return checkpointPrefix(graphID) + strconv.Itoa(id)
}

// The trailing "-" keeps graph 1's scan from matching graph 12's checkpoints.
func checkpointPrefix(graphID int) string {
	return CheckpointKeyPrefix + strconv.Itoa(graphID) + "-"
}

// Repository loads and saves whole graphs. Every save replaces the full
// document; there are no partial writes.
type Repository struct {
	store  kv.Store
	logger *slog.Logger
}

// New creates a repository over store. A nil logger discards output.
func New(store kv.Store, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Repository{store: store, logger: logger}
}

// ListGraphs decodes every stored graph in key order. A document that fails
// to decode aborts the listing; no partial result is returned.
func (r *Repository) ListGraphs(ctx context.Context) ([]models.Graph, error) {
	var graphs []models.Graph
	for entry, err := range r.store.ScanPrefix(ctx, GraphKeyPrefix) {
		if err != nil {
			return nil, fmt.Errorf("scan graphs: %w", err)
		}
		g, err := codec.Decode(entry.Value)
		if err != nil {
			r.logger.Debug("undecodable graph document", "key", entry.Key, "error", err)
			return nil, fmt.Errorf("decode %s: %w", entry.Key, err)
		}
		graphs = append(graphs, *g)
	}
	return graphs, nil
}

// GetGraph loads one graph, or returns ErrGraphNotFound.
func (r *Repository) GetGraph(ctx context.Context, id int) (*models.Graph, error) {
	key := GraphKey(id)
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d", ErrGraphNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	g, err := codec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return g, nil
}

// SaveGraph encodes g and writes it at its key, replacing any prior value.
func (r *Repository) SaveGraph(ctx context.Context, g models.Graph) error {
	data, err := codec.Encode(g)
	if err != nil {
		return fmt.Errorf("encode graph %d: %w", g.ID, err)
	}

	key := GraphKey(g.ID)
	if err := r.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	r.logger.Debug("saved graph", "key", key, "works", len(g.Works), "relations", len(g.Relations), "bytes", len(data))
	r.logger.Log(ctx, logging.LevelTrace, "graph document", "key", key, "document", string(data))
	return nil
}

// DeleteGraph removes a graph. Deleting a missing graph succeeds.
// Checkpoints of the graph are kept so it can still be restored, until a
// new graph takes the same id.
func (r *Repository) DeleteGraph(ctx context.Context, id int) error {
	key := GraphKey(id)
	if err := r.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// SaveCheckpoint writes a checkpoint at its key.
func (r *Repository) SaveCheckpoint(ctx context.Context, cp models.Checkpoint) error {
	data, err := codec.EncodeCheckpoint(cp)
	if err != nil {
		return fmt.Errorf("encode checkpoint %d of graph %d: %w", cp.ID, cp.GraphID, err)
	}

	key := CheckpointKey(cp.GraphID, cp.ID)
	if err := r.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// ListCheckpoints returns a graph's checkpoints ordered by id. Like
// ListGraphs it fails on the first undecodable document.
func (r *Repository) ListCheckpoints(ctx context.Context, graphID int) ([]models.Checkpoint, error) {
	var checkpoints []models.Checkpoint
	for entry, err := range r.store.ScanPrefix(ctx, checkpointPrefix(graphID)) {
		if err != nil {
			return nil, fmt.Errorf("scan checkpoints: %w", err)
		}
		cp, err := codec.DecodeCheckpoint(entry.Value)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", entry.Key, err)
		}
		checkpoints = append(checkpoints, *cp)
	}

	// Key order puts checkpoint 10 before 2.
	sort.Slice(checkpoints, func(i, j int) bool {
		return checkpoints[i].ID < checkpoints[j].ID
	})
	return checkpoints, nil
}

// GetCheckpoint loads one checkpoint, or returns ErrCheckpointNotFound.
func (r *Repository) GetCheckpoint(ctx context.Context, graphID, id int) (*models.Checkpoint, error) {
	key := CheckpointKey(graphID, id)
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, fmt.Errorf("%w: %d of graph %d", ErrCheckpointNotFound, id, graphID)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}

	cp, err := codec.DecodeCheckpoint(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return cp, nil
}

// DeleteCheckpoint removes a checkpoint. Unlike DeleteGraph, a missing
// checkpoint is reported as ErrCheckpointNotFound.
func (r *Repository) DeleteCheckpoint(ctx context.Context, graphID, id int) error {
	key := CheckpointKey(graphID, id)
	if _, err := r.store.Get(ctx, key); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return fmt.Errorf("%w: %d of graph %d", ErrCheckpointNotFound, id, graphID)
		}
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := r.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// DeleteCheckpoints removes every checkpoint stored for graphID and returns
// how many were removed.
func (r *Repository) DeleteCheckpoints(ctx context.Context, graphID int) (int, error) {
	// Keys are collected first; the SQLite store holds its only connection
	// until the scan ends.
	var keys []string
	for entry, err := range r.store.ScanPrefix(ctx, checkpointPrefix(graphID)) {
		if err != nil {
			return 0, fmt.Errorf("scan checkpoints: %w", err)
		}
		keys = append(keys, entry.Key)
	}

	for i, key := range keys {
		if err := r.store.Delete(ctx, key); err != nil {
			return i, fmt.Errorf("delete %s: %w", key, err)
		}
	}
	if len(keys) > 0 {
		r.logger.Debug("purged checkpoints", "graph_id", graphID, "count", len(keys))
	}
	return len(keys), nil
}
