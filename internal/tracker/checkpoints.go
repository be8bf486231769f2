package tracker

import (
	"context"

	"github.com/nvandessel/workgraph/internal/models"
)

// CreateCheckpoint freezes the current state of a graph.
func (t *Tracker) CreateCheckpoint(ctx context.Context, graphID int) (*models.Checkpoint, error) {
	g, err := t.load(ctx, graphID)
	if err != nil {
		return nil, err
	}

	existing, err := t.repo.ListCheckpoints(ctx, graphID)
	if err != nil {
		return nil, err
	}
	max := 0
	for _, cp := range existing {
		if cp.ID > max {
			max = cp.ID
		}
	}

	cp := models.Checkpoint{
		ID:        max + 1,
		GraphID:   graphID,
		CreatedAt: t.timestamp(),
		Graph:     g,
	}
	if err := t.repo.SaveCheckpoint(ctx, cp); err != nil {
		return nil, err
	}
	t.record("create_checkpoint", graphID, map[string]any{"checkpoint_id": cp.ID})
	return &cp, nil
}

// ListCheckpoints returns a graph's checkpoints ordered by id. It works for
// graphs that have since been deleted.
func (t *Tracker) ListCheckpoints(ctx context.Context, graphID int) ([]models.Checkpoint, error) {
	return t.repo.ListCheckpoints(ctx, graphID)
}

// RestoreCheckpoint overwrites the graph with the checkpoint's copy,
// recreating it if it was deleted.
func (t *Tracker) RestoreCheckpoint(ctx context.Context, graphID, checkpointID int) (*models.Graph, error) {
	cp, err := t.repo.GetCheckpoint(ctx, graphID, checkpointID)
	if err != nil {
		return nil, err
	}

	g := cp.Graph
	g.ID = graphID
	if err := t.save(ctx, g, "restore_checkpoint", map[string]any{"checkpoint_id": checkpointID}); err != nil {
		return nil, err
	}
	return &g, nil
}

// DeleteCheckpoint removes a checkpoint, reporting ErrCheckpointNotFound
// when it does not exist.
func (t *Tracker) DeleteCheckpoint(ctx context.Context, graphID, checkpointID int) error {
	if err := t.repo.DeleteCheckpoint(ctx, graphID, checkpointID); err != nil {
		return err
	}
	t.record("delete_checkpoint", graphID, map[string]any{"checkpoint_id": checkpointID})
	return nil
}
