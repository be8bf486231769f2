package tracker

import (
	"context"
	"sort"

	"github.com/nvandessel/workgraph/internal/models"
)

type graphInput struct {
	Name string `validate:"required"`
}

// CreateGraph stores a new empty graph. Its id is one past the highest
// existing graph id. Checkpoints left behind by a deleted graph with the
// same id are purged first so they never attach to the new graph.
func (t *Tracker) CreateGraph(ctx context.Context, name string) (*models.Graph, error) {
	if err := t.check(graphInput{Name: name}); err != nil {
		return nil, err
	}

	graphs, err := t.repo.ListGraphs(ctx)
	if err != nil {
		return nil, err
	}

	max := 0
	for _, g := range graphs {
		if g.ID > max {
			max = g.ID
		}
	}

	g := models.NewGraph(max+1, name)
	purged, err := t.repo.DeleteCheckpoints(ctx, g.ID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"name": name}
	if purged > 0 {
		fields["purged_checkpoints"] = purged
	}
	if err := t.save(ctx, g, "create_graph", fields); err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGraphs returns every graph ordered by id.
func (t *Tracker) ListGraphs(ctx context.Context) ([]models.Graph, error) {
	graphs, err := t.repo.ListGraphs(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(graphs, func(i, j int) bool {
		return graphs[i].ID < graphs[j].ID
	})
	return graphs, nil
}

// GetGraph returns one graph.
func (t *Tracker) GetGraph(ctx context.Context, id int) (*models.Graph, error) {
	return t.repo.GetGraph(ctx, id)
}

// DeleteGraph removes a graph. A missing graph is not an error.
func (t *Tracker) DeleteGraph(ctx context.Context, id int) error {
	if err := t.repo.DeleteGraph(ctx, id); err != nil {
		return err
	}
	t.record("delete_graph", id, nil)
	return nil
}
