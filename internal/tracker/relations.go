package tracker

import (
	"context"
	"fmt"

	"github.com/nvandessel/workgraph/internal/models"
)

// NewRelation holds the fields of a relation to create. W1 and W2 are not
// checked against the graph's works.
type NewRelation struct {
	W1          int
	W2          int
	Description string
}

// CreateRelation adds a relation with id one past the highest relation id.
func (t *Tracker) CreateRelation(ctx context.Context, graphID int, in NewRelation) (*models.Relation, error) {
	g, err := t.load(ctx, graphID)
	if err != nil {
		return nil, err
	}

	r := models.Relation{
		ID:          g.NextRelationID(),
		W1:          in.W1,
		W2:          in.W2,
		Description: in.Description,
	}
	g.Relations[r.ID] = r

	if err := t.save(ctx, g, "create_relation", map[string]any{"relation_id": r.ID}); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRelations returns a graph's relations ordered by id.
func (t *Tracker) ListRelations(ctx context.Context, graphID int) ([]models.Relation, error) {
	g, err := t.load(ctx, graphID)
	if err != nil {
		return nil, err
	}
	return g.SortedRelations(), nil
}

// DeleteRelation removes a relation, reporting ErrRelationNotFound when it
// does not exist.
func (t *Tracker) DeleteRelation(ctx context.Context, graphID, relationID int) error {
	g, err := t.load(ctx, graphID)
	if err != nil {
		return err
	}

	if _, ok := g.Relations[relationID]; !ok {
		return fmt.Errorf("%w: %d in graph %d", ErrRelationNotFound, relationID, graphID)
	}
	delete(g.Relations, relationID)

	return t.save(ctx, g, "delete_relation", map[string]any{"relation_id": relationID})
}
