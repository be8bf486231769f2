package tracker

import (
	"context"
	"fmt"

	"github.com/nvandessel/workgraph/internal/models"
)

// NewWork holds the fields of a work to create.
type NewWork struct {
	Content       string        `validate:"required"`
	Status        models.Status `validate:"min=0,max=2"`
	Priority      int
	RelatedPeople string // comma separated, not trimmed
}

// WorkPatch lists the fields UpdateWork may change. Nil fields are left
// untouched, so Status can be reset to StatusStart and Priority to 0.
type WorkPatch struct {
	Content       *string        // ignored when empty
	Status        *models.Status `validate:"omitempty,min=0,max=2"`
	Priority      *int
	RelatedPeople *string // replaces the whole list; "" clears it
}

// CreateWork adds a work to a graph. Its id is one past the highest work id
// in the graph, so the id of a deleted highest work is reused.
func (t *Tracker) CreateWork(ctx context.Context, graphID int, in NewWork) (*models.Work, error) {
	if err := t.check(in); err != nil {
		return nil, err
	}

	g, err := t.load(ctx, graphID)
	if err != nil {
		return nil, err
	}

	w := models.Work{
		ID:            g.NextWorkID(),
		Content:       in.Content,
		RelatedPeople: splitPeople(in.RelatedPeople),
		Status:        in.Status,
		Priority:      in.Priority,
		Events:        []models.Event{},
		UpdatedAt:     t.timestamp(),
	}
	g.Works[w.ID] = w

	if err := t.save(ctx, g, "create_work", map[string]any{"work_id": w.ID}); err != nil {
		return nil, err
	}
	return &w, nil
}

// UpdateWork applies patch to a work and refreshes its updated_at, even when
// the patch is empty.
func (t *Tracker) UpdateWork(ctx context.Context, graphID, workID int, patch WorkPatch) (*models.Work, error) {
	if err := t.check(patch); err != nil {
		return nil, err
	}

	g, err := t.load(ctx, graphID)
	if err != nil {
		return nil, err
	}

	w, ok := g.Works[workID]
	if !ok {
		return nil, fmt.Errorf("%w: %d in graph %d", ErrWorkNotFound, workID, graphID)
	}

	if patch.Content != nil && *patch.Content != "" {
		w.Content = *patch.Content
	}
	if patch.Status != nil {
		w.Status = *patch.Status
	}
	if patch.Priority != nil {
		w.Priority = *patch.Priority
	}
	if patch.RelatedPeople != nil {
		w.RelatedPeople = splitPeople(*patch.RelatedPeople)
	}
	w.UpdatedAt = t.timestamp()
	g.Works[workID] = w

	if err := t.save(ctx, g, "update_work", map[string]any{"work_id": workID}); err != nil {
		return nil, err
	}
	return &w, nil
}

// DeleteWork removes a work. A missing work is reported as ErrWorkNotFound
// and nothing is saved.
func (t *Tracker) DeleteWork(ctx context.Context, graphID, workID int) error {
	g, err := t.load(ctx, graphID)
	if err != nil {
		return err
	}

	if _, ok := g.Works[workID]; !ok {
		return fmt.Errorf("%w: %d in graph %d", ErrWorkNotFound, workID, graphID)
	}
	delete(g.Works, workID)

	return t.save(ctx, g, "delete_work", map[string]any{"work_id": workID})
}

// ListWorks returns a graph's works ordered by id.
func (t *Tracker) ListWorks(ctx context.Context, graphID int) ([]models.Work, error) {
	g, err := t.load(ctx, graphID)
	if err != nil {
		return nil, err
	}
	return g.SortedWorks(), nil
}

// GetWork returns one work of a graph.
func (t *Tracker) GetWork(ctx context.Context, graphID, workID int) (*models.Work, error) {
	g, err := t.load(ctx, graphID)
	if err != nil {
		return nil, err
	}

	w, ok := g.Works[workID]
	if !ok {
		return nil, fmt.Errorf("%w: %d in graph %d", ErrWorkNotFound, workID, graphID)
	}
	return &w, nil
}
