package tracker

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/nvandessel/workgraph/internal/models"
)

type eventInput struct {
	Content string `validate:"required"`
}

type sinceInput struct {
	OffsetDays int `validate:"min=0"`
}

// WorkEvents groups the events of one work selected by ListEventsSince.
type WorkEvents struct {
	WorkID  int            `json:"work_id"`
	Content string         `json:"content"`
	Events  []models.Event `json:"events"`
}

// CreateEvent appends an event to a work's log. A missing work is reported
// as ErrWorkNotFound instead of silently dropping the event.
func (t *Tracker) CreateEvent(ctx context.Context, graphID, workID int, content string) (*models.Event, error) {
	if err := t.check(eventInput{Content: content}); err != nil {
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

	e := models.Event{
		ID:        w.NextEventID(),
		Content:   content,
		CreatedAt: t.timestamp(),
	}
	w.Events = append(w.Events, e)
	g.Works[workID] = w

	if err := t.save(ctx, g, "create_event", map[string]any{"work_id": workID, "event_id": e.ID}); err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEvents returns a work's events in stored order.
func (t *Tracker) ListEvents(ctx context.Context, graphID, workID int) ([]models.Event, error) {
	w, err := t.GetWork(ctx, graphID, workID)
	if err != nil {
		return nil, err
	}
	return w.Events, nil
}

// DeleteEvent removes the events with eventID from a work. A missing work or
// event is not an error; the graph is saved either way and removed reports
// whether anything was deleted.
func (t *Tracker) DeleteEvent(ctx context.Context, graphID, workID, eventID int) (removed bool, err error) {
	g, err := t.load(ctx, graphID)
	if err != nil {
		return false, err
	}

	if w, ok := g.Works[workID]; ok {
		kept := make([]models.Event, 0, len(w.Events))
		for _, e := range w.Events {
			if e.ID == eventID {
				removed = true
				continue
			}
			kept = append(kept, e)
		}
		w.Events = kept
		g.Works[workID] = w
	}

	fields := map[string]any{"work_id": workID, "event_id": eventID, "removed": removed}
	if err := t.save(ctx, g, "delete_event", fields); err != nil {
		return false, err
	}
	return removed, nil
}

// ListEventsSince collects events created less than offsetDays*24h before
// now, grouped by work in ascending work id. Events keep their stored order
// within a work, and works without matching events are omitted.
func (t *Tracker) ListEventsSince(ctx context.Context, graphID, offsetDays int) ([]WorkEvents, error) {
	if err := t.check(sinceInput{OffsetDays: offsetDays}); err != nil {
		return nil, err
	}

	g, err := t.load(ctx, graphID)
	if err != nil {
		return nil, err
	}

	now := t.now()
	// Windows longer than a time.Duration can hold include every event.
	unbounded := int64(offsetDays) > math.MaxInt64/int64(24*time.Hour)
	window := time.Duration(offsetDays) * 24 * time.Hour

	var out []WorkEvents
	for _, w := range g.SortedWorks() {
		var recent []models.Event
		for _, e := range w.Events {
			if unbounded || now.Sub(e.CreatedAt) < window {
				recent = append(recent, e)
			}
		}
		if len(recent) > 0 {
			out = append(out, WorkEvents{WorkID: w.ID, Content: w.Content, Events: recent})
		}
	}
	return out, nil
}
