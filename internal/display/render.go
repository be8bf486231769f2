package display

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nvandessel/workgraph/internal/codec"
	"github.com/nvandessel/workgraph/internal/models"
	"github.com/nvandessel/workgraph/internal/tracker"
)

// Printer renders listings to W, clipping free-text columns to
// MaxContentWidth display columns when it is positive.
type Printer struct {
	W               io.Writer
	MaxContentWidth int
}

// Graphs lists graph ids and names with their work and relation counts.
func (p Printer) Graphs(graphs []models.Graph) error {
	t := Table{Headers: []string{"ID", "NAME", "WORKS", "RELATIONS"}}
	for _, g := range graphs {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(g.ID),
			p.clip(g.Name),
			strconv.Itoa(len(g.Works)),
			strconv.Itoa(len(g.Relations)),
		})
	}
	return t.Render(p.W)
}

// Works lists one row per work. Status is printed as its stored number.
func (p Printer) Works(works []models.Work) error {
	t := Table{Headers: []string{"ID", "CONTENT", "STATUS", "PRIORITY", "PEOPLE", "EVENTS", "UPDATED"}}
	for _, w := range works {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(w.ID),
			p.clip(w.Content),
			strconv.Itoa(int(w.Status)),
			strconv.Itoa(w.Priority),
			strings.Join(w.RelatedPeople, ","),
			strconv.Itoa(len(w.Events)),
			codec.FormatTime(w.UpdatedAt),
		})
	}
	return t.Render(p.W)
}

// Events lists a work's event log followed by a line naming the work.
func (p Printer) Events(w models.Work) error {
	t := Table{Headers: []string{"ID", "CONTENT", "CREATED"}}
	for _, e := range w.Events {
		t.Rows = append(t.Rows, eventRow(p, e))
	}
	if err := t.Render(p.W); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.W, "work-id=%d  work-content=%s\n", w.ID, p.clip(w.Content))
	return err
}

// RecentEvents lists the result of a ListEventsSince query, one row per
// event, prefixed with the owning work.
func (p Printer) RecentEvents(groups []tracker.WorkEvents) error {
	t := Table{Headers: []string{"WORK", "WORK CONTENT", "EVENT", "CONTENT", "CREATED"}}
	for _, g := range groups {
		for i, e := range g.Events {
			work, content := "", ""
			if i == 0 {
				work, content = strconv.Itoa(g.WorkID), p.clip(g.Content)
			}
			t.Rows = append(t.Rows, append([]string{work, content}, eventRow(p, e)...))
		}
	}
	return t.Render(p.W)
}

// Relations lists a graph's relations.
func (p Printer) Relations(relations []models.Relation) error {
	t := Table{Headers: []string{"ID", "W1", "W2", "DESCRIPTION"}}
	for _, r := range relations {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.W1),
			strconv.Itoa(r.W2),
			p.clip(r.Description),
		})
	}
	return t.Render(p.W)
}

// Checkpoints lists the saved snapshots of a graph.
func (p Printer) Checkpoints(checkpoints []models.Checkpoint) error {
	t := Table{Headers: []string{"ID", "GRAPH", "NAME", "WORKS", "CREATED"}}
	for _, cp := range checkpoints {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(cp.ID),
			strconv.Itoa(cp.GraphID),
			p.clip(cp.Graph.Name),
			strconv.Itoa(len(cp.Graph.Works)),
			codec.FormatTime(cp.CreatedAt),
		})
	}
	return t.Render(p.W)
}

func eventRow(p Printer, e models.Event) []string {
	return []string{strconv.Itoa(e.ID), p.clip(e.Content), codec.FormatTime(e.CreatedAt)}
}

func (p Printer) clip(s string) string {
	return Clip(s, p.MaxContentWidth)
}
