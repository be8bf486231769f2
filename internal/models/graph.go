// Package models defines the entities tracked by workgraph: graphs of works
// connected by relations, each work carrying a log of events.
package models

import (
	"sort"
	"time"
)

// Status is the progress state of a work.
type Status int

const (
	StatusStart Status = 0 // Not started (default)
	StatusDoing Status = 1 // In progress
	StatusEnd   Status = 2 // Finished
)

// Valid reports whether s is one of the known states.
func (s Status) Valid() bool {
	return s >= StatusStart && s <= StatusEnd
}

func (s Status) String() string {
	switch s {
	case StatusStart:
		return "start"
	case StatusDoing:
		return "doing"
	case StatusEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Event is a timestamped note appended to a work's history.
type Event struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Work is a task with status, priority, related people and a log of events.
type Work struct {
	ID            int       `json:"id"`
	Content       string    `json:"content"`
	RelatedPeople []string  `json:"related_people"`
	Status        Status    `json:"status"`
	Priority      int       `json:"priority"`
	Events        []Event   `json:"events"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NextEventID returns one past the highest event id, or 1 for an empty log.
func (w Work) NextEventID() int {
	max := 0
	for _, e := range w.Events {
		if e.ID > max {
			max = e.ID
		}
	}
	return max + 1
}

// Relation is a labeled edge between two works. W1 and W2 are not required
// to reference existing works.
type Relation struct {
	ID          int    `json:"id"`
	W1          int    `json:"w1"`
	W2          int    `json:"w2"`
	Description string `json:"description"`
}

// Graph is a named collection of works and relations, and the unit of persistence.
type Graph struct {
	ID        int              `json:"id"`
	Name      string           `json:"name"`
	Works     map[int]Work     `json:"works"`
	Relations map[int]Relation `json:"relations"`
}

// NewGraph returns an empty graph with initialized collections.
func NewGraph(id int, name string) Graph {
	return Graph{
		ID:        id,
		Name:      name,
		Works:     make(map[int]Work),
		Relations: make(map[int]Relation),
	}
}

// NextWorkID returns one past the highest work id, or 1 for an empty graph.
// Ids freed by deleting the highest work are handed out again.
func (g Graph) NextWorkID() int {
	max := 0
	for id := range g.Works {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// NextRelationID returns one past the highest relation id.
func (g Graph) NextRelationID() int {
	max := 0
	for id := range g.Relations {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// SortedWorks returns the graph's works ordered by ascending id.
func (g Graph) SortedWorks() []Work {
	works := make([]Work, 0, len(g.Works))
	for _, w := range g.Works {
		works = append(works, w)
	}
	sort.Slice(works, func(i, j int) bool {
		return works[i].ID < works[j].ID
	})
	return works
}

// SortedRelations returns the graph's relations ordered by ascending id.
func (g Graph) SortedRelations() []Relation {
	relations := make([]Relation, 0, len(g.Relations))
	for _, r := range g.Relations {
		relations = append(relations, r)
	}
	sort.Slice(relations, func(i, j int) bool {
		return relations[i].ID < relations[j].ID
	})
	return relations
}

// Checkpoint is a frozen copy of a graph that can be restored later.
type Checkpoint struct {
	ID        int       `json:"id"`
	GraphID   int       `json:"graph_id"`
	CreatedAt time.Time `json:"created_at"`
	Graph     Graph     `json:"graph"`
}
