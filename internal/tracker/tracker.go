// Package tracker implements the mutation operations on graphs, works,
// events, relations and checkpoints. Every operation loads the whole graph,
// changes it in memory and saves the whole graph back. Nothing guards
// against two processes doing this concurrently: the last save wins.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nvandessel/workgraph/internal/logging"
	"github.com/nvandessel/workgraph/internal/models"
	"github.com/nvandessel/workgraph/internal/repository"
)

var (
	// ErrGraphNotFound is returned when the target graph does not exist.
	ErrGraphNotFound = repository.ErrGraphNotFound

	// ErrCheckpointNotFound is returned when the target checkpoint does not exist.
	ErrCheckpointNotFound = repository.ErrCheckpointNotFound

	// ErrWorkNotFound is returned when the target work is not in the graph.
	ErrWorkNotFound = errors.New("work not found")

	// ErrRelationNotFound is returned when the target relation is not in the graph.
	ErrRelationNotFound = errors.New("relation not found")
)

// ValidationError reports an input rejected before anything was loaded or saved.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Tracker applies mutations to graphs held in a repository.
type Tracker struct {
	repo     *repository.Repository
	now      func() time.Time
	logger   *slog.Logger
	journal  *logging.MutationLog
	validate *validator.Validate
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// WithLogger sets the operational logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) {
		t.logger = logger
	}
}

// WithJournal records every successful mutation in ml.
func WithJournal(ml *logging.MutationLog) Option {
	return func(t *Tracker) {
		t.journal = ml
	}
}

// New creates a Tracker over repo.
func New(repo *repository.Repository, opts ...Option) *Tracker {
	t := &Tracker{
		repo:     repo,
		now:      time.Now,
		logger:   slog.New(slog.DiscardHandler),
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// timestamp returns the current local time at second precision, the
// resolution timestamps are persisted with.
func (t *Tracker) timestamp() time.Time {
	return t.now().Local().Truncate(time.Second)
}

// check runs struct-tag validation and converts the first failure.
func (t *Tracker) check(input any) error {
	err := t.validate.Struct(input)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return &ValidationError{Field: field, Reason: "must not be empty"}
	case "min", "max":
		return &ValidationError{Field: field, Reason: fmt.Sprintf("value %v is out of range", fe.Value())}
	default:
		return &ValidationError{Field: field, Reason: fmt.Sprintf("failed %q check", fe.Tag())}
	}
}

// load fetches a graph for mutation.
func (t *Tracker) load(ctx context.Context, graphID int) (models.Graph, error) {
	g, err := t.repo.GetGraph(ctx, graphID)
	if err != nil {
		return models.Graph{}, err
	}
	return *g, nil
}

// save persists g and journals the mutation that produced it.
func (t *Tracker) save(ctx context.Context, g models.Graph, op string, fields map[string]any) error {
	if err := t.repo.SaveGraph(ctx, g); err != nil {
		return err
	}
	t.record(op, g.ID, fields)
	return nil
}

func (t *Tracker) record(op string, graphID int, fields map[string]any) {
	entry := map[string]any{"graph_id": graphID}
	for k, v := range fields {
		entry[k] = v
	}
	t.journal.Record(op, entry)
	t.logger.Debug(op, "graph_id", graphID)
}

// splitPeople splits a comma separated list without trimming. An empty
// string yields an empty list.
func splitPeople(csv string) []string {
	if csv == "" {
		return []string{}
	}
	return strings.Split(csv, ",")
}
