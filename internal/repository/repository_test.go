package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/nvandessel/workgraph/internal/codec"
	"github.com/nvandessel/workgraph/internal/kv"
	"github.com/nvandessel/workgraph/internal/models"
)

func newTestRepo(t *testing.T) (*Repository, *kv.MemoryStore) {
	t.Helper()
	store := kv.NewMemoryStore()
	return New(store, nil), store
}

func graphWithWork(id int, name string) models.Graph {
	g := models.NewGraph(id, name)
	g.Works[1] = models.Work{
		ID:        1,
		Content:   "write report",
		Status:    models.StatusDoing,
		UpdatedAt: time.Date(2024, 2, 1, 9, 0, 0, 0, time.Local),
	}
	return g
}

func TestKeys(t *testing.T) {
	if got := GraphKey(12); got != "graph-12" {
		t.Errorf("GraphKey(12) = %q, want graph-12", got)
	}
	if got := CheckpointKey(1, 3); got != "checkpoint-1-3" {
		t.Errorf("CheckpointKey(1, 3) = %q, want checkpoint-1-3", got)
	}
}

func TestRepository_SaveGetGraph(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	g := graphWithWork(3, "home")
	if err := repo.SaveGraph(ctx, g); err != nil {
		t.Fatalf("SaveGraph() error = %v", err)
	}

	if _, err := store.Get(ctx, "graph-3"); err != nil {
		t.Fatalf("graph-3 not written: %v", err)
	}

	got, err := repo.GetGraph(ctx, 3)
	if err != nil {
		t.Fatalf("GetGraph() error = %v", err)
	}
	if diff := cmp.Diff(g, *got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("GetGraph() mismatch (-want +got):\n%s", diff)
	}
}

func TestRepository_GetGraphNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.GetGraph(context.Background(), 42)
	if !errors.Is(err, ErrGraphNotFound) {
		t.Errorf("GetGraph() error = %v, want ErrGraphNotFound", err)
	}
}

func TestRepository_SaveReplaces(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveGraph(ctx, graphWithWork(1, "first")); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveGraph(ctx, models.NewGraph(1, "second")); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetGraph(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "second" || len(got.Works) != 0 {
		t.Errorf("GetGraph() = %+v, want the replacement graph", got)
	}
}

func TestRepository_ListGraphs(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []int{2, 10, 1} {
		if err := repo.SaveGraph(ctx, models.NewGraph(id, "g")); err != nil {
			t.Fatal(err)
		}
	}
	// Checkpoints share the store but not the prefix.
	if err := store.Put(ctx, "checkpoint-1-1", []byte("not a graph")); err != nil {
		t.Fatal(err)
	}

	graphs, err := repo.ListGraphs(ctx)
	if err != nil {
		t.Fatalf("ListGraphs() error = %v", err)
	}

	var ids []int
	for _, g := range graphs {
		ids = append(ids, g.ID)
	}
	if diff := cmp.Diff([]int{1, 10, 2}, ids); diff != "" {
		t.Errorf("ListGraphs() ids in key order mismatch (-want +got):\n%s", diff)
	}
}

func TestRepository_ListGraphsFailFast(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	if err := repo.SaveGraph(ctx, models.NewGraph(1, "good")); err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, "graph-2", []byte(`{"id":2}`)); err != nil {
		t.Fatal(err)
	}

	graphs, err := repo.ListGraphs(ctx)
	if !errors.Is(err, codec.ErrMalformedDocument) {
		t.Fatalf("ListGraphs() error = %v, want ErrMalformedDocument", err)
	}
	if graphs != nil {
		t.Errorf("ListGraphs() returned partial results: %+v", graphs)
	}
}

func TestRepository_DeleteGraph(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if err := repo.DeleteGraph(ctx, 99); err != nil {
		t.Errorf("DeleteGraph() on missing id error = %v, want nil", err)
	}

	if err := repo.SaveGraph(ctx, models.NewGraph(1, "g")); err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteGraph(ctx, 1); err != nil {
		t.Fatalf("DeleteGraph() error = %v", err)
	}

	graphs, err := repo.ListGraphs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(graphs) != 0 {
		t.Errorf("ListGraphs() after delete = %+v, want empty", graphs)
	}
}

func TestRepository_Checkpoints(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	at := time.Date(2024, 2, 2, 10, 0, 0, 0, time.Local)

	for _, cp := range []models.Checkpoint{
		{ID: 2, GraphID: 1, CreatedAt: at, Graph: graphWithWork(1, "v2")},
		{ID: 10, GraphID: 1, CreatedAt: at, Graph: graphWithWork(1, "v10")},
		{ID: 1, GraphID: 1, CreatedAt: at, Graph: models.NewGraph(1, "v1")},
		{ID: 1, GraphID: 12, CreatedAt: at, Graph: models.NewGraph(12, "other")},
	} {
		if err := repo.SaveCheckpoint(ctx, cp); err != nil {
			t.Fatalf("SaveCheckpoint() error = %v", err)
		}
	}

	cps, err := repo.ListCheckpoints(ctx, 1)
	if err != nil {
		t.Fatalf("ListCheckpoints() error = %v", err)
	}
	var ids []int
	for _, cp := range cps {
		ids = append(ids, cp.ID)
	}
	if diff := cmp.Diff([]int{1, 2, 10}, ids); diff != "" {
		t.Errorf("ListCheckpoints() ids mismatch (-want +got):\n%s", diff)
	}

	cp, err := repo.GetCheckpoint(ctx, 1, 2)
	if err != nil {
		t.Fatalf("GetCheckpoint() error = %v", err)
	}
	if cp.Graph.Name != "v2" || len(cp.Graph.Works) != 1 {
		t.Errorf("GetCheckpoint() graph = %+v", cp.Graph)
	}

	if err := repo.DeleteCheckpoint(ctx, 1, 2); err != nil {
		t.Fatalf("DeleteCheckpoint() error = %v", err)
	}
	if _, err := repo.GetCheckpoint(ctx, 1, 2); !errors.Is(err, ErrCheckpointNotFound) {
		t.Errorf("GetCheckpoint() after delete error = %v, want ErrCheckpointNotFound", err)
	}
	if err := repo.DeleteCheckpoint(ctx, 1, 2); !errors.Is(err, ErrCheckpointNotFound) {
		t.Errorf("DeleteCheckpoint() twice error = %v, want ErrCheckpointNotFound", err)
	}
}

func TestRepository_DeleteCheckpoints(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	at := time.Date(2024, 2, 2, 10, 0, 0, 0, time.Local)

	for _, cp := range []models.Checkpoint{
		{ID: 1, GraphID: 1, CreatedAt: at, Graph: models.NewGraph(1, "a")},
		{ID: 2, GraphID: 1, CreatedAt: at, Graph: models.NewGraph(1, "b")},
		{ID: 1, GraphID: 12, CreatedAt: at, Graph: models.NewGraph(12, "other")},
	} {
		if err := repo.SaveCheckpoint(ctx, cp); err != nil {
			t.Fatalf("SaveCheckpoint() error = %v", err)
		}
	}

	n, err := repo.DeleteCheckpoints(ctx, 1)
	if err != nil {
		t.Fatalf("DeleteCheckpoints() error = %v", err)
	}
	if n != 2 {
		t.Errorf("DeleteCheckpoints() = %d, want 2", n)
	}
	if cps, _ := repo.ListCheckpoints(ctx, 1); len(cps) != 0 {
		t.Errorf("ListCheckpoints(1) after purge = %+v, want empty", cps)
	}
	if cps, _ := repo.ListCheckpoints(ctx, 12); len(cps) != 1 {
		t.Errorf("ListCheckpoints(12) = %d checkpoints, want 1", len(cps))
	}

	if n, err := repo.DeleteCheckpoints(ctx, 1); err != nil || n != 0 {
		t.Errorf("DeleteCheckpoints() again = %d, %v; want 0, nil", n, err)
	}
}

func TestRepository_SQLiteStore(t *testing.T) {
	ctx := context.Background()
	store, err := kv.NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "graph"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer store.Close()

	repo := New(store, nil)
	g := graphWithWork(1, "persisted")
	if err := repo.SaveGraph(ctx, g); err != nil {
		t.Fatalf("SaveGraph() error = %v", err)
	}

	graphs, err := repo.ListGraphs(ctx)
	if err != nil {
		t.Fatalf("ListGraphs() error = %v", err)
	}
	if len(graphs) != 1 {
		t.Fatalf("ListGraphs() len = %d, want 1", len(graphs))
	}
	if diff := cmp.Diff(g, graphs[0], cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ListGraphs()[0] mismatch (-want +got):\n%s", diff)
	}
}
