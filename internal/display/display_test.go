package display

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvandessel/workgraph/internal/models"
	"github.com/nvandessel/workgraph/internal/tracker"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.March, day, hour, minute, 0, 0, time.Local)
}

func TestTable_Render(t *testing.T) {
	tests := []struct {
		golden string
		table  Table
	}{
		{
			golden: "table_ascii",
			table: Table{
				Headers: []string{"ID", "NAME"},
				Rows:    [][]string{{"1", "demo"}, {"12", "a longer name"}},
			},
		},
		{
			golden: "table_wide_runes",
			table: Table{
				Headers: []string{"ID", "CONTENT", "OWNER"},
				Rows:    [][]string{{"1", "数据迁移", "alice"}, {"2", "review", "bob"}},
			},
		},
		{
			golden: "table_empty",
			table:  Table{Headers: []string{"ID", "NAME"}},
		},
		{
			golden: "table_ragged",
			table: Table{
				Headers: []string{"A", "B", "C"},
				Rows:    [][]string{{"x"}, {"long", "y", "z"}},
			},
		},
	}

	g := goldie.New(t)
	for _, tt := range tests {
		t.Run(tt.golden, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tt.table.Render(&buf))
			g.Assert(t, tt.golden, buf.Bytes())
		})
	}
}

func TestClip(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"abcdefghij", 6, "abc..."},
		{"abcdef", 6, "abcdef"},
		{"abcdefghij", 0, "abcdefghij"},
		{"数据迁移", 8, "数据迁移"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clip(tt.in, tt.width), "Clip(%q, %d)", tt.in, tt.width)
	}
}

func TestPrinter_Graphs(t *testing.T) {
	graphs := []models.Graph{
		{ID: 1, Name: "demo", Works: map[int]models.Work{1: {ID: 1}, 2: {ID: 2}}, Relations: map[int]models.Relation{}},
		{ID: 2, Name: "home", Works: map[int]models.Work{}, Relations: map[int]models.Relation{1: {ID: 1}}},
	}

	var buf bytes.Buffer
	require.NoError(t, Printer{W: &buf}.Graphs(graphs))
	goldie.New(t).Assert(t, "graphs", buf.Bytes())
}

func TestPrinter_Works(t *testing.T) {
	works := []models.Work{
		{
			ID:            1,
			Content:       "task A",
			RelatedPeople: []string{"alice", "bob"},
			Status:        models.StatusDoing,
			Priority:      2,
			Events:        []models.Event{{ID: 1, Content: "started", CreatedAt: at(1, 9, 0)}},
			UpdatedAt:     at(1, 9, 30),
		},
		{
			ID:            2,
			Content:       "write the quarterly report",
			RelatedPeople: []string{},
			Status:        models.StatusStart,
			UpdatedAt:     at(2, 14, 5),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Printer{W: &buf, MaxContentWidth: 12}.Works(works))
	goldie.New(t).Assert(t, "works", buf.Bytes())
}

func TestPrinter_Events(t *testing.T) {
	w := models.Work{
		ID:      2,
		Content: "write report",
		Events: []models.Event{
			{ID: 1, Content: "started", CreatedAt: at(1, 9, 0)},
			{ID: 3, Content: "blocked on review", CreatedAt: at(3, 17, 45)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Printer{W: &buf}.Events(w))
	goldie.New(t).Assert(t, "events", buf.Bytes())
}

func TestPrinter_RecentEvents(t *testing.T) {
	groups := []tracker.WorkEvents{
		{
			WorkID:  1,
			Content: "task A",
			Events: []models.Event{
				{ID: 1, Content: "started", CreatedAt: at(1, 9, 0)},
				{ID: 2, Content: "halfway", CreatedAt: at(1, 15, 0)},
			},
		},
		{
			WorkID:  4,
			Content: "task D",
			Events:  []models.Event{{ID: 1, Content: "done", CreatedAt: at(1, 16, 20)}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Printer{W: &buf}.RecentEvents(groups))
	goldie.New(t).Assert(t, "recent_events", buf.Bytes())
}

func TestPrinter_Relations(t *testing.T) {
	relations := []models.Relation{
		{ID: 1, W1: 1, W2: 2, Description: "blocks"},
		{ID: 2, W1: 2, W2: 3},
	}

	var buf bytes.Buffer
	require.NoError(t, Printer{W: &buf}.Relations(relations))
	goldie.New(t).Assert(t, "relations", buf.Bytes())
}

func TestPrinter_Checkpoints(t *testing.T) {
	snapshot := models.Graph{ID: 1, Name: "demo", Works: map[int]models.Work{1: {ID: 1}}, Relations: map[int]models.Relation{}}
	checkpoints := []models.Checkpoint{
		{ID: 1, GraphID: 1, CreatedAt: at(5, 8, 0), Graph: snapshot},
	}

	var buf bytes.Buffer
	require.NoError(t, Printer{W: &buf}.Checkpoints(checkpoints))
	goldie.New(t).Assert(t, "checkpoints", buf.Bytes())
}
