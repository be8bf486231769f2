package codec

import (
	"encoding/json"
	"errors"

	"github.com/nvandessel/workgraph/internal/models"
)

type checkpointDoc struct {
	ID        *int            `json:"id"`
	GraphID   *int            `json:"graph_id"`
	CreatedAt *string         `json:"created_at"`
	Graph     json.RawMessage `json:"graph"`
}

// EncodeCheckpoint serializes a checkpoint. The frozen graph is embedded
// using the same document shape Encode produces.
func EncodeCheckpoint(cp models.Checkpoint) ([]byte, error) {
	graph, err := Encode(cp.Graph)
	if err != nil {
		return nil, err
	}
	return json.Marshal(checkpointDoc{
		ID:        intPtr(cp.ID),
		GraphID:   intPtr(cp.GraphID),
		CreatedAt: strPtr(FormatTime(cp.CreatedAt)),
		Graph:     graph,
	})
}

// DecodeCheckpoint parses a checkpoint document with the same strictness as Decode.
func DecodeCheckpoint(data []byte) (*models.Checkpoint, error) {
	var doc checkpointDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, malformed("", err.Error())
	}

	switch {
	case doc.ID == nil:
		return nil, missing("id")
	case doc.GraphID == nil:
		return nil, missing("graph_id")
	case doc.CreatedAt == nil:
		return nil, missing("created_at")
	case len(doc.Graph) == 0 || string(doc.Graph) == "null":
		return nil, missing("graph")
	}

	createdAt, err := decodeTime("created_at", *doc.CreatedAt)
	if err != nil {
		return nil, err
	}

	g, err := Decode(doc.Graph)
	if err != nil {
		var de *DecodeError
		if errors.As(err, &de) {
			nested := *de
			nested.Path = joinPath("graph", de.Path)
			return nil, &nested
		}
		return nil, err
	}

	return &models.Checkpoint{
		ID:        *doc.ID,
		GraphID:   *doc.GraphID,
		CreatedAt: createdAt,
		Graph:     *g,
	}, nil
}

func joinPath(parent, child string) string {
	if child == "" {
		return parent
	}
	return parent + "." + child
}
