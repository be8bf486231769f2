// Package backup exports every graph in the store to a single JSON file and
// imports such files back.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/nvandessel/workgraph/internal/codec"
	"github.com/nvandessel/workgraph/internal/models"
	"github.com/nvandessel/workgraph/internal/repository"
)

// FormatVersion is the only backup layout understood by Import.
const FormatVersion = 1

// BackupFormat is the JSON structure for a full backup file. Each graph is
// stored exactly as the store holds it.
type BackupFormat struct {
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	Graphs    []json.RawMessage `json:"graphs"`
}

// GenerateBackupPath returns a timestamped export filename under
// <storeDir>/backups.
func GenerateBackupPath(storeDir string, now time.Time) string {
	return filepath.Join(storeDir, "backups", fmt.Sprintf("wg-backup-%s.json", now.Format("20060102-150405")))
}

// ExportResult summarizes a written backup.
type ExportResult struct {
	Path   string `json:"path"`
	Graphs int    `json:"graphs"`
}

// Export writes every graph in repo to outputPath as indented JSON.
func Export(ctx context.Context, repo *repository.Repository, outputPath string) (*ExportResult, error) {
	graphs, err := repo.ListGraphs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list graphs: %w", err)
	}

	b := &BackupFormat{
		Version:   FormatVersion,
		CreatedAt: time.Now(),
		Graphs:    make([]json.RawMessage, 0, len(graphs)),
	}
	for _, g := range graphs {
		doc, err := codec.Encode(g)
		if err != nil {
			return nil, fmt.Errorf("failed to encode graph %d: %w", g.ID, err)
		}
		b.Graphs = append(b.Graphs, doc)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}

	f, err := os.OpenFile(outputPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(b); err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to write backup file: %w", err)
	}

	return &ExportResult{Path: outputPath, Graphs: len(graphs)}, nil
}

// RestoreMode controls how Import handles graphs that already exist.
type RestoreMode string

const (
	// RestoreMerge skips graphs whose id is already in the store (default).
	RestoreMerge RestoreMode = "merge"
	// RestoreReplace overwrites graphs whose id is already in the store.
	RestoreReplace RestoreMode = "replace"
)

// ParseRestoreMode validates a mode name. The empty string means merge.
func ParseRestoreMode(s string) (RestoreMode, error) {
	switch RestoreMode(s) {
	case "", RestoreMerge:
		return RestoreMerge, nil
	case RestoreReplace:
		return RestoreReplace, nil
	default:
		return "", fmt.Errorf("unknown restore mode %q (valid: merge, replace)", s)
	}
}

// RestoreResult contains statistics about the import.
type RestoreResult struct {
	GraphsRestored int `json:"graphs_restored"`
	GraphsSkipped  int `json:"graphs_skipped"`
}

// Import restores the graphs in inputPath into repo. Every graph document is
// decoded before the first write, so a malformed file leaves the store
// untouched.
func Import(ctx context.Context, repo *repository.Repository, inputPath string, mode RestoreMode) (*RestoreResult, error) {
	graphs, err := Read(inputPath)
	if err != nil {
		return nil, err
	}

	result := &RestoreResult{}
	for _, g := range graphs {
		if mode == RestoreMerge {
			_, err := repo.GetGraph(ctx, g.ID)
			if err == nil {
				result.GraphsSkipped++
				continue
			}
			if !errors.Is(err, repository.ErrGraphNotFound) {
				return nil, fmt.Errorf("failed to check existing graph %d: %w", g.ID, err)
			}
		}

		if err := repo.SaveGraph(ctx, g); err != nil {
			return nil, fmt.Errorf("failed to restore graph %d: %w", g.ID, err)
		}
		result.GraphsRestored++
	}

	return result, nil
}

// Read loads and decodes a backup file without touching any store.
func Read(inputPath string) ([]models.Graph, error) {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup file: %w", err)
	}

	var b BackupFormat
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}

	if b.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported backup version: %d", b.Version)
	}

	graphs := make([]models.Graph, 0, len(b.Graphs))
	seen := make(map[int]bool, len(b.Graphs))
	for i, doc := range b.Graphs {
		g, err := codec.Decode(doc)
		if err != nil {
			return nil, fmt.Errorf("graph %d in backup: %w", i, err)
		}
		if seen[g.ID] {
			return nil, fmt.Errorf("graph %d in backup: %w: duplicate graph id %d", i, codec.ErrMalformedDocument, g.ID)
		}
		seen[g.ID] = true
		graphs = append(graphs, *g)
	}

	return graphs, nil
}
