// Package logging provides leveled logging and a mutation journal for wg.
// It offers two complementary outputs:
//   - A leveled slog.Logger for stderr (operational output)
//   - A MutationLog appending one JSONL entry per persisted change (<store dir>/journal.jsonl)
package logging

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// JournalFileName is the mutation journal created inside the store directory.
const JournalFileName = "journal.jsonl"

// LevelTrace is a custom slog level below Debug for full document logging.
const LevelTrace = slog.LevelDebug - 4

// ParseLevel maps a string level name to a slog.Level.
// Supported values: "info", "debug", "trace" (case-insensitive).
// Unknown values default to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "trace":
		return LevelTrace
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a leveled slog.Logger writing to w.
func NewLogger(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// MutationLog appends a JSONL record for every mutation written to the
// store. It is safe for concurrent use. A nil MutationLog is safe to use;
// all methods are no-ops on nil receiver.
type MutationLog struct {
	mu   sync.Mutex
	file *os.File
}

// NewMutationLog opens dir/journal.jsonl for append.
// At "info" level (the default) it returns nil and no file is created.
// It also returns nil if the file cannot be opened.
func NewMutationLog(dir string, level string) *MutationLog {
	if ParseLevel(level) == slog.LevelInfo {
		return nil
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil
	}

	f, err := os.OpenFile(filepath.Join(dir, JournalFileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil
	}
	return &MutationLog{file: f}
}

// Record writes one entry with the operation name, the given fields and a
// "time" field. The caller's map is not mutated.
func (ml *MutationLog) Record(op string, fields map[string]any) {
	if ml == nil {
		return
	}

	entry := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		entry[k] = v
	}
	entry["op"] = op
	entry["time"] = time.Now().UTC().Format(time.RFC3339Nano)

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	data = append(data, '\n')

	ml.mu.Lock()
	defer ml.mu.Unlock()
	if ml.file == nil {
		return
	}
	_, _ = ml.file.Write(data)
}

// Close closes the journal file. Safe to call on nil receiver.
func (ml *MutationLog) Close() {
	if ml == nil {
		return
	}

	ml.mu.Lock()
	defer ml.mu.Unlock()

	if ml.file != nil {
		ml.file.Close()
		ml.file = nil
	}
}
