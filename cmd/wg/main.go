package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nvandessel/workgraph/internal/config"
	"github.com/nvandessel/workgraph/internal/display"
	"github.com/nvandessel/workgraph/internal/kv"
	"github.com/nvandessel/workgraph/internal/logging"
	"github.com/nvandessel/workgraph/internal/pathutil"
	"github.com/nvandessel/workgraph/internal/repository"
	"github.com/nvandessel/workgraph/internal/tracker"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(normalizeArgs(os.Args[1:]))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wg",
		Short: "Workgraph - track works, events and relations in named graphs",
		Long: `wg keeps named graphs of works in a local key-value store.

Each work carries a status, a priority, related people and a log of
timestamped events. Relations link works inside a graph, and checkpoints
freeze a graph so it can be restored later.

Flags may be written with a single dash, e.g. "wg ad w -gi=1 -wc=task".`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("dd", "", "Data directory; the store lives in <dd>/graph (default $WG_DATA_DIR or $HOME)")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug or trace (default $WG_LOG_LEVEL or info)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newAddCmd(),
		newListCmd(),
		newDeleteCmd(),
		newUpdateCmd(),
		newCheckpointCmd(),
		newExportCmd(),
		newImportCmd(),
	)

	return rootCmd
}

// normalizeArgs rewrites single-dash long flags such as "-gi=1" to "--gi=1".
// One-letter flags, negative numbers and everything after "--" are left alone.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		if isSingleDashLong(arg) {
			arg = "-" + arg
		}
		out = append(out, arg)
	}
	return out
}

func isSingleDashLong(arg string) bool {
	if len(arg) < 3 || arg[0] != '-' || arg[1] == '-' {
		return false
	}
	name, _, _ := strings.Cut(arg[1:], "=")
	if len(name) < 2 {
		return false
	}
	if c := name[0]; c < 'a' || c > 'z' {
		return false
	}
	for _, c := range name {
		if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '-') {
			return false
		}
	}
	return true
}

// session bundles what a command needs to talk to the store.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *kv.SQLiteStore
	repo    *repository.Repository
	tracker *tracker.Tracker
	journal *logging.MutationLog
}

// openSession resolves configuration from file, environment and global
// flags, then opens the store. Errors here are usage or environment errors
// and end the process with a non-zero status.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger := logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())

	storeDir := cfg.StoreDir()
	st, err := kv.NewSQLiteStore(cmd.Context(), storeDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", pathutil.RedactPath(storeDir), err)
	}
	logger.Debug("store opened", "path", st.Path())

	journal := logging.NewMutationLog(storeDir, cfg.Logging.Level)
	repo := repository.New(st, logger)

	return &session{
		cfg:     cfg,
		logger:  logger,
		store:   st,
		repo:    repo,
		tracker: tracker.New(repo, tracker.WithLogger(logger), tracker.WithJournal(journal)),
		journal: journal,
	}, nil
}

func (s *session) Close() {
	s.journal.Close()
	if err := s.store.Close(); err != nil {
		s.logger.Warn("closing store", "error", err)
	}
}

func (s *session) printer(cmd *cobra.Command) display.Printer {
	return display.Printer{W: cmd.OutOrStdout(), MaxContentWidth: s.cfg.Display.MaxContentWidth}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v; using defaults\n", err)
		cfg = config.Default()
	}

	if dd, _ := cmd.Flags().GetString("dd"); dd != "" {
		cfg.Store.DataDir = dd
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// withSession opens the store around run.
func withSession(run func(cmd *cobra.Command, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if cmd.Context() == nil {
			cmd.SetContext(context.Background())
		}
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		return run(cmd, s)
	}
}

// reportFailure prints "<op> failed: <reason>" to stderr. Operation
// failures are reported, not propagated, so the exit status stays 0.
func reportFailure(cmd *cobra.Command, op string, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s failed: %v\n", op, err)
	return nil
}

func jsonOutput(cmd *cobra.Command) bool {
	jsonOut, _ := cmd.Flags().GetBool("json")
	return jsonOut
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput(cmd) {
				return writeJSON(cmd, map[string]string{
					"version": version,
					"commit":  commit,
					"date":    date,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wg version %s (commit: %s, built: %s)\n", version, commit, date)
			return nil
		},
	}
}
