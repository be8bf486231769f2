package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCheckpointCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cp",
		Short: "Manage graph checkpoints",
		Long: `Checkpoints are frozen copies of a graph. Restoring one overwrites the
graph with the saved copy, and also works after the graph was deleted.

Examples:
  wg cp ad -gi=1          # checkpoint graph 1
  wg cp li -gi=1          # list its checkpoints
  wg cp re -gi=1 -ci=2    # restore checkpoint 2
  wg cp de -gi=1 -ci=2    # delete checkpoint 2`,
		Aliases: []string{"checkpoint"},
	}

	cmd.AddCommand(
		newCheckpointAddCmd(),
		newCheckpointListCmd(),
		newCheckpointRestoreCmd(),
		newCheckpointDeleteCmd(),
	)
	return cmd
}

func newCheckpointAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ad",
		Short:   "Checkpoint a graph",
		Aliases: []string{"add"},
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			graphID, _ := cmd.Flags().GetInt("gi")

			cp, err := s.tracker.CreateCheckpoint(cmd.Context(), graphID)
			if err != nil {
				return reportFailure(cmd, "add checkpoint", err)
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd, cp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created checkpoint %d of graph %d\n", cp.ID, graphID)
			return nil
		}),
	}

	cmd.Flags().Int("gi", 0, "Graph id")
	cmd.MarkFlagRequired("gi")
	return cmd
}

func newCheckpointListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "li",
		Short:   "List the checkpoints of a graph",
		Aliases: []string{"list"},
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			graphID, _ := cmd.Flags().GetInt("gi")

			cps, err := s.tracker.ListCheckpoints(cmd.Context(), graphID)
			if err != nil {
				return reportFailure(cmd, "list checkpoints", err)
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd, cps)
			}
			return s.printer(cmd).Checkpoints(cps)
		}),
	}

	cmd.Flags().Int("gi", 0, "Graph id")
	cmd.MarkFlagRequired("gi")
	return cmd
}

func newCheckpointRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "re",
		Short:   "Restore a graph from a checkpoint",
		Aliases: []string{"restore"},
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			graphID, _ := cmd.Flags().GetInt("gi")
			cpID, _ := cmd.Flags().GetInt("ci")

			g, err := s.tracker.RestoreCheckpoint(cmd.Context(), graphID, cpID)
			if err != nil {
				return reportFailure(cmd, "restore checkpoint", err)
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd, g)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored graph %d from checkpoint %d (%d works)\n", graphID, cpID, len(g.Works))
			return nil
		}),
	}

	cmd.Flags().Int("gi", 0, "Graph id")
	cmd.Flags().Int("ci", 0, "Checkpoint id")
	cmd.MarkFlagRequired("gi")
	cmd.MarkFlagRequired("ci")
	return cmd
}

func newCheckpointDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "de",
		Short:   "Delete a checkpoint",
		Aliases: []string{"delete"},
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			graphID, _ := cmd.Flags().GetInt("gi")
			cpID, _ := cmd.Flags().GetInt("ci")

			if err := s.tracker.DeleteCheckpoint(cmd.Context(), graphID, cpID); err != nil {
				return reportFailure(cmd, "delete checkpoint", err)
			}
			return printDeleted(cmd, "checkpoint", cpID, true)
		}),
	}

	cmd.Flags().Int("gi", 0, "Graph id")
	cmd.Flags().Int("ci", 0, "Checkpoint id")
	cmd.MarkFlagRequired("gi")
	cmd.MarkFlagRequired("ci")
	return cmd
}
