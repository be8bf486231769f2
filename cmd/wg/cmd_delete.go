package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "de",
		Short: "Delete a graph, work, event or relation",
		Long: `Delete a graph, work, event or relation.

Deleting a graph or an event that does not exist is not an error.
Deleting a missing work or relation is reported as a failure.

Examples:
  wg de g -gi=1
  wg de w -gi=1 -wi=3
  wg de e -gi=1 -wi=3 -ei=2
  wg de r -gi=1 -ri=1`,
		Aliases: []string{"delete"},
	}

	cmd.AddCommand(
		newDeleteGraphCmd(),
		newDeleteWorkCmd(),
		newDeleteEventCmd(),
		newDeleteRelationCmd(),
	)
	return cmd
}

func newDeleteGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "g",
		Short:   "Delete a graph",
		Aliases: []string{"graph"},
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			graphID, _ := cmd.Flags().GetInt("gi")

			if err := s.tracker.DeleteGraph(cmd.Context(), graphID); err != nil {
				return reportFailure(cmd, "delete graph", err)
			}
			return printDeleted(cmd, "graph", graphID, true)
		}),
	}

	cmd.Flags().Int("gi", 0, "Graph id")
	cmd.MarkFlagRequired("gi")
	return cmd
}

func newDeleteWorkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "w",
		Short:   "Delete a work",
		Aliases: []string{"work"},
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			graphID, _ := cmd.Flags().GetInt("gi")
			workID, _ := cmd.Flags().GetInt("wi")

			if err := s.tracker.DeleteWork(cmd.Context(), graphID, workID); err != nil {
				return reportFailure(cmd, "delete work", err)
			}
			return printDeleted(cmd, "work", workID, true)
		}),
	}

	cmd.Flags().Int("gi", 0, "Graph id")
	cmd.Flags().Int("wi", 0, "Work id")
	cmd.MarkFlagRequired("gi")
	cmd.MarkFlagRequired("wi")
	return cmd
}

func newDeleteEventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "e",
		Short:   "Delete an event",
		Aliases: []string{"event"},
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			graphID, _ := cmd.Flags().GetInt("gi")
			workID, _ := cmd.Flags().GetInt("wi")
			eventID, _ := cmd.Flags().GetInt("ei")

			removed, err := s.tracker.DeleteEvent(cmd.Context(), graphID, workID, eventID)
			if err != nil {
				return reportFailure(cmd, "delete event", err)
			}
			return printDeleted(cmd, "event", eventID, removed)
		}),
	}

	cmd.Flags().Int("gi", 0, "Graph id")
	cmd.Flags().Int("wi", 0, "Work id")
	cmd.Flags().Int("ei", 0, "Event id")
	cmd.MarkFlagRequired("gi")
	cmd.MarkFlagRequired("wi")
	cmd.MarkFlagRequired("ei")
	return cmd
}

func newDeleteRelationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "r",
		Short:   "Delete a relation",
		Aliases: []string{"relation"},
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			graphID, _ := cmd.Flags().GetInt("gi")
			relationID, _ := cmd.Flags().GetInt("ri")

			if err := s.tracker.DeleteRelation(cmd.Context(), graphID, relationID); err != nil {
				return reportFailure(cmd, "delete relation", err)
			}
			return printDeleted(cmd, "relation", relationID, true)
		}),
	}

	cmd.Flags().Int("gi", 0, "Graph id")
	cmd.Flags().Int("ri", 0, "Relation id")
	cmd.MarkFlagRequired("gi")
	cmd.MarkFlagRequired("ri")
	return cmd
}

func printDeleted(cmd *cobra.Command, kind string, id int, removed bool) error {
	if jsonOutput(cmd) {
		return writeJSON(cmd, map[string]any{"kind": kind, "id": id, "removed": removed})
	}
	if removed {
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %d\n", kind, id)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "No %s %d to delete\n", kind, id)
	}
	return nil
}
