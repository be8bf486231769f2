package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "li",
		Short: "List graphs, works, events or relations",
		Long: `List graphs, works, events or relations as a table.

Examples:
  wg li g                 # all graphs
  wg li w -gi=1           # works of graph 1
  wg li e -gi=1 -wi=2     # events of work 2
  wg li e -gi=1 -of=3     # events of the last 3 days, across works
  wg li r -gi=1           # relations of graph 1`,
		Aliases: []string{"list"},
	}

	cmd.AddCommand(
		newListGraphsCmd(),
		newListWorksCmd(),
		newListEventsCmd(),
		newListRelationsCmd(),
	)
	return cmd
}

func newListGraphsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "g",
		Short:   "List graphs",
		Aliases: []string{"graphs"},
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			graphs, err := s.tracker.ListGraphs(cmd.Context())
			if err != nil {
				return reportFailure(cmd, "list graphs", err)
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd, graphs)
			}
			return s.printer(cmd).Graphs(graphs)
		}),
	}
}

func newListWorksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "w",
		Short:   "List the works of a graph",
		Aliases: []string{"works"},
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			graphID, _ := cmd.Flags().GetInt("gi")

			works, err := s.tracker.ListWorks(cmd.Context(), graphID)
			if err != nil {
				return reportFailure(cmd, "list works", err)
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd, works)
			}
			return s.printer(cmd).Works(works)
		}),
	}

	cmd.Flags().Int("gi", 0, "Graph id")
	cmd.MarkFlagRequired("gi")
	return cmd
}

func newListEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "e",
		Short:   "List the events of a work, or recent events of a graph",
		Aliases: []string{"events"},
		Args: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("wi") && !cmd.Flags().Changed("of") {
				return fmt.Errorf("one of --wi or --of is required")
			}
			if cmd.Flags().Changed("wi") && cmd.Flags().Changed("of") {
				return fmt.Errorf("--wi and --of cannot be used together")
			}
			return nil
		},
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			graphID, _ := cmd.Flags().GetInt("gi")

			if cmd.Flags().Changed("of") {
				days, _ := cmd.Flags().GetInt("of")
				groups, err := s.tracker.ListEventsSince(cmd.Context(), graphID, days)
				if err != nil {
					return reportFailure(cmd, "list events", err)
				}
				if jsonOutput(cmd) {
					return writeJSON(cmd, groups)
				}
				return s.printer(cmd).RecentEvents(groups)
			}

			workID, _ := cmd.Flags().GetInt("wi")
			if jsonOutput(cmd) {
				events, err := s.tracker.ListEvents(cmd.Context(), graphID, workID)
				if err != nil {
					return reportFailure(cmd, "list events", err)
				}
				return writeJSON(cmd, events)
			}

			w, err := s.tracker.GetWork(cmd.Context(), graphID, workID)
			if err != nil {
				return reportFailure(cmd, "list events", err)
			}
			return s.printer(cmd).Events(*w)
		}),
	}

	cmd.Flags().Int("gi", 0, "Graph id")
	cmd.Flags().Int("wi", 0, "Work id")
	cmd.Flags().Int("of", 0, "Only events created within this many days")
	cmd.MarkFlagRequired("gi")
	return cmd
}

func newListRelationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "r",
		Short:   "List the relations of a graph",
		Aliases: []string{"relations"},
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			graphID, _ := cmd.Flags().GetInt("gi")

			relations, err := s.tracker.ListRelations(cmd.Context(), graphID)
			if err != nil {
				return reportFailure(cmd, "list relations", err)
			}
			if jsonOutput(cmd) {
				return writeJSON(cmd, relations)
			}
			return s.printer(cmd).Relations(relations)
		}),
	}

	cmd.Flags().Int("gi", 0, "Graph id")
	cmd.MarkFlagRequired("gi")
	return cmd
}
