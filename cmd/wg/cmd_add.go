package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/workgraph/internal/models"
	"github.com/nvandessel/workgraph/internal/tracker"
)

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ad",
		Short: "Add a graph, work, event or relation",
		Long: `Add a graph, work, event or relation.

Examples:
  wg ad g -gn=demo
  wg ad w -gi=1 -wc="task A" -ws=1 -wp=2 -wrp=alice,bob
  wg ad e -gi=1 -wi=1 -ec=started
  wg ad r -gi=1 -w1=1 -w2=2 -rd=blocks`,
		Aliases: []string{"add"},
	}

	cmd.AddCommand(
		newAddGraphCmd(),
		newAddWorkCmd(),
		newAddEventCmd(),
		newAddRelationCmd(),
	)
	return cmd
}

func newAddGraphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "g",
		Short:   "Create a graph",
		Aliases: []string{"graph"},
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			name, _ := cmd.Flags().GetString("gn")

			g, err := s.tracker.CreateGraph(cmd.Context(), name)
			if err != nil {
				return reportFailure(cmd, "add graph", err)
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd, g)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created graph %d: %s\n", g.ID, g.Name)
			return nil
		}),
	}

	cmd.Flags().String("gn", "", "Graph name")
	cmd.MarkFlagRequired("gn")
	return cmd
}

func newAddWorkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "w",
		Short:   "Add a work to a graph",
		Aliases: []string{"work"},
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			graphID, _ := cmd.Flags().GetInt("gi")
			content, _ := cmd.Flags().GetString("wc")
			status, _ := cmd.Flags().GetInt("ws")
			priority, _ := cmd.Flags().GetInt("wp")
			people, _ := cmd.Flags().GetString("wrp")

			w, err := s.tracker.CreateWork(cmd.Context(), graphID, tracker.NewWork{
				Content:       content,
				Status:        models.Status(status),
				Priority:      priority,
				RelatedPeople: people,
			})
			if err != nil {
				return reportFailure(cmd, "add work", err)
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd, w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added work %d to graph %d\n", w.ID, graphID)
			return nil
		}),
	}

	cmd.Flags().Int("gi", 0, "Graph id")
	cmd.Flags().String("wc", "", "Work content")
	cmd.Flags().Int("ws", 0, "Work status: 0 start, 1 doing, 2 end")
	cmd.Flags().Int("wp", 0, "Work priority")
	cmd.Flags().String("wrp", "", "Related people, comma separated")
	cmd.MarkFlagRequired("gi")
	cmd.MarkFlagRequired("wc")
	return cmd
}

func newAddEventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "e",
		Short:   "Append an event to a work",
		Aliases: []string{"event"},
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			graphID, _ := cmd.Flags().GetInt("gi")
			workID, _ := cmd.Flags().GetInt("wi")
			content, _ := cmd.Flags().GetString("ec")

			e, err := s.tracker.CreateEvent(cmd.Context(), graphID, workID, content)
			if err != nil {
				return reportFailure(cmd, "add event", err)
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd, e)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added event %d to work %d\n", e.ID, workID)
			return nil
		}),
	}

	cmd.Flags().Int("gi", 0, "Graph id")
	cmd.Flags().Int("wi", 0, "Work id")
	cmd.Flags().String("ec", "", "Event content")
	cmd.MarkFlagRequired("gi")
	cmd.MarkFlagRequired("wi")
	cmd.MarkFlagRequired("ec")
	return cmd
}

func newAddRelationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "r",
		Short:   "Relate two works",
		Aliases: []string{"relation"},
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			graphID, _ := cmd.Flags().GetInt("gi")
			w1, _ := cmd.Flags().GetInt("w1")
			w2, _ := cmd.Flags().GetInt("w2")
			desc, _ := cmd.Flags().GetString("rd")

			r, err := s.tracker.CreateRelation(cmd.Context(), graphID, tracker.NewRelation{
				W1:          w1,
				W2:          w2,
				Description: desc,
			})
			if err != nil {
				return reportFailure(cmd, "add relation", err)
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd, r)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added relation %d: %d -> %d\n", r.ID, r.W1, r.W2)
			return nil
		}),
	}

	cmd.Flags().Int("gi", 0, "Graph id")
	cmd.Flags().Int("w1", 0, "First work id")
	cmd.Flags().Int("w2", 0, "Second work id")
	cmd.Flags().String("rd", "", "Relation description")
	cmd.MarkFlagRequired("gi")
	cmd.MarkFlagRequired("w1")
	cmd.MarkFlagRequired("w2")
	return cmd
}
