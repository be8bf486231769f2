package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nvandessel/workgraph/internal/models"
	"github.com/nvandessel/workgraph/internal/tracker"
)

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "up",
		Short:   "Update a work",
		Aliases: []string{"update"},
	}
	cmd.AddCommand(newUpdateWorkCmd())
	return cmd
}

func newUpdateWorkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "w",
		Short: "Update the fields of a work",
		Long: `Update the fields of a work. Only the flags given are changed, and
the work's updated time is always refreshed.

An empty -wc is ignored. -wrp replaces the whole list of related people;
-wrp= clears it.

Examples:
  wg up w -gi=1 -wi=1 -ws=2
  wg up w -gi=1 -wi=1 -wp=0 -wrp=carol`,
		Aliases: []string{"work"},
		RunE: withSession(func(cmd *cobra.Command, s *session) error {
			graphID, _ := cmd.Flags().GetInt("gi")
			workID, _ := cmd.Flags().GetInt("wi")

			w, err := s.tracker.UpdateWork(cmd.Context(), graphID, workID, patchFromFlags(cmd))
			if err != nil {
				return reportFailure(cmd, "update work", err)
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd, w)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated work %d in graph %d\n", w.ID, graphID)
			return nil
		}),
	}

	cmd.Flags().Int("gi", 0, "Graph id")
	cmd.Flags().Int("wi", 0, "Work id")
	cmd.Flags().String("wc", "", "New content")
	cmd.Flags().Int("ws", 0, "New status: 0 start, 1 doing, 2 end")
	cmd.Flags().Int("wp", 0, "New priority")
	cmd.Flags().String("wrp", "", "New related people, comma separated")
	cmd.MarkFlagRequired("gi")
	cmd.MarkFlagRequired("wi")
	return cmd
}

// patchFromFlags sets a patch field only for flags given on the command line.
func patchFromFlags(cmd *cobra.Command) tracker.WorkPatch {
	var patch tracker.WorkPatch
	flags := cmd.Flags()

	if flags.Changed("wc") {
		v, _ := flags.GetString("wc")
		patch.Content = &v
	}
	if flags.Changed("ws") {
		v, _ := flags.GetInt("ws")
		status := models.Status(v)
		patch.Status = &status
	}
	if flags.Changed("wp") {
		v, _ := flags.GetInt("wp")
		patch.Priority = &v
	}
	if flags.Changed("wrp") {
		v, _ := flags.GetString("wrp")
		patch.RelatedPeople = &v
	}
	return patch
}
