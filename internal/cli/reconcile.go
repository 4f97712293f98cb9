package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func ReconcileCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Replay queued secondary writes once",
		Long: `Replays unresolved entries of the pending_writes repair queue. Entries
that succeed, or whose target no longer exists, are marked resolved; the rest
keep their place with an increased attempt count.

Examples:
  zonetrack reconcile
  zonetrack reconcile --limit 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(false)
			if err != nil {
				return err
			}
			defer a.close()
			rep, err := a.svc.Reconcile(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "attempted %d  ", rep.Attempted)
			fmt.Fprint(out, color.New(color.FgHiGreen).Sprintf("resolved %d  ", rep.Resolved))
			failed := color.New(color.FgHiBlack)
			if rep.Failed > 0 {
				failed = color.New(color.FgRed)
			}
			fmt.Fprintln(out, failed.Sprintf("failed %d", rep.Failed))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 100, "maximum entries to replay")
	return cmd
}
