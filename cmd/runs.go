package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

func NewRunsCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent training runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.runs == nil {
				return errors.New("run database is not available")
			}
			runs, err := a.runs.ListRuns(limit)
			if err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).Runs(runs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show (0 = all)")

	return cmd
}
