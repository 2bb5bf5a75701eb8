package cmd

import (
	"github.com/spf13/cobra"
)

func NewTrainCmd(a *app) *cobra.Command {
	var skipEval bool

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model from the dataset and save it",
		Example: `
  # Train with sentiment.yaml settings
  sentiment train

  # Train on another file without the evaluation report
  sentiment train --dataset reviews.csv --model reviews.snt --skip-eval`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd.OutOrStdout())
			_, err := a.trainModel(cmd.Context(), p, !skipEval)
			return err
		},
	}
	cmd.Flags().BoolVar(&skipEval, "skip-eval", false, "Skip evaluation on the held-out split")

	return cmd
}
