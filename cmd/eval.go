package cmd

import (
	"github.com/spf13/cobra"

	"github.com/trknhr/sentiment/internal/model"
)

func NewEvalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "eval",
		Short: "Evaluate the saved model on the held-out split of the dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.Load(a.cfg.Model)
			if err != nil {
				return err
			}
			_, err = a.evaluateOnSplit(m, newPrinter(cmd.OutOrStdout()))
			return err
		},
	}
}
