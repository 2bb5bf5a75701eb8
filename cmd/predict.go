package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/trknhr/sentiment/internal/model"
	"github.com/trknhr/sentiment/internal/predict"
	"github.com/trknhr/sentiment/internal/tui"
)

func NewPredictCmd(a *app) *cobra.Command {
	var inputFile string

	cmd := &cobra.Command{
		Use:   "predict [text...]",
		Short: "Predict the sentiment of texts with the saved model",
		Example: `
  # Score two texts
  sentiment predict "This was a horrible meal" "I love this spaghetti."

  # Score every line of a file
  sentiment predict -f reviews.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			texts := args
			if inputFile != "" {
				lines, err := readLines(inputFile)
				if err != nil {
					return err
				}
				texts = append(texts, lines...)
			}

			if len(texts) == 0 {
				text, err := a.promptText(cmd.InOrStdin(), cmd.OutOrStdout())
				if err == tui.ErrCanceled {
					return nil
				}
				if err != nil {
					return err
				}
				texts = []string{text}
			}

			m, err := model.Load(a.cfg.Model)
			if err != nil {
				return err
			}
			engine, err := predict.New(m, a.predictOptions())
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			for _, pr := range engine.PredictBatch(texts) {
				p.Prediction(pr)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "File with one text per line")

	return cmd
}

// promptText asks for one line on a terminal. Non-interactive input yields
// blank text, which the predictor replaces with the default.
func (a *app) promptText(in io.Reader, out io.Writer) (string, error) {
	if !isTerminal(in) {
		return "", nil
	}
	return tui.ReadLine(in, out, "Enter a review to classify", a.cfg.DefaultText)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return lines, nil
}
