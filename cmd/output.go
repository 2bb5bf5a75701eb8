package cmd

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"github.com/trknhr/sentiment/internal/predict"
	"github.com/trknhr/sentiment/internal/store"
)

// printer writes console output. Colors are only emitted when w is a
// terminal.
type printer struct {
	w        io.Writer
	banner   lipgloss.Style
	positive lipgloss.Style
	negative lipgloss.Style
	header   lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:        w,
		banner:   r.NewStyle().Bold(true),
		positive: r.NewStyle().Foreground(lipgloss.Color("42")),
		negative: r.NewStyle().Foreground(lipgloss.Color("203")),
		header:   r.NewStyle().Bold(true).Padding(0, 1),
	}
}

func (p *printer) Banner(title string) {
	fmt.Fprintln(p.w, p.banner.Render("=============== "+title+" ==============="))
}

func (p *printer) Blank() {
	fmt.Fprintln(p.w)
}

func (p *printer) Prediction(pr predict.Prediction) {
	label := p.negative.Render(pr.Sentiment())
	if pr.Label {
		label = p.positive.Render(pr.Sentiment())
	}
	fmt.Fprintf(p.w, "Sentiment: %s | Prediction: %s | Probability: %s\n",
		pr.Text, label, strconv.FormatFloat(pr.Probability, 'f', 6, 64))
}

func (p *printer) Runs(runs []store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(p.w, "no training runs recorded")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("ID", "CREATED", "DATASET", "ROWS", "FEATURES", "ACCURACY", "AUC", "F1", "DURATION")

	for _, r := range runs {
		t.Row(
			strconv.FormatInt(r.ID, 10),
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Dataset,
			fmt.Sprintf("%d/%d", r.TrainRows, r.TestRows),
			strconv.Itoa(r.Features),
			percent(r.Accuracy),
			percent(r.AUC),
			percent(r.F1),
			r.Duration.Round(time.Millisecond).String(),
		)
	}
	fmt.Fprintln(p.w, t.String())
}

func percent(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
