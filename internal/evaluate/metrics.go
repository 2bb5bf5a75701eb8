package evaluate

import (
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"

	"github.com/trknhr/sentiment/internal/dataset"
)

var ErrEmptyTestSet = errors.New("evaluate: empty test set")

const (
	threshold = 0.5
	epsilon   = 1e-15
)

// Scorer returns P(positive) for a text.
type Scorer interface {
	Probability(text string) float64
}

type Confusion struct {
	TP, FP, TN, FN int
}

type Metrics struct {
	Accuracy  float64
	AUC       float64
	F1        float64
	Precision float64
	Recall    float64
	LogLoss   float64
	Confusion Confusion
	Count     int
}

// Evaluate scores every test example and aggregates binary classification
// metrics at a 0.5 threshold. AUC is NaN when the test set has one class only.
func Evaluate(s Scorer, test dataset.Dataset) (Metrics, error) {
	if len(test) == 0 {
		return Metrics{}, ErrEmptyTestSet
	}

	probs := make([]float64, len(test))
	labels := make([]bool, len(test))
	for i, ex := range test {
		probs[i] = s.Probability(ex.Text)
		labels[i] = ex.Label
	}
	return FromScores(probs, labels)
}

// FromScores computes metrics from precomputed probabilities.
func FromScores(probs []float64, labels []bool) (Metrics, error) {
	if len(probs) == 0 {
		return Metrics{}, ErrEmptyTestSet
	}
	if len(probs) != len(labels) {
		return Metrics{}, errors.Errorf("evaluate: %d scores but %d labels", len(probs), len(labels))
	}

	var m Metrics
	var logLoss float64
	for i, p := range probs {
		predicted := p >= threshold
		switch {
		case predicted && labels[i]:
			m.Confusion.TP++
		case predicted && !labels[i]:
			m.Confusion.FP++
		case !predicted && labels[i]:
			m.Confusion.FN++
		default:
			m.Confusion.TN++
		}

		q := math.Min(math.Max(p, epsilon), 1-epsilon)
		if labels[i] {
			logLoss -= math.Log(q)
		} else {
			logLoss -= math.Log(1 - q)
		}
	}

	n := len(probs)
	c := m.Confusion
	m.Count = n
	m.Accuracy = float64(c.TP+c.TN) / float64(n)
	m.LogLoss = logLoss / float64(n)
	if c.TP+c.FP > 0 {
		m.Precision = float64(c.TP) / float64(c.TP+c.FP)
	}
	if c.TP+c.FN > 0 {
		m.Recall = float64(c.TP) / float64(c.TP+c.FN)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	m.AUC = auc(probs, labels)
	return m, nil
}

func auc(probs []float64, labels []bool) float64 {
	y := append([]float64(nil), probs...)
	classes := append([]bool(nil), labels...)
	stat.SortWeightedLabeled(y, classes, nil)

	var pos, neg int
	for _, c := range classes {
		if c {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return math.NaN()
	}

	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr)
}

// Report prints metrics in the console layout of the training tool.
func (m Metrics) Report(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Model quality metrics evaluation")
	fmt.Fprintln(w, "--------------------------------")
	fmt.Fprintf(w, "Accuracy: %.2f%%\n", m.Accuracy*100)
	fmt.Fprintf(w, "Auc: %.2f%%\n", m.AUC*100)
	fmt.Fprintf(w, "F1Score: %.2f%%\n", m.F1*100)
	fmt.Fprintf(w, "Precision: %.2f%% | Recall: %.2f%% | LogLoss: %.4f\n", m.Precision*100, m.Recall*100, m.LogLoss)
	fmt.Fprintf(w, "TP=%d FP=%d TN=%d FN=%d (n=%d)\n", m.Confusion.TP, m.Confusion.FP, m.Confusion.TN, m.Confusion.FN, m.Count)
}
