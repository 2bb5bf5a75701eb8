package dataset

import (
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrSourceNotFound  = errors.New("dataset source not found")
	ErrMissingColumn   = errors.New("dataset is missing a required column")
	ErrInvalidFraction = errors.New("test fraction must be in (0,1)")
)

// Example is one labeled review. Label is true for positive sentiment.
type Example struct {
	Text  string
	Label bool
}

// Dataset is an ordered sequence of examples.
type Dataset []Example

func (d Dataset) Texts() []string {
	out := make([]string, len(d))
	for i, ex := range d {
		out[i] = ex.Text
	}
	return out
}

func (d Dataset) Labels() []bool {
	out := make([]bool, len(d))
	for i, ex := range d {
		out[i] = ex.Label
	}
	return out
}

// Positives counts examples labeled positive.
func (d Dataset) Positives() int {
	n := 0
	for _, ex := range d {
		if ex.Label {
			n++
		}
	}
	return n
}

// Polarity converts the "positive"/"negative" sentiment column.
// Any value other than "positive" (case-insensitive) is negative.
type Polarity bool

func (p *Polarity) UnmarshalCSV(s string) error {
	*p = Polarity(strings.EqualFold(strings.TrimSpace(s), "positive"))
	return nil
}

func (p Polarity) MarshalCSV() (string, error) {
	if p {
		return "positive", nil
	}
	return "negative", nil
}

type record struct {
	Review    string   `csv:"review"`
	Sentiment Polarity `csv:"sentiment"`
}

func (r record) example() Example {
	return Example{Text: r.Review, Label: bool(r.Sentiment)}
}
