// Package predict runs a trained model over single texts or batches.
package predict

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"

	"github.com/trknhr/sentiment/internal/classifier"
	"github.com/trknhr/sentiment/internal/logger"
	"github.com/trknhr/sentiment/internal/model"
)

type Options struct {
	// DefaultText replaces blank input when non-empty.
	DefaultText string
	// CacheSize bounds the prediction cache; 0 disables it.
	CacheSize int
}

type Prediction struct {
	Text        string
	Label       bool
	Probability float64
	Score       float64
}

// Sentiment is the display form of the label.
func (p Prediction) Sentiment() string {
	if p.Label {
		return "Positive"
	}
	return "Negative"
}

// Engine wraps a read-only model. It is safe for concurrent use.
type Engine struct {
	model *model.Model
	opts  Options
	cache *lru.Cache[string, Prediction]
}

func New(m *model.Model, opts Options) (*Engine, error) {
	if m == nil {
		return nil, model.ErrUntrained
	}
	e := &Engine{model: m, opts: opts}
	if opts.CacheSize > 0 {
		c, err := lru.New[string, Prediction](opts.CacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "create prediction cache")
		}
		e.cache = c
	}
	return e, nil
}

func (e *Engine) Model() *model.Model { return e.model }

// PredictOne scores text. The returned Prediction carries the text that was
// actually scored, which differs from the input only when blank input was
// replaced by the default text.
func (e *Engine) PredictOne(text string) Prediction {
	if strings.TrimSpace(text) == "" && e.opts.DefaultText != "" {
		logger.Debug("blank input, using default text %q", e.opts.DefaultText)
		text = e.opts.DefaultText
	}

	if e.cache != nil {
		if p, ok := e.cache.Get(text); ok {
			return p
		}
	}

	score := e.model.Score(text)
	prob := classifier.Calibrate(score)
	p := Prediction{
		Text:        text,
		Label:       prob >= 0.5,
		Probability: prob,
		Score:       score,
	}

	if e.cache != nil {
		e.cache.Add(text, p)
	}
	return p
}

// PredictBatch returns one prediction per input in input order.
func (e *Engine) PredictBatch(texts []string) []Prediction {
	out := make([]Prediction, len(texts))
	for i, t := range texts {
		out[i] = e.PredictOne(t)
	}
	return out
}

// Probability lets an Engine serve as an evaluation scorer.
func (e *Engine) Probability(text string) float64 {
	return e.PredictOne(text).Probability
}
