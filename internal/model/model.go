package model

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trknhr/sentiment/internal/classifier"
	"github.com/trknhr/sentiment/internal/dataset"
	"github.com/trknhr/sentiment/internal/featurize"
	"github.com/trknhr/sentiment/internal/logger"
)

var ErrUntrained = errors.New("model is untrained")

type Options struct {
	Featurizer featurize.Options
	Trainer    classifier.Options
}

func DefaultOptions() Options {
	return Options{
		Featurizer: featurize.DefaultOptions(),
		Trainer:    classifier.DefaultOptions(),
	}
}

// Meta describes how a model was produced.
type Meta struct {
	CreatedAt   time.Time `json:"created_at"`
	TrainRows   int       `json:"train_rows"`
	Positives   int       `json:"positives"`
	Features    int       `json:"features"`
	Fingerprint string    `json:"fingerprint,omitempty"`
}

// Model composes a fitted featurizer with a fitted classifier. Both parts are
// immutable, so a Model is safe to share once built.
type Model struct {
	featurizer *featurize.Featurizer
	classifier *classifier.Classifier
	meta       Meta
}

// Train fits the featurizer on the training texts and the classifier on the
// resulting vectors.
func Train(ctx context.Context, train dataset.Dataset, opts Options) (*Model, error) {
	f, err := featurize.Fit(train.Texts(), opts.Featurizer)
	if err != nil {
		return nil, errors.Wrap(err, "fit featurizer")
	}
	logger.Debug("vocabulary size %d", f.Dim())

	xs := f.TransformAll(train.Texts())
	c, err := classifier.Train(ctx, xs, train.Labels(), f.Dim(), opts.Trainer)
	if err != nil {
		return nil, errors.Wrap(err, "train classifier")
	}

	return &Model{
		featurizer: f,
		classifier: c,
		meta: Meta{
			CreatedAt: time.Now().UTC(),
			TrainRows: len(train),
			Positives: train.Positives(),
			Features:  f.Dim(),
		},
	}, nil
}

// New assembles a model from already fitted parts.
func New(f *featurize.Featurizer, c *classifier.Classifier, meta Meta) (*Model, error) {
	if f == nil || c == nil {
		return nil, ErrUntrained
	}
	if f.Dim() != c.Dim() {
		return nil, errors.Errorf("featurizer has %d columns, classifier %d", f.Dim(), c.Dim())
	}
	meta.Features = f.Dim()
	return &Model{featurizer: f, classifier: c, meta: meta}, nil
}

// WithFingerprint returns a copy of m tagged with the dataset fingerprint.
func (m *Model) WithFingerprint(fp string) *Model {
	cp := *m
	cp.meta.Fingerprint = fp
	return &cp
}

func (m *Model) Meta() Meta { return m.meta }

// Score returns the raw classifier margin for text.
func (m *Model) Score(text string) float64 {
	return m.classifier.Infer(m.featurizer.Transform(text))
}

// Probability returns P(positive) for text.
func (m *Model) Probability(text string) float64 {
	return classifier.Calibrate(m.Score(text))
}
