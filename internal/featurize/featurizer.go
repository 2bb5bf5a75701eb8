// Package featurize turns raw review text into sparse, L2-normalized
// tf-idf vectors over a vocabulary frozen at fit time.
package featurize

import (
	"math"
	"sort"

	"github.com/go-nlp/tfidf"
	"github.com/pkg/errors"
)

var (
	ErrEmptyCorpus     = errors.New("featurizer: no training texts")
	ErrEmptyVocabulary = errors.New("featurizer: no term reached the minimum document frequency")
	ErrBadState        = errors.New("featurizer: inconsistent state")
)

type Options struct {
	NGram       int `json:"ngram"`
	MinDF       int `json:"min_df"`
	MaxFeatures int `json:"max_features"`
}

func DefaultOptions() Options {
	return Options{NGram: 2, MinDF: 2, MaxFeatures: 1 << 16}
}

// Featurizer is immutable after Fit or FromState and safe for concurrent use.
type Featurizer struct {
	opts  Options
	terms []string
	index map[string]int
	idf   []float64
}

// State is the serializable form of a Featurizer.
type State struct {
	Options Options   `json:"options"`
	Terms   []string  `json:"terms"`
	IDF     []float64 `json:"idf"`
}

type doc []int

func (d doc) IDs() []int { return []int(d) }

// Fit builds the vocabulary and idf weights from the training texts.
func Fit(texts []string, opts Options) (*Featurizer, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyCorpus
	}
	if opts.NGram < 1 {
		opts.NGram = 1
	}
	if opts.MinDF < 1 {
		opts.MinDF = 1
	}

	ids := map[string]int{}
	var words []string
	counter := tfidf.New()

	for _, text := range texts {
		seen := map[int]bool{}
		var d doc
		for _, term := range Terms(Tokenize(text), opts.NGram) {
			id, ok := ids[term]
			if !ok {
				id = len(words)
				ids[term] = id
				words = append(words, term)
			}
			if !seen[id] {
				seen[id] = true
				d = append(d, id)
			}
		}
		counter.Add(d)
	}

	type candidate struct {
		term string
		df   float64
	}
	var kept []candidate
	for id, df := range counter.TF {
		if df >= float64(opts.MinDF) {
			kept = append(kept, candidate{term: words[id], df: df})
		}
	}
	if len(kept) == 0 {
		return nil, ErrEmptyVocabulary
	}

	if opts.MaxFeatures > 0 && len(kept) > opts.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if kept[i].df != kept[j].df {
				return kept[i].df > kept[j].df
			}
			return kept[i].term < kept[j].term
		})
		kept = kept[:opts.MaxFeatures]
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].term < kept[j].term })

	docs := float64(counter.Docs)
	state := State{
		Options: opts,
		Terms:   make([]string, len(kept)),
		IDF:     make([]float64, len(kept)),
	}
	for i, c := range kept {
		state.Terms[i] = c.term
		state.IDF[i] = math.Log1p(docs / c.df)
	}
	return FromState(state)
}

// FromState rebuilds a Featurizer from its serialized state.
func FromState(s State) (*Featurizer, error) {
	if len(s.Terms) == 0 || len(s.Terms) != len(s.IDF) {
		return nil, errors.Wrapf(ErrBadState, "%d terms, %d idf weights", len(s.Terms), len(s.IDF))
	}
	index := make(map[string]int, len(s.Terms))
	for i, term := range s.Terms {
		if _, dup := index[term]; dup {
			return nil, errors.Wrapf(ErrBadState, "duplicate term %q", term)
		}
		if math.IsNaN(s.IDF[i]) || math.IsInf(s.IDF[i], 0) {
			return nil, errors.Wrapf(ErrBadState, "non-finite idf for %q", term)
		}
		index[term] = i
	}
	return &Featurizer{
		opts:  s.Options,
		terms: append([]string(nil), s.Terms...),
		index: index,
		idf:   append([]float64(nil), s.IDF...),
	}, nil
}

func (f *Featurizer) State() State {
	return State{
		Options: f.opts,
		Terms:   append([]string(nil), f.terms...),
		IDF:     append([]float64(nil), f.idf...),
	}
}

// Dim is the number of feature columns.
func (f *Featurizer) Dim() int { return len(f.terms) }

// Transform maps text onto the fitted vocabulary. Unknown terms are ignored;
// text with no known term yields an empty vector.
func (f *Featurizer) Transform(text string) Vector {
	counts := map[int]float64{}
	for _, term := range Terms(Tokenize(text), f.opts.NGram) {
		if col, ok := f.index[term]; ok {
			counts[col]++
		}
	}
	for col, tf := range counts {
		counts[col] = tf * f.idf[col]
	}
	return newVector(counts)
}

func (f *Featurizer) TransformAll(texts []string) []Vector {
	out := make([]Vector, len(texts))
	for i, t := range texts {
		out[i] = f.Transform(t)
	}
	return out
}
