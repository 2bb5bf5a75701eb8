// Package classifier fits and applies a binary logistic-regression model over
// sparse feature vectors.
package classifier

import (
	"context"
	"math"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/trknhr/sentiment/internal/featurize"
	"github.com/trknhr/sentiment/internal/logger"
)

var (
	ErrEmptyTrainingSet = errors.New("classifier: empty training set")
	ErrSingleClass      = errors.New("classifier: training labels contain a single class")
	ErrBadState         = errors.New("classifier: inconsistent state")
)

type Options struct {
	L2                float64
	MaxIterations     int
	GradientTolerance float64
	Workers           int
}

func DefaultOptions() Options {
	return Options{L2: 1e-4, MaxIterations: 200, GradientTolerance: 1e-6}
}

// Classifier holds the fitted weights. It is never modified after Train or
// FromState.
type Classifier struct {
	weights []float64
	bias    float64
}

type State struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// Train minimizes mean log-loss plus L2/2*|w|^2 with L-BFGS, starting from
// zero weights. Given the same inputs and options the result is identical.
func Train(ctx context.Context, xs []featurize.Vector, labels []bool, dim int, opts Options) (*Classifier, error) {
	if len(xs) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(xs) != len(labels) {
		return nil, errors.Errorf("classifier: %d vectors but %d labels", len(xs), len(labels))
	}
	if dim <= 0 {
		return nil, errors.Errorf("classifier: invalid dimension %d", dim)
	}
	if singleClass(labels) {
		return nil, ErrSingleClass
	}
	for i, x := range xs {
		if x.Len() > 0 && x.Indices[x.Len()-1] >= dim {
			return nil, errors.Errorf("classifier: vector %d has index beyond dimension %d", i, dim)
		}
	}

	obj := newObjective(xs, labels, dim, opts)
	problem := optimize.Problem{
		Func: obj.value,
		Grad: obj.gradient,
	}
	settings := &optimize.Settings{
		MajorIterations:   opts.MaxIterations,
		GradientThreshold: opts.GradientTolerance,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Relative:   1e-10,
			Iterations: 20,
		},
		Recorder: &progress{ctx: ctx},
	}

	result, err := optimize.Minimize(problem, make([]float64, dim+1), settings, &optimize.LBFGS{})
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		if result == nil || result.Status != optimize.IterationLimit {
			return nil, errors.Wrap(err, "classifier: optimization failed")
		}
		logger.Warn("optimizer stopped at iteration limit (%d), loss=%.6f", opts.MaxIterations, result.F)
	}
	logger.Debug("optimizer finished: status=%v loss=%.6f iterations=%d", result.Status, result.F, result.Stats.MajorIterations)

	return &Classifier{
		weights: append([]float64(nil), result.X[:dim]...),
		bias:    result.X[dim],
	}, nil
}

// FromState rebuilds a Classifier from its serialized state.
func FromState(s State) (*Classifier, error) {
	if len(s.Weights) == 0 {
		return nil, errors.Wrap(ErrBadState, "no weights")
	}
	if floats.HasNaN(s.Weights) || math.IsNaN(s.Bias) || math.IsInf(s.Bias, 0) {
		return nil, errors.Wrap(ErrBadState, "non-finite parameters")
	}
	for _, w := range s.Weights {
		if math.IsInf(w, 0) {
			return nil, errors.Wrap(ErrBadState, "non-finite parameters")
		}
	}
	return &Classifier{weights: append([]float64(nil), s.Weights...), bias: s.Bias}, nil
}

func (c *Classifier) State() State {
	return State{Weights: append([]float64(nil), c.weights...), Bias: c.bias}
}

func (c *Classifier) Dim() int { return len(c.weights) }

// Infer returns the raw margin w.x + b. Positive margins favour the positive class.
func (c *Classifier) Infer(v featurize.Vector) float64 {
	return v.Dot(c.weights) + c.bias
}

// Calibrate maps a margin to P(positive) with the logistic function.
func Calibrate(score float64) float64 {
	if score >= 0 {
		return 1 / (1 + math.Exp(-score))
	}
	e := math.Exp(score)
	return e / (1 + e)
}

func singleClass(labels []bool) bool {
	for _, l := range labels[1:] {
		if l != labels[0] {
			return false
		}
	}
	return true
}

// objective evaluates loss and gradient over fixed row shards in parallel.
// Shard results are reduced in shard order so sums do not depend on scheduling.
type objective struct {
	xs     []featurize.Vector
	ys     []float64
	dim    int
	l2     float64
	shards [][2]int
}

func newObjective(xs []featurize.Vector, labels []bool, dim int, opts Options) *objective {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	ys := make([]float64, len(labels))
	for i, l := range labels {
		if l {
			ys[i] = 1
		}
	}

	rowsPerShard := (len(xs) + workers - 1) / workers
	var shards [][2]int
	for start := 0; start < len(xs); start += rowsPerShard {
		end := start + rowsPerShard
		if end > len(xs) {
			end = len(xs)
		}
		shards = append(shards, [2]int{start, end})
	}
	return &objective{xs: xs, ys: ys, dim: dim, l2: opts.L2, shards: shards}
}

func (o *objective) value(params []float64) float64 {
	w, b := params[:o.dim], params[o.dim]
	partial := make([]float64, len(o.shards))

	o.each(func(s int, start, end int) {
		var sum float64
		for i := start; i < end; i++ {
			z := o.xs[i].Dot(w) + b
			sum += softplus(z) - o.ys[i]*z
		}
		partial[s] = sum
	})

	loss := floats.Sum(partial) / float64(len(o.xs))
	return loss + 0.5*o.l2*floats.Dot(w, w)
}

func (o *objective) gradient(grad, params []float64) {
	w, b := params[:o.dim], params[o.dim]
	partial := make([][]float64, len(o.shards))

	o.each(func(s int, start, end int) {
		g := make([]float64, o.dim+1)
		for i := start; i < end; i++ {
			z := o.xs[i].Dot(w) + b
			d := Calibrate(z) - o.ys[i]
			o.xs[i].AddScaledTo(g[:o.dim], d)
			g[o.dim] += d
		}
		partial[s] = g
	})

	for i := range grad {
		grad[i] = 0
	}
	for _, g := range partial {
		floats.Add(grad, g)
	}
	floats.Scale(1/float64(len(o.xs)), grad)
	floats.AddScaled(grad[:o.dim], o.l2, w)
}

func (o *objective) each(fn func(shard, start, end int)) {
	var g errgroup.Group
	for s, bounds := range o.shards {
		s, bounds := s, bounds
		g.Go(func() error {
			fn(s, bounds[0], bounds[1])
			return nil
		})
	}
	_ = g.Wait()
}

// softplus computes log(1+e^z) without overflow.
func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}

// progress logs optimizer iterations and aborts when ctx is done.
type progress struct {
	ctx  context.Context
	iter int
}

func (p *progress) Init() error { return nil }

func (p *progress) Record(loc *optimize.Location, op optimize.Operation, _ *optimize.Stats) error {
	if op&optimize.MajorIteration != 0 {
		p.iter++
		if p.iter%25 == 0 {
			logger.Debug("iteration %d: loss=%.6f", p.iter, loc.F)
		}
	}
	return p.ctx.Err()
}
