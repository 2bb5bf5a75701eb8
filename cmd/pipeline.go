package cmd

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/trknhr/sentiment/internal/classifier"
	"github.com/trknhr/sentiment/internal/config"
	"github.com/trknhr/sentiment/internal/dataset"
	"github.com/trknhr/sentiment/internal/evaluate"
	"github.com/trknhr/sentiment/internal/featurize"
	"github.com/trknhr/sentiment/internal/logger"
	"github.com/trknhr/sentiment/internal/model"
	"github.com/trknhr/sentiment/internal/predict"
	"github.com/trknhr/sentiment/internal/store"
	"github.com/trknhr/sentiment/internal/utils"
)

func modelOptions(cfg *config.Config) model.Options {
	return model.Options{
		Featurizer: featurize.Options{
			NGram:       cfg.Featurizer.NGram,
			MinDF:       cfg.Featurizer.MinDF,
			MaxFeatures: cfg.Featurizer.MaxFeatures,
		},
		Trainer: classifier.Options{
			L2:                cfg.Trainer.L2,
			MaxIterations:     cfg.Trainer.MaxIterations,
			GradientTolerance: classifier.DefaultOptions().GradientTolerance,
			Workers:           cfg.Trainer.Workers,
		},
	}
}

// loadSplit loads the configured dataset and partitions it.
func (a *app) loadSplit(loader dataset.Loader) (all, train, test dataset.Dataset, err error) {
	all, err = loader.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	train, test, err = dataset.Split(all, a.cfg.TestFraction, a.cfg.Seed)
	if err != nil {
		return nil, nil, nil, err
	}
	logger.Info("loaded %d rows from %s (%d train, %d test)", len(all), loader.Path(), len(train), len(test))
	return all, train, test, nil
}

// trainModel runs load, split, train, optional evaluation and save, then
// records the run. The saved model is returned.
func (a *app) trainModel(ctx context.Context, p *printer, withEval bool) (*model.Model, error) {
	start := time.Now()
	loader := dataset.NewCSVLoader(a.cfg.Dataset)

	all, train, test, err := a.loadSplit(loader)
	if err != nil {
		return nil, err
	}

	p.Banner("Create and Train the Model")
	m, err := model.Train(ctx, train, modelOptions(a.cfg))
	if err != nil {
		return nil, err
	}
	p.Banner("End of training")
	p.Blank()

	fingerprint, err := utils.HashFile(a.cfg.Dataset)
	if err != nil {
		logger.Warn("failed to fingerprint %s: %v", a.cfg.Dataset, err)
	}
	m = m.WithFingerprint(fingerprint)

	metrics := evaluate.Metrics{Accuracy: math.NaN(), AUC: math.NaN(), F1: math.NaN()}
	if withEval {
		if metrics, err = a.report(m, test, p); err != nil {
			return nil, err
		}
	}

	info, err := model.Save(m, a.cfg.Model)
	if err != nil {
		return nil, err
	}
	logger.Info("saved model to %s (%d bytes)", info.Path, info.Size)

	a.recordRun(store.Run{
		Dataset:   loader.Path(),
		ModelPath: info.Path,
		Checksum:  info.Checksum,
		Rows:      len(all),
		TrainRows: len(train),
		TestRows:  len(test),
		Features:  m.Meta().Features,
		Accuracy:  metrics.Accuracy,
		AUC:       metrics.AUC,
		F1:        metrics.F1,
		Duration:  time.Since(start),
	})
	if a.meta != nil {
		if err := a.meta.TouchMeta(loader.Key(), a.cfg.Dataset, fingerprint); err != nil {
			logger.WarnOnce("meta", "failed to record dataset freshness: %v", err)
		}
	}
	return m, nil
}

func (a *app) recordRun(run store.Run) {
	if a.runs == nil {
		return
	}
	id, err := a.runs.SaveRun(run)
	if err != nil {
		logger.WarnOnce("runs", "failed to record run: %v", err)
		return
	}
	logger.Debug("recorded run %d", id)
}

// loadOrTrain reuses the saved model while the dataset is unchanged and
// falls back to training when the model is missing, corrupt or stale. The
// second result reports whether an evaluation report was already printed.
func (a *app) loadOrTrain(ctx context.Context, p *printer, withEval bool) (*model.Model, bool, error) {
	m, err := model.Load(a.cfg.Model)
	switch {
	case err == nil:
		if a.fresh(m) {
			logger.Info("reusing model %s", a.cfg.Model)
			return m, false, nil
		}
		logger.Info("dataset %s changed since %s was trained, retraining", a.cfg.Dataset, a.cfg.Model)
	case errors.Is(err, model.ErrModelNotFound):
		logger.Info("no model at %s, training", a.cfg.Model)
	case errors.Is(err, model.ErrModelCorrupt):
		logger.Warn("%v, retraining", err)
	default:
		return nil, false, err
	}

	m, err = a.trainModel(ctx, p, withEval)
	if err != nil {
		return nil, false, err
	}
	return m, withEval, nil
}

// fresh reports whether m was trained on the current dataset contents. The
// recorded mtime and checksum must both match m for the fast path, otherwise
// the dataset is hashed and compared with m's fingerprint.
func (a *app) fresh(m *model.Model) bool {
	if _, err := os.Stat(a.cfg.Dataset); err != nil {
		logger.Warn("dataset %s unavailable, keeping existing model", a.cfg.Dataset)
		return true
	}

	key := dataset.NewCSVLoader(a.cfg.Dataset).Key()
	want := m.Meta().Fingerprint
	if a.meta != nil && !a.meta.NeedsReload(key, a.cfg.Dataset, want) {
		return true
	}

	fingerprint, err := utils.HashFile(a.cfg.Dataset)
	if err != nil || fingerprint == "" || fingerprint != want {
		return false
	}
	if a.meta != nil {
		if err := a.meta.TouchMeta(key, a.cfg.Dataset, fingerprint); err != nil {
			logger.WarnOnce("meta", "failed to record dataset freshness: %v", err)
		}
	}
	return true
}

// evaluateOnSplit re-creates the held-out split and reports m against it.
func (a *app) evaluateOnSplit(m *model.Model, p *printer) (evaluate.Metrics, error) {
	_, _, test, err := a.loadSplit(dataset.NewCSVLoader(a.cfg.Dataset))
	if err != nil {
		return evaluate.Metrics{}, err
	}
	return a.report(m, test, p)
}

func (a *app) report(m *model.Model, test dataset.Dataset, p *printer) (evaluate.Metrics, error) {
	engine, err := predict.New(m, predict.Options{})
	if err != nil {
		return evaluate.Metrics{}, err
	}

	p.Banner("Evaluating Model accuracy with Test data")
	metrics, err := evaluate.Evaluate(engine, test)
	if err != nil {
		return evaluate.Metrics{}, fmt.Errorf("failed to evaluate model: %w", err)
	}
	metrics.Report(p.w)
	p.Banner("End of model evaluation")
	return metrics, nil
}
