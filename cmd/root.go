package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/trknhr/sentiment/internal"
	"github.com/trknhr/sentiment/internal/config"
	"github.com/trknhr/sentiment/internal/logger"
	"github.com/trknhr/sentiment/internal/model"
	"github.com/trknhr/sentiment/internal/predict"
	"github.com/trknhr/sentiment/internal/store"
	"github.com/trknhr/sentiment/internal/tui"
)

// demoBatch is scored with the reloaded model after every root run.
var demoBatch = []string{"This was a horrible meal", "I love this spaghetti."}

type globalFlags struct {
	configPath string
	dataset    string
	model      string
	dbPath     string
	logLevel   string
	noDB       bool
}

// app is the state shared by every command of one invocation.
type app struct {
	flags globalFlags
	cfg   *config.Config
	db    *sql.DB
	runs  store.RunStore
	meta  *store.MetaStore
}

func newRootCmd(a *app) *cobra.Command {
	var evaluate bool

	cmd := &cobra.Command{
		Use:   "sentiment",
		Short: "Train, evaluate and run a review sentiment classifier",
		Long: `Trains a logistic-regression sentiment model from a labeled review CSV,
saves it, and predicts the sentiment of a prompted text and a fixed batch.
An existing model is reused while the dataset is unchanged.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("evaluate") {
				a.cfg.Evaluate = evaluate
			}
			return a.runDemo(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", config.DefaultFile, "Path to the YAML config file")
	pf.StringVar(&a.flags.dataset, "dataset", "", "Labeled review CSV (overrides config)")
	pf.StringVar(&a.flags.model, "model", "", "Model artifact path (overrides config)")
	pf.StringVar(&a.flags.dbPath, "db", "", "Run database path (overrides config)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn, error or none (overrides config)")
	pf.BoolVar(&a.flags.noDB, "no-db", false, "Do not record runs or dataset freshness")
	cmd.Flags().BoolVar(&evaluate, "evaluate", false, "Evaluate the model on the held-out split")

	cmd.AddCommand(
		NewTrainCmd(a),
		NewEvalCmd(a),
		NewPredictCmd(a),
		NewRunsCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return err
	}
	if a.flags.dataset != "" {
		cfg.Dataset = a.flags.dataset
	}
	if a.flags.model != "" {
		cfg.Model = a.flags.model
	}
	if a.flags.dbPath != "" {
		cfg.Database.Path = a.flags.dbPath
	}
	if a.flags.logLevel != "" {
		cfg.Log.Level = a.flags.logLevel
	}
	a.cfg = cfg

	if err := logger.Init(cfg.Log.File, cfg.Log.Level); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}

	if a.flags.noDB {
		return nil
	}
	// The run database is optional. Failing to open it only costs history.
	dbPath, err := cfg.DatabasePath()
	if err != nil {
		logger.Warn("run database disabled: %v", err)
		return nil
	}
	db, err := internal.GetDB(dbPath)
	if err != nil {
		logger.Warn("run database disabled: %v", err)
		return nil
	}
	if err := store.Migrate(db); err != nil {
		logger.Warn("run database disabled: %v", err)
		db.Close()
		return nil
	}
	a.db = db
	a.runs = store.NewSQLRunStore(db)
	a.meta = store.NewMetaStore(db)
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
	logger.Sync()
}

func (a *app) predictOptions() predict.Options {
	return predict.Options{DefaultText: a.cfg.DefaultText, CacheSize: a.cfg.CacheSize}
}

func (a *app) runDemo(ctx context.Context, in io.Reader, out io.Writer) error {
	p := newPrinter(out)

	m, evaluated, err := a.loadOrTrain(ctx, p, a.cfg.Evaluate)
	if err != nil {
		return err
	}
	if a.cfg.Evaluate && !evaluated {
		if _, err := a.evaluateOnSplit(m, p); err != nil {
			return err
		}
	}

	text, err := a.promptText(in, out)
	if err == tui.ErrCanceled {
		logger.Debug("prompt canceled, using default text")
		text = ""
	} else if err != nil {
		return err
	}

	engine, err := predict.New(m, a.predictOptions())
	if err != nil {
		return err
	}
	p.Banner("Prediction Test of model with a single sample and test dataset")
	p.Blank()
	p.Prediction(engine.PredictOne(text))
	p.Banner("End of Predictions")
	p.Blank()

	loaded, err := model.Load(a.cfg.Model)
	if err != nil {
		return fmt.Errorf("failed to reload model: %w", err)
	}
	engine, err = predict.New(loaded, a.predictOptions())
	if err != nil {
		return err
	}
	p.Blank()
	p.Banner("Prediction Test of loaded model with multiple samples")
	for _, pr := range engine.PredictBatch(demoBatch) {
		p.Prediction(pr)
	}
	p.Banner("End of predictions")
	return nil
}

// Run executes the CLI with args. The run database is closed on every exit
// path, including failed commands.
func Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	return run(ctx, &app{}, args, in, out, errOut)
}

func run(ctx context.Context, a *app, args []string, in io.Reader, out, errOut io.Writer) error {
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

// Execute runs the CLI until completion or an interrupt.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}
