package store

import (
	"database/sql"
	"fmt"
	"math"
	"time"
)

// Run is the summary of one training run.
type Run struct {
	ID        int64
	Dataset   string
	ModelPath string
	Checksum  string
	Rows      int
	TrainRows int
	TestRows  int
	Features  int
	// Metrics are NaN when the run was not evaluated.
	Accuracy  float64
	AUC       float64
	F1        float64
	Duration  time.Duration
	CreatedAt time.Time
}

type RunStore interface {
	SaveRun(run Run) (int64, error)
	ListRuns(limit int) ([]Run, error)
}

type SQLRunStore struct {
	db *sql.DB
}

func NewSQLRunStore(db *sql.DB) RunStore {
	return &SQLRunStore{db: db}
}

func (s *SQLRunStore) SaveRun(run Run) (int64, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	res, err := s.db.Exec(`
		INSERT INTO runs(dataset, model_path, checksum, rows, train_rows, test_rows,
			features, accuracy, auc, f1, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.Dataset, run.ModelPath, run.Checksum, run.Rows, run.TrainRows, run.TestRows,
		run.Features, nullable(run.Accuracy), nullable(run.AUC), nullable(run.F1),
		run.Duration.Milliseconds(), run.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	return id, nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit
// returns every run.
func (s *SQLRunStore) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(`
		SELECT id, dataset, model_path, checksum, rows, train_rows, test_rows,
			features, accuracy, auc, f1, duration_ms, created_at
		FROM runs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r             Run
			acc, auc, f1  sql.NullFloat64
			durationMs    int64
			createdAtText string
		)
		if err := rows.Scan(&r.ID, &r.Dataset, &r.ModelPath, &r.Checksum, &r.Rows,
			&r.TrainRows, &r.TestRows, &r.Features, &acc, &auc, &f1,
			&durationMs, &createdAtText); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		r.Accuracy, r.AUC, r.F1 = fromNullable(acc), fromNullable(auc), fromNullable(f1)
		r.Duration = time.Duration(durationMs) * time.Millisecond
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAtText); err != nil {
			return nil, fmt.Errorf("invalid created_at %q for run %d: %w", createdAtText, r.ID, err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// SQLite has no NaN; unevaluated metrics are stored as NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
