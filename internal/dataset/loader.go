package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"github.com/trknhr/sentiment/internal/logger"
)

var requiredColumns = []string{"review", "sentiment"}

type Loader interface {
	Load() (Dataset, error)
	Path() string
	Key() string
}

// LoadStats describes what a load kept and dropped.
type LoadStats struct {
	Rows    int
	Skipped int
}

type CSVLoader struct {
	path string
}

func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{path: path}
}

func (l *CSVLoader) Load() (Dataset, error) {
	d, stats, err := LoadCSV(l.path)
	if err != nil {
		return nil, err
	}
	if stats.Skipped > 0 {
		logger.Warn("skipped %d malformed rows in %s", stats.Skipped, l.path)
	}
	logger.Debug("loaded %d rows from %s", stats.Rows, l.path)
	return d, nil
}

func (l *CSVLoader) Path() string {
	return l.path
}

func (l *CSVLoader) Key() string {
	abs, err := filepath.Abs(l.path)
	if err != nil {
		abs = l.path
	}
	return "dataset:" + abs
}

// LoadCSV reads a header-first CSV file with "review" and "sentiment" columns.
func LoadCSV(path string) (Dataset, LoadStats, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, LoadStats{}, errors.Wrap(ErrSourceNotFound, path)
		}
		return nil, LoadStats{}, errors.Wrapf(err, "open dataset %s", path)
	}
	defer file.Close()

	return ReadCSV(file)
}

// ReadCSV maps rows of r onto examples. Header names are matched
// case-insensitively. Rows whose field count differs from the header, or that
// fail to parse, are skipped and counted.
func ReadCSV(r io.Reader) (Dataset, LoadStats, error) {
	in := newRowFilter(r)

	var records []record
	if err := gocsv.UnmarshalCSV(in, &records); err != nil {
		return nil, LoadStats{Skipped: in.skipped}, err
	}

	d := make(Dataset, len(records))
	for i, rec := range records {
		d[i] = rec.example()
	}
	return d, LoadStats{Rows: len(d), Skipped: in.skipped}, nil
}

// rowFilter sits between encoding/csv and gocsv: it normalizes the header
// and drops malformed rows so a single bad line never fails the load.
type rowFilter struct {
	r       *csv.Reader
	width   int
	header  bool
	skipped int
}

func newRowFilter(r io.Reader) *rowFilter {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return &rowFilter{r: cr}
}

func (f *rowFilter) Read() ([]string, error) {
	for {
		rec, err := f.r.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) && f.header {
				logger.Debug("skipping unparsable row at line %d: %v", perr.Line, perr.Err)
				f.skipped++
				continue
			}
			return nil, errors.Wrap(err, "read dataset")
		}

		if !f.header {
			if err := f.readHeader(rec); err != nil {
				return nil, err
			}
			return rec, nil
		}

		if len(rec) != f.width {
			f.skipped++
			continue
		}
		return rec, nil
	}
}

func (f *rowFilter) ReadAll() ([][]string, error) {
	var rows [][]string
	for {
		rec, err := f.Read()
		if err == io.EOF {
			if !f.header {
				return nil, errors.Wrap(ErrMissingColumn, "empty dataset, no header row")
			}
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
}

func (f *rowFilter) readHeader(rec []string) error {
	seen := map[string]bool{}
	for i, name := range rec {
		name = strings.TrimPrefix(name, "\ufeff")
		name = strings.ToLower(strings.TrimSpace(name))
		rec[i] = name
		seen[name] = true
	}
	for _, col := range requiredColumns {
		if !seen[col] {
			return errors.Wrapf(ErrMissingColumn, "%q", col)
		}
	}
	f.width = len(rec)
	f.header = true
	return nil
}
