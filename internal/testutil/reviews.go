// Package testutil builds small labeled review sets for tests.
package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/trknhr/sentiment/internal/dataset"
)

var negatives = []string{
	"This was a horrible meal",
	"bad service and a horrible steak",
	"the food was bad and cold",
	"horrible, I hated every minute",
	"a bad movie with bad acting",
	"boring plot and horrible dialogue",
	"what a bad, bad experience",
	"the worst steak, truly horrible",
}

var positives = []string{
	"I love this spaghetti",
	"great acting and a wonderful story",
	"I loved it, great fun",
	"wonderful meal, I love the staff",
	"a great movie, I love it",
}

// Reviews returns n examples cycling through fixed negative and positive
// templates, three negatives for every two positives. Every template appears
// once n reaches 20.
func Reviews(n int) dataset.Dataset {
	d := make(dataset.Dataset, 0, n)
	neg, pos := 0, 0
	for i := 0; len(d) < n; i++ {
		if i%5 < 3 {
			d = append(d, dataset.Example{Text: negatives[neg%len(negatives)], Label: false})
			neg++
		} else {
			d = append(d, dataset.Example{Text: positives[pos%len(positives)], Label: true})
			pos++
		}
	}
	return d
}

// WriteCSV writes d as an IMDB-style CSV under a temp dir and returns its path.
func WriteCSV(t *testing.T, d dataset.Dataset) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "IMDB Dataset.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create csv: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	_ = w.Write([]string{"review", "sentiment"})
	for _, ex := range d {
		label := "negative"
		if ex.Label {
			label = "positive"
		}
		_ = w.Write([]string{ex.Text, label})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}
	return path
}
