package dataset

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

func numbered(n int) Dataset {
	d := make(Dataset, n)
	for i := range d {
		d[i] = Example{Text: fmt.Sprintf("review-%d", i), Label: i%2 == 0}
	}
	return d
}

func TestSplit_PartitionsWithoutLossOrOverlap(t *testing.T) {
	fractions := []float64{0.01, 0.2, 0.5, 0.75, 0.99}
	sizes := []int{0, 1, 2, 7, 10, 101}

	for _, n := range sizes {
		for _, f := range fractions {
			d := numbered(n)
			train, test, err := Split(d, f, 7)
			if err != nil {
				t.Fatalf("Split(n=%d, f=%v) returned error: %v", n, f, err)
			}

			wantTest := int(math.Round(f * float64(n)))
			if len(test) != wantTest {
				t.Errorf("n=%d f=%v: test size %d, want %d", n, f, len(test), wantTest)
			}
			if len(train)+len(test) != n {
				t.Errorf("n=%d f=%v: %d+%d != %d", n, f, len(train), len(test), n)
			}

			seen := map[string]int{}
			for _, ex := range train {
				seen[ex.Text]++
			}
			for _, ex := range test {
				seen[ex.Text]++
			}
			if len(seen) != n {
				t.Errorf("n=%d f=%v: union has %d distinct records, want %d", n, f, len(seen), n)
			}
			for text, count := range seen {
				if count != 1 {
					t.Errorf("n=%d f=%v: %s appears %d times", n, f, text, count)
				}
			}
		}
	}
}

func TestSplit_DeterministicForSeed(t *testing.T) {
	d := numbered(50)
	trainA, testA, _ := Split(d, 0.2, 99)
	trainB, testB, _ := Split(d, 0.2, 99)

	if fmt.Sprint(trainA) != fmt.Sprint(trainB) || fmt.Sprint(testA) != fmt.Sprint(testB) {
		t.Errorf("same seed produced different splits")
	}

	_, testC, _ := Split(d, 0.2, 100)
	if fmt.Sprint(testA) == fmt.Sprint(testC) {
		t.Errorf("different seeds produced the same test set")
	}
}

func TestSplit_KeepsSourceOrder(t *testing.T) {
	d := numbered(30)
	train, test, _ := Split(d, 0.3, 1)

	index := map[string]int{}
	for i, ex := range d {
		index[ex.Text] = i
	}
	for _, subset := range []Dataset{train, test} {
		for i := 1; i < len(subset); i++ {
			if index[subset[i-1].Text] > index[subset[i].Text] {
				t.Fatalf("subset out of source order at %d", i)
			}
		}
	}
}

func TestSplit_InvalidFraction(t *testing.T) {
	for _, f := range []float64{0, 1, -0.1, 1.5, math.NaN()} {
		if _, _, err := Split(numbered(4), f, 1); !errors.Is(err, ErrInvalidFraction) {
			t.Errorf("Split(f=%v) error = %v, want ErrInvalidFraction", f, err)
		}
	}
}
