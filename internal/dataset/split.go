package dataset

import (
	"math"
	"math/rand"
	"sort"
)

// Split partitions d into a training and a test subset. The test subset holds
// round(testFraction*len(d)) examples chosen by a permutation seeded with
// seed; both subsets keep the source order.
func Split(d Dataset, testFraction float64, seed int64) (train, test Dataset, err error) {
	if !(testFraction > 0 && testFraction < 1) {
		return nil, nil, ErrInvalidFraction
	}

	n := len(d)
	nTest := int(math.Round(testFraction * float64(n)))

	rng := rand.New(rand.NewSource(seed))
	picked := rng.Perm(n)[:nTest]
	sort.Ints(picked)

	train = make(Dataset, 0, n-nTest)
	test = make(Dataset, 0, nTest)
	next := 0
	for i, ex := range d {
		if next < len(picked) && picked[next] == i {
			test = append(test, ex)
			next++
			continue
		}
		train = append(train, ex)
	}
	return train, test, nil
}
