package training

import (
	"math"
	"math/rand"
	"sort"
)

// stratifiedSplit partitions row indices into train and test sets while
// preserving the label ratio in both. The shuffle is driven entirely by the
// provided seed, so the same rows and seed always split identically.
//
// Per class round(fraction*n) rows go to test, clamped so neither partition
// is empty when a class has at least two rows.
func stratifiedSplit(y []int, fraction float64, seed int64) (train, test []int) {
	byClass := map[int][]int{}
	classes := []int{}
	for i, label := range y {
		if _, ok := byClass[label]; !ok {
			classes = append(classes, label)
		}
		byClass[label] = append(byClass[label], i)
	}
	// Map iteration order is random; fix the class order before touching
	// the RNG so the shuffle sequence is reproducible.
	sort.Ints(classes)

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // seeded on purpose for a reproducible split

	for _, class := range classes {
		idx := byClass[class]
		rng.Shuffle(len(idx), func(a, b int) { idx[a], idx[b] = idx[b], idx[a] })

		nTest := int(math.Round(fraction * float64(len(idx))))
		if len(idx) >= 2 {
			if nTest < 1 {
				nTest = 1
			}
			if nTest >= len(idx) {
				nTest = len(idx) - 1
			}
		}
		test = append(test, idx[:nTest]...)
		train = append(train, idx[nTest:]...)
	}

	// Fitting sums gradients over rows, so order only affects float
	// rounding; sort anyway to keep runs bit-identical.
	sort.Ints(train)
	sort.Ints(test)
	return train, test
}
