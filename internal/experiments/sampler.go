package experiments

import "math/rand"

// Sampler picks an index from a list of non-negative weights. Pick is only
// called with a positive total.
type Sampler interface {
	Pick(weights []int) int
}

// RandomSampler draws from the process-wide math/rand source, so the
// sequence of picks is not reproducible between runs.
type RandomSampler struct{}

func (RandomSampler) Pick(weights []int) int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	return WeightedIndex(weights, rand.Intn(total))
}

// WeightedIndex maps r in [0, total) onto the weight that covers it.
// Zero and negative weights are never selected.
func WeightedIndex(weights []int, r int) int {
	cumulative := 0
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		last = i
		if r < cumulative {
			return i
		}
	}
	return last
}
