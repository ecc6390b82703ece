package experiments

import "testing"

func TestWeightedIndex(t *testing.T) {
	weights := []int{2, 0, 3}
	tests := []struct {
		r    int
		want int
	}{
		{0, 0},
		{1, 0},
		{2, 2},
		{4, 2},
	}

	for _, tt := range tests {
		if got := WeightedIndex(weights, tt.r); got != tt.want {
			t.Errorf("WeightedIndex(%v, %d) = %d, want %d", weights, tt.r, got, tt.want)
		}
	}
}

func TestRandomSampler_RespectsWeights(t *testing.T) {
	s := RandomSampler{}
	counts := make([]int, 3)
	for i := 0; i < 3000; i++ {
		idx := s.Pick([]int{1, 0, 2})
		if idx < 0 || idx > 2 {
			t.Fatalf("Pick() = %d, out of range", idx)
		}
		counts[idx]++
	}
	if counts[1] != 0 {
		t.Errorf("zero weight picked %d times", counts[1])
	}
	if counts[2] < counts[0] {
		t.Errorf("heavier weight picked less often: %v", counts)
	}
}

func TestRandomSampler_ZeroTotal(t *testing.T) {
	if got := (RandomSampler{}).Pick([]int{0, 0}); got != -1 {
		t.Errorf("Pick() = %d, want -1", got)
	}
}
