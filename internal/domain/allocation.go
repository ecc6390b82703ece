package domain

import "sort"

// percentScale expresses percentages in tenths so that rounded values can be
// made to add up exactly.
const percentScale = 1000

// TotalAllocation sums the variant weights.
func TotalAllocation(variants []*Variant) int {
	total := 0
	for _, v := range variants {
		total += v.Allocation
	}
	return total
}

// Percentages converts weights to percentages rounded to one decimal place.
// When the total is positive the results add up to exactly 100.0, using the
// largest remainder method to place the rounding residue. A zero total yields
// all zeros.
func Percentages(weights []int) []float64 {
	out := make([]float64, len(weights))
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return out
	}

	type share struct {
		index     int
		units     int
		remainder int
	}
	shares := make([]share, len(weights))
	assigned := 0
	for i, w := range weights {
		if w < 0 {
			w = 0
		}
		scaled := w * percentScale
		shares[i] = share{index: i, units: scaled / total, remainder: scaled % total}
		assigned += shares[i].units
	}

	order := make([]share, len(shares))
	copy(order, shares)
	sort.SliceStable(order, func(a, b int) bool {
		return order[a].remainder > order[b].remainder
	})
	for i := 0; assigned < percentScale; i++ {
		shares[order[i%len(order)].index].units++
		assigned++
	}

	for i, s := range shares {
		out[i] = float64(s.units) / 10
	}
	return out
}

// VariantShare is the expected and observed share of one variant.
type VariantShare struct {
	Variant          *Variant
	AllocationPct    float64
	ParticipantCount int
	ParticipantPct   float64
}

// Shares pairs each variant with its allocation and participant percentages.
func Shares(variants []*Variant) []VariantShare {
	weights := make([]int, len(variants))
	counts := make([]int, len(variants))
	for i, v := range variants {
		weights[i] = v.Allocation
		counts[i] = len(v.Participants)
	}
	allocPct := Percentages(weights)
	partPct := Percentages(counts)

	out := make([]VariantShare, len(variants))
	for i, v := range variants {
		out[i] = VariantShare{
			Variant:          v,
			AllocationPct:    allocPct[i],
			ParticipantCount: counts[i],
			ParticipantPct:   partPct[i],
		}
	}
	return out
}
