// Package lanedist implements LaneDistribution: turning a spawn batch
// size into a per-lane vehicle count vector (spec §4.5).
package lanedist

import (
	"math"

	"github.com/samber/lo"
)

// Distribution maps a batch size N to a vector of per-lane counts
// summing to N, given a lane count L.
type Distribution interface {
	Allocate(n, laneCount int) []int
}

// WeightFunc produces unnormalized weights w[0..laneCount) from which
// Allocate derives a probability vector.
type WeightFunc func(laneCount int) []float64

// Weighted is a Distribution driven by a WeightFunc, shared by every
// concrete distribution below plus any caller-supplied weighting.
type Weighted struct {
	Weights WeightFunc
}

func New(weights WeightFunc) Weighted {
	return Weighted{Weights: weights}
}

// Allocate applies the rounding rule from spec §4.5: round each
// unrounded share, then repeatedly nudge the lane with the
// smallest/largest rounding error (ties broken by highest/lowest lane
// index) until the vector sums to n exactly.
func (w Weighted) Allocate(n, laneCount int) []int {
	c := make([]int, laneCount)
	if laneCount == 0 {
		return c
	}
	if n == 0 {
		return c
	}

	weights := w.Weights(laneCount)
	total := lo.Sum(weights)

	u := lo.Map(weights, func(x float64, _ int) float64 {
		if total == 0 {
			return 0
		}
		return (x / total) * float64(n)
	})

	for i, x := range u {
		c[i] = int(math.Round(x))
	}

	sum := lo.Sum(c)

	for sum != n {
		d := make([]float64, laneCount)
		for i := range d {
			d[i] = u[i] - float64(c[i])
		}

		if sum > n {
			idx := smallestDIndex(d, true)
			c[idx]--
			sum--
		} else {
			idx := smallestDIndex(d, false)
			c[idx]++
			sum++
		}
	}

	return c
}

// smallestDIndex finds the index of the extreme d value. When
// wantSmallest is true it finds the minimum, breaking ties by the
// highest index (over-budget decrement rule); otherwise it finds the
// maximum, breaking ties by the lowest index (under-budget increment
// rule).
func smallestDIndex(d []float64, wantSmallest bool) int {
	best := 0
	for i := 1; i < len(d); i++ {
		if wantSmallest {
			if d[i] < d[best] || d[i] == d[best] {
				best = i // highest index on ties, since we scan ascending
			}
		} else {
			if d[i] > d[best] {
				best = i
			}
			// ties keep the lowest index: do nothing when d[i] == d[best]
		}
	}
	return best
}

// Triangle is the "triangle/linear" distribution: p[i] = (L-i) /
// (L(L+1)/2), lane 0 most likely.
func Triangle() Weighted {
	return New(func(laneCount int) []float64 {
		w := make([]float64, laneCount)
		for i := 0; i < laneCount; i++ {
			w[i] = float64(laneCount - i)
		}
		return w
	})
}

// SumSquared weights lane i by (L-i) normalized by Σk² for k=1..L.
// That denominator is constant across lanes, so after Allocate's own
// renormalization by the weight total the resulting proportions are
// identical to Triangle's — the spec calls this out explicitly ("does
// not sum to 1; treat as weights and normalize").
func SumSquared() Weighted {
	return New(func(laneCount int) []float64 {
		w := make([]float64, laneCount)
		for i := 0; i < laneCount; i++ {
			w[i] = float64(laneCount - i)
		}
		return w
	})
}

// Equal assigns every lane the same weight.
func Equal() Weighted {
	return New(func(laneCount int) []float64 {
		w := make([]float64, laneCount)
		for i := range w {
			w[i] = 1
		}
		return w
	})
}

// AllInFirst puts the entire batch in lane 0.
func AllInFirst() Weighted {
	return New(func(laneCount int) []float64 {
		w := make([]float64, laneCount)
		if laneCount > 0 {
			w[0] = 1
		}
		return w
	})
}

// AllInLast puts the entire batch in the highest-index lane.
func AllInLast() Weighted {
	return New(func(laneCount int) []float64 {
		w := make([]float64, laneCount)
		if laneCount > 0 {
			w[laneCount-1] = 1
		}
		return w
	})
}

// ByName resolves one of the five named distributions using the
// lane_distribution values recognized by configuration (spec §6).
func ByName(name string) (Weighted, bool) {
	switch name {
	case "triangle":
		return Triangle(), true
	case "sum_squared":
		return SumSquared(), true
	case "equal":
		return Equal(), true
	case "all_in_first_lane":
		return AllInFirst(), true
	case "all_in_last_lane":
		return AllInLast(), true
	default:
		return Weighted{}, false
	}
}
