package market

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/meenmo/optlib/pricing"
)

// DiscountCurve returns discount factors by time in years.
//
// It is either flat (e^{-rt}) or log-linear over explicit pillars. Queries
// before the first pillar or after the last one return the endpoint factor.
type DiscountCurve struct {
	flatRate float64
	times    []float64
	dfs      []float64
}

// View is the market data a pricing call may read. A nil Discount means
// engines discount with their model rate.
type View struct {
	Discount *DiscountCurve
}

// NewFlatCurve builds a curve with DF(t) = exp(-rate*t).
func NewFlatCurve(rate float64) *DiscountCurve {
	return &DiscountCurve{flatRate: rate}
}

// NewCurve builds a log-linear curve from strictly increasing pillar times
// and positive discount factors.
func NewCurve(times, dfs []float64) (*DiscountCurve, error) {
	if len(times) == 0 || len(dfs) == 0 || len(times) != len(dfs) {
		return nil, pricing.InvalidInput("NewCurve", "requires matching non-empty times and discount factors")
	}
	if floats.HasNaN(times) || floats.HasNaN(dfs) {
		return nil, pricing.InvalidInput("NewCurve", "times and discount factors must not be NaN")
	}
	prev := 0.0
	for i := range times {
		if !(times[i] > prev) {
			if i == 0 {
				return nil, pricing.InvalidInput("NewCurve", "times must be > 0")
			}
			return nil, pricing.InvalidInput("NewCurve", "times must be strictly increasing")
		}
		if !(dfs[i] > 0) {
			return nil, pricing.InvalidInput("NewCurve", "discount factors must be > 0")
		}
		prev = times[i]
	}
	c := &DiscountCurve{
		times: make([]float64, len(times)),
		dfs:   make([]float64, len(dfs)),
	}
	copy(c.times, times)
	copy(c.dfs, dfs)
	return c, nil
}

// IsFlat reports whether the curve has no explicit pillars.
func (c *DiscountCurve) IsFlat() bool {
	return len(c.times) == 0
}

// Discount returns DF(t). DF(t <= 0) is 1.
func (c *DiscountCurve) Discount(t float64) float64 {
	if t <= 0 {
		return 1.0
	}
	if c.IsFlat() {
		return math.Exp(-c.flatRate * t)
	}
	if t <= c.times[0] {
		return c.dfs[0]
	}
	last := len(c.times) - 1
	if t >= c.times[last] {
		return c.dfs[last]
	}

	i1, i2 := findBracketOrBoundary(c.times, t)
	t1, t2 := c.times[i1], c.times[i2]
	df1, df2 := c.dfs[i1], c.dfs[i2]

	forwardRate := math.Log(df1/df2) / (t2 - t1)
	return df1 * math.Exp(-forwardRate*(t-t1))
}

// ZeroRate is the continuously compounded zero rate implied by DF(t).
func (c *DiscountCurve) ZeroRate(t float64) float64 {
	if t <= 0 {
		if c.IsFlat() {
			return c.flatRate
		}
		t = c.times[0]
	}
	return -math.Log(c.Discount(t)) / t
}

// findBracketOrBoundary returns indices of the two pillars bracketing t, or
// the nearest boundary pair when t is outside the pillar range.
func findBracketOrBoundary(times []float64, t float64) (int, int) {
	if len(times) < 2 {
		return 0, 0
	}
	idx := sort.SearchFloat64s(times, t)
	if idx <= 0 {
		return 0, 1
	}
	if idx >= len(times) {
		return len(times) - 2, len(times) - 1
	}
	return idx - 1, idx
}
