// Package stats holds running statistics for simulation output.
package stats

import "math"

// Running accumulates mean and variance in one pass (Welford).
type Running struct {
	n    int
	mean float64
	m2   float64
}

// Push adds one observation.
func (r *Running) Push(x float64) {
	r.n++
	d := x - r.mean
	r.mean += d / float64(r.n)
	r.m2 += d * (x - r.mean)
}

func (r *Running) Count() int    { return r.n }
func (r *Running) Mean() float64 { return r.mean }

// Variance is the unbiased sample variance; zero with fewer than two observations.
func (r *Running) Variance() float64 {
	if r.n < 2 {
		return 0
	}
	return r.m2 / float64(r.n-1)
}

// StdError is sqrt(Variance/n), the standard error of the mean.
func (r *Running) StdError() float64 {
	if r.n < 2 {
		return 0
	}
	return math.Sqrt(r.Variance() / float64(r.n))
}
