package rng

import "math"

// Uniform is a source of draws in (0, 1).
type Uniform interface {
	Uniform() float64
}

// Normal is a Box-Muller standard normal sampler. Each pair of uniforms
// yields two normals; the second is cached and returned by the next call.
type Normal struct {
	src      Uniform
	hasSpare bool
	spare    float64
}

func NewNormal(src Uniform) *Normal {
	return &Normal{src: src}
}

// Next returns the next standard normal draw.
func (n *Normal) Next() float64 {
	if n.hasSpare {
		n.hasSpare = false
		return n.spare
	}
	u1 := n.src.Uniform()
	u2 := n.src.Uniform()
	r := math.Sqrt(-2.0 * math.Log(u1))
	theta := 2.0 * math.Pi * u2
	n.spare = r * math.Sin(theta)
	n.hasSpare = true
	return r * math.Cos(theta)
}

// Antithetic wraps a normal sampler. When enabled, odd-numbered calls return
// the negation of the preceding draw: z, -z, z', -z', ...
type Antithetic struct {
	inner   *Normal
	enabled bool
	calls   int
	last    float64
}

func NewAntithetic(inner *Normal, enabled bool) *Antithetic {
	return &Antithetic{inner: inner, enabled: enabled}
}

// Next returns the next draw of the alternating sequence.
func (a *Antithetic) Next() float64 {
	if !a.enabled {
		return a.inner.Next()
	}
	var z float64
	if a.calls&1 == 1 {
		z = -a.last
	} else {
		z = a.inner.Next()
		a.last = z
	}
	a.calls++
	return z
}

// Reset restarts the alternation at a fresh draw.
func (a *Antithetic) Reset() {
	a.calls = 0
}

// Enabled reports whether draws are paired.
func (a *Antithetic) Enabled() bool {
	return a.enabled
}
