// Package rng provides the deterministic random numbers used by the Monte
// Carlo engines: a PCG32 generator with selectable streams, a Box-Muller
// normal sampler and an antithetic decorator.
package rng

import (
	"math"
	"math/bits"
)

const pcgMultiplier = 6364136223846793005

// PCG32 is the PCG-XSH-RR generator with 64-bit state and 32-bit output.
//
// Two generators with the same seed and different stream ids produce
// independent sequences.
type PCG32 struct {
	state uint64
	inc   uint64
}

// NewPCG32 seeds a generator on the given stream.
func NewPCG32(seed, stream uint64) *PCG32 {
	g := &PCG32{inc: (stream << 1) | 1}
	g.Seed(seed)
	return g
}

// Seed resets the state for seed, keeping the stream.
func (g *PCG32) Seed(seed uint64) {
	g.state = 0
	g.Uint32()
	g.state += seed
	g.Uint32()
}

// Uint32 advances the generator and returns the next output.
func (g *PCG32) Uint32() uint32 {
	old := g.state
	g.state = old*pcgMultiplier + g.inc
	xorshifted := uint32(((old >> 18) ^ old) >> 27)
	rot := int(old >> 59)
	return bits.RotateLeft32(xorshifted, -rot)
}

// Uniform returns a draw in the open interval (0, 1).
func (g *PCG32) Uniform() float64 {
	return (float64(g.Uint32()) + 0.5) / (math.MaxUint32 + 1.0)
}

// Factory hands out generators sharing a master seed.
type Factory struct {
	Seed uint64
}

// Make returns the generator for stream id.
func (f Factory) Make(stream uint64) *PCG32 {
	return NewPCG32(f.Seed, stream)
}
