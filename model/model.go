package model

import (
	"math"

	"github.com/meenmo/optlib/pricing"
)

// Equity is the query surface of a flat-parameter equity model.
type Equity interface {
	Spot0() float64
	Rate() float64
	Yield() float64
	Vol() float64
}

// Rates is the query surface of a flat-rate discounting model.
type Rates interface {
	Rate() float64
}

// BlackScholes is an immutable snapshot of flat Black-Scholes parameters.
type BlackScholes struct {
	spot0 float64
	rate  float64
	yield float64
	vol   float64
}

// NewBlackScholes validates spot0 > 0 and vol >= 0.
func NewBlackScholes(spot0, rate, yield, vol float64) (*BlackScholes, error) {
	if !(spot0 > 0) {
		return nil, pricing.InvalidInput("NewBlackScholes", "spot must be > 0, got %v", spot0)
	}
	if !(vol >= 0) {
		return nil, pricing.InvalidInput("NewBlackScholes", "volatility must be >= 0, got %v", vol)
	}
	if math.IsNaN(rate) || math.IsNaN(yield) || math.IsInf(rate, 0) || math.IsInf(yield, 0) {
		return nil, pricing.InvalidInput("NewBlackScholes", "rate and dividend yield must be finite")
	}
	return &BlackScholes{spot0: spot0, rate: rate, yield: yield, vol: vol}, nil
}

func (m *BlackScholes) Spot0() float64 { return m.spot0 }
func (m *BlackScholes) Rate() float64  { return m.rate }
func (m *BlackScholes) Yield() float64 { return m.yield }
func (m *BlackScholes) Vol() float64   { return m.vol }

// FlatRate discounts every cashflow at a single continuously compounded rate.
type FlatRate struct {
	rate float64
}

func NewFlatRate(rate float64) (*FlatRate, error) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, pricing.InvalidInput("NewFlatRate", "rate must be finite")
	}
	return &FlatRate{rate: rate}, nil
}

func (m *FlatRate) Rate() float64 { return m.rate }
