// Package greeks computes sensitivities by bump-and-reprice.
package greeks

import (
	"math"

	"github.com/meenmo/optlib/pricing"
)

// Point is the set of model inputs a price function is bumped over.
type Point struct {
	Spot     float64
	Vol      float64
	Rate     float64
	Maturity float64
}

// PriceFunc prices at a point.
type PriceFunc func(p Point) float64

// Bumps are absolute bump sizes. A zero size skips that sensitivity.
type Bumps struct {
	Spot     float64
	Vol      float64
	Rate     float64
	Maturity float64
}

// DefaultBumps returns 1% of spot, 0.1% of vol, 1bp of rate and one day.
func DefaultBumps(p Point) Bumps {
	return Bumps{
		Spot:     0.01 * p.Spot,
		Vol:      0.001 * p.Vol,
		Rate:     1e-4,
		Maturity: 1.0 / 365.0,
	}
}

// minMaturity floors the down-bumped maturity.
const minMaturity = 1e-8

// CentralDifferences returns delta and gamma from +/- spot bumps, vega and
// rho from central bumps, and theta as (P(T-dt) - P(T+dt)) / 2dt.
func CentralDifferences(price PriceFunc, at Point, b Bumps) pricing.Greeks {
	var g pricing.Greeks

	if b.Spot > 0 {
		base := price(at)
		up, dn := at, at
		up.Spot += b.Spot
		dn.Spot -= b.Spot
		pu, pd := price(up), price(dn)
		g.Delta = pricing.Float((pu - pd) / (2 * b.Spot))
		g.Gamma = pricing.Float((pu - 2*base + pd) / (b.Spot * b.Spot))
	}
	if b.Vol > 0 {
		up, dn := at, at
		up.Vol += b.Vol
		dn.Vol -= b.Vol
		g.Vega = pricing.Float((price(up) - price(dn)) / (2 * b.Vol))
	}
	if b.Rate > 0 {
		up, dn := at, at
		up.Rate += b.Rate
		dn.Rate -= b.Rate
		g.Rho = pricing.Float((price(up) - price(dn)) / (2 * b.Rate))
	}
	if b.Maturity > 0 {
		up, dn := at, at
		up.Maturity += b.Maturity
		dn.Maturity = math.Max(minMaturity, at.Maturity-b.Maturity)
		g.Theta = pricing.Float((price(dn) - price(up)) / (2 * b.Maturity))
	}
	return g
}
