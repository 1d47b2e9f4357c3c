package registry

import "github.com/meenmo/optlib/instrument"

// Input is the closed set of per-product request records.
type Input interface {
	input()
}

// MCKnobs are the Monte Carlo settings carried by European option inputs.
// Zero values and a nil Antithetic take the registry defaults.
type MCKnobs struct {
	Paths          int     `json:"paths,omitempty"`
	Seed           uint64  `json:"seed,omitempty"`
	Stream         uint64  `json:"stream,omitempty"`
	Antithetic     *bool   `json:"antithetic,omitempty"`
	TargetStdError float64 `json:"target_std_error,omitempty"`
}

// GridKnobs are the lattice and finite difference sizes.
type GridKnobs struct {
	TreeSteps     int `json:"tree_steps,omitempty"`
	PDESpaceSteps int `json:"pde_space_steps,omitempty"`
	PDETimeSteps  int `json:"pde_time_steps,omitempty"`
}

// Market is the flat Black-Scholes snapshot of an equity request.
type Market struct {
	Spot     float64 `json:"spot"`
	Rate     float64 `json:"rate"`
	Dividend float64 `json:"dividend"`
	Vol      float64 `json:"vol"`
}

// VanillaInput describes a European vanilla option. Notional defaults to 1.
type VanillaInput struct {
	Market
	Strike   float64 `json:"strike"`
	Maturity float64 `json:"maturity"`
	IsCall   bool    `json:"is_call"`
	Notional float64 `json:"notional,omitempty"`
	MCKnobs
	GridKnobs
}

// AmericanVanillaInput describes an American vanilla option.
type AmericanVanillaInput struct {
	Market
	Strike   float64 `json:"strike"`
	Maturity float64 `json:"maturity"`
	IsCall   bool    `json:"is_call"`
	Notional float64 `json:"notional,omitempty"`
	GridKnobs
}

// AsianInput describes a European Asian option on the arithmetic or
// geometric average.
type AsianInput struct {
	Market
	Strike   float64                `json:"strike"`
	Maturity float64                `json:"maturity"`
	IsCall   bool                   `json:"is_call"`
	Average  instrument.AverageType `json:"average"`
	Notional float64                `json:"notional,omitempty"`
	MCKnobs
}

type FutureInput struct {
	Market
	Strike   float64 `json:"strike"`
	Maturity float64 `json:"maturity"`
	Notional float64 `json:"notional"`
}

// ZeroCouponBondInput discounts at Rate unless a curve is given by
// CurveTimes and CurveDiscounts.
type ZeroCouponBondInput struct {
	Maturity       float64   `json:"maturity"`
	Rate           float64   `json:"rate"`
	Notional       float64   `json:"notional"`
	CurveTimes     []float64 `json:"curve_times,omitempty"`
	CurveDiscounts []float64 `json:"curve_discounts,omitempty"`
}

type FixedRateBondInput struct {
	ZeroCouponBondInput
	CouponRate float64 `json:"coupon_rate"`
	Frequency  int     `json:"frequency"`
}

// Bool returns a pointer to v, for setting MCKnobs.Antithetic.
func Bool(v bool) *bool {
	return &v
}

func (VanillaInput) input()         {}
func (AmericanVanillaInput) input() {}
func (AsianInput) input()           {}
func (FutureInput) input()          {}
func (ZeroCouponBondInput) input()  {}
func (FixedRateBondInput) input()   {}
