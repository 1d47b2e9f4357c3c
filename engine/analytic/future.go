package analytic

import (
	"math"

	"github.com/meenmo/optlib/engine"
	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/pricing"
)

// FutureEngine values an equity future by cost of carry.
type FutureEngine struct {
	ctx engine.Context
}

func NewFutureEngine(ctx engine.Context) *FutureEngine {
	return &FutureEngine{ctx: ctx}
}

func (e *FutureEngine) Name() string { return "AnalyticFutureEngine" }

func (e *FutureEngine) Price(inst instrument.Instrument) (pricing.Result, error) {
	fut, ok := inst.(*instrument.EquityFuture)
	if !ok {
		return pricing.Result{}, engine.Unsupported(e, inst)
	}
	if !(fut.Maturity > 0) {
		return pricing.Result{}, pricing.InvalidInput(e.Name(), "maturity must be > 0, got %v", fut.Maturity)
	}
	if fut.Notional == 0 || math.IsNaN(fut.Notional) {
		return pricing.Result{}, pricing.InvalidInput(e.Name(), "notional must be non-zero")
	}
	if !(fut.Strike > 0) {
		return pricing.Result{}, pricing.InvalidInput(e.Name(), "strike must be > 0, got %v", fut.Strike)
	}
	m, err := e.ctx.EquityModel(e.Name())
	if err != nil {
		return pricing.Result{}, err
	}

	S0, r, q, T := m.Spot0(), m.Rate(), m.Yield(), fut.Maturity
	carry := math.Exp((r - q) * T)
	df := math.Exp(-r * T)
	F0 := S0 * carry
	N := fut.Notional

	// d/dT of (F0-K)*df = F0*(r-q)*df - r*(F0-K)*df
	dPdT := (F0*(r-q) - r*(F0-fut.Strike)) * df
	return pricing.Result{
		NPV: N * (F0 - fut.Strike) * df,
		Greeks: pricing.Greeks{
			Delta: pricing.Float(N * carry * df),
			Gamma: pricing.Float(0),
			Vega:  pricing.Float(0),
			Theta: pricing.Float(-N * dPdT),
			Rho:   pricing.Float(N * T * fut.Strike * df),
		},
		Diagnostics: "Equity future analytic (cost-of-carry)",
	}, nil
}
