package analytic

import (
	"math"

	"github.com/meenmo/optlib/engine"
	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/pricing"
)

// VanillaEngine prices European vanilla options with Black-Scholes.
type VanillaEngine struct {
	ctx engine.Context
}

func NewVanillaEngine(ctx engine.Context) *VanillaEngine {
	return &VanillaEngine{ctx: ctx}
}

func (e *VanillaEngine) Name() string { return "AnalyticVanillaEngine" }

func (e *VanillaEngine) Price(inst instrument.Instrument) (pricing.Result, error) {
	switch opt := inst.(type) {
	case *instrument.VanillaOption:
		return e.priceVanilla(opt)
	default:
		return pricing.Result{}, engine.Unsupported(e, inst)
	}
}

func (e *VanillaEngine) priceVanilla(opt *instrument.VanillaOption) (pricing.Result, error) {
	terms, err := engine.ValidateEuropean(e.Name(), opt.Payoff, opt.Exercise, opt.Notional)
	if err != nil {
		return pricing.Result{}, err
	}
	m, err := e.ctx.EquityModel(e.Name())
	if err != nil {
		return pricing.Result{}, err
	}

	S0, r, q, sigma := m.Spot0(), m.Rate(), m.Yield(), m.Vol()
	T, K := terms.Maturity, terms.Strike
	dfR := math.Exp(-r * T)
	dfQ := math.Exp(-q * T)
	F := S0 * dfQ / dfR
	sqrtT := math.Sqrt(T)
	sd := sigma * sqrtT

	bt := black(terms.Type, F, K, sd)

	delta := dfQ * bt.nd1
	var gamma, vega, decay float64
	if !bt.degenerate {
		gamma = dfQ * bt.pdf / (S0 * sd)
		vega = S0 * dfQ * bt.pdf * sqrtT
		decay = -S0 * dfQ * bt.pdf * sigma / (2 * sqrtT)
	}
	// nd1 and nd2 carry the put signs, so one expression covers both types.
	theta := decay - r*K*dfR*bt.nd2 + q*S0*dfQ*bt.nd1
	rho := T * K * dfR * bt.nd2

	N := terms.Notional
	return pricing.Result{
		NPV: N * dfR * bt.undiscounted,
		Greeks: pricing.Greeks{
			Delta: pricing.Float(N * delta),
			Gamma: pricing.Float(N * gamma),
			Vega:  pricing.Float(N * vega),
			Theta: pricing.Float(N * theta),
			Rho:   pricing.Float(N * rho),
		},
		Diagnostics: "Black-Scholes analytic European vanilla (flat r,q,sigma)",
	}, nil
}
