package analytic

import (
	"math"

	"github.com/meenmo/optlib/engine"
	"github.com/meenmo/optlib/greeks"
	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/pricing"
)

// AsianEngine prices continuously averaged European Asian options: the
// arithmetic average with the Turnbull-Wakeman lognormal moment match, the
// geometric average in closed form.
type AsianEngine struct {
	ctx engine.Context
}

func NewAsianEngine(ctx engine.Context) *AsianEngine {
	return &AsianEngine{ctx: ctx}
}

func (e *AsianEngine) Name() string { return "AnalyticAsianEngine" }

func (e *AsianEngine) Price(inst instrument.Instrument) (pricing.Result, error) {
	switch opt := inst.(type) {
	case *instrument.AsianOption:
		terms, err := engine.ValidateEuropean(e.Name(), opt.Payoff, opt.Exercise, opt.Notional)
		if err != nil {
			return pricing.Result{}, err
		}
		m, err := e.ctx.EquityModel(e.Name())
		if err != nil {
			return pricing.Result{}, err
		}
		p := asianParams{
			typ:   terms.Type,
			spot:  m.Spot0(),
			k:     terms.Strike,
			t:     terms.Maturity,
			rate:  m.Rate(),
			yield: m.Yield(),
			vol:   m.Vol(),
		}
		var res pricing.Result
		if opt.Average == instrument.Geometric {
			res = geometricAsian(p)
		} else {
			res = arithmeticAsian(p)
		}
		res.NPV *= terms.Notional
		res.Greeks = res.Greeks.Scale(terms.Notional)
		return res, nil
	default:
		return pricing.Result{}, engine.Unsupported(e, inst)
	}
}

type asianParams struct {
	typ              instrument.OptionType
	spot, k, t       float64
	rate, yield, vol float64
}

// ---------------------------------------------------------------------------
// arithmetic average (Turnbull-Wakeman)
// ---------------------------------------------------------------------------

const driftEpsilon = 1e-12

// expIntegral returns the integral of exp(a*s) over [0, t].
func expIntegral(a, t float64) float64 {
	if math.Abs(a) < driftEpsilon {
		return t
	}
	return math.Expm1(a*t) / a
}

// arithmeticMoments returns E[A] and E[A^2] of the continuous arithmetic
// average of a GBM with drift mu and variance rate sigma^2.
func arithmeticMoments(s0, mu, sigma, t float64) (float64, float64) {
	m1 := s0 * expIntegral(mu, t) / t

	beta := sigma * sigma
	c := mu + beta
	var inner float64
	if math.Abs(c) < driftEpsilon {
		// integral of s*exp(mu*s) over [0, t]
		if math.Abs(mu) < driftEpsilon {
			inner = 0.5 * t * t
		} else {
			inner = (math.Exp(mu*t)*(mu*t-1) + 1) / (mu * mu)
		}
	} else {
		inner = (expIntegral(2*mu+beta, t) - expIntegral(mu, t)) / c
	}
	m2 := 2 * s0 * s0 * inner / (t * t)
	return m1, m2
}

// arithmeticMatch returns the matched forward, total standard deviation and
// whether the match degenerated to a deterministic average.
func arithmeticMatch(p asianParams) (fwd, sd float64, degenerate bool) {
	if !(p.spot > 0) || !(p.k > 0) || !(p.t > 0) {
		return p.spot, 0, true
	}
	m1, m2 := arithmeticMoments(p.spot, p.rate-p.yield, p.vol, p.t)
	if !(p.vol > 0) || !(m1 > 0) || !(m2 > 0) {
		return m1, 0, true
	}
	variance := math.Log(m2 / (m1 * m1))
	if !(variance > 0) || math.IsNaN(variance) {
		return m1, 0, true
	}
	sd = math.Sqrt(variance)
	if !(sd > minStdDev) {
		return m1, 0, true
	}
	return m1, sd, false
}

func arithmeticAsianPrice(p asianParams) float64 {
	if !(p.t > 0) {
		return instrument.Intrinsic(p.typ, p.spot, p.k)
	}
	df := math.Exp(-p.rate * p.t)
	fwd, sd, degenerate := arithmeticMatch(p)
	if degenerate {
		return df * instrument.Intrinsic(p.typ, fwd, p.k)
	}
	return df * black(p.typ, fwd, p.k, sd).undiscounted
}

func arithmeticAsian(p asianParams) pricing.Result {
	df := math.Exp(-p.rate * p.t)
	fwd, sd, degenerate := arithmeticMatch(p)
	if degenerate {
		sd = 0
	}
	bt := black(p.typ, fwd, p.k, sd)

	// The matched forward is linear in spot and the matched variance does
	// not depend on it.
	dFdS := fwd / p.spot
	delta := df * bt.nd1 * dFdS
	gamma := 0.0
	if !bt.degenerate {
		gamma = df * bt.pdf * dFdS / (p.spot * sd)
	}

	reprice := func(pt greeks.Point) float64 {
		q := p
		q.spot, q.vol, q.rate, q.t = pt.Spot, pt.Vol, pt.Rate, pt.Maturity
		return arithmeticAsianPrice(q)
	}
	at := greeks.Point{Spot: p.spot, Vol: p.vol, Rate: p.rate, Maturity: p.t}
	fd := greeks.CentralDifferences(reprice, at, greeks.Bumps{
		Vol:      math.Max(1e-6, p.vol*1e-3),
		Rate:     math.Max(1e-6, math.Abs(p.rate)*1e-3),
		Maturity: 1.0 / 365.0,
	})

	return pricing.Result{
		NPV: df * bt.undiscounted,
		Greeks: pricing.Greeks{
			Delta: pricing.Float(delta),
			Gamma: pricing.Float(gamma),
			Vega:  fd.Vega,
			Theta: fd.Theta,
			Rho:   fd.Rho,
		},
		Diagnostics: "Turnbull-Wakeman analytic arithmetic Asian (flat r,q,sigma)",
	}
}

// ---------------------------------------------------------------------------
// geometric average (closed form)
// ---------------------------------------------------------------------------

func geometricAsian(p asianParams) pricing.Result {
	sigma, T, r := p.vol, p.t, p.rate
	sigmaG := sigma / math.Sqrt(3)
	b := r - p.yield
	bG := 0.5*(b-0.5*sigma*sigma) + 0.5*sigmaG*sigmaG
	df := math.Exp(-r * T)
	growth := math.Exp(bG * T)
	F := p.spot * growth
	sqrtT := math.Sqrt(T)
	sd := sigmaG * sqrtT

	bt := black(p.typ, F, p.k, sd)
	price := df * bt.undiscounted

	delta := df * growth * bt.nd1
	var gamma, vol, decay float64
	if !bt.degenerate {
		gamma = df * growth * bt.pdf / (p.spot * sd)
		vol = df * F * bt.pdf * sqrtT / math.Sqrt(3)
		decay = df * F * bt.pdf * sigmaG / (2 * sqrtT)
	}
	// dF/dsigma = -F*T*sigma/6, dF/dr = F*T/2, dF/dT = F*bG.
	vega := df*bt.nd1*F*T*(-sigma/6) + vol
	rho := -T*price + df*bt.nd1*F*T/2
	theta := r*price - df*bt.nd1*F*bG - decay

	return pricing.Result{
		NPV: price,
		Greeks: pricing.Greeks{
			Delta: pricing.Float(delta),
			Gamma: pricing.Float(gamma),
			Vega:  pricing.Float(vega),
			Theta: pricing.Float(theta),
			Rho:   pricing.Float(rho),
		},
		Diagnostics: "Closed-form geometric Asian (flat r,q,sigma)",
	}
}
