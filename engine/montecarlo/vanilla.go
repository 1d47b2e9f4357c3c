package montecarlo

import (
	"math"

	"github.com/meenmo/optlib/engine"
	"github.com/meenmo/optlib/greeks"
	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/pricing"
)

// VanillaEngine prices European vanilla options on the terminal spot, one
// normal draw per path.
type VanillaEngine struct {
	ctx engine.Context
}

func NewVanillaEngine(ctx engine.Context) *VanillaEngine {
	return &VanillaEngine{ctx: ctx}
}

func (e *VanillaEngine) Name() string { return "MonteCarloVanillaEngine" }

func (e *VanillaEngine) Price(inst instrument.Instrument) (pricing.Result, error) {
	switch opt := inst.(type) {
	case *instrument.VanillaOption:
		return e.priceVanilla(opt)
	default:
		return pricing.Result{}, engine.Unsupported(e, inst)
	}
}

// terminal is the lognormal terminal-spot map for one maturity.
type terminal struct {
	moved, rootVar, df float64
}

func newTerminal(s0, r, q, sigma, t float64) terminal {
	return terminal{
		moved:   s0 * math.Exp((r-q-0.5*sigma*sigma)*t),
		rootVar: sigma * math.Sqrt(t),
		df:      math.Exp(-r * t),
	}
}

func (tm terminal) spot(z float64) float64 {
	return tm.moved * math.Exp(tm.rootVar*z)
}

// vanillaPath evaluates every estimator on a single draw.
type vanillaPath struct {
	payoff   instrument.Payoff
	typ      instrument.OptionType
	s0, k    float64
	sigma, t float64
	base     terminal
	up, dn   terminal // maturity bumped by +/- dt
	ds, dt   float64
}

func (p vanillaPath) sample(z float64) sample {
	st := p.base.spot(z)
	pay := p.payoff.Value(st)
	df := p.base.df

	var delta float64
	switch {
	case p.typ == instrument.Call && st > p.k:
		delta = df * st / p.s0
	case p.typ == instrument.Put && st < p.k:
		delta = -df * st / p.s0
	}

	// Scores of the lognormal terminal density. The -z*sqrt(T) term of the
	// volatility score comes from the -sigma^2/2 drift correction.
	var scoreSigma, scoreR float64
	if p.sigma > minVol {
		sqrtT := math.Sqrt(p.t)
		scoreSigma = (z*z-1)/p.sigma - z*sqrtT
		scoreR = z * sqrtT / p.sigma
	}

	up := (p.s0 + p.ds) / p.s0
	dn := (p.s0 - p.ds) / p.s0
	gamma := df * (p.payoff.Value(st*up) - 2*pay + p.payoff.Value(st*dn)) / (p.ds * p.ds)
	theta := (p.dn.df*p.payoff.Value(p.dn.spot(z)) - p.up.df*p.payoff.Value(p.up.spot(z))) / (2 * p.dt)

	return sample{
		payoff: pay,
		delta:  delta,
		vega:   pay * scoreSigma,
		rho:    -p.t*pay + pay*scoreR,
		gamma:  gamma,
		theta:  theta,
	}
}

func (e *VanillaEngine) priceVanilla(opt *instrument.VanillaOption) (pricing.Result, error) {
	terms, err := engine.ValidateEuropean(e.Name(), opt.Payoff, opt.Exercise, opt.Notional)
	if err != nil {
		return pricing.Result{}, err
	}
	if err := validateSettings(e.Name(), e.ctx.Settings); err != nil {
		return pricing.Result{}, err
	}
	m, err := e.ctx.EquityModel(e.Name())
	if err != nil {
		return pricing.Result{}, err
	}

	S0, r, q, sigma := m.Spot0(), m.Rate(), m.Yield(), m.Vol()
	T := terms.Maturity
	b := greeks.DefaultBumps(greeks.Point{Spot: S0, Vol: sigma, Rate: r, Maturity: T})

	path := vanillaPath{
		payoff: opt.Payoff,
		typ:    terms.Type,
		s0:     S0,
		k:      terms.Strike,
		sigma:  sigma,
		t:      T,
		base:   newTerminal(S0, r, q, sigma, T),
		up:     newTerminal(S0, r, q, sigma, T+b.Maturity),
		dn:     newTerminal(S0, r, q, sigma, math.Max(1e-8, T-b.Maturity)),
		ds:     b.Spot,
		dt:     b.Maturity,
	}

	settings := e.ctx.Settings
	normal, anti := normals(settings)
	sim := simulation{settings: settings, priceScale: terms.Notional * path.base.df}
	est := sim.run(
		func() sample { return path.sample(normal.Next()) },
		func() sample {
			z, mirrored := anti.Next(), anti.Next()
			return path.sample(z).mid(path.sample(mirrored))
		},
	)
	return est.result(path.base.df, terms.Notional,
		diagnostics("BS MC European vanilla (flat r,q,sigma)", settings.Antithetic)), nil
}
