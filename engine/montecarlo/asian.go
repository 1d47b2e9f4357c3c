package montecarlo

import (
	"math"

	"github.com/meenmo/optlib/engine"
	"github.com/meenmo/optlib/greeks"
	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/pricing"
)

// monitoringPerYear is the number of averaging dates per year of maturity.
const monitoringPerYear = 252.0

// AsianEngine prices discretely monitored European Asian options.
type AsianEngine struct {
	ctx engine.Context
}

func NewAsianEngine(ctx engine.Context) *AsianEngine {
	return &AsianEngine{ctx: ctx}
}

func (e *AsianEngine) Name() string { return "MonteCarloAsianEngine" }

func (e *AsianEngine) Price(inst instrument.Instrument) (pricing.Result, error) {
	switch opt := inst.(type) {
	case *instrument.AsianOption:
		return e.priceAsian(opt)
	default:
		return pricing.Result{}, engine.Unsupported(e, inst)
	}
}

func monitoringDates(t float64) int {
	return max(1, int(t*monitoringPerYear+0.5))
}

// track is one discretized spot path with its running average. The base
// path and the maturity-bumped paths are stepped on the same draws.
type track struct {
	steps      int
	growth     float64 // exp((r-q-sigma^2/2) dt)
	volSqrtDt  float64
	arithmetic bool

	spot, sum float64
}

func newTrack(t, r, q, sigma float64, arithmetic bool) track {
	n := monitoringDates(t)
	dt := t / float64(n)
	return track{
		steps:      n,
		growth:     math.Exp((r - q - 0.5*sigma*sigma) * dt),
		volSqrtDt:  sigma * math.Sqrt(dt),
		arithmetic: arithmetic,
	}
}

func (tr *track) reset(s0 float64) {
	tr.spot, tr.sum = s0, 0
}

func (tr *track) step(j int, z float64) {
	if j >= tr.steps {
		return
	}
	tr.spot *= tr.growth * math.Exp(tr.volSqrtDt*z)
	if tr.arithmetic {
		tr.sum += tr.spot
	} else {
		tr.sum += math.Log(tr.spot)
	}
}

func (tr *track) average() float64 {
	if tr.arithmetic {
		return tr.sum / float64(tr.steps)
	}
	return math.Exp(tr.sum / float64(tr.steps))
}

// asianPath holds the three tracks of one simulated path.
type asianPath struct {
	base, up, dn track
}

func (p *asianPath) reset(s0 float64) {
	p.base.reset(s0)
	p.up.reset(s0)
	p.dn.reset(s0)
}

func (p *asianPath) step(j int, z float64) {
	p.base.step(j, z)
	p.up.step(j, z)
	p.dn.step(j, z)
}

// asianEstimator turns the averages of one path into a sample.
type asianEstimator struct {
	payoff         instrument.Payoff
	typ            instrument.OptionType
	s0, k          float64
	sigma, t       float64
	df, dfUp, dfDn float64
	ds, dt         float64
}

func (a asianEstimator) sample(p *asianPath) sample {
	avg := p.base.average()
	pay := a.payoff.Value(avg)

	var delta float64
	switch {
	case a.typ == instrument.Call && avg > a.k:
		delta = a.df * avg / a.s0
	case a.typ == instrument.Put && avg < a.k:
		delta = -a.df * avg / a.s0
	}

	up := (a.s0 + a.ds) / a.s0
	dn := (a.s0 - a.ds) / a.s0
	gamma := a.df * (a.payoff.Value(avg*up) - 2*pay + a.payoff.Value(avg*dn)) / (a.ds * a.ds)
	theta := (a.dfDn*a.payoff.Value(p.dn.average()) - a.dfUp*a.payoff.Value(p.up.average())) / (2 * a.dt)

	// Scores use the log of the average as a proxy for the log-return; they
	// approximate, not reproduce, the likelihood ratio of the path density.
	var scoreSigma, scoreR float64
	if a.sigma > minVol {
		logAvg := math.Log(avg / a.s0)
		scoreSigma = logAvg*logAvg/(a.sigma*a.t) - 0.5*a.t/a.sigma
		scoreR = logAvg * a.t / (a.sigma * a.sigma)
	}

	return sample{
		payoff: pay,
		delta:  delta,
		vega:   pay * scoreSigma,
		rho:    -a.t*pay + pay*scoreR,
		gamma:  gamma,
		theta:  theta,
	}
}

func (e *AsianEngine) priceAsian(opt *instrument.AsianOption) (pricing.Result, error) {
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
	tUp := T + b.Maturity
	tDn := math.Max(1e-8, T-b.Maturity)
	arithmetic := opt.Average == instrument.Arithmetic

	est := asianEstimator{
		payoff: opt.Payoff,
		typ:    terms.Type,
		s0:     S0,
		k:      terms.Strike,
		sigma:  sigma,
		t:      T,
		df:     math.Exp(-r * T),
		dfUp:   math.Exp(-r * tUp),
		dfDn:   math.Exp(-r * tDn),
		ds:     b.Spot,
		dt:     b.Maturity,
	}
	plus := asianPath{
		base: newTrack(T, r, q, sigma, arithmetic),
		up:   newTrack(tUp, r, q, sigma, arithmetic),
		dn:   newTrack(tDn, r, q, sigma, arithmetic),
	}
	minus := plus
	steps := max(plus.base.steps, plus.up.steps, plus.dn.steps)

	settings := e.ctx.Settings
	normal, anti := normals(settings)
	sim := simulation{settings: settings, priceScale: terms.Notional * est.df}
	res := sim.run(
		func() sample {
			plus.reset(S0)
			for j := 0; j < steps; j++ {
				plus.step(j, normal.Next())
			}
			return est.sample(&plus)
		},
		// The mirrored path takes -z at every monitoring date.
		func() sample {
			plus.reset(S0)
			minus.reset(S0)
			for j := 0; j < steps; j++ {
				plus.step(j, anti.Next())
				minus.step(j, anti.Next())
			}
			return est.sample(&plus).mid(est.sample(&minus))
		},
	)
	return res.result(est.df, terms.Notional,
		diagnostics("BS MC European Asian (flat r,q,sigma)", settings.Antithetic)), nil
}
