package registry

import (
	"github.com/meenmo/optlib/engine"
	"github.com/meenmo/optlib/engine/analytic"
	"github.com/meenmo/optlib/engine/lattice"
	"github.com/meenmo/optlib/engine/montecarlo"
	"github.com/meenmo/optlib/engine/pde"
	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/market"
	"github.com/meenmo/optlib/model"
	"github.com/meenmo/optlib/pricing"
)

type engineFactory func(engine.Context) engine.Engine

func analyticVanilla(ctx engine.Context) engine.Engine   { return analytic.NewVanillaEngine(ctx) }
func analyticAsian(ctx engine.Context) engine.Engine     { return analytic.NewAsianEngine(ctx) }
func analyticFuture(ctx engine.Context) engine.Engine    { return analytic.NewFutureEngine(ctx) }
func analyticBond(ctx engine.Context) engine.Engine      { return analytic.NewBondEngine(ctx) }
func monteCarloVanilla(ctx engine.Context) engine.Engine { return montecarlo.NewVanillaEngine(ctx) }
func monteCarloAsian(ctx engine.Context) engine.Engine   { return montecarlo.NewAsianEngine(ctx) }
func binomial(ctx engine.Context) engine.Engine          { return lattice.NewBinomialEngine(ctx) }
func trinomial(ctx engine.Context) engine.Engine         { return lattice.NewTrinomialEngine(ctx) }
func crankNicolson(ctx engine.Context) engine.Engine     { return pde.NewCrankNicolsonEngine(ctx) }

// settings fills m over defaults. A nil Antithetic follows defaults; an
// explicit false turns antithetic sampling off.
func (m MCKnobs) settings(defaults pricing.Settings) pricing.Settings {
	s := pricing.Settings{
		MCPaths:        m.Paths,
		Seed:           m.Seed,
		Stream:         m.Stream,
		Antithetic:     defaults.Antithetic,
		TargetStdError: m.TargetStdError,
	}
	if m.Antithetic != nil {
		s.Antithetic = *m.Antithetic
	}
	return s.WithDefaults(defaults)
}

func (g GridKnobs) apply(s pricing.Settings) pricing.Settings {
	s.TreeSteps = g.TreeSteps
	s.PDESpaceSteps = g.PDESpaceSteps
	s.PDETimeSteps = g.PDETimeSteps
	return s
}

func (m Market) model() (*model.BlackScholes, error) {
	return model.NewBlackScholes(m.Spot, m.Rate, m.Dividend, m.Vol)
}

func optionType(isCall bool) instrument.OptionType {
	if isCall {
		return instrument.Call
	}
	return instrument.Put
}

func notionalOrOne(n float64) float64 {
	if n == 0 {
		return 1
	}
	return n
}

// vanillaPricer prices a European VanillaInput with the engine built by f.
func (r *Registry) vanillaPricer(f engineFactory) PricingFunc {
	return func(req Request) (pricing.Result, error) {
		in, ok := req.Input.(VanillaInput)
		if !ok {
			return pricing.Result{}, mismatch(req)
		}
		bs, err := in.model()
		if err != nil {
			return pricing.Result{}, err
		}
		ex, err := instrument.NewEuropeanExercise(in.Maturity)
		if err != nil {
			return pricing.Result{}, err
		}
		opt := &instrument.VanillaOption{
			Payoff:   instrument.NewPlainVanillaPayoff(optionType(in.IsCall), in.Strike),
			Exercise: ex,
			Notional: notionalOrOne(in.Notional),
		}
		ctx := engine.Context{Model: bs, Settings: in.GridKnobs.apply(in.MCKnobs.settings(r.defaults)).WithDefaults(r.defaults)}
		return engine.Price(opt, f(ctx))
	}
}

func (r *Registry) americanPricer(f engineFactory) PricingFunc {
	return func(req Request) (pricing.Result, error) {
		in, ok := req.Input.(AmericanVanillaInput)
		if !ok {
			return pricing.Result{}, mismatch(req)
		}
		bs, err := in.model()
		if err != nil {
			return pricing.Result{}, err
		}
		ex, err := instrument.NewAmericanExercise(in.Maturity)
		if err != nil {
			return pricing.Result{}, err
		}
		opt := &instrument.VanillaOption{
			Payoff:   instrument.NewPlainVanillaPayoff(optionType(in.IsCall), in.Strike),
			Exercise: ex,
			Notional: notionalOrOne(in.Notional),
		}
		ctx := engine.Context{Model: bs, Settings: in.GridKnobs.apply(pricing.Settings{}).WithDefaults(r.defaults)}
		return engine.Price(opt, f(ctx))
	}
}

func (r *Registry) asianPricer(f engineFactory) PricingFunc {
	return func(req Request) (pricing.Result, error) {
		in, ok := req.Input.(AsianInput)
		if !ok {
			return pricing.Result{}, mismatch(req)
		}
		bs, err := in.model()
		if err != nil {
			return pricing.Result{}, err
		}
		ex, err := instrument.NewEuropeanExercise(in.Maturity)
		if err != nil {
			return pricing.Result{}, err
		}
		opt := &instrument.AsianOption{
			Payoff:   instrument.NewAsianPayoff(in.Average, optionType(in.IsCall), in.Strike),
			Exercise: ex,
			Average:  in.Average,
			Notional: notionalOrOne(in.Notional),
		}
		ctx := engine.Context{Model: bs, Settings: in.MCKnobs.settings(r.defaults)}
		return engine.Price(opt, f(ctx))
	}
}

func (r *Registry) futurePricer(req Request) (pricing.Result, error) {
	in, ok := req.Input.(FutureInput)
	if !ok {
		return pricing.Result{}, mismatch(req)
	}
	bs, err := in.model()
	if err != nil {
		return pricing.Result{}, err
	}
	fut := &instrument.EquityFuture{Strike: in.Strike, Maturity: in.Maturity, Notional: in.Notional}
	return engine.Price(fut, analyticFuture(engine.Context{Model: bs, Settings: r.defaults}))
}

func (r *Registry) zeroCouponPricer(req Request) (pricing.Result, error) {
	in, ok := req.Input.(ZeroCouponBondInput)
	if !ok {
		return pricing.Result{}, mismatch(req)
	}
	ctx, err := in.context(r.defaults)
	if err != nil {
		return pricing.Result{}, err
	}
	zcb := &instrument.ZeroCouponBond{Maturity: in.Maturity, Notional: in.Notional}
	return engine.Price(zcb, analyticBond(ctx))
}

func (r *Registry) fixedRatePricer(req Request) (pricing.Result, error) {
	in, ok := req.Input.(FixedRateBondInput)
	if !ok {
		return pricing.Result{}, mismatch(req)
	}
	ctx, err := in.context(r.defaults)
	if err != nil {
		return pricing.Result{}, err
	}
	frb := &instrument.FixedRateBond{
		CouponRate: in.CouponRate,
		Maturity:   in.Maturity,
		Frequency:  in.Frequency,
		Notional:   in.Notional,
	}
	return engine.Price(frb, analyticBond(ctx))
}

// context discounts on the input curve when either curve slice is given,
// otherwise on the flat model rate.
func (in ZeroCouponBondInput) context(s pricing.Settings) (engine.Context, error) {
	rates, err := model.NewFlatRate(in.Rate)
	if err != nil {
		return engine.Context{}, err
	}
	ctx := engine.Context{Model: rates, Settings: s}
	if len(in.CurveTimes) > 0 || len(in.CurveDiscounts) > 0 {
		curve, err := market.NewCurve(in.CurveTimes, in.CurveDiscounts)
		if err != nil {
			return engine.Context{}, err
		}
		ctx.Market.Discount = curve
	}
	return ctx, nil
}

// unsupportedPricer keeps a key addressable while rejecting every request.
func unsupportedPricer(reason string) PricingFunc {
	return func(req Request) (pricing.Result, error) {
		return pricing.Result{}, pricing.Unsupported("Registry.Price", "%s: %s", req.Key(), reason)
	}
}

func mismatch(req Request) error {
	return pricing.InvalidInput("Registry.Price", "%s does not accept input %T", req.Key(), req.Input)
}
