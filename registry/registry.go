// Package registry maps (instrument, model, engine) kinds to pricing
// functions that build the instrument, model and engine from a flat input
// record.
package registry

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/meenmo/optlib/pricing"
)

// Key identifies one registered pricing route.
type Key struct {
	Instrument InstrumentKind
	Model      ModelKind
	Engine     EngineKind
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Instrument, k.Model, k.Engine)
}

// Request is one pricing call. Input must be the variant that matches
// Instrument (VanillaInput for EquityVanillaOption and so on).
type Request struct {
	Instrument InstrumentKind
	Model      ModelKind
	Engine     EngineKind
	Input      Input
}

func (r Request) Key() Key {
	return Key{Instrument: r.Instrument, Model: r.Model, Engine: r.Engine}
}

type PricingFunc func(Request) (pricing.Result, error)

// Registry is read-only after New and safe for concurrent use.
type Registry struct {
	pricers  map[Key]PricingFunc
	defaults pricing.Settings
	log      zerolog.Logger
}

// Options configure New. The zero value logs nothing and fills unset knobs
// from pricing.DefaultSettings.
type Options struct {
	// Logger receives per-request debug events.
	Logger zerolog.Logger
	// Defaults fill the knobs an input leaves at zero. Zero fields fall back
	// to pricing.DefaultSettings.
	Defaults pricing.Settings
}

// New returns a registry with every supported route registered.
func New(opts Options) *Registry {
	r := &Registry{
		pricers:  make(map[Key]PricingFunc),
		defaults: opts.Defaults.WithDefaults(pricing.DefaultSettings()),
		log:      opts.Logger,
	}

	vanilla := map[EngineKind]engineFactory{
		Analytic:            analyticVanilla,
		MonteCarlo:          monteCarloVanilla,
		PDEFiniteDifference: crankNicolson,
		BinomialTree:        binomial,
		TrinomialTree:       trinomial,
	}
	for ek, f := range vanilla {
		r.register(Key{EquityVanillaOption, BlackScholes, ek}, r.vanillaPricer(f))
	}

	r.register(Key{EquityAmericanVanillaOption, BlackScholes, BinomialTree}, r.americanPricer(binomial))
	r.register(Key{EquityAmericanVanillaOption, BlackScholes, TrinomialTree}, r.americanPricer(trinomial))
	r.register(Key{EquityAmericanVanillaOption, BlackScholes, PDEFiniteDifference},
		unsupportedPricer("early exercise is not supported by the finite difference engine"))

	r.register(Key{EquityAsianOption, BlackScholes, Analytic}, r.asianPricer(analyticAsian))
	r.register(Key{EquityAsianOption, BlackScholes, MonteCarlo}, r.asianPricer(monteCarloAsian))

	r.register(Key{EquityFuture, BlackScholes, Analytic}, r.futurePricer)
	r.register(Key{ZeroCouponBond, FlatRate, Analytic}, r.zeroCouponPricer)
	r.register(Key{FixedRateBond, FlatRate, Analytic}, r.fixedRatePricer)
	return r
}

func (r *Registry) register(k Key, f PricingFunc) {
	r.pricers[k] = f
}

// Keys returns the registered routes in a stable order.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.pricers))
	for k := range r.pricers {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Instrument != b.Instrument {
			return a.Instrument < b.Instrument
		}
		if a.Model != b.Model {
			return a.Model < b.Model
		}
		return a.Engine < b.Engine
	})
	return keys
}

// Defaults returns the settings used to fill unset input knobs.
func (r *Registry) Defaults() pricing.Settings { return r.defaults }

// Price dispatches req to its registered pricing function.
func (r *Registry) Price(req Request) (pricing.Result, error) {
	f, ok := r.pricers[req.Key()]
	if !ok {
		return pricing.Result{}, pricing.Unsupported("Registry.Price", "no pricer registered for %s", req.Key())
	}
	if req.Input == nil {
		return pricing.Result{}, pricing.InvalidInput("Registry.Price", "%s: input is nil", req.Key())
	}

	start := time.Now()
	res, err := f(req)
	if err != nil {
		r.log.Debug().Str("key", req.Key().String()).Err(err).Msg("pricing failed")
		return pricing.Result{}, err
	}
	r.log.Debug().
		Str("key", req.Key().String()).
		Float64("npv", res.NPV).
		Dur("elapsed", time.Since(start)).
		Msg("priced")
	return res, nil
}
