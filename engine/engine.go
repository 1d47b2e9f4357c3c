// Package engine defines the pricing context and the contract every
// numerical method implements.
package engine

import (
	"math"
	"reflect"

	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/market"
	"github.com/meenmo/optlib/model"
	"github.com/meenmo/optlib/pricing"
)

// Context is everything an engine reads besides the instrument. It is built
// per call and never mutated by engines.
type Context struct {
	Market   market.View
	Settings pricing.Settings
	Model    any
}

// Engine prices one instrument. Implementations switch over the closed set
// of instrument types and return pricing.ErrUnsupportedInstrument for the
// variants they do not serve.
type Engine interface {
	Name() string
	Price(inst instrument.Instrument) (pricing.Result, error)
}

// Price runs eng on inst.
func Price(inst instrument.Instrument, eng Engine) (pricing.Result, error) {
	if inst == nil || reflect.ValueOf(inst).IsNil() {
		return pricing.Result{}, pricing.InvalidInput("Price", "instrument is nil")
	}
	if eng == nil {
		return pricing.Result{}, pricing.InvalidInput("Price", "engine is nil")
	}
	return eng.Price(inst)
}

// EquityModel returns the context model as a model.Equity.
func (c Context) EquityModel(op string) (model.Equity, error) {
	m, ok := c.Model.(model.Equity)
	if !ok || m == nil {
		return nil, pricing.InvalidInput(op, "requires an equity model (spot, rate, yield, vol)")
	}
	return m, nil
}

// RatesModel returns the context model as a model.Rates.
func (c Context) RatesModel(op string) (model.Rates, error) {
	m, ok := c.Model.(model.Rates)
	if !ok || m == nil {
		return nil, pricing.InvalidInput(op, "requires a rates model")
	}
	return m, nil
}

// Discount returns DF(t) from the market curve when present, else exp(-rate*t).
func (c Context) Discount(rate, t float64) float64 {
	if c.Market.Discount != nil {
		return c.Market.Discount.Discount(t)
	}
	return math.Exp(-rate * t)
}

// Unsupported is the standard rejection for an instrument variant.
func Unsupported(eng Engine, inst instrument.Instrument) error {
	return pricing.Unsupported(eng.Name(), "%s is not supported by this engine", instrument.Name(inst))
}
