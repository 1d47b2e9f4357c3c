package engine_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/optlib/engine"
	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/market"
	"github.com/meenmo/optlib/model"
	"github.com/meenmo/optlib/pricing"
)

type stubEngine struct{}

func (stubEngine) Name() string { return "stub" }

func (e stubEngine) Price(inst instrument.Instrument) (pricing.Result, error) {
	switch inst.(type) {
	case *instrument.ZeroCouponBond:
		return pricing.Result{NPV: 1}, nil
	default:
		return pricing.Result{}, engine.Unsupported(e, inst)
	}
}

func TestPriceDispatch(t *testing.T) {
	t.Parallel()

	res, err := engine.Price(&instrument.ZeroCouponBond{Maturity: 1, Notional: 1}, stubEngine{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.NPV)

	_, err = engine.Price(&instrument.EquityFuture{}, stubEngine{})
	assert.ErrorIs(t, err, pricing.ErrUnsupportedInstrument)
	assert.Contains(t, err.Error(), "EquityFuture")

	var nilBond *instrument.ZeroCouponBond
	_, err = engine.Price(nilBond, stubEngine{})
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
	_, err = engine.Price(nil, stubEngine{})
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
}

func TestContextModels(t *testing.T) {
	t.Parallel()

	bs, err := model.NewBlackScholes(100, 0.05, 0.02, 0.2)
	require.NoError(t, err)
	flat, err := model.NewFlatRate(0.03)
	require.NoError(t, err)

	ctx := engine.Context{Model: bs}
	_, err = ctx.EquityModel("op")
	assert.NoError(t, err)

	ctx = engine.Context{Model: flat}
	_, err = ctx.EquityModel("op")
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
	r, err := ctx.RatesModel("op")
	require.NoError(t, err)
	assert.Equal(t, 0.03, r.Rate())

	assert.InDelta(t, math.Exp(-0.06), ctx.Discount(0.03, 2), 1e-15)
	ctx.Market.Discount = market.NewFlatCurve(0.01)
	assert.InDelta(t, math.Exp(-0.02), ctx.Discount(0.03, 2), 1e-15)
}

func TestValidateEuropean(t *testing.T) {
	t.Parallel()

	call := instrument.NewPlainVanillaPayoff(instrument.Call, 100)
	eu, _ := instrument.NewEuropeanExercise(1)
	am, _ := instrument.NewAmericanExercise(1)
	multi, _ := instrument.NewExercise(instrument.European, 0.5, 1)

	terms, err := engine.ValidateEuropean("op", call, eu, 2)
	require.NoError(t, err)
	assert.Equal(t, engine.EuropeanTerms{Type: instrument.Call, Strike: 100, Maturity: 1, Notional: 2}, terms)

	_, err = engine.ValidateEuropean("op", nil, eu, 1)
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
	_, err = engine.ValidateEuropean("op", call, nil, 1)
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
	_, err = engine.ValidateEuropean("op", call, am, 1)
	assert.ErrorIs(t, err, pricing.ErrUnsupportedInstrument)
	_, err = engine.ValidateEuropean("op", call, multi, 1)
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
	_, err = engine.ValidateEuropean("op", call, eu, 0)
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
	_, err = engine.ValidateEuropean("op", instrument.NewPlainVanillaPayoff(instrument.Put, 0), eu, 1)
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
	_, err = engine.ValidateEuropean("op", call, &instrument.Exercise{Dates: []float64{-1}}, 1)
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)

	terms, err = engine.ValidateLattice("op", call, am, 1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, terms.Maturity)
}
