package montecarlo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/meenmo/optlib/engine"
	"github.com/meenmo/optlib/engine/analytic"
	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/model"
	"github.com/meenmo/optlib/pricing"
)

func bsContext(t *testing.T, vol float64, s pricing.Settings) engine.Context {
	t.Helper()
	m, err := model.NewBlackScholes(100, 0.05, 0.02, vol)
	require.NoError(t, err)
	return engine.Context{Model: m, Settings: s}
}

func settings(paths int) pricing.Settings {
	s := pricing.DefaultSettings()
	s.MCPaths = paths
	return s
}

func vanilla(t *testing.T, typ instrument.OptionType) *instrument.VanillaOption {
	t.Helper()
	ex, err := instrument.NewEuropeanExercise(1)
	require.NoError(t, err)
	return &instrument.VanillaOption{Payoff: instrument.NewPlainVanillaPayoff(typ, 100), Exercise: ex, Notional: 1}
}

func asian(t *testing.T, avg instrument.AverageType, typ instrument.OptionType) *instrument.AsianOption {
	t.Helper()
	ex, err := instrument.NewEuropeanExercise(1)
	require.NoError(t, err)
	return &instrument.AsianOption{Payoff: instrument.NewAsianPayoff(avg, typ, 100), Exercise: ex, Average: avg, Notional: 1}
}

func mustPrice(t *testing.T, eng engine.Engine, inst instrument.Instrument) pricing.Result {
	t.Helper()
	res, err := engine.Price(inst, eng)
	require.NoError(t, err)
	return res
}

func TestVanillaMatchesAnalytic(t *testing.T) {
	if testing.Short() {
		t.Skip("one million paths")
	}
	t.Parallel()

	ctx := bsContext(t, 0.2, settings(1_000_000))
	for _, typ := range []instrument.OptionType{instrument.Call, instrument.Put} {
		mc := mustPrice(t, NewVanillaEngine(ctx), vanilla(t, typ))
		ref := mustPrice(t, analytic.NewVanillaEngine(ctx), vanilla(t, typ))

		assert.InDelta(t, ref.NPV, mc.NPV, 3*mc.MCStdError, "%v npv", typ)
		assert.InDelta(t, *ref.Greeks.Delta, *mc.Greeks.Delta, 4**mc.Greeks.DeltaStdError, "%v delta", typ)
		assert.InDelta(t, *ref.Greeks.Vega, *mc.Greeks.Vega, 4**mc.Greeks.VegaStdError, "%v vega", typ)
		assert.InDelta(t, *ref.Greeks.Rho, *mc.Greeks.Rho, 4**mc.Greeks.RhoStdError, "%v rho", typ)
		assert.InDelta(t, *ref.Greeks.Gamma, *mc.Greeks.Gamma, 4**mc.Greeks.GammaStdError, "%v gamma", typ)
		assert.InDelta(t, *ref.Greeks.Theta, *mc.Greeks.Theta, 4**mc.Greeks.ThetaStdError+1e-3, "%v theta", typ)
		assert.Equal(t, "BS MC European vanilla (flat r,q,sigma)", mc.Diagnostics)
	}
}

func TestVanillaPutCallParity(t *testing.T) {
	t.Parallel()

	ctx := bsContext(t, 0.2, settings(200_000))
	call := mustPrice(t, NewVanillaEngine(ctx), vanilla(t, instrument.Call))
	put := mustPrice(t, NewVanillaEngine(ctx), vanilla(t, instrument.Put))

	want := 100*math.Exp(-0.02) - 100*math.Exp(-0.05)
	assert.InDelta(t, want, call.NPV-put.NPV, 3*(call.MCStdError+put.MCStdError))
}

func TestVanillaDeterministic(t *testing.T) {
	t.Parallel()

	s := settings(20_000)
	a := mustPrice(t, NewVanillaEngine(bsContext(t, 0.2, s)), vanilla(t, instrument.Call))
	b := mustPrice(t, NewVanillaEngine(bsContext(t, 0.2, s)), vanilla(t, instrument.Call))
	assert.Equal(t, a, b)

	s.Stream = 7
	c := mustPrice(t, NewVanillaEngine(bsContext(t, 0.2, s)), vanilla(t, instrument.Call))
	assert.NotEqual(t, a.NPV, c.NPV)

	s.Stream = 0
	s.Seed = 99
	d := mustPrice(t, NewVanillaEngine(bsContext(t, 0.2, s)), vanilla(t, instrument.Call))
	assert.NotEqual(t, a.NPV, d.NPV)
}

func TestVanillaStdErrorConvergence(t *testing.T) {
	t.Parallel()

	small := mustPrice(t, NewVanillaEngine(bsContext(t, 0.2, settings(40_000))), vanilla(t, instrument.Call))
	large := mustPrice(t, NewVanillaEngine(bsContext(t, 0.2, settings(160_000))), vanilla(t, instrument.Call))

	ratio := small.MCStdError / large.MCStdError
	assert.InDelta(t, 2.0, ratio, 0.2, "quadrupling paths should halve the standard error")
}

func TestVanillaAntithetic(t *testing.T) {
	t.Parallel()

	plain := mustPrice(t, NewVanillaEngine(bsContext(t, 0.2, settings(40_000))), vanilla(t, instrument.Call))

	s := settings(40_000)
	s.Antithetic = true
	anti := mustPrice(t, NewVanillaEngine(bsContext(t, 0.2, s)), vanilla(t, instrument.Call))
	assert.Less(t, anti.MCStdError, plain.MCStdError)
	assert.Less(t, *anti.Greeks.DeltaStdError, *plain.Greeks.DeltaStdError)
	assert.Equal(t, "BS MC European vanilla (flat r,q,sigma) + antithetic", anti.Diagnostics)
	assert.InDelta(t, 9.227006, anti.NPV, 3*anti.MCStdError)

	// An odd count adds one unpaired path after the pairs.
	s.MCPaths = 40_001
	odd := mustPrice(t, NewVanillaEngine(bsContext(t, 0.2, s)), vanilla(t, instrument.Call))
	assert.NotEqual(t, anti.NPV, odd.NPV)
	assert.InDelta(t, anti.NPV, odd.NPV, 1e-2)
}

func TestVanillaTargetStdErrorStopsEarly(t *testing.T) {
	t.Parallel()

	full := mustPrice(t, NewVanillaEngine(bsContext(t, 0.2, settings(200_000))), vanilla(t, instrument.Call))

	s := settings(200_000)
	s.TargetStdError = 0.05
	early := mustPrice(t, NewVanillaEngine(bsContext(t, 0.2, s)), vanilla(t, instrument.Call))

	assert.LessOrEqual(t, early.MCStdError, 0.05)
	assert.Greater(t, early.MCStdError, full.MCStdError)

	again := mustPrice(t, NewVanillaEngine(bsContext(t, 0.2, s)), vanilla(t, instrument.Call))
	assert.Equal(t, early, again)
}

func TestVanillaZeroVolIsDeterministic(t *testing.T) {
	t.Parallel()

	res := mustPrice(t, NewVanillaEngine(bsContext(t, 0, settings(2_000))), vanilla(t, instrument.Call))

	fwd := 100 * math.Exp(0.03)
	assert.InDelta(t, math.Exp(-0.05)*(fwd-100), res.NPV, 1e-9)
	assert.InDelta(t, 0.0, res.MCStdError, 1e-12)
	assert.Equal(t, 0.0, *res.Greeks.Vega)
	for _, g := range []*float64{res.Greeks.Delta, res.Greeks.Gamma, res.Greeks.Theta, res.Greeks.Rho} {
		assert.False(t, math.IsNaN(*g))
	}
}

func TestVanillaNotionalScaling(t *testing.T) {
	t.Parallel()

	ctx := bsContext(t, 0.2, settings(10_000))
	one := mustPrice(t, NewVanillaEngine(ctx), vanilla(t, instrument.Put))
	opt := vanilla(t, instrument.Put)
	opt.Notional = 5
	five := mustPrice(t, NewVanillaEngine(ctx), opt)

	assert.InDelta(t, 5*one.NPV, five.NPV, 1e-9)
	assert.InDelta(t, 5*one.MCStdError, five.MCStdError, 1e-9)
	assert.InDelta(t, 5**one.Greeks.Gamma, *five.Greeks.Gamma, 1e-9)
}

func TestVanillaValidation(t *testing.T) {
	t.Parallel()

	eng := NewVanillaEngine(bsContext(t, 0.2, settings(1_000)))

	am, err := instrument.NewAmericanExercise(1)
	require.NoError(t, err)
	american := vanilla(t, instrument.Call)
	american.Exercise = am
	_, err = eng.Price(american)
	assert.ErrorIs(t, err, pricing.ErrUnsupportedInstrument)

	_, err = eng.Price(asian(t, instrument.Arithmetic, instrument.Call))
	assert.ErrorIs(t, err, pricing.ErrUnsupportedInstrument)

	noPaths := NewVanillaEngine(bsContext(t, 0.2, settings(0)))
	_, err = noPaths.Price(vanilla(t, instrument.Call))
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)

	s := settings(1_000)
	s.TargetStdError = -1
	_, err = NewVanillaEngine(bsContext(t, 0.2, s)).Price(vanilla(t, instrument.Call))
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
}

// discreteGeometric is the closed form of a geometric average over n equally
// spaced monitoring dates, excluding the start date.
func discreteGeometric(call bool, s0, k, T, r, q, vol float64, n int) float64 {
	dt := T / float64(n)
	nf := float64(n)
	mean := math.Log(s0) + (r-q-0.5*vol*vol)*dt*(nf+1)/2
	variance := vol * vol * dt * (nf + 1) * (2*nf + 1) / (6 * nf)
	fwd := math.Exp(mean + 0.5*variance)
	sd := math.Sqrt(variance)
	d1 := (math.Log(fwd/k) + 0.5*variance) / sd
	d2 := d1 - sd
	df := math.Exp(-r * T)
	N := distuv.UnitNormal.CDF
	if call {
		return df * (fwd*N(d1) - k*N(d2))
	}
	return df * (k*N(-d2) - fwd*N(-d1))
}

func TestAsianGeometricMatchesDiscreteClosedForm(t *testing.T) {
	t.Parallel()

	ctx := bsContext(t, 0.2, settings(4_000))
	for _, typ := range []instrument.OptionType{instrument.Call, instrument.Put} {
		res := mustPrice(t, NewAsianEngine(ctx), asian(t, instrument.Geometric, typ))
		want := discreteGeometric(typ == instrument.Call, 100, 100, 1, 0.05, 0.02, 0.2, monitoringDates(1))
		assert.InDelta(t, want, res.NPV, 3*res.MCStdError, "%v", typ)
	}
}

func TestAsianArithmeticNearTurnbullWakeman(t *testing.T) {
	t.Parallel()

	ctx := bsContext(t, 0.2, settings(4_000))
	for _, typ := range []instrument.OptionType{instrument.Call, instrument.Put} {
		mc := mustPrice(t, NewAsianEngine(ctx), asian(t, instrument.Arithmetic, typ))
		tw := mustPrice(t, analytic.NewAsianEngine(ctx), asian(t, instrument.Arithmetic, typ))
		assert.InDelta(t, tw.NPV, mc.NPV, 3*mc.MCStdError+0.05, "%v", typ)
		assert.Equal(t, "BS MC European Asian (flat r,q,sigma)", mc.Diagnostics)
	}
}

func TestAsianGeometricBelowArithmetic(t *testing.T) {
	t.Parallel()

	// Same seed, same draws: the geometric average never exceeds the
	// arithmetic one on any path.
	ctx := bsContext(t, 0.2, settings(4_000))
	geo := mustPrice(t, NewAsianEngine(ctx), asian(t, instrument.Geometric, instrument.Call))
	arith := mustPrice(t, NewAsianEngine(ctx), asian(t, instrument.Arithmetic, instrument.Call))
	assert.Less(t, geo.NPV, arith.NPV)
}

func TestAsianGreeksAndAntithetic(t *testing.T) {
	t.Parallel()

	plain := mustPrice(t, NewAsianEngine(bsContext(t, 0.2, settings(4_000))), asian(t, instrument.Arithmetic, instrument.Call))

	s := settings(4_000)
	s.Antithetic = true
	anti := mustPrice(t, NewAsianEngine(bsContext(t, 0.2, s)), asian(t, instrument.Arithmetic, instrument.Call))
	assert.Less(t, anti.MCStdError, plain.MCStdError)
	assert.Equal(t, "BS MC European Asian (flat r,q,sigma) + antithetic", anti.Diagnostics)

	s.MCPaths = 4_001
	odd := mustPrice(t, NewAsianEngine(bsContext(t, 0.2, s)), asian(t, instrument.Arithmetic, instrument.Call))
	assert.InDelta(t, anti.NPV, odd.NPV, 0.05)

	assert.Greater(t, *plain.Greeks.Delta, 0.0)
	assert.Greater(t, *plain.Greeks.Gamma, 0.0)
	put := mustPrice(t, NewAsianEngine(bsContext(t, 0.2, settings(4_000))), asian(t, instrument.Arithmetic, instrument.Put))
	assert.Less(t, *put.Greeks.Delta, 0.0)

	for _, g := range []*float64{plain.Greeks.Vega, plain.Greeks.Rho, plain.Greeks.Theta, plain.Greeks.VegaStdError} {
		require.NotNil(t, g)
		assert.False(t, math.IsNaN(*g))
	}
}

func TestAsianDeterministic(t *testing.T) {
	t.Parallel()

	s := settings(1_000)
	a := mustPrice(t, NewAsianEngine(bsContext(t, 0.2, s)), asian(t, instrument.Geometric, instrument.Put))
	b := mustPrice(t, NewAsianEngine(bsContext(t, 0.2, s)), asian(t, instrument.Geometric, instrument.Put))
	assert.Equal(t, a, b)
}

func TestAsianValidation(t *testing.T) {
	t.Parallel()

	eng := NewAsianEngine(bsContext(t, 0.2, settings(100)))
	_, err := eng.Price(vanilla(t, instrument.Call))
	assert.ErrorIs(t, err, pricing.ErrUnsupportedInstrument)

	bad := asian(t, instrument.Arithmetic, instrument.Call)
	bad.Notional = 0
	_, err = eng.Price(bad)
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)

	flat, err := model.NewFlatRate(0.05)
	require.NoError(t, err)
	_, err = NewAsianEngine(engine.Context{Model: flat, Settings: settings(100)}).Price(asian(t, instrument.Arithmetic, instrument.Call))
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
}

func TestMonitoringDates(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 252, monitoringDates(1))
	assert.Equal(t, 1, monitoringDates(0.001))
	assert.Equal(t, 126, monitoringDates(0.5))
	assert.Equal(t, 253, monitoringDates(1+1.0/365))
}
