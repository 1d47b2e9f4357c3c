package pde

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/meenmo/optlib/engine"
	"github.com/meenmo/optlib/engine/analytic"
	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/model"
	"github.com/meenmo/optlib/pricing"
)

func pdeContext(t *testing.T, spot float64, m, n int) engine.Context {
	t.Helper()
	bs, err := model.NewBlackScholes(spot, 0.05, 0.02, 0.2)
	require.NoError(t, err)
	s := pricing.DefaultSettings()
	s.PDESpaceSteps = m
	s.PDETimeSteps = n
	return engine.Context{Model: bs, Settings: s}
}

func european(t *testing.T, typ instrument.OptionType) *instrument.VanillaOption {
	t.Helper()
	ex, err := instrument.NewEuropeanExercise(1)
	require.NoError(t, err)
	return &instrument.VanillaOption{Payoff: instrument.NewPlainVanillaPayoff(typ, 100), Exercise: ex, Notional: 1}
}

func TestSolveTridiagonalMatchesDense(t *testing.T) {
	t.Parallel()

	a := []float64{0, -1, 0.5, -0.25, 2}
	b := []float64{4, 5, 3, 6, 7}
	c := []float64{1, -2, 0.75, 1.5, 0}
	d := []float64{1, 2, 3, 4, 5}
	n := len(d)

	dense := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		dense.Set(i, i, b[i])
		if i > 0 {
			dense.Set(i, i-1, a[i])
		}
		if i < n-1 {
			dense.Set(i, i+1, c[i])
		}
	}
	var want mat.VecDense
	require.NoError(t, want.SolveVec(dense, mat.NewVecDense(n, d)))

	got := make([]float64, n)
	require.NoError(t, solveTridiagonal(a, b, c, d, got, make([]float64, n)))
	for i := range got {
		assert.InDelta(t, want.AtVec(i), got[i], 1e-12, "row %d", i)
	}

	err := solveTridiagonal([]float64{0, 0}, []float64{0, 1}, []float64{0, 0}, []float64{1, 1}, got[:2], make([]float64, 2))
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
}

func TestConvergesToAnalytic(t *testing.T) {
	t.Parallel()

	ctx := pdeContext(t, 100, 100, 100)
	var npv [2]float64
	for i, typ := range []instrument.OptionType{instrument.Call, instrument.Put} {
		opt := european(t, typ)
		ref, err := analytic.NewVanillaEngine(ctx).Price(opt)
		require.NoError(t, err)
		res, err := engine.Price(opt, NewCrankNicolsonEngine(ctx))
		require.NoError(t, err)

		assert.InDelta(t, ref.NPV, res.NPV, 0.02, "%v npv", typ)
		assert.InDelta(t, *ref.Greeks.Delta, *res.Greeks.Delta, 1e-3, "%v delta", typ)
		assert.Greater(t, *res.Greeks.Gamma, 0.0)
		assert.Nil(t, res.Greeks.Vega)
		assert.Nil(t, res.Greeks.Theta)
		assert.Nil(t, res.Greeks.Rho)
		assert.Equal(t, "PDE Crank-Nicolson European vanilla (M=100, N=100)", res.Diagnostics)
		npv[i] = res.NPV
	}

	parity := 100*math.Exp(-0.02) - 100*math.Exp(-0.05)
	assert.InDelta(t, parity, npv[0]-npv[1], 2e-3)
}

func TestGridRefinement(t *testing.T) {
	t.Parallel()

	ref := 9.227005508154042
	coarse, err := NewCrankNicolsonEngine(pdeContext(t, 100, 50, 50)).Price(european(t, instrument.Call))
	require.NoError(t, err)
	fine, err := NewCrankNicolsonEngine(pdeContext(t, 100, 200, 200)).Price(european(t, instrument.Call))
	require.NoError(t, err)
	assert.Less(t, math.Abs(fine.NPV-ref), math.Abs(coarse.NPV-ref))
}

func TestSpotOutsideGridClamps(t *testing.T) {
	t.Parallel()

	// ln(10/100) is below the lower grid edge.
	res, err := NewCrankNicolsonEngine(pdeContext(t, 10, 100, 100)).Price(european(t, instrument.Call))
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.NPV)
	assert.Equal(t, 0.0, *res.Greeks.Delta)

	put, err := NewCrankNicolsonEngine(pdeContext(t, 500, 100, 100)).Price(european(t, instrument.Put))
	require.NoError(t, err)
	assert.Equal(t, 0.0, put.NPV)
}

func TestGridInterpolation(t *testing.T) {
	t.Parallel()

	g := grid{x: []float64{-1, 0, 1}, values: []float64{4, 2, 0}, dx: 1}
	assert.Equal(t, 4.0, g.at(-3))
	assert.Equal(t, 0.0, g.at(2))
	assert.InDelta(t, 3.0, g.at(-0.5), 1e-15)
	assert.InDelta(t, 0.5, g.at(0.75), 1e-15)
	assert.InDelta(t, 0.0, g.at(1), 1e-15)
}

func TestValidation(t *testing.T) {
	t.Parallel()

	ctx := pdeContext(t, 100, 100, 100)
	eng := NewCrankNicolsonEngine(ctx)

	am, err := instrument.NewAmericanExercise(1)
	require.NoError(t, err)
	opt := european(t, instrument.Put)
	opt.Exercise = am
	_, err = eng.Price(opt)
	assert.ErrorIs(t, err, pricing.ErrUnsupportedInstrument)

	ex, err := instrument.NewEuropeanExercise(1)
	require.NoError(t, err)
	_, err = eng.Price(&instrument.AsianOption{
		Payoff:   instrument.NewAsianPayoff(instrument.Geometric, instrument.Call, 100),
		Exercise: ex,
		Average:  instrument.Geometric,
		Notional: 1,
	})
	assert.ErrorIs(t, err, pricing.ErrUnsupportedInstrument)

	_, err = NewCrankNicolsonEngine(pdeContext(t, 100, 1, 100)).Price(european(t, instrument.Call))
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
	_, err = NewCrankNicolsonEngine(pdeContext(t, 100, 100, 0)).Price(european(t, instrument.Call))
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)

	opt = european(t, instrument.Call)
	opt.Notional = -1
	_, err = eng.Price(opt)
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
}
