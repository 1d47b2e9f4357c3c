package instrument_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/optlib/calendar"
	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/pricing"
	"github.com/meenmo/optlib/utils"
)

func TestPayoffs(t *testing.T) {
	t.Parallel()

	call := instrument.NewPlainVanillaPayoff(instrument.Call, 100)
	put := instrument.NewPlainVanillaPayoff(instrument.Put, 100)
	assert.Equal(t, 5.0, call.Value(105))
	assert.Equal(t, 0.0, call.Value(95))
	assert.Equal(t, 5.0, put.Value(95))
	assert.Equal(t, 0.0, put.Value(105))
	assert.Equal(t, instrument.Put, put.Type())
	assert.Equal(t, 100.0, put.Strike())

	geo := instrument.NewAsianPayoff(instrument.Geometric, instrument.Call, 90)
	_, ok := geo.(instrument.GeometricAsianPayoff)
	assert.True(t, ok)
	arith := instrument.NewAsianPayoff(instrument.Arithmetic, instrument.Put, 90)
	_, ok = arith.(instrument.ArithmeticAsianPayoff)
	assert.True(t, ok)
	assert.Equal(t, 10.0, arith.Value(80))
}

func TestParseOptionType(t *testing.T) {
	t.Parallel()

	got, err := instrument.ParseOptionType("PUT")
	require.NoError(t, err)
	assert.Equal(t, instrument.Put, got)
	_, err = instrument.ParseOptionType("straddle")
	assert.Error(t, err)
}

func TestParseAverageType(t *testing.T) {
	t.Parallel()

	got, err := instrument.ParseAverageType(" Geometric ")
	require.NoError(t, err)
	assert.Equal(t, instrument.Geometric, got)
	got, err = instrument.ParseAverageType("")
	require.NoError(t, err)
	assert.Equal(t, instrument.Arithmetic, got)
	_, err = instrument.ParseAverageType("harmonic")
	assert.Error(t, err)
}

func TestNewExercise(t *testing.T) {
	t.Parallel()

	ex, err := instrument.NewEuropeanExercise(1.5)
	require.NoError(t, err)
	assert.Equal(t, 1.5, ex.Maturity())
	assert.Equal(t, instrument.European, ex.Style)

	tests := []struct {
		name  string
		dates []float64
	}{
		{"empty", nil},
		{"zero", []float64{0}},
		{"negative", []float64{-1}},
		{"unsorted", []float64{0.5, 0.25}},
		{"duplicate", []float64{0.5, 0.5}},
	}
	for _, tc := range tests {
		_, err := instrument.NewExercise(instrument.American, tc.dates...)
		assert.ErrorIs(t, err, pricing.ErrInvalidInput, tc.name)
	}

	multi, err := instrument.NewExercise(instrument.European, 0.5, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, multi.Maturity())
}

func TestMaturityFromDates(t *testing.T) {
	t.Parallel()

	val := time.Date(2025, time.June, 13, 0, 0, 0, 0, time.UTC)
	// Saturday 2026-06-13 rolls to Monday 2026-06-15.
	expiry := time.Date(2026, time.June, 13, 0, 0, 0, 0, time.UTC)

	T, err := instrument.MaturityFromDates(val, expiry, calendar.Weekend, utils.ACT365F)
	require.NoError(t, err)
	assert.InDelta(t, 367.0/365.0, T, 1e-12)

	Tb, err := instrument.MaturityFromDates(val, expiry, calendar.NYSE, utils.Business252)
	require.NoError(t, err)
	assert.Greater(t, Tb, 0.95)
	assert.Less(t, Tb, 1.02)

	_, err = instrument.MaturityFromDates(expiry, val, calendar.Weekend, utils.ACT365F)
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)

	_, err = instrument.MaturityFromDates(val, expiry, "MARS", utils.ACT365F)
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
}

func TestName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "VanillaOption", instrument.Name(&instrument.VanillaOption{}))
	assert.Equal(t, "FixedRateBond", instrument.Name(&instrument.FixedRateBond{}))
}
