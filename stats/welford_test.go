package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat"
)

func TestRunningMatchesBatch(t *testing.T) {
	t.Parallel()

	xs := make([]float64, 1000)
	for i := range xs {
		xs[i] = 1e6 + math.Sin(float64(i))*3 + float64(i%7)
	}

	var r Running
	for _, x := range xs {
		r.Push(x)
	}

	mean, variance := stat.MeanVariance(xs, nil)
	assert.Equal(t, len(xs), r.Count())
	assert.InDelta(t, mean, r.Mean(), 1e-7)
	assert.InDelta(t, variance, r.Variance(), 1e-6)
	assert.InDelta(t, math.Sqrt(variance/float64(len(xs))), r.StdError(), 1e-9)
}

func TestRunningSmallSamples(t *testing.T) {
	t.Parallel()

	var r Running
	assert.Equal(t, 0.0, r.StdError())
	r.Push(3)
	assert.Equal(t, 3.0, r.Mean())
	assert.Equal(t, 0.0, r.Variance())
	assert.Equal(t, 0.0, r.StdError())
	r.Push(5)
	assert.Equal(t, 4.0, r.Mean())
	assert.Equal(t, 2.0, r.Variance())
	assert.Equal(t, 1.0, r.StdError())
}
