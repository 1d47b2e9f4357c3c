package lattice

import (
	"fmt"
	"math"

	"github.com/meenmo/optlib/engine"
	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/pricing"
)

// TrinomialEngine is the Boyle tree in log-spot with spacing sigma*sqrt(3 dt).
type TrinomialEngine struct {
	ctx engine.Context
}

func NewTrinomialEngine(ctx engine.Context) *TrinomialEngine {
	return &TrinomialEngine{ctx: ctx}
}

func (e *TrinomialEngine) Name() string { return "TrinomialVanillaEngine" }

func (e *TrinomialEngine) Price(inst instrument.Instrument) (pricing.Result, error) {
	switch opt := inst.(type) {
	case *instrument.VanillaOption:
		tr, terms, s0, sigma, steps, err := prepare(e.Name(), e.ctx, opt)
		if err != nil {
			return pricing.Result{}, err
		}
		diag := fmt.Sprintf("Trinomial tree (Boyle) %s vanilla (steps=%d)", styleLabel(tr.american), steps)
		return withGreeks(e.rollback(tr), terms, s0, sigma, steps, diag)
	default:
		return pricing.Result{}, engine.Unsupported(e, inst)
	}
}

// branchProbabilities matches the mean nu*dt and variance sigma^2*dt of the
// log-return over one step of size dx.
func branchProbabilities(sigma, nu, dt, dx float64) (pu, pm, pd float64) {
	second := (sigma*sigma*dt + nu*nu*dt*dt) / (dx * dx)
	first := nu * dt / dx
	pu = 0.5 * (second + first)
	pd = 0.5 * (second - first)
	return pu, 1 - pu - pd, pd
}

func (e *TrinomialEngine) rollback(tr tree) rollback {
	return func(s0, sigma, t float64, steps int) (float64, error) {
		dt := t / float64(steps)
		dx := sigma * math.Sqrt(3*dt)
		nu := tr.rate - tr.yield - 0.5*sigma*sigma
		pu, pm, pd := branchProbabilities(sigma, nu, dt, dx)
		if !inUnit(pu) || !inUnit(pm) || !inUnit(pd) {
			return 0, probabilityError(e.Name(), "probabilities (pu, pm, pd)", pu, pm, pd)
		}
		df := math.Exp(-tr.rate * dt)

		// index j+steps holds the node at log-spot offset j*dx
		width := 2*steps + 1
		values := make([]float64, width)
		next := make([]float64, width)
		for j := -steps; j <= steps; j++ {
			values[j+steps] = tr.payoff.Value(s0 * math.Exp(float64(j)*dx))
		}
		for i := steps - 1; i >= 0; i-- {
			for j := -i; j <= i; j++ {
				k := j + steps
				cont := df * (pu*values[k+1] + pm*values[k] + pd*values[k-1])
				next[k] = tr.settle(cont, s0*math.Exp(float64(j)*dx))
			}
			values, next = next, values
		}
		return values[steps], nil
	}
}
