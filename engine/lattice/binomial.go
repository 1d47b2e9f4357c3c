package lattice

import (
	"fmt"
	"math"

	"github.com/meenmo/optlib/engine"
	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/pricing"
)

// BinomialEngine is the Cox-Ross-Rubinstein tree.
type BinomialEngine struct {
	ctx engine.Context
}

func NewBinomialEngine(ctx engine.Context) *BinomialEngine {
	return &BinomialEngine{ctx: ctx}
}

func (e *BinomialEngine) Name() string { return "BinomialVanillaEngine" }

func (e *BinomialEngine) Price(inst instrument.Instrument) (pricing.Result, error) {
	switch opt := inst.(type) {
	case *instrument.VanillaOption:
		tr, terms, s0, sigma, steps, err := prepare(e.Name(), e.ctx, opt)
		if err != nil {
			return pricing.Result{}, err
		}
		diag := fmt.Sprintf("Binomial tree (CRR) %s vanilla (steps=%d)", styleLabel(tr.american), steps)
		return withGreeks(e.rollback(tr), terms, s0, sigma, steps, diag)
	default:
		return pricing.Result{}, engine.Unsupported(e, inst)
	}
}

func (e *BinomialEngine) rollback(tr tree) rollback {
	return func(s0, sigma, t float64, steps int) (float64, error) {
		dt := t / float64(steps)
		u := math.Exp(sigma * math.Sqrt(dt))
		d := 1 / u
		p := (math.Exp((tr.rate-tr.yield)*dt) - d) / (u - d)
		if !inUnit(p) {
			return 0, probabilityError(e.Name(), "probability p", p)
		}
		df := math.Exp(-tr.rate * dt)

		// node j at step i sits at s0 * u^j * d^(i-j) = s0 * u^(2j-i)
		values := make([]float64, steps+1)
		for j := 0; j <= steps; j++ {
			values[j] = tr.payoff.Value(s0 * math.Pow(u, float64(2*j-steps)))
		}
		for i := steps - 1; i >= 0; i-- {
			for j := 0; j <= i; j++ {
				cont := df * (p*values[j+1] + (1-p)*values[j])
				values[j] = tr.settle(cont, s0*math.Pow(u, float64(2*j-i)))
			}
		}
		return values[0], nil
	}
}
