// Package lattice prices European and American vanilla options by backward
// induction on recombining trees: Cox-Ross-Rubinstein binomial and Boyle
// trinomial.
package lattice

import (
	"github.com/meenmo/optlib/engine"
	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/pricing"
)

const (
	spotBump = 0.01 // relative
	volBump  = 0.01 // absolute
)

// rollback is one tree method. It returns the step-0 value of the option
// for the given spot, volatility, maturity and number of steps.
type rollback func(s0, sigma, t float64, steps int) (float64, error)

// tree holds what every rollback needs besides the bumped inputs.
type tree struct {
	payoff   instrument.Payoff
	rate     float64
	yield    float64
	american bool
}

// settle applies the exercise rule at a node.
func (tr tree) settle(continuation, spot float64) float64 {
	if tr.american {
		return max(continuation, tr.payoff.Value(spot))
	}
	return continuation
}

func styleLabel(american bool) string {
	if american {
		return "American"
	}
	return "European"
}

// prepare validates the option, model and step count shared by both engines.
func prepare(op string, ctx engine.Context, opt *instrument.VanillaOption) (tree, engine.EuropeanTerms, float64, float64, int, error) {
	terms, err := engine.ValidateLattice(op, opt.Payoff, opt.Exercise, opt.Notional)
	if err != nil {
		return tree{}, terms, 0, 0, 0, err
	}
	steps := ctx.Settings.TreeSteps
	if steps < 1 {
		return tree{}, terms, 0, 0, 0, pricing.InvalidInput(op, "tree requires steps >= 1, got %d", steps)
	}
	m, err := ctx.EquityModel(op)
	if err != nil {
		return tree{}, terms, 0, 0, 0, err
	}
	if !(m.Vol() > 0) {
		return tree{}, terms, 0, 0, 0, pricing.InvalidInput(op, "tree requires volatility > 0, got %v", m.Vol())
	}
	tr := tree{
		payoff:   opt.Payoff,
		rate:     m.Rate(),
		yield:    m.Yield(),
		american: opt.Exercise.Style == instrument.American,
	}
	return tr, terms, m.Spot0(), m.Vol(), steps, nil
}

// withGreeks prices on the tree and rebuilds it for the sensitivities:
// delta and gamma from +/-1% spot, vega from +1 vol point, theta from a
// tree with one fewer step spanning T-dt.
func withGreeks(value rollback, terms engine.EuropeanTerms, s0, sigma float64, steps int, diag string) (pricing.Result, error) {
	T := terms.Maturity
	base, err := value(s0, sigma, T, steps)
	if err != nil {
		return pricing.Result{}, err
	}

	dS := s0 * spotBump
	up, err := value(s0+dS, sigma, T, steps)
	if err != nil {
		return pricing.Result{}, err
	}
	dn, err := value(s0-dS, sigma, T, steps)
	if err != nil {
		return pricing.Result{}, err
	}
	bumped, err := value(s0, sigma+volBump, T, steps)
	if err != nil {
		return pricing.Result{}, err
	}

	N := terms.Notional
	res := pricing.Result{
		NPV: N * base,
		Greeks: pricing.Greeks{
			Delta: pricing.Float(N * (up - dn) / (2 * dS)),
			Gamma: pricing.Float(N * (up - 2*base + dn) / (dS * dS)),
			Vega:  pricing.Float(N * (bumped - base) / volBump),
		},
		Diagnostics: diag,
	}

	if steps > 1 {
		dt := T / float64(steps)
		shorter, err := value(s0, sigma, T-dt, steps-1)
		if err != nil {
			return pricing.Result{}, err
		}
		res.Greeks.Theta = pricing.Float(-N * (base - shorter) / dt)
	}
	return res, nil
}

func probabilityError(op, names string, vals ...float64) error {
	return pricing.InvalidInput(op, "risk-neutral %s out of [0,1]: %v; reduce the time step", names, vals)
}

func inUnit(p float64) bool {
	return p >= 0 && p <= 1
}
