// Package montecarlo prices European vanilla and Asian options by simulating
// risk-neutral geometric Brownian motion.
//
// Greeks come from the simulated paths themselves: pathwise delta,
// likelihood-ratio vega and rho, and gamma/theta by finite differences on
// common random numbers. Every estimator is accumulated with Welford's
// algorithm and reported with its standard error.
package montecarlo

import (
	"github.com/meenmo/optlib/pricing"
	"github.com/meenmo/optlib/rng"
	"github.com/meenmo/optlib/stats"
)

const (
	// minVol is the volatility below which likelihood-ratio scores are zero.
	minVol = 1e-10

	// early-stop cadence when Settings.TargetStdError is set
	minSamples = 1000
	checkEvery = 1000
)

// sample is one observation of every estimator. Antithetic pairs are
// averaged into a single sample before accumulation.
type sample struct {
	payoff, delta, vega, rho, gamma, theta float64
}

func (s sample) mid(o sample) sample {
	return sample{
		payoff: 0.5 * (s.payoff + o.payoff),
		delta:  0.5 * (s.delta + o.delta),
		vega:   0.5 * (s.vega + o.vega),
		rho:    0.5 * (s.rho + o.rho),
		gamma:  0.5 * (s.gamma + o.gamma),
		theta:  0.5 * (s.theta + o.theta),
	}
}

type estimators struct {
	payoff, delta, vega, rho, gamma, theta stats.Running
}

func (e *estimators) push(s sample) {
	e.payoff.Push(s.payoff)
	e.delta.Push(s.delta)
	e.vega.Push(s.vega)
	e.rho.Push(s.rho)
	e.gamma.Push(s.gamma)
	e.theta.Push(s.theta)
}

// result scales the means to price units. Payoff, vega and rho are
// undiscounted per path; delta, gamma and theta already carry discounting.
func (e *estimators) result(disc, notional float64, diag string) pricing.Result {
	n := notional
	return pricing.Result{
		NPV:        n * disc * e.payoff.Mean(),
		MCStdError: n * disc * e.payoff.StdError(),
		Greeks: pricing.Greeks{
			Delta:         pricing.Float(n * e.delta.Mean()),
			DeltaStdError: pricing.Float(n * e.delta.StdError()),
			Vega:          pricing.Float(n * disc * e.vega.Mean()),
			VegaStdError:  pricing.Float(n * disc * e.vega.StdError()),
			Rho:           pricing.Float(n * disc * e.rho.Mean()),
			RhoStdError:   pricing.Float(n * disc * e.rho.StdError()),
			Gamma:         pricing.Float(n * e.gamma.Mean()),
			GammaStdError: pricing.Float(n * e.gamma.StdError()),
			Theta:         pricing.Float(n * e.theta.Mean()),
			ThetaStdError: pricing.Float(n * e.theta.StdError()),
		},
		Diagnostics: diag,
	}
}

// simulation drives the path loop shared by both engines.
type simulation struct {
	settings pricing.Settings
	// priceScale converts the payoff standard error to the reported price
	// standard error (discount times notional).
	priceScale float64
}

// run pushes settings.MCPaths paths. With antithetic sampling it pushes
// MCPaths/2 averaged pairs and one unpaired path when MCPaths is odd.
func (s simulation) run(single, pair func() sample) *estimators {
	est := &estimators{}
	if s.settings.Antithetic {
		for i := 0; i < s.settings.MCPaths/2; i++ {
			est.push(pair())
			if s.converged(est) {
				return est
			}
		}
		if s.settings.MCPaths%2 == 1 {
			est.push(single())
		}
		return est
	}
	for i := 0; i < s.settings.MCPaths; i++ {
		est.push(single())
		if s.converged(est) {
			return est
		}
	}
	return est
}

func (s simulation) converged(est *estimators) bool {
	target := s.settings.TargetStdError
	n := est.payoff.Count()
	if !(target > 0) || n < minSamples || n%checkEvery != 0 {
		return false
	}
	return s.priceScale*est.payoff.StdError() <= target
}

// normals builds the deterministic draw sources for a run: the plain
// Box-Muller sampler and its antithetic wrapper over the same stream.
func normals(s pricing.Settings) (*rng.Normal, *rng.Antithetic) {
	gen := rng.Factory{Seed: s.Seed}.Make(s.Stream)
	normal := rng.NewNormal(gen)
	return normal, rng.NewAntithetic(normal, true)
}

func validateSettings(op string, s pricing.Settings) error {
	if s.MCPaths < 1 {
		return pricing.InvalidInput(op, "path count must be >= 1, got %d", s.MCPaths)
	}
	if s.TargetStdError < 0 {
		return pricing.InvalidInput(op, "target standard error must be >= 0, got %v", s.TargetStdError)
	}
	return nil
}

func diagnostics(base string, antithetic bool) string {
	if antithetic {
		return base + " + antithetic"
	}
	return base
}
