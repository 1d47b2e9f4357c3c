package bond

import (
	"fmt"
	"math"
)

// YieldInput holds a target present value and the cashflows it prices.
type YieldInput struct {
	Price     float64
	Cashflows []Cashflow
}

// YieldResult is the output of ComputeYield.
type YieldResult struct {
	// Yield is the continuously compounded flat rate, as a decimal.
	Yield float64
	// Duration is the Macaulay duration in years at Yield.
	Duration   float64
	Iterations int
}

// ComputeYield solves for the flat continuously compounded rate y such that
// sum(CF_i * exp(-y*t_i)) equals the price.
//
// The solver uses Newton-Raphson with analytic first derivative.
func ComputeYield(in YieldInput) (YieldResult, error) {
	if len(in.Cashflows) == 0 {
		return YieldResult{}, fmt.Errorf("ComputeYield: Cashflows are required")
	}
	if !(in.Price > 0) {
		return YieldResult{}, fmt.Errorf("ComputeYield: Price must be positive")
	}
	for _, cf := range in.Cashflows {
		if cf.Amount() < 0 {
			return YieldResult{}, fmt.Errorf("ComputeYield: negative cashflow at t=%v", cf.Time)
		}
	}

	y, iterations, err := solveYield(in.Price, in.Cashflows)
	if err != nil {
		return YieldResult{}, err
	}

	pv, dPdy := priceAndDeriv(y, in.Cashflows)
	return YieldResult{
		Yield:      y,
		Duration:   -dPdy / pv,
		Iterations: iterations,
	}, nil
}

// ---------------------------------------------------------------------------
// Newton-Raphson solver (unexported)
// ---------------------------------------------------------------------------

const (
	yieldTolerance = 1e-12
	yieldMaxIter   = 100
	yieldFloor     = -0.50
	yieldCeiling   = 2.00
)

func solveYield(target float64, cfs []Cashflow) (float64, int, error) {
	y := 0.025

	for iter := 0; iter < yieldMaxIter; iter++ {
		price, dPdy := priceAndDeriv(y, cfs)
		f := price - target

		if math.Abs(f) < yieldTolerance*math.Max(1, target) {
			return y, iter + 1, nil
		}
		if math.Abs(dPdy) < 1e-15 {
			return y, iter + 1, fmt.Errorf("ComputeYield: derivative too small at iter %d", iter)
		}

		y = clamp(y-f/dPdy, yieldFloor, yieldCeiling)
	}

	return y, yieldMaxIter, fmt.Errorf("ComputeYield: did not converge after %d iterations", yieldMaxIter)
}

// price = sum CF_k * exp(-y*t_k)
// dP/dy = sum -t_k * CF_k * exp(-y*t_k)
func priceAndDeriv(y float64, cfs []Cashflow) (float64, float64) {
	var price, deriv float64
	for _, cf := range cfs {
		pv := cf.Amount() * math.Exp(-y*cf.Time)
		price += pv
		deriv -= cf.Time * pv
	}
	return price, deriv
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
