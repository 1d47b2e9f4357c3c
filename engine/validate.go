package engine

import (
	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/pricing"
)

// EuropeanTerms are the validated terms of a single-date option.
type EuropeanTerms struct {
	Type     instrument.OptionType
	Strike   float64
	Maturity float64
	Notional float64
}

// ValidateEuropean checks payoff and exercise presence, European style with
// exactly one date, and positive maturity, notional and strike.
func ValidateEuropean(op string, payoff instrument.Payoff, ex *instrument.Exercise, notional float64) (EuropeanTerms, error) {
	if payoff == nil {
		return EuropeanTerms{}, pricing.InvalidInput(op, "payoff is nil")
	}
	if ex == nil {
		return EuropeanTerms{}, pricing.InvalidInput(op, "exercise is nil")
	}
	if ex.Style != instrument.European {
		return EuropeanTerms{}, pricing.Unsupported(op, "%s exercise is not supported by this engine", ex.Style)
	}
	if len(ex.Dates) != 1 {
		return EuropeanTerms{}, pricing.InvalidInput(op, "European exercise must contain exactly one date, got %d", len(ex.Dates))
	}
	return validateTerms(op, payoff, ex.Dates[0], notional)
}

// ValidateLattice accepts European or American exercise; the maturity is the last date.
func ValidateLattice(op string, payoff instrument.Payoff, ex *instrument.Exercise, notional float64) (EuropeanTerms, error) {
	if payoff == nil {
		return EuropeanTerms{}, pricing.InvalidInput(op, "payoff is nil")
	}
	if ex == nil {
		return EuropeanTerms{}, pricing.InvalidInput(op, "exercise is nil")
	}
	if len(ex.Dates) == 0 {
		return EuropeanTerms{}, pricing.InvalidInput(op, "exercise has no dates")
	}
	if ex.Style == instrument.European && len(ex.Dates) != 1 {
		return EuropeanTerms{}, pricing.InvalidInput(op, "European exercise must contain exactly one date, got %d", len(ex.Dates))
	}
	return validateTerms(op, payoff, ex.Maturity(), notional)
}

func validateTerms(op string, payoff instrument.Payoff, T, notional float64) (EuropeanTerms, error) {
	if !(T > 0) {
		return EuropeanTerms{}, pricing.InvalidInput(op, "maturity must be > 0, got %v", T)
	}
	if !(notional > 0) {
		return EuropeanTerms{}, pricing.InvalidInput(op, "notional must be > 0, got %v", notional)
	}
	K := payoff.Strike()
	if !(K > 0) {
		return EuropeanTerms{}, pricing.InvalidInput(op, "strike must be > 0, got %v", K)
	}
	return EuropeanTerms{Type: payoff.Type(), Strike: K, Maturity: T, Notional: notional}, nil
}
