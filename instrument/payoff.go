package instrument

import (
	"fmt"
	"math"
	"strings"
)

// OptionType is call or put.
type OptionType int

const (
	Call OptionType = iota
	Put
)

func (o OptionType) String() string {
	if o == Put {
		return "put"
	}
	return "call"
}

// ParseOptionType accepts "call"/"put" (case-insensitive).
func ParseOptionType(s string) (OptionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	default:
		return Call, fmt.Errorf("ParseOptionType: unknown option type %q", s)
	}
}

// AverageType selects how an Asian payoff averages the monitored spots.
type AverageType int

const (
	Arithmetic AverageType = iota
	Geometric
)

func (a AverageType) String() string {
	if a == Geometric {
		return "geometric"
	}
	return "arithmetic"
}

// ParseAverageType accepts "arithmetic"/"geometric" (case-insensitive).
// Empty input means Arithmetic.
func ParseAverageType(s string) (AverageType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "arithmetic", "arith":
		return Arithmetic, nil
	case "geometric", "geo":
		return Geometric, nil
	default:
		return Arithmetic, fmt.Errorf("ParseAverageType: unknown average type %q", s)
	}
}

// Payoff maps the terminal (or averaged) underlying value to a cash amount.
type Payoff interface {
	Type() OptionType
	Strike() float64
	Value(underlying float64) float64
}

type strikePayoff struct {
	optionType OptionType
	strike     float64
}

func (p strikePayoff) Type() OptionType { return p.optionType }
func (p strikePayoff) Strike() float64  { return p.strike }

func (p strikePayoff) Value(x float64) float64 {
	return Intrinsic(p.optionType, x, p.strike)
}

// PlainVanillaPayoff pays max(S_T-K, 0) or max(K-S_T, 0).
type PlainVanillaPayoff struct{ strikePayoff }

// ArithmeticAsianPayoff is applied to the arithmetic average of monitored spots.
type ArithmeticAsianPayoff struct{ strikePayoff }

// GeometricAsianPayoff is applied to the geometric average of monitored spots.
type GeometricAsianPayoff struct{ strikePayoff }

func NewPlainVanillaPayoff(t OptionType, strike float64) PlainVanillaPayoff {
	return PlainVanillaPayoff{strikePayoff{t, strike}}
}

func NewArithmeticAsianPayoff(t OptionType, strike float64) ArithmeticAsianPayoff {
	return ArithmeticAsianPayoff{strikePayoff{t, strike}}
}

func NewGeometricAsianPayoff(t OptionType, strike float64) GeometricAsianPayoff {
	return GeometricAsianPayoff{strikePayoff{t, strike}}
}

// NewAsianPayoff picks the payoff variant matching avg.
func NewAsianPayoff(avg AverageType, t OptionType, strike float64) Payoff {
	if avg == Geometric {
		return NewGeometricAsianPayoff(t, strike)
	}
	return NewArithmeticAsianPayoff(t, strike)
}

// Intrinsic returns the exercise value of an option on x struck at k.
func Intrinsic(t OptionType, x, k float64) float64 {
	if t == Put {
		return math.Max(k-x, 0)
	}
	return math.Max(x-k, 0)
}
