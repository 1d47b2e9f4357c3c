package instrument

import (
	"time"

	"github.com/meenmo/optlib/calendar"
	"github.com/meenmo/optlib/pricing"
	"github.com/meenmo/optlib/utils"
)

// ExerciseStyle is European (single date) or American (any time up to the last date).
type ExerciseStyle int

const (
	European ExerciseStyle = iota
	American
)

func (s ExerciseStyle) String() string {
	if s == American {
		return "American"
	}
	return "European"
}

// Exercise is an exercise style with its ordered dates in years from valuation.
type Exercise struct {
	Style ExerciseStyle
	Dates []float64
}

// NewEuropeanExercise builds a single-date exercise at maturity.
func NewEuropeanExercise(maturity float64) (*Exercise, error) {
	return NewExercise(European, maturity)
}

// NewAmericanExercise builds a continuous exercise up to maturity.
func NewAmericanExercise(maturity float64) (*Exercise, error) {
	return NewExercise(American, maturity)
}

// NewExercise validates that dates are non-empty, strictly positive and strictly increasing.
func NewExercise(style ExerciseStyle, dates ...float64) (*Exercise, error) {
	if len(dates) == 0 {
		return nil, pricing.InvalidInput("NewExercise", "at least one exercise date is required")
	}
	prev := 0.0
	for i, d := range dates {
		if !(d > prev) {
			if i == 0 {
				return nil, pricing.InvalidInput("NewExercise", "exercise date must be > 0, got %v", d)
			}
			return nil, pricing.InvalidInput("NewExercise", "exercise dates must be strictly increasing")
		}
		prev = d
	}
	out := make([]float64, len(dates))
	copy(out, dates)
	return &Exercise{Style: style, Dates: out}, nil
}

// Maturity is the last exercise date.
func (e *Exercise) Maturity() float64 {
	return e.Dates[len(e.Dates)-1]
}

// MaturityFromDates converts an expiry date to a year fraction after
// adjusting it with Modified Following on cal.
func MaturityFromDates(valuation, expiry time.Time, cal calendar.CalendarID, dc utils.DayCount) (float64, error) {
	if !calendar.Known(cal) {
		return 0, pricing.InvalidInput("MaturityFromDates", "unknown calendar %q", cal)
	}
	adjusted := calendar.Adjust(cal, expiry)
	if !adjusted.After(valuation) {
		return 0, pricing.InvalidInput("MaturityFromDates", "expiry %s is not after valuation %s",
			adjusted.Format("2006-01-02"), valuation.Format("2006-01-02"))
	}
	if dc == utils.Business252 {
		return utils.YearFractionBusiness(calendar.BusinessDaysBetween(cal, valuation, adjusted)), nil
	}
	return utils.YearFraction(valuation, adjusted, dc), nil
}
