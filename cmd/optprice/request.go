package main

import (
	"fmt"
	"strings"

	"github.com/meenmo/optlib/calendar"
	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/registry"
	"github.com/meenmo/optlib/utils"
)

// taskInput is one pricing request as read from JSON or YAML.
type taskInput struct {
	TaskID     string `json:"task_id,omitempty" yaml:"task_id,omitempty"`
	Instrument string `json:"instrument" yaml:"instrument"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
	Engine     string `json:"engine,omitempty" yaml:"engine,omitempty"`

	OptionType string  `json:"option_type,omitempty" yaml:"option_type,omitempty"`
	Average    string  `json:"average,omitempty" yaml:"average,omitempty"`
	Strike     float64 `json:"strike,omitempty" yaml:"strike,omitempty"`
	Notional   float64 `json:"notional,omitempty" yaml:"notional,omitempty"`

	Maturity      float64 `json:"maturity,omitempty" yaml:"maturity,omitempty"`
	ValuationDate string  `json:"valuation_date,omitempty" yaml:"valuation_date,omitempty"`
	ExpiryDate    string  `json:"expiry_date,omitempty" yaml:"expiry_date,omitempty"`
	Calendar      string  `json:"calendar,omitempty" yaml:"calendar,omitempty"`
	DayCount      string  `json:"day_count,omitempty" yaml:"day_count,omitempty"`

	Spot     float64 `json:"spot,omitempty" yaml:"spot,omitempty"`
	Rate     float64 `json:"rate,omitempty" yaml:"rate,omitempty"`
	Dividend float64 `json:"dividend,omitempty" yaml:"dividend,omitempty"`
	Vol      float64 `json:"vol,omitempty" yaml:"vol,omitempty"`

	CouponRate     float64   `json:"coupon_rate,omitempty" yaml:"coupon_rate,omitempty"`
	Frequency      int       `json:"frequency,omitempty" yaml:"frequency,omitempty"`
	CurveTimes     []float64 `json:"curve_times,omitempty" yaml:"curve_times,omitempty"`
	CurveDiscounts []float64 `json:"curve_discounts,omitempty" yaml:"curve_discounts,omitempty"`

	Paths          int     `json:"paths,omitempty" yaml:"paths,omitempty"`
	Seed           uint64  `json:"seed,omitempty" yaml:"seed,omitempty"`
	Stream         uint64  `json:"stream,omitempty" yaml:"stream,omitempty"`
	Antithetic     *bool   `json:"antithetic,omitempty" yaml:"antithetic,omitempty"`
	TargetStdError float64 `json:"target_std_error,omitempty" yaml:"target_std_error,omitempty"`
	TreeSteps      int     `json:"tree_steps,omitempty" yaml:"tree_steps,omitempty"`
	PDESpaceSteps  int     `json:"pde_space_steps,omitempty" yaml:"pde_space_steps,omitempty"`
	PDETimeSteps   int     `json:"pde_time_steps,omitempty" yaml:"pde_time_steps,omitempty"`
}

// toRequest resolves kind names, dates and defaults into a registry request.
// Omitted model follows the instrument, omitted engine is Analytic and an
// omitted notional is 1.
func toRequest(in taskInput) (registry.Request, error) {
	ik, err := registry.ParseInstrumentKind(in.Instrument)
	if err != nil {
		return registry.Request{}, err
	}
	mk := registry.BlackScholes
	if ik == registry.ZeroCouponBond || ik == registry.FixedRateBond {
		mk = registry.FlatRate
	}
	if strings.TrimSpace(in.Model) != "" {
		if mk, err = registry.ParseModelKind(in.Model); err != nil {
			return registry.Request{}, err
		}
	}
	ek := registry.Analytic
	if strings.TrimSpace(in.Engine) != "" {
		if ek, err = registry.ParseEngineKind(in.Engine); err != nil {
			return registry.Request{}, err
		}
	}

	maturity, err := resolveMaturity(in)
	if err != nil {
		return registry.Request{}, err
	}
	notional := in.Notional
	if notional == 0 {
		notional = 1
	}

	mkt := registry.Market{Spot: in.Spot, Rate: in.Rate, Dividend: in.Dividend, Vol: in.Vol}
	mc := registry.MCKnobs{
		Paths:          in.Paths,
		Seed:           in.Seed,
		Stream:         in.Stream,
		Antithetic:     in.Antithetic,
		TargetStdError: in.TargetStdError,
	}
	grid := registry.GridKnobs{TreeSteps: in.TreeSteps, PDESpaceSteps: in.PDESpaceSteps, PDETimeSteps: in.PDETimeSteps}
	zcb := registry.ZeroCouponBondInput{
		Maturity:       maturity,
		Rate:           in.Rate,
		Notional:       notional,
		CurveTimes:     in.CurveTimes,
		CurveDiscounts: in.CurveDiscounts,
	}

	var input registry.Input
	switch ik {
	case registry.EquityVanillaOption, registry.EquityAmericanVanillaOption, registry.EquityAsianOption:
		ot, err := instrument.ParseOptionType(in.OptionType)
		if err != nil {
			return registry.Request{}, err
		}
		isCall := ot == instrument.Call
		switch ik {
		case registry.EquityVanillaOption:
			input = registry.VanillaInput{Market: mkt, Strike: in.Strike, Maturity: maturity, IsCall: isCall, Notional: notional, MCKnobs: mc, GridKnobs: grid}
		case registry.EquityAmericanVanillaOption:
			input = registry.AmericanVanillaInput{Market: mkt, Strike: in.Strike, Maturity: maturity, IsCall: isCall, Notional: notional, GridKnobs: grid}
		default:
			avg, err := instrument.ParseAverageType(in.Average)
			if err != nil {
				return registry.Request{}, err
			}
			input = registry.AsianInput{Market: mkt, Strike: in.Strike, Maturity: maturity, IsCall: isCall, Average: avg, Notional: notional, MCKnobs: mc}
		}
	case registry.EquityFuture:
		input = registry.FutureInput{Market: mkt, Strike: in.Strike, Maturity: maturity, Notional: notional}
	case registry.ZeroCouponBond:
		input = zcb
	case registry.FixedRateBond:
		input = registry.FixedRateBondInput{ZeroCouponBondInput: zcb, CouponRate: in.CouponRate, Frequency: in.Frequency}
	}

	return registry.Request{Instrument: ik, Model: mk, Engine: ek, Input: input}, nil
}

// resolveMaturity returns maturity, or the year fraction from valuation_date
// to the adjusted expiry_date when dates are given instead.
func resolveMaturity(in taskInput) (float64, error) {
	if in.ExpiryDate == "" {
		return in.Maturity, nil
	}
	if in.Maturity != 0 {
		return 0, fmt.Errorf("give either maturity or expiry_date, not both")
	}
	if in.ValuationDate == "" {
		return 0, fmt.Errorf("expiry_date requires valuation_date")
	}
	valuation, err := utils.ParseDate(in.ValuationDate)
	if err != nil {
		return 0, fmt.Errorf("invalid valuation_date: %v", err)
	}
	expiry, err := utils.ParseDate(in.ExpiryDate)
	if err != nil {
		return 0, fmt.Errorf("invalid expiry_date: %v", err)
	}
	dc, err := utils.ParseDayCount(in.DayCount)
	if err != nil {
		return 0, err
	}
	cal := calendar.CalendarID(strings.ToUpper(strings.TrimSpace(in.Calendar)))
	return instrument.MaturityFromDates(valuation, expiry, cal, dc)
}
