package main

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/meenmo/optlib/bond"
	"github.com/meenmo/optlib/pricing"
	"github.com/meenmo/optlib/registry"
)

// taskOutput is one priced request. Numbers are rounded to the configured
// precision; absent Greeks are omitted.
type taskOutput struct {
	TaskID      string                     `json:"task_id"`
	Key         string                     `json:"key,omitempty"`
	Maturity    *decimal.Decimal           `json:"maturity,omitempty"`
	NPV         *decimal.Decimal           `json:"npv,omitempty"`
	StdError    *decimal.Decimal           `json:"std_error,omitempty"`
	Greeks      map[string]decimal.Decimal `json:"greeks,omitempty"`
	Yield       *decimal.Decimal           `json:"yield,omitempty"`
	Diagnostics string                     `json:"diagnostics,omitempty"`
	Error       string                     `json:"error,omitempty"`
}

type formatter struct {
	precision int32
}

func (f formatter) number(v float64) *decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	d := decimal.NewFromFloat(v).Round(f.precision)
	return &d
}

func (f formatter) greeks(g pricing.Greeks) map[string]decimal.Decimal {
	fields := []struct {
		name string
		v    *float64
	}{
		{"delta", g.Delta},
		{"gamma", g.Gamma},
		{"vega", g.Vega},
		{"theta", g.Theta},
		{"rho", g.Rho},
		{"delta_std_error", g.DeltaStdError},
		{"gamma_std_error", g.GammaStdError},
		{"vega_std_error", g.VegaStdError},
		{"theta_std_error", g.ThetaStdError},
		{"rho_std_error", g.RhoStdError},
	}
	out := make(map[string]decimal.Decimal)
	for _, fld := range fields {
		v, ok := pricing.Value(fld.v)
		if !ok {
			continue
		}
		if d := f.number(v); d != nil {
			out[fld.name] = *d
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (f formatter) result(taskID string, req registry.Request, res pricing.Result) taskOutput {
	out := taskOutput{
		TaskID:      taskID,
		Key:         req.Key().String(),
		NPV:         f.number(res.NPV),
		Greeks:      f.greeks(res.Greeks),
		Diagnostics: res.Diagnostics,
	}
	if m, ok := maturityOf(req.Input); ok {
		out.Maturity = f.number(m)
	}
	if res.MCStdError > 0 {
		out.StdError = f.number(res.MCStdError)
	}
	if y, ok := bondYield(req.Input, res.NPV); ok {
		out.Yield = f.number(y)
	}
	return out
}

func maturityOf(in registry.Input) (float64, bool) {
	switch v := in.(type) {
	case registry.VanillaInput:
		return v.Maturity, true
	case registry.AmericanVanillaInput:
		return v.Maturity, true
	case registry.AsianInput:
		return v.Maturity, true
	case registry.FutureInput:
		return v.Maturity, true
	case registry.ZeroCouponBondInput:
		return v.Maturity, true
	case registry.FixedRateBondInput:
		return v.Maturity, true
	}
	return 0, false
}

// bondYield solves the continuously compounded yield that reprices the
// bond's cashflows at npv. Short positions have no yield.
func bondYield(in registry.Input, npv float64) (float64, bool) {
	var cfs []bond.Cashflow
	switch v := in.(type) {
	case registry.ZeroCouponBondInput:
		if v.Notional <= 0 {
			return 0, false
		}
		cfs = bond.ZeroCouponSchedule(v.Notional, v.Maturity)
	case registry.FixedRateBondInput:
		if v.Notional <= 0 {
			return 0, false
		}
		var err error
		cfs, err = bond.FixedRateSchedule(bond.ScheduleInput{
			Notional:   v.Notional,
			CouponRate: v.CouponRate,
			Maturity:   v.Maturity,
			Frequency:  v.Frequency,
		})
		if err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	res, err := bond.ComputeYield(bond.YieldInput{Price: npv, Cashflows: cfs})
	if err != nil {
		return 0, false
	}
	return res.Yield, true
}
