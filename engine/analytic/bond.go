package analytic

import (
	"math"

	"github.com/meenmo/optlib/bond"
	"github.com/meenmo/optlib/engine"
	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/pricing"
)

// BondEngine discounts bond cashflows on the market curve, or at the flat
// model rate when the context carries no curve.
type BondEngine struct {
	ctx engine.Context
}

func NewBondEngine(ctx engine.Context) *BondEngine {
	return &BondEngine{ctx: ctx}
}

func (e *BondEngine) Name() string { return "AnalyticBondEngine" }

func (e *BondEngine) Price(inst instrument.Instrument) (pricing.Result, error) {
	switch b := inst.(type) {
	case *instrument.ZeroCouponBond:
		if err := e.validate(b.Maturity, b.Notional); err != nil {
			return pricing.Result{}, err
		}
		return e.discount(bond.ZeroCouponSchedule(b.Notional, b.Maturity), "Flat-rate analytic zero coupon bond")
	case *instrument.FixedRateBond:
		if err := e.validate(b.Maturity, b.Notional); err != nil {
			return pricing.Result{}, err
		}
		if !(b.CouponRate >= 0) {
			return pricing.Result{}, pricing.InvalidInput(e.Name(), "coupon rate must be >= 0, got %v", b.CouponRate)
		}
		if b.Frequency < 1 {
			return pricing.Result{}, pricing.InvalidInput(e.Name(), "coupon frequency must be >= 1, got %d", b.Frequency)
		}
		cfs, err := bond.FixedRateSchedule(bond.ScheduleInput{
			Notional:   b.Notional,
			CouponRate: b.CouponRate,
			Maturity:   b.Maturity,
			Frequency:  b.Frequency,
		})
		if err != nil {
			return pricing.Result{}, pricing.InvalidInput(e.Name(), "%v", err)
		}
		return e.discount(cfs, "Flat-rate analytic fixed-rate bond")
	default:
		return pricing.Result{}, engine.Unsupported(e, inst)
	}
}

func (e *BondEngine) validate(maturity, notional float64) error {
	if !(maturity > 0) {
		return pricing.InvalidInput(e.Name(), "maturity must be > 0, got %v", maturity)
	}
	if notional == 0 || math.IsNaN(notional) {
		return pricing.InvalidInput(e.Name(), "notional must be non-zero")
	}
	return nil
}

func (e *BondEngine) discount(cfs []bond.Cashflow, diag string) (pricing.Result, error) {
	m, err := e.ctx.RatesModel(e.Name())
	if err != nil {
		return pricing.Result{}, err
	}
	r := m.Rate()
	npv := bond.PresentValue(cfs, func(t float64) float64 { return e.ctx.Discount(r, t) })

	res := pricing.Result{NPV: npv, Diagnostics: diag}
	if e.ctx.Market.Discount == nil {
		// Parallel shift of the flat rate: dPV/dr = -sum t*CF*DF.
		rho := 0.0
		for _, cf := range cfs {
			rho -= cf.Time * cf.Amount() * math.Exp(-r*cf.Time)
		}
		res.Greeks.Rho = pricing.Float(rho)
	}
	return res, nil
}
