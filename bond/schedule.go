package bond

import (
	"fmt"
	"math"
)

// ScheduleInput describes a bullet bond paying CouponRate*Notional per year
// in Frequency equal instalments.
type ScheduleInput struct {
	Notional   float64
	CouponRate float64
	Maturity   float64
	Frequency  int
}

// FixedRateSchedule lays out n = max(1, round(Maturity*Frequency)) equal
// periods of length Maturity/n, a coupon at the end of each and the
// principal with the last one.
func FixedRateSchedule(in ScheduleInput) ([]Cashflow, error) {
	if !(in.Maturity > 0) {
		return nil, fmt.Errorf("FixedRateSchedule: maturity must be > 0")
	}
	if in.Frequency < 1 {
		return nil, fmt.Errorf("FixedRateSchedule: frequency must be >= 1")
	}

	n := max(1, int(math.Round(in.Maturity*float64(in.Frequency))))
	dt := in.Maturity / float64(n)
	coupon := in.Notional * in.CouponRate * dt

	cfs := make([]Cashflow, 0, n)
	for i := 1; i <= n; i++ {
		cf := Cashflow{Time: dt * float64(i), Coupon: coupon}
		if i == n {
			cf.Time = in.Maturity
			cf.Principal = in.Notional
		}
		cfs = append(cfs, cf)
	}
	return cfs, nil
}

// ZeroCouponSchedule is a single principal payment at maturity.
func ZeroCouponSchedule(notional, maturity float64) []Cashflow {
	return []Cashflow{{Time: maturity, Principal: notional}}
}

// PresentValue discounts every cashflow with df.
func PresentValue(cfs []Cashflow, df DiscountFunc) float64 {
	pv := 0.0
	for _, cf := range cfs {
		pv += cf.Amount() * df(cf.Time)
	}
	return pv
}
