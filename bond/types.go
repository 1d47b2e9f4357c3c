package bond

// Cashflow is a single payment at Time years from valuation.
type Cashflow struct {
	Time      float64
	Coupon    float64
	Principal float64
}

func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}

// DiscountFunc returns the discount factor for a time in years.
type DiscountFunc func(t float64) float64
