package instrument

// Instrument is the closed set of tradable claims the engines understand:
// *VanillaOption, *AsianOption, *EquityFuture, *ZeroCouponBond and *FixedRateBond.
type Instrument interface {
	instrument()
}

// VanillaOption is a European or American option on the terminal spot.
type VanillaOption struct {
	Payoff   Payoff
	Exercise *Exercise
	Notional float64
}

// AsianOption pays on the average of spots monitored up to maturity.
type AsianOption struct {
	Payoff   Payoff
	Exercise *Exercise
	Average  AverageType
	Notional float64
}

// EquityFuture is a forward-style contract struck at Strike.
type EquityFuture struct {
	Strike   float64
	Maturity float64
	Notional float64
}

type ZeroCouponBond struct {
	Maturity float64
	Notional float64
}

// FixedRateBond pays CouponRate*Notional/Frequency per period plus Notional at Maturity.
type FixedRateBond struct {
	CouponRate float64
	Maturity   float64
	Frequency  int
	Notional   float64
}

func (*VanillaOption) instrument()  {}
func (*AsianOption) instrument()    {}
func (*EquityFuture) instrument()   {}
func (*ZeroCouponBond) instrument() {}
func (*FixedRateBond) instrument()  {}

// Name is a short label used in diagnostics and logs.
func Name(inst Instrument) string {
	switch inst.(type) {
	case *VanillaOption:
		return "VanillaOption"
	case *AsianOption:
		return "AsianOption"
	case *EquityFuture:
		return "EquityFuture"
	case *ZeroCouponBond:
		return "ZeroCouponBond"
	case *FixedRateBond:
		return "FixedRateBond"
	default:
		return "unknown"
	}
}
