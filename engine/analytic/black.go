// Package analytic holds the closed-form engines: Black-Scholes European
// vanilla, arithmetic (Turnbull-Wakeman) and geometric Asian, equity future
// by cost of carry, and bonds.
package analytic

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/meenmo/optlib/instrument"
)

// minStdDev is the total standard deviation below which the option is
// treated as deterministic.
const minStdDev = 1e-14

func normCDF(x float64) float64 { return distuv.UnitNormal.CDF(x) }
func normPDF(x float64) float64 { return distuv.UnitNormal.Prob(x) }

// blackTerms are the pieces of the Black formula shared by price and Greeks.
type blackTerms struct {
	degenerate bool
	d1, d2     float64
	// nd1 is N(d1) for calls and N(d1)-1 for puts, the forward delta.
	nd1 float64
	// nd2 is N(d2) for calls and -N(-d2) for puts.
	nd2 float64
	pdf float64
	// undiscounted is the forward option value.
	undiscounted float64
}

// black evaluates the undiscounted Black formula on forward f, strike k and
// total standard deviation sd. When sd collapses the value is the intrinsic
// value of the forward and the density terms are zero.
func black(t instrument.OptionType, f, k, sd float64) blackTerms {
	if !(sd > minStdDev) || f <= 0 {
		bt := blackTerms{degenerate: true, undiscounted: instrument.Intrinsic(t, f, k)}
		itm := (t == instrument.Call && f > k) || (t == instrument.Put && f < k)
		if itm {
			if t == instrument.Call {
				bt.nd1, bt.nd2 = 1, 1
			} else {
				bt.nd1, bt.nd2 = -1, -1
			}
		}
		return bt
	}
	d1 := (math.Log(f/k) + 0.5*sd*sd) / sd
	d2 := d1 - sd
	bt := blackTerms{d1: d1, d2: d2, pdf: normPDF(d1)}
	if t == instrument.Call {
		bt.nd1 = normCDF(d1)
		bt.nd2 = normCDF(d2)
		bt.undiscounted = f*bt.nd1 - k*bt.nd2
	} else {
		bt.nd1 = normCDF(d1) - 1
		bt.nd2 = -normCDF(-d2)
		bt.undiscounted = k*normCDF(-d2) - f*normCDF(-d1)
	}
	return bt
}
