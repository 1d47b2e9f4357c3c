package pricing

// Greeks holds optional sensitivities and their optional standard errors.
//
// A nil field means the engine did not produce that quantity. Only Monte
// Carlo engines fill the *StdError fields.
type Greeks struct {
	Delta *float64 `json:"delta,omitempty"`
	Gamma *float64 `json:"gamma,omitempty"`
	Vega  *float64 `json:"vega,omitempty"`
	Theta *float64 `json:"theta,omitempty"`
	Rho   *float64 `json:"rho,omitempty"`

	DeltaStdError *float64 `json:"delta_std_error,omitempty"`
	GammaStdError *float64 `json:"gamma_std_error,omitempty"`
	VegaStdError  *float64 `json:"vega_std_error,omitempty"`
	ThetaStdError *float64 `json:"theta_std_error,omitempty"`
	RhoStdError   *float64 `json:"rho_std_error,omitempty"`
}

// Result is the outcome of a single pricing call.
type Result struct {
	NPV         float64 `json:"npv"`
	Greeks      Greeks  `json:"greeks"`
	Diagnostics string  `json:"diagnostics"`
	// MCStdError is the standard error of NPV; zero for deterministic engines.
	MCStdError float64 `json:"mc_std_error"`
}

// Float returns a pointer to v, for filling optional Greeks.
func Float(v float64) *float64 {
	return &v
}

// Value dereferences an optional Greek, returning ok=false when absent.
func Value(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Scale multiplies every present sensitivity and standard error by k.
func (g Greeks) Scale(k float64) Greeks {
	mul := func(p *float64) *float64 {
		if p == nil {
			return nil
		}
		return Float(*p * k)
	}
	return Greeks{
		Delta:         mul(g.Delta),
		Gamma:         mul(g.Gamma),
		Vega:          mul(g.Vega),
		Theta:         mul(g.Theta),
		Rho:           mul(g.Rho),
		DeltaStdError: mul(g.DeltaStdError),
		GammaStdError: mul(g.GammaStdError),
		VegaStdError:  mul(g.VegaStdError),
		ThetaStdError: mul(g.ThetaStdError),
		RhoStdError:   mul(g.RhoStdError),
	}
}
