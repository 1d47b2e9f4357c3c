package main

import (
	"errors"
	"fmt"

	"github.com/meenmo/optlib/instrument"
	"github.com/meenmo/optlib/pricing"
	"github.com/meenmo/optlib/registry"
	"github.com/meenmo/optlib/utils"
)

func main() {
	reg := registry.New(registry.Options{})
	mkt := registry.Market{Spot: 100, Rate: 0.05, Dividend: 0.02, Vol: 0.2}

	call := registry.VanillaInput{
		Market:   mkt,
		Strike:   100,
		Maturity: 1,
		IsCall:   true,
		MCKnobs:  registry.MCKnobs{Paths: 100000, Seed: 42, Antithetic: registry.Bool(true)},
	}
	fmt.Println("European call, S=100 K=100 T=1 r=5% q=2% vol=20%")
	for _, e := range []registry.EngineKind{
		registry.Analytic,
		registry.MonteCarlo,
		registry.BinomialTree,
		registry.TrinomialTree,
		registry.PDEFiniteDifference,
	} {
		show(reg, registry.Request{Instrument: registry.EquityVanillaOption, Model: registry.BlackScholes, Engine: e, Input: call})
	}

	put := registry.AmericanVanillaInput{Market: mkt, Strike: 100, Maturity: 1}
	fmt.Println("\nAmerican put")
	for _, e := range []registry.EngineKind{registry.BinomialTree, registry.TrinomialTree, registry.PDEFiniteDifference} {
		show(reg, registry.Request{Instrument: registry.EquityAmericanVanillaOption, Model: registry.BlackScholes, Engine: e, Input: put})
	}

	fmt.Println("\nAsian call")
	for _, avg := range []instrument.AverageType{instrument.Arithmetic, instrument.Geometric} {
		asian := registry.AsianInput{
			Market:   mkt,
			Strike:   100,
			Maturity: 1,
			IsCall:   true,
			Average:  avg,
			MCKnobs:  registry.MCKnobs{Paths: 20000, Seed: 42},
		}
		for _, e := range []registry.EngineKind{registry.Analytic, registry.MonteCarlo} {
			fmt.Printf("  %-10s ", avg)
			show(reg, registry.Request{Instrument: registry.EquityAsianOption, Model: registry.BlackScholes, Engine: e, Input: asian})
		}
	}

	fmt.Println("\nFuture and bonds")
	show(reg, registry.Request{
		Instrument: registry.EquityFuture, Model: registry.BlackScholes, Engine: registry.Analytic,
		Input: registry.FutureInput{Market: mkt, Strike: 100, Maturity: 1, Notional: 1},
	})
	zcb := registry.ZeroCouponBondInput{Maturity: 5, Rate: 0.03, Notional: 100}
	show(reg, registry.Request{Instrument: registry.ZeroCouponBond, Model: registry.FlatRate, Engine: registry.Analytic, Input: zcb})
	show(reg, registry.Request{
		Instrument: registry.FixedRateBond, Model: registry.FlatRate, Engine: registry.Analytic,
		Input: registry.FixedRateBondInput{ZeroCouponBondInput: zcb, CouponRate: 0.04, Frequency: 2},
	})
}

func show(reg *registry.Registry, req registry.Request) {
	res, err := reg.Price(req)
	if err != nil {
		kind := "error"
		if errors.Is(err, pricing.ErrUnsupportedInstrument) {
			kind = "unsupported"
		}
		fmt.Printf("%-22s %s: %v\n", req.Engine, kind, err)
		return
	}
	line := fmt.Sprintf("%-22s NPV %10.4f", req.Engine, utils.RoundTo(res.NPV, 4))
	if res.MCStdError > 0 {
		line += fmt.Sprintf(" +/- %.4f", res.MCStdError)
	}
	if d, ok := pricing.Value(res.Greeks.Delta); ok {
		line += fmt.Sprintf("  delta %.4f", d)
	}
	if r, ok := pricing.Value(res.Greeks.Rho); ok {
		line += fmt.Sprintf("  rho %.4f", r)
	}
	fmt.Printf("%s  [%s]\n", line, res.Diagnostics)
}
