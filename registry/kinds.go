package registry

import (
	"fmt"
	"strings"
)

type InstrumentKind int

const (
	EquityVanillaOption InstrumentKind = iota
	EquityAmericanVanillaOption
	EquityAsianOption
	EquityFuture
	ZeroCouponBond
	FixedRateBond
)

var instrumentNames = map[InstrumentKind]string{
	EquityVanillaOption:         "EquityVanillaOption",
	EquityAmericanVanillaOption: "EquityAmericanVanillaOption",
	EquityAsianOption:           "EquityAsianOption",
	EquityFuture:                "EquityFuture",
	ZeroCouponBond:              "ZeroCouponBond",
	FixedRateBond:               "FixedRateBond",
}

func (k InstrumentKind) String() string { return kindName(instrumentNames, k) }

type ModelKind int

const (
	BlackScholes ModelKind = iota
	FlatRate
)

var modelNames = map[ModelKind]string{
	BlackScholes: "BlackScholes",
	FlatRate:     "FlatRate",
}

func (k ModelKind) String() string { return kindName(modelNames, k) }

type EngineKind int

const (
	Analytic EngineKind = iota
	MonteCarlo
	BinomialTree
	TrinomialTree
	PDEFiniteDifference
)

var engineNames = map[EngineKind]string{
	Analytic:            "Analytic",
	MonteCarlo:          "MonteCarlo",
	BinomialTree:        "BinomialTree",
	TrinomialTree:       "TrinomialTree",
	PDEFiniteDifference: "PDEFiniteDifference",
}

func (k EngineKind) String() string { return kindName(engineNames, k) }

// ParseInstrumentKind accepts the kind name in any case, with or without
// underscores ("EquityVanillaOption", "equity_vanilla_option").
func ParseInstrumentKind(s string) (InstrumentKind, error) {
	return parseKind(instrumentNames, "instrument", s)
}

func ParseModelKind(s string) (ModelKind, error) {
	return parseKind(modelNames, "model", s)
}

// ParseEngineKind also accepts the short aliases "mc", "binomial",
// "trinomial" and "pde".
func ParseEngineKind(s string) (EngineKind, error) {
	switch normalize(s) {
	case "mc":
		return MonteCarlo, nil
	case "binomial":
		return BinomialTree, nil
	case "trinomial":
		return TrinomialTree, nil
	case "pde", "cranknicolson":
		return PDEFiniteDifference, nil
	}
	return parseKind(engineNames, "engine", s)
}

func kindName[K ~int](names map[K]string, k K) string {
	if n, ok := names[k]; ok {
		return n
	}
	return fmt.Sprintf("Unknown(%d)", int(k))
}

func parseKind[K ~int](names map[K]string, what, s string) (K, error) {
	want := normalize(s)
	for k, n := range names {
		if normalize(n) == want {
			return k, nil
		}
	}
	var zero K
	return zero, fmt.Errorf("unknown %s kind %q", what, s)
}

func normalize(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", ""))
}
