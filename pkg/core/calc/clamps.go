// Package calc provides the deterministic baseline metrics and range clamps
// for the valuation engine. Every function is a pure mapping from arguments
// to a finite result; degenerate inputs are guarded, never rejected.
package calc

// =============================================================================
// CLAMP RANGES
// The presentation layer feeds sliders straight into the engine, so every
// rate-like assumption is pinned to its documented range before use. The
// constants live here so each range exists in exactly one place.
// =============================================================================

const (
	// RampMin/Max bound the new-store productivity ramp.
	RampMin = 0.0
	RampMax = 1.0

	// SSSGMin/Max bound same-store-sales growth (absolute or delta vs. plan).
	// The floor permits mild SSSG decline under stress scenarios while the
	// cap prevents pathological compounding.
	SSSGMin = -0.05
	SSSGMax = 0.20

	// OtherGrowthMin/Max bound the CAGR of non-store-linked revenue.
	OtherGrowthMin = -0.05
	OtherGrowthMax = 0.20

	// OpLeverageMin/Max bound the earnings sensitivity exponent.
	OpLeverageMin = 0.5
	OpLeverageMax = 2.0

	// ReinvestmentRateMin/Max keep FCFF non-negative and non-runaway.
	ReinvestmentRateMin = 0.0
	ReinvestmentRateMax = 0.95

	// RetailShareMin/Max bound the fraction of revenue linked to stores.
	RetailShareMin = 0.0
	RetailShareMax = 1.0

	// MinWACCSpread is the minimum WACC minus terminal-growth spread the
	// caller-side guard enforces before invoking the DCF engine.
	MinWACCSpread = 0.005

	// StoreEpsilon floors effective-store denominators so plan-relative
	// ratios stay finite when the base scenario has no stores.
	StoreEpsilon = 1e-6
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampRamp pins a ramp factor to [0, 1].
func ClampRamp(v float64) float64 { return clamp(v, RampMin, RampMax) }

// ClampSSSG pins a same-store-sales growth rate to [-5%, 20%].
func ClampSSSG(v float64) float64 { return clamp(v, SSSGMin, SSSGMax) }

// ClampOtherGrowth pins the non-store segment growth rate to [-5%, 20%].
func ClampOtherGrowth(v float64) float64 { return clamp(v, OtherGrowthMin, OtherGrowthMax) }

// ClampOpLeverage pins the operating-leverage exponent to [0.5, 2.0].
func ClampOpLeverage(v float64) float64 { return clamp(v, OpLeverageMin, OpLeverageMax) }

// ClampReinvestmentRate pins a reinvestment rate to [0, 0.95].
func ClampReinvestmentRate(v float64) float64 {
	return clamp(v, ReinvestmentRateMin, ReinvestmentRateMax)
}

// ClampRetailShare pins the store-linked revenue share to [0, 1].
func ClampRetailShare(v float64) float64 { return clamp(v, RetailShareMin, RetailShareMax) }

// EffectiveWACC raises the discount rate so it exceeds terminal growth by at
// least MinWACCSpread. This is the one guard that mutates an input, so the
// adjusted rate is returned for the caller to surface rather than hidden.
func EffectiveWACC(wacc, terminalGrowth float64) float64 {
	if wacc < terminalGrowth+MinWACCSpread {
		return terminalGrowth + MinWACCSpread
	}
	return wacc
}
