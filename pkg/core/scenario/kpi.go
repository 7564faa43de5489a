// Package scenario converts operating assumptions (store-count trajectory,
// same-store-sales growth) into plan-anchored earnings scenarios and the
// store-driven 5-year revenue path the DCF engine consumes.
//
// The design intent is that KPI deltas only perturb the company's own plan,
// never replace it: revenue scales off plan revenue by the ratio of
// effective store counts, and NPAT scales with revenue through an
// operating-leverage exponent.
package scenario

import (
	"math"

	"retail_valuation/pkg/core/calc"
)

// KPIInputs describe one scenario's operating assumptions. One record per
// scenario (Bear/Base/Bull) plus one base record anchoring the plan.
// Scenarios are built in parallel with no shared state.
type KPIInputs struct {
	StartStores  float64 `json:"start_stores"`
	NetNewStores float64 `json:"net_new_stores"` // over the next 12 months
	Ramp         float64 `json:"ramp"`           // new-store productivity, clamped [0,1]
	SSSGDelta    float64 `json:"sssg_delta"`     // vs. plan, clamped [-5%,20%]
	OpLeverage   float64 `json:"op_leverage"`    // clamped [0.5,2.0]
}

// Result is the earnings/revenue outcome of one scenario.
type Result struct {
	NPAT         float64 `json:"npat"`           // bn
	EPS          float64 `json:"eps"`            // VND/share
	EPSVsPlan    float64 `json:"eps_vs_plan"`    // npat/planNPAT - 1
	Revenue      float64 `json:"revenue"`        // bn, implied
	EndStores    float64 `json:"end_stores"`     // end of the 12-month window
	AvgStoresEff float64 `json:"avg_stores_eff"` // effective average over the window
}

// EffectiveAvgStores is the average store count over a 12-month window,
// modeling stores opening evenly through the year: new stores contribute
// half a year, scaled by the productivity ramp.
//
// FORMULA: avg = max(0, start) + (netNew / 2) × clamp(ramp, 0, 1)
func EffectiveAvgStores(start, netNew, ramp float64) float64 {
	return math.Max(0, start) + (netNew/2)*calc.ClampRamp(ramp)
}

// StoreDrivenScenario derives a revenue/earnings scenario from the plan and
// a pair of KPI records. The base record anchors the plan: scenario revenue
// is plan revenue scaled by the effective-store ratio and the SSSG delta,
// and NPAT follows revenue through the operating-leverage exponent.
// Every degenerate input is clamped or zero-guarded; there is no error path.
func StoreDrivenScenario(planRevenue, planNPAT, shares float64, base, scen KPIInputs) Result {
	// 1. Effective store counts. The base denominator is floored at a small
	// positive epsilon; the scenario numerator only at zero.
	baseEff := math.Max(calc.StoreEpsilon,
		EffectiveAvgStores(base.StartStores, base.NetNewStores, base.Ramp))
	scenEff := math.Max(0,
		EffectiveAvgStores(scen.StartStores, scen.NetNewStores, scen.Ramp))

	// 2. Revenue scales off the plan, not from scratch.
	revenue := planRevenue * (scenEff / baseEff) * (1 + calc.ClampSSSG(scen.SSSGDelta))

	// 3. Revenue ratio vs. plan, floored at zero.
	revRatio := 0.0
	if planRevenue > 0 {
		revRatio = math.Max(0, revenue/planRevenue)
	}

	// 4. NPAT = plan NPAT × ratio^opLeverage. Exponent > 1 models fixed-cost
	// leverage; < 1 models cost flexibility.
	npat := planNPAT * math.Pow(revRatio, calc.ClampOpLeverage(scen.OpLeverage))

	// 5. Per-share and plan-relative figures.
	eps := calc.PerShare(npat, shares)
	epsVsPlan := 0.0
	if planNPAT > 0 {
		epsVsPlan = npat/planNPAT - 1
	}

	return Result{
		NPAT:         npat,
		EPS:          eps,
		EPSVsPlan:    epsVsPlan,
		Revenue:      revenue,
		EndStores:    math.Max(0, scen.StartStores+scen.NetNewStores),
		AvgStoresEff: scenEff,
	}
}
