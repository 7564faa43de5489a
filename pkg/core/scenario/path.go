package scenario

import (
	"math"

	"retail_valuation/pkg/core/calc"
)

// PathYears is the explicit forecast horizon (years N+1..N+5).
const PathYears = 5

// SeriesParams configure the store-driven revenue path. Base-year revenue is
// split into a store-linked share and a residual, which then grow
// independently.
type SeriesParams struct {
	BaseRevenue   float64 `json:"base_revenue"`     // bn, year N
	RetailShare   float64 `json:"retail_share"`     // store-linked fraction, clamped [0,1]
	OtherGrowth   float64 `json:"other_growth"`     // residual CAGR, clamped [-5%,20%]
	StartStores   float64 `json:"start_stores"`     // year N store count
	NetNewPerYear float64 `json:"net_new_per_year"` // assumed openings per year
	Ramp          float64 `json:"ramp"`             // clamped [0,1]
	SSSG          float64 `json:"sssg"`             // absolute, clamped [-5%,20%]
}

// PathYear is one year of the store-driven revenue path.
type PathYear struct {
	Year          int     `json:"year"` // 1..5 relative to base year
	StoresStart   float64 `json:"stores_start"`
	StoresEnd     float64 `json:"stores_end"`
	AvgStoresEff  float64 `json:"avg_stores_eff"`
	RetailRevenue float64 `json:"retail_revenue"` // bn
	OtherRevenue  float64 `json:"other_revenue"`  // bn
	Total         float64 `json:"total"`          // bn
	YoY           float64 `json:"yoy"`
}

// RevenuePath is the 5-year path plus a diagnostic implied CAGR. The CAGR is
// reported for display only and never fed back into the model.
type RevenuePath struct {
	Years       []PathYear `json:"years"`
	ImpliedCAGR float64    `json:"implied_cagr"`
}

// Totals returns the 5 yearly revenue totals in order, for the DCF engine.
func (p RevenuePath) Totals() []float64 {
	out := make([]float64, len(p.Years))
	for i, y := range p.Years {
		out[i] = y.Total
	}
	return out
}

// BuildStoreRevenuePath produces the 5-year revenue path.
//
// Mature revenue per effective store is derived once from the base year and
// held fixed for the whole horizon; per-store productivity (excluding SSSG)
// is assumed not to drift. SSSG compounds from the base year, so it behaves
// as a constant annual same-store growth rate over t years.
func BuildStoreRevenuePath(p SeriesParams) RevenuePath {
	retailShare := calc.ClampRetailShare(p.RetailShare)
	otherShare := 1 - retailShare
	sssg := calc.ClampSSSG(p.SSSG)
	otherGrowth := calc.ClampOtherGrowth(p.OtherGrowth)
	ramp := calc.ClampRamp(p.Ramp)

	baseEff := math.Max(calc.StoreEpsilon,
		EffectiveAvgStores(p.StartStores, p.NetNewPerYear, p.Ramp))
	maturePerStore := p.BaseRevenue * retailShare / baseEff
	baseOther := p.BaseRevenue * otherShare

	path := RevenuePath{Years: make([]PathYear, 0, PathYears)}
	prev := p.BaseRevenue
	for t := 1; t <= PathYears; t++ {
		storesStart := p.StartStores + p.NetNewPerYear*float64(t-1)
		storesEnd := storesStart + p.NetNewPerYear

		// Consecutive years compound on the running year-start count; this
		// deliberately does not reuse EffectiveAvgStores (no max(0,...) floor,
		// no fixed baseline).
		avgEff := storesStart + (p.NetNewPerYear/2)*ramp

		retail := maturePerStore * avgEff * math.Pow(1+sssg, float64(t))
		other := baseOther * math.Pow(1+otherGrowth, float64(t))
		total := retail + other

		yoy := 0.0
		if prev > 0 {
			yoy = total/prev - 1
		}

		path.Years = append(path.Years, PathYear{
			Year:          t,
			StoresStart:   storesStart,
			StoresEnd:     storesEnd,
			AvgStoresEff:  avgEff,
			RetailRevenue: retail,
			OtherRevenue:  other,
			Total:         total,
			YoY:           yoy,
		})
		prev = total
	}

	if p.BaseRevenue > 0 {
		final := path.Years[PathYears-1].Total
		if final > 0 {
			path.ImpliedCAGR = math.Pow(final/p.BaseRevenue, 1.0/float64(PathYears)) - 1
		}
	}
	return path
}
