// Package valuation implements the FCFF DCF engine and the blended
// fair-value combiner.
package valuation

import (
	"math"

	"retail_valuation/pkg/core/calc"
)

// HorizonYears is the explicit DCF forecast horizon.
const HorizonYears = 5

// minTerminalSpread floors WACC minus terminal growth in the terminal-value
// denominator, preventing a division blow-up when the caller skips the
// spread guard.
const minTerminalSpread = 0.001

// minROC floors return on capital in the reinvestment-rate identity.
const minROC = 1e-6

// RevenueModelKind selects how the 5-year revenue path is produced.
type RevenueModelKind string

const (
	// RevenueModelCAGR generates the path from base-year revenue and the
	// fallback CAGR.
	RevenueModelCAGR RevenueModelKind = "cagr"
	// RevenueModelStorePath uses an explicit 5-entry path, typically from
	// scenario.BuildStoreRevenuePath.
	RevenueModelStorePath RevenueModelKind = "store_path"
)

// RevenueModel is the explicit discriminated revenue input for the engine,
// a toggle passed as an argument, never read from ambient state.
type RevenueModel struct {
	Kind RevenueModelKind `json:"kind"`
	Path []float64        `json:"path,omitempty"` // exactly 5 entries for store_path
}

// DCFAssumptions hold everything the engine needs for one run.
type DCFAssumptions struct {
	BaseRevenue    float64      `json:"base_revenue"` // bn, year N
	FallbackCAGR   float64      `json:"fallback_cagr"`
	Revenue        RevenueModel `json:"revenue"`
	EBITMargin     float64      `json:"ebit_margin"`
	TaxRate        float64      `json:"tax_rate"`
	ROC            float64      `json:"roc"` // return on capital
	WACC           float64      `json:"wacc"`
	TerminalGrowth float64      `json:"terminal_growth"`
	NetCash        float64      `json:"net_cash"` // bn
	Shares         float64      `json:"shares"`
}

// DCFYear is one explicit-period row.
type DCFYear struct {
	Year             int     `json:"year"`    // 1..5 relative to base year
	Revenue          float64 `json:"revenue"` // bn
	Growth           float64 `json:"growth"`
	EBIT             float64 `json:"ebit"`  // bn
	NOPAT            float64 `json:"nopat"` // bn
	ReinvestmentRate float64 `json:"reinvestment_rate"`
	FCFF             float64 `json:"fcff"` // bn
	DiscountFactor   float64 `json:"discount_factor"`
	PresentValue     float64 `json:"present_value"` // bn
}

// DCFResult aggregates the explicit period, terminal value and per-share
// conversion.
type DCFResult struct {
	Years           []DCFYear `json:"years"`
	PVExplicit      float64   `json:"pv_explicit"`      // bn
	TerminalValue   float64   `json:"terminal_value"`   // bn, undiscounted
	PVTerminal      float64   `json:"pv_terminal"`      // bn
	EnterpriseValue float64   `json:"enterprise_value"` // bn
	EquityValue     float64   `json:"equity_value"`     // bn
	ValuePerShare   float64   `json:"value_per_share"`  // VND/share
}

// RunDCF converts a 5-year revenue path into firm and equity value via
// unlevered free cash flow.
//
// The reinvestment rate comes from the growth identity g = ROC × rr,
// inverted and clamped to [0, 0.95]. This links growth assumptions to cash
// retention without a separate capex/working-capital model.
//
// The WACC/terminal-growth spread guard belongs to the caller (see
// calc.EffectiveWACC); the engine itself only floors the terminal
// denominator at minTerminalSpread.
func RunDCF(a DCFAssumptions) DCFResult {
	revenues := a.Revenue.Path
	if a.Revenue.Kind != RevenueModelStorePath || len(revenues) != HorizonYears {
		revenues = make([]float64, HorizonYears)
		prev := a.BaseRevenue
		for t := 0; t < HorizonYears; t++ {
			prev *= 1 + a.FallbackCAGR
			revenues[t] = prev
		}
	}

	res := DCFResult{Years: make([]DCFYear, 0, HorizonYears)}
	prev := a.BaseRevenue
	for t := 1; t <= HorizonYears; t++ {
		rev := revenues[t-1]

		// Growth off the prior year, falling back to the supplied CAGR when
		// the prior revenue is non-positive (applies in both revenue modes).
		growth := a.FallbackCAGR
		if prev > 0 {
			growth = rev/prev - 1
		}

		ebit := rev * a.EBITMargin
		nopat := ebit * (1 - a.TaxRate)
		rr := calc.ClampReinvestmentRate(growth / math.Max(a.ROC, minROC))
		fcff := nopat * (1 - rr)
		df := 1 / math.Pow(1+a.WACC, float64(t))
		pv := fcff * df

		res.Years = append(res.Years, DCFYear{
			Year:             t,
			Revenue:          rev,
			Growth:           growth,
			EBIT:             ebit,
			NOPAT:            nopat,
			ReinvestmentRate: rr,
			FCFF:             fcff,
			DiscountFactor:   df,
			PresentValue:     pv,
		})
		res.PVExplicit += pv
		prev = rev
	}

	// Terminal year (t=6): grow final-year revenue at the terminal rate and
	// apply the same margin/tax/reinvestment treatment.
	termRev := revenues[HorizonYears-1] * (1 + a.TerminalGrowth)
	termNOPAT := termRev * a.EBITMargin * (1 - a.TaxRate)
	termRR := calc.ClampReinvestmentRate(a.TerminalGrowth / math.Max(a.ROC, minROC))
	termFCFF := termNOPAT * (1 - termRR)

	spread := math.Max(minTerminalSpread, a.WACC-a.TerminalGrowth)
	res.TerminalValue = termFCFF / spread
	res.PVTerminal = res.TerminalValue / math.Pow(1+a.WACC, HorizonYears)

	res.EnterpriseValue = res.PVExplicit + res.PVTerminal
	res.EquityValue = res.EnterpriseValue + a.NetCash
	res.ValuePerShare = calc.PerShare(res.EquityValue, a.Shares)
	return res
}
