// Package pipeline composes one full valuation run: baseline metrics, the
// Bear/Base/Bull KPI scenarios, the store-driven revenue path, the FCFF DCF
// and the blended fair value. Everything below Run is pure; the only
// impurities are the run ID and timestamp stamped on the report.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"retail_valuation/pkg/core/calc"
	"retail_valuation/pkg/core/scenario"
	"retail_valuation/pkg/core/valuation"
	"retail_valuation/pkg/models"
)

// Scenario names, in presentation order.
const (
	ScenarioBear = "Bear"
	ScenarioBase = "Base"
	ScenarioBull = "Bull"
)

// ScenarioOrder is the fixed order scenario rows are reported in.
var ScenarioOrder = []string{ScenarioBear, ScenarioBase, ScenarioBull}

// MethodConfig is the raw weight and toggle for one valuation method.
type MethodConfig struct {
	Weight  float64 `json:"weight"` // raw, 0-100
	Enabled bool    `json:"enabled"`
}

// DCFConfig carries the DCF rate assumptions. Base revenue, net cash and
// shares are filled in by the pipeline from the other inputs.
type DCFConfig struct {
	BaseRevenue    float64 `json:"base_revenue"` // bn, year N
	FallbackCAGR   float64 `json:"fallback_cagr"`
	EBITMargin     float64 `json:"ebit_margin"`
	TaxRate        float64 `json:"tax_rate"`
	ROC            float64 `json:"roc"`
	WACC           float64 `json:"wacc"`
	TerminalGrowth float64 `json:"terminal_growth"`
}

// ValuationRequest is everything one run needs. Every numeric field may
// arrive as an arbitrary slider value; the engine clamps rather than
// rejects.
type ValuationRequest struct {
	Financials models.CompanyFinancials `json:"financials"`

	// P/E and P/B target multiples.
	TargetPE float64 `json:"target_pe"`
	TargetPB float64 `json:"target_pb"`

	// Store KPI driver. BaseKPI anchors the plan; Scenarios is keyed by
	// Bear/Base/Bull.
	UseKPIDriver bool                          `json:"use_kpi_driver"`
	BaseKPI      scenario.KPIInputs            `json:"base_kpi"`
	Scenarios    map[string]scenario.KPIInputs `json:"scenarios"`

	// DCF inputs. When UseStoreDCF is set the revenue path comes from
	// StoreSeries instead of the fallback CAGR.
	DCF         DCFConfig            `json:"dcf"`
	UseStoreDCF bool                 `json:"use_store_dcf"`
	StoreSeries scenario.SeriesParams `json:"store_series"`

	// Method weights for the blended fair value.
	WeightPE  MethodConfig `json:"weight_pe"`
	WeightDCF MethodConfig `json:"weight_dcf"`
	WeightPB  MethodConfig `json:"weight_pb"`
}

// ScenarioRow is one scenario's record as consumed by the presentation
// layer.
type ScenarioRow struct {
	Name string `json:"name"`
	scenario.Result
	TargetPrice    float64 `json:"target_price"` // VND/share, EPS × target P/E
	Upside         float64 `json:"upside"`       // vs. current price
	RequiredQ4NPAT float64 `json:"required_q4_npat"` // bn, to hit the scenario
	SSSGDelta      float64 `json:"sssg_delta"`
	NetNewStores   float64 `json:"net_new_stores"`
}

// ValuationReport is the full output of one run.
type ValuationReport struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	PlanEPS           float64 `json:"plan_eps"`   // VND/share
	ForwardPE         float64 `json:"forward_pe"` // at the current price
	NetCash           float64 `json:"net_cash"`   // bn
	BookValuePerShare float64 `json:"book_value_per_share"` // VND/share

	Scenarios []ScenarioRow `json:"scenarios"` // ordered Bear, Base, Bull

	RevenuePath   *scenario.RevenuePath `json:"revenue_path,omitempty"` // when store DCF is on
	DCF           valuation.DCFResult   `json:"dcf"`
	EffectiveWACC float64               `json:"effective_wacc"` // after the spread guard

	Blend valuation.BlendedValuation `json:"blend"`
}

// Run executes one valuation run. There is no error path: the engine is
// built from clamped arithmetic, so any input produces a finite report.
func Run(req ValuationRequest) ValuationReport {
	fin := req.Financials

	report := ValuationReport{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}

	// 1. Baseline metrics.
	report.PlanEPS = calc.PlanEPS(fin.PlanNPAT, fin.SharesOutstanding)
	report.ForwardPE = calc.ForwardPE(fin.CurrentPrice, report.PlanEPS)
	report.NetCash = calc.NetCash(fin.Cash, fin.HTMInvestments, fin.Borrowings)
	report.BookValuePerShare = calc.BookValuePerShare(fin.TotalEquity, fin.SharesOutstanding)

	// 2. Scenario fan-out: three independent records through the same pure
	// function, in fixed order.
	for _, name := range ScenarioOrder {
		kpi, ok := req.Scenarios[name]
		if !ok {
			continue
		}
		res := scenario.StoreDrivenScenario(fin.PlanRevenue, fin.PlanNPAT,
			fin.SharesOutstanding, req.BaseKPI, kpi)
		target := calc.PriceFromPE(res.EPS, req.TargetPE)
		report.Scenarios = append(report.Scenarios, ScenarioRow{
			Name:           name,
			Result:         res,
			TargetPrice:    target,
			Upside:         calc.Upside(target, fin.CurrentPrice),
			RequiredQ4NPAT: res.NPAT - fin.NPAT9M,
			SSSGDelta:      kpi.SSSGDelta,
			NetNewStores:   kpi.NetNewStores,
		})
	}

	// 3. Revenue model for the DCF.
	revModel := valuation.RevenueModel{Kind: valuation.RevenueModelCAGR}
	if req.UseStoreDCF {
		path := scenario.BuildStoreRevenuePath(req.StoreSeries)
		report.RevenuePath = &path
		revModel = valuation.RevenueModel{
			Kind: valuation.RevenueModelStorePath,
			Path: path.Totals(),
		}
	}

	// 4. DCF with the caller-side WACC spread guard, surfaced on the report.
	report.EffectiveWACC = calc.EffectiveWACC(req.DCF.WACC, req.DCF.TerminalGrowth)
	report.DCF = valuation.RunDCF(valuation.DCFAssumptions{
		BaseRevenue:    req.DCF.BaseRevenue,
		FallbackCAGR:   req.DCF.FallbackCAGR,
		Revenue:        revModel,
		EBITMargin:     req.DCF.EBITMargin,
		TaxRate:        req.DCF.TaxRate,
		ROC:            req.DCF.ROC,
		WACC:           report.EffectiveWACC,
		TerminalGrowth: req.DCF.TerminalGrowth,
		NetCash:        report.NetCash,
		Shares:         fin.SharesOutstanding,
	})

	// 5. Blend. The P/E leg uses the Base scenario's target price when the
	// KPI driver is on, otherwise plan EPS at the target multiple.
	peValue := calc.PriceFromPE(report.PlanEPS, req.TargetPE)
	if req.UseKPIDriver {
		for _, row := range report.Scenarios {
			if row.Name == ScenarioBase {
				peValue = row.TargetPrice
			}
		}
	}
	pbValue := report.BookValuePerShare * req.TargetPB

	report.Blend = valuation.BlendValuations(
		valuation.MethodWeight{Value: peValue, Weight: req.WeightPE.Weight, Enabled: req.WeightPE.Enabled},
		valuation.MethodWeight{Value: report.DCF.ValuePerShare, Weight: req.WeightDCF.Weight, Enabled: req.WeightDCF.Enabled},
		valuation.MethodWeight{Value: pbValue, Weight: req.WeightPB.Weight, Enabled: req.WeightPB.Enabled},
		fin.CurrentPrice,
	)

	return report
}
