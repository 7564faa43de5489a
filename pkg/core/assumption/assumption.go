// Package assumption loads the default valuation inputs: company financials
// and model assumptions from YAML, Bear/Base/Bull KPI presets from Hjson.
// The presets file is human-edited, so it is parsed leniently (comments,
// unquoted keys, optional commas).
package assumption

import (
	"fmt"
	"os"

	hjson "github.com/hjson/hjson-go/v4"
	"gopkg.in/yaml.v2"

	"retail_valuation/pkg/core/pipeline"
	"retail_valuation/pkg/core/scenario"
	"retail_valuation/pkg/models"
)

// financialsYAML mirrors models.CompanyFinancials for the YAML file.
type financialsYAML struct {
	CurrentPrice      float64 `yaml:"current_price"`
	SharesOutstanding float64 `yaml:"shares_outstanding"`
	PlanNPAT          float64 `yaml:"plan_npat"`
	PlanRevenue       float64 `yaml:"plan_revenue"`
	NPAT9M            float64 `yaml:"npat_9m"`
	Cash              float64 `yaml:"cash"`
	HTMInvestments    float64 `yaml:"htm_investments"`
	Borrowings        float64 `yaml:"borrowings"`
	TotalEquity       float64 `yaml:"total_equity"`
}

type dcfYAML struct {
	BaseRevenue    float64 `yaml:"base_revenue"`
	FallbackCAGR   float64 `yaml:"fallback_cagr"`
	EBITMargin     float64 `yaml:"ebit_margin"`
	TaxRate        float64 `yaml:"tax_rate"`
	ROC            float64 `yaml:"roc"`
	WACC           float64 `yaml:"wacc"`
	TerminalGrowth float64 `yaml:"terminal_growth"`
}

type methodYAML struct {
	Weight  float64 `yaml:"weight"`
	Enabled bool    `yaml:"enabled"`
}

type storeSeriesYAML struct {
	RetailShare   float64 `yaml:"retail_share"`
	OtherGrowth   float64 `yaml:"other_growth"`
	StartStores   float64 `yaml:"start_stores"`
	NetNewPerYear float64 `yaml:"net_new_per_year"`
	Ramp          float64 `yaml:"ramp"`
	SSSG          float64 `yaml:"sssg"`
}

// defaultsYAML is the root of config/assumptions.yaml.
type defaultsYAML struct {
	Financials  financialsYAML  `yaml:"financials"`
	TargetPE    float64         `yaml:"target_pe"`
	TargetPB    float64         `yaml:"target_pb"`
	UseKPI      bool            `yaml:"use_kpi_driver"`
	UseStoreDCF bool            `yaml:"use_store_dcf"`
	DCF         dcfYAML         `yaml:"dcf"`
	StoreSeries storeSeriesYAML `yaml:"store_series"`
	WeightPE    methodYAML      `yaml:"weight_pe"`
	WeightDCF   methodYAML      `yaml:"weight_dcf"`
	WeightPB    methodYAML      `yaml:"weight_pb"`
}

// presets is the root of config/scenarios.hjson. Hjson unmarshals through
// the json tags on scenario.KPIInputs.
type presets struct {
	Base      scenario.KPIInputs `json:"base"`
	Scenarios struct {
		Bear scenario.KPIInputs `json:"bear"`
		Base scenario.KPIInputs `json:"base"`
		Bull scenario.KPIInputs `json:"bull"`
	} `json:"scenarios"`
}

// LoadRequest builds a pipeline.ValuationRequest from the two config files.
// The store-series base revenue is tied to the DCF base year so the two
// sections cannot drift apart.
func LoadRequest(assumptionsPath, scenariosPath string) (pipeline.ValuationRequest, error) {
	var req pipeline.ValuationRequest

	rawYAML, err := os.ReadFile(assumptionsPath)
	if err != nil {
		return req, fmt.Errorf("failed to read assumptions: %w", err)
	}
	var d defaultsYAML
	if err := yaml.Unmarshal(rawYAML, &d); err != nil {
		return req, fmt.Errorf("failed to parse assumptions: %w", err)
	}

	rawHjson, err := os.ReadFile(scenariosPath)
	if err != nil {
		return req, fmt.Errorf("failed to read scenario presets: %w", err)
	}
	var p presets
	if err := hjson.Unmarshal(rawHjson, &p); err != nil {
		return req, fmt.Errorf("failed to parse scenario presets: %w", err)
	}

	req = pipeline.ValuationRequest{
		Financials: models.CompanyFinancials{
			CurrentPrice:      d.Financials.CurrentPrice,
			SharesOutstanding: d.Financials.SharesOutstanding,
			PlanNPAT:          d.Financials.PlanNPAT,
			PlanRevenue:       d.Financials.PlanRevenue,
			NPAT9M:            d.Financials.NPAT9M,
			Cash:              d.Financials.Cash,
			HTMInvestments:    d.Financials.HTMInvestments,
			Borrowings:        d.Financials.Borrowings,
			TotalEquity:       d.Financials.TotalEquity,
		},
		TargetPE:     d.TargetPE,
		TargetPB:     d.TargetPB,
		UseKPIDriver: d.UseKPI,
		BaseKPI:      p.Base,
		Scenarios: map[string]scenario.KPIInputs{
			pipeline.ScenarioBear: p.Scenarios.Bear,
			pipeline.ScenarioBase: p.Scenarios.Base,
			pipeline.ScenarioBull: p.Scenarios.Bull,
		},
		DCF: pipeline.DCFConfig{
			BaseRevenue:    d.DCF.BaseRevenue,
			FallbackCAGR:   d.DCF.FallbackCAGR,
			EBITMargin:     d.DCF.EBITMargin,
			TaxRate:        d.DCF.TaxRate,
			ROC:            d.DCF.ROC,
			WACC:           d.DCF.WACC,
			TerminalGrowth: d.DCF.TerminalGrowth,
		},
		UseStoreDCF: d.UseStoreDCF,
		StoreSeries: scenario.SeriesParams{
			BaseRevenue:   d.DCF.BaseRevenue,
			RetailShare:   d.StoreSeries.RetailShare,
			OtherGrowth:   d.StoreSeries.OtherGrowth,
			StartStores:   d.StoreSeries.StartStores,
			NetNewPerYear: d.StoreSeries.NetNewPerYear,
			Ramp:          d.StoreSeries.Ramp,
			SSSG:          d.StoreSeries.SSSG,
		},
		WeightPE:  pipeline.MethodConfig{Weight: d.WeightPE.Weight, Enabled: d.WeightPE.Enabled},
		WeightDCF: pipeline.MethodConfig{Weight: d.WeightDCF.Weight, Enabled: d.WeightDCF.Enabled},
		WeightPB:  pipeline.MethodConfig{Weight: d.WeightPB.Weight, Enabled: d.WeightPB.Enabled},
	}
	return req, nil
}
