// Command valuation runs one valuation from the config files and prints the
// report as tables, or as JSON for piping.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"retail_valuation/pkg/core/assumption"
	"retail_valuation/pkg/core/pipeline"
)

var (
	flagAssumptions string
	flagScenarios   string
	flagJSON        bool
)

func main() {
	root := &cobra.Command{
		Use:   "valuation",
		Short: "Run a blended P/E + DCF + P/B valuation from the config files",
		RunE: func(cmd *cobra.Command, args []string) error {
			godotenv.Load()

			req, err := assumption.LoadRequest(flagAssumptions, flagScenarios)
			if err != nil {
				return err
			}
			report := pipeline.Run(req)

			if flagJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			printReport(report, req)
			return nil
		},
	}

	root.Flags().StringVar(&flagAssumptions, "assumptions", "config/assumptions.yaml", "assumptions YAML file")
	root.Flags().StringVar(&flagScenarios, "scenarios", "config/scenarios.hjson", "scenario presets Hjson file")
	root.Flags().BoolVar(&flagJSON, "json", false, "print the raw report as JSON")

	if err := root.Execute(); err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}
}

func printReport(report pipeline.ValuationReport, req pipeline.ValuationRequest) {
	fmt.Printf("Run %s at %s\n\n", report.RunID, report.GeneratedAt.Format("2006-01-02 15:04:05"))

	fmt.Printf("Plan EPS:        %10.0f VND\n", report.PlanEPS)
	fmt.Printf("Forward P/E:     %10.2f x\n", report.ForwardPE)
	fmt.Printf("Net cash:        %10.1f bn\n", report.NetCash)
	fmt.Printf("Book value:      %10.0f VND/share\n\n", report.BookValuePerShare)

	printScenarioTable(report)
	printDCFTable(report)
	printBlendTable(report, req)
}

func printScenarioTable(report pipeline.ValuationReport) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Store KPI Scenarios")
	t.AppendHeader(table.Row{"Scenario", "Net New", "SSSG Δ", "NPAT (bn)", "EPS", "vs Plan", "Target", "Upside", "Q4 Req (bn)"})
	for _, row := range report.Scenarios {
		t.AppendRow(table.Row{
			row.Name,
			fmt.Sprintf("%.0f", row.NetNewStores),
			fmt.Sprintf("%+.1f%%", row.SSSGDelta*100),
			fmt.Sprintf("%.1f", row.NPAT),
			fmt.Sprintf("%.0f", row.EPS),
			fmt.Sprintf("%+.1f%%", row.EPSVsPlan*100),
			fmt.Sprintf("%.0f", row.TargetPrice),
			fmt.Sprintf("%+.1f%%", row.Upside*100),
			fmt.Sprintf("%.1f", row.RequiredQ4NPAT),
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	fmt.Println()
}

func printDCFTable(report pipeline.ValuationReport) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("DCF (WACC %.2f%%)", report.EffectiveWACC*100))
	t.AppendHeader(table.Row{"Year", "Revenue (bn)", "Growth", "NOPAT (bn)", "FCFF (bn)", "PV (bn)"})
	for _, y := range report.DCF.Years {
		t.AppendRow(table.Row{
			y.Year,
			fmt.Sprintf("%.1f", y.Revenue),
			fmt.Sprintf("%+.1f%%", y.Growth*100),
			fmt.Sprintf("%.1f", y.NOPAT),
			fmt.Sprintf("%.1f", y.FCFF),
			fmt.Sprintf("%.1f", y.PresentValue),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "PV terminal", fmt.Sprintf("%.1f", report.DCF.PVTerminal)})
	t.AppendFooter(table.Row{"", "", "", "", "Value/share", fmt.Sprintf("%.0f", report.DCF.ValuePerShare)})
	t.SetStyle(table.StyleLight)
	t.Render()
	fmt.Println()
}

func printBlendTable(report pipeline.ValuationReport, req pipeline.ValuationRequest) {
	b := report.Blend

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle("Blended Fair Value")
	t.AppendHeader(table.Row{"Method", "Value (VND)", "Weight"})
	t.AppendRow(table.Row{"P/E", fmt.Sprintf("%.0f", b.PEValue), fmt.Sprintf("%.0f%%", b.PEWeight*100)})
	t.AppendRow(table.Row{"DCF", fmt.Sprintf("%.0f", b.DCFValue), fmt.Sprintf("%.0f%%", b.DCFWeight*100)})
	t.AppendRow(table.Row{"P/B", fmt.Sprintf("%.0f", b.PBValue), fmt.Sprintf("%.0f%%", b.PBWeight*100)})
	t.AppendFooter(table.Row{"Blended", fmt.Sprintf("%.0f", b.Value), fmt.Sprintf("%+.1f%% vs %.0f", b.Upside*100, req.Financials.CurrentPrice)})
	t.SetStyle(table.StyleLight)
	t.Render()
	fmt.Println()
}
