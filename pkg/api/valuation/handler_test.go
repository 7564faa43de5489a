package valuation

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"retail_valuation/pkg/core/pipeline"
)

const testAssumptions = `
financials:
  current_price: 95900
  shares_outstanding: 341149107
  plan_npat: 1959.65
  plan_revenue: 37000
  npat_9m: 1382.30
  cash: 4122.714
  htm_investments: 1020.17
  borrowings: 3341.542
  total_equity: 11500
target_pe: 17.0
target_pb: 4.0
use_kpi_driver: true
use_store_dcf: true
dcf:
  base_revenue: 31606.954
  fallback_cagr: 0.08
  ebit_margin: 0.07
  tax_rate: 0.20
  roc: 0.18
  wacc: 0.115
  terminal_growth: 0.03
store_series:
  retail_share: 0.80
  other_growth: 0.05
  start_stores: 400
  net_new_per_year: 30
  ramp: 0.50
  sssg: 0.04
weight_pe: {weight: 40, enabled: true}
weight_dcf: {weight: 40, enabled: true}
weight_pb: {weight: 20, enabled: true}
`

const testScenarios = `
{
  base: { start_stores: 400, net_new_stores: 25, ramp: 0.5, sssg_delta: 0, op_leverage: 1.2 }
  scenarios: {
    bear: { start_stores: 400, net_new_stores: 10, ramp: 0.4, sssg_delta: -0.03, op_leverage: 1.2 }
    base: { start_stores: 400, net_new_stores: 25, ramp: 0.5, sssg_delta: 0, op_leverage: 1.2 }
    bull: { start_stores: 400, net_new_stores: 45, ramp: 0.6, sssg_delta: 0.03, op_leverage: 1.2 }
  }
}
`

func initTestHandler(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	aPath := filepath.Join(dir, "assumptions.yaml")
	sPath := filepath.Join(dir, "scenarios.hjson")
	if err := os.WriteFile(aPath, []byte(testAssumptions), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(sPath, []byte(testScenarios), 0644); err != nil {
		t.Fatal(err)
	}
	InitHandler(aPath, sPath)
}

func TestHandleValuationReportDefaults(t *testing.T) {
	initTestHandler(t)

	req := httptest.NewRequest("POST", "/api/valuation/report", nil)
	rec := httptest.NewRecorder()
	HandleValuationReport(rec, req)

	if rec.Code != 200 {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report pipeline.ValuationReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("Response is not a report: %v", err)
	}
	if len(report.Scenarios) != 3 {
		t.Errorf("Expected 3 scenario rows, got %d", len(report.Scenarios))
	}
	if report.Blend.Value <= 0 {
		t.Errorf("Expected positive blended value, got %f", report.Blend.Value)
	}
	if report.RunID == "" {
		t.Error("Expected a run ID")
	}
}

func TestHandleValuationReportOverride(t *testing.T) {
	initTestHandler(t)

	// Override just the target P/E; everything else keeps its default.
	body := strings.NewReader(`{"target_pe": 20.0}`)
	req := httptest.NewRequest("POST", "/api/valuation/report", body)
	rec := httptest.NewRecorder()
	HandleValuationReport(rec, req)

	if rec.Code != 200 {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report pipeline.ValuationReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("Response is not a report: %v", err)
	}

	// Base scenario target price scales with the overridden multiple.
	var base, defaultBase float64
	for _, row := range report.Scenarios {
		if row.Name == pipeline.ScenarioBase {
			base = row.TargetPrice
		}
	}

	rec2 := httptest.NewRecorder()
	HandleValuationReport(rec2, httptest.NewRequest("POST", "/api/valuation/report", nil))
	var defaultReport pipeline.ValuationReport
	if err := json.Unmarshal(rec2.Body.Bytes(), &defaultReport); err != nil {
		t.Fatal(err)
	}
	for _, row := range defaultReport.Scenarios {
		if row.Name == pipeline.ScenarioBase {
			defaultBase = row.TargetPrice
		}
	}

	if base <= defaultBase {
		t.Errorf("Expected higher target price with P/E 20 (%f) than default 17 (%f)", base, defaultBase)
	}
}

func TestHandleValuationReportBadBody(t *testing.T) {
	initTestHandler(t)

	req := httptest.NewRequest("POST", "/api/valuation/report", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	HandleValuationReport(rec, req)
	if rec.Code != 400 {
		t.Errorf("Expected 400 for malformed body, got %d", rec.Code)
	}
}

func TestHandleDefaults(t *testing.T) {
	initTestHandler(t)

	req := httptest.NewRequest("GET", "/api/defaults", nil)
	rec := httptest.NewRecorder()
	HandleDefaults(rec, req)

	if rec.Code != 200 {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got pipeline.ValuationRequest
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Defaults response is not a request: %v", err)
	}
	if got.TargetPE != 17.0 {
		t.Errorf("Expected default target P/E 17, got %f", got.TargetPE)
	}
}
