package valuation

import (
	"math"
	"testing"
)

func baseAssumptions() DCFAssumptions {
	return DCFAssumptions{
		BaseRevenue:    31606.954,
		FallbackCAGR:   0.08,
		Revenue:        RevenueModel{Kind: RevenueModelCAGR},
		EBITMargin:     0.07,
		TaxRate:        0.20,
		ROC:            0.18,
		WACC:           0.115,
		TerminalGrowth: 0.03,
		NetCash:        1801.342,
		Shares:         341149107,
	}
}

func TestRunDCFFirstYearRevenue(t *testing.T) {
	// rev2025 = 31606.954, CAGR 8% => first explicit year ≈ 34135.51 bn
	res := RunDCF(baseAssumptions())
	if len(res.Years) != HorizonYears {
		t.Fatalf("Expected %d years, got %d", HorizonYears, len(res.Years))
	}
	if math.Abs(res.Years[0].Revenue-34135.51) > 0.01 {
		t.Errorf("Expected year 1 revenue ~34135.51, got %f", res.Years[0].Revenue)
	}
	if math.Abs(res.Years[0].Growth-0.08) > 1e-9 {
		t.Errorf("Expected year 1 growth 0.08, got %f", res.Years[0].Growth)
	}
}

func TestRunDCFYearRows(t *testing.T) {
	a := baseAssumptions()
	res := RunDCF(a)

	// Hand-check year 1 row.
	rev := 31606.954 * 1.08
	ebit := rev * 0.07
	nopat := ebit * 0.80
	rr := 0.08 / 0.18
	fcff := nopat * (1 - rr)
	df := 1 / 1.115
	if math.Abs(res.Years[0].EBIT-ebit) > 1e-6 {
		t.Errorf("EBIT: expected %f, got %f", ebit, res.Years[0].EBIT)
	}
	if math.Abs(res.Years[0].NOPAT-nopat) > 1e-6 {
		t.Errorf("NOPAT: expected %f, got %f", nopat, res.Years[0].NOPAT)
	}
	if math.Abs(res.Years[0].ReinvestmentRate-rr) > 1e-9 {
		t.Errorf("Reinvestment rate: expected %f, got %f", rr, res.Years[0].ReinvestmentRate)
	}
	if math.Abs(res.Years[0].FCFF-fcff) > 1e-6 {
		t.Errorf("FCFF: expected %f, got %f", fcff, res.Years[0].FCFF)
	}
	if math.Abs(res.Years[0].DiscountFactor-df) > 1e-9 {
		t.Errorf("Discount factor: expected %f, got %f", df, res.Years[0].DiscountFactor)
	}

	// Aggregates tie out.
	var sumPV float64
	for _, y := range res.Years {
		sumPV += y.PresentValue
	}
	if math.Abs(res.PVExplicit-sumPV) > 1e-6 {
		t.Errorf("PVExplicit %f != sum of year PVs %f", res.PVExplicit, sumPV)
	}
	if math.Abs(res.EnterpriseValue-(res.PVExplicit+res.PVTerminal)) > 1e-6 {
		t.Errorf("Enterprise value does not tie out")
	}
	if math.Abs(res.EquityValue-(res.EnterpriseValue+a.NetCash)) > 1e-6 {
		t.Errorf("Equity value does not tie out")
	}
}

func TestRunDCFReinvestmentRateBounds(t *testing.T) {
	// Extreme growth and tiny ROC: rate stays in [0, 0.95].
	a := baseAssumptions()
	a.FallbackCAGR = 5.0
	a.ROC = 1e-12
	res := RunDCF(a)
	for _, y := range res.Years {
		if y.ReinvestmentRate < 0 || y.ReinvestmentRate > 0.95 {
			t.Errorf("Year %d: reinvestment rate %f outside [0, 0.95]", y.Year, y.ReinvestmentRate)
		}
	}

	// Negative growth clamps to 0, not negative.
	a = baseAssumptions()
	a.FallbackCAGR = -0.30
	res = RunDCF(a)
	for _, y := range res.Years {
		if y.ReinvestmentRate != 0 {
			t.Errorf("Year %d: expected reinvestment rate 0 for negative growth, got %f", y.Year, y.ReinvestmentRate)
		}
	}
}

func TestRunDCFTerminalSpreadFloor(t *testing.T) {
	// WACC equal to terminal growth: the engine floors the spread at 0.001
	// instead of dividing by zero.
	a := baseAssumptions()
	a.WACC = 0.03
	a.TerminalGrowth = 0.03
	res := RunDCF(a)

	termRev := res.Years[HorizonYears-1].Revenue * 1.03
	termFCFF := termRev * a.EBITMargin * (1 - a.TaxRate) * (1 - 0.03/0.18)
	if math.Abs(res.TerminalValue-termFCFF/0.001) > 1e-3 {
		t.Errorf("Expected terminal value %f, got %f", termFCFF/0.001, res.TerminalValue)
	}
	if math.IsNaN(res.ValuePerShare) || math.IsInf(res.ValuePerShare, 0) {
		t.Errorf("Value per share not finite: %f", res.ValuePerShare)
	}
}

func TestRunDCFExplicitPathRoundTrip(t *testing.T) {
	// An explicit path equal to the CAGR-generated path must reproduce the
	// CAGR-mode output exactly.
	a := baseAssumptions()
	cagrRes := RunDCF(a)

	path := make([]float64, HorizonYears)
	prev := a.BaseRevenue
	for i := range path {
		prev *= 1.08
		path[i] = prev
	}
	a.Revenue = RevenueModel{Kind: RevenueModelStorePath, Path: path}
	pathRes := RunDCF(a)

	if math.Abs(cagrRes.ValuePerShare-pathRes.ValuePerShare) > 1e-9 {
		t.Errorf("Round-trip mismatch: CAGR %f vs explicit path %f",
			cagrRes.ValuePerShare, pathRes.ValuePerShare)
	}
	if math.Abs(cagrRes.EnterpriseValue-pathRes.EnterpriseValue) > 1e-6 {
		t.Errorf("Enterprise value mismatch: %f vs %f",
			cagrRes.EnterpriseValue, pathRes.EnterpriseValue)
	}
}

func TestRunDCFMalformedPathFallsBack(t *testing.T) {
	// A store_path model with the wrong entry count falls back to the CAGR
	// path rather than indexing out of range.
	a := baseAssumptions()
	a.Revenue = RevenueModel{Kind: RevenueModelStorePath, Path: []float64{1, 2, 3}}
	res := RunDCF(a)
	if math.Abs(res.Years[0].Revenue-31606.954*1.08) > 1e-6 {
		t.Errorf("Expected CAGR fallback, got year 1 revenue %f", res.Years[0].Revenue)
	}
}

func TestRunDCFGrowthFallbackWithNonPositivePrior(t *testing.T) {
	// Zero base revenue: year 1 growth falls back to the fallback CAGR even
	// when an explicit path is in use.
	a := baseAssumptions()
	a.BaseRevenue = 0
	a.Revenue = RevenueModel{Kind: RevenueModelStorePath, Path: []float64{100, 110, 121, 133.1, 146.41}}
	res := RunDCF(a)
	if math.Abs(res.Years[0].Growth-a.FallbackCAGR) > 1e-9 {
		t.Errorf("Expected fallback CAGR growth %f, got %f", a.FallbackCAGR, res.Years[0].Growth)
	}
	if math.Abs(res.Years[1].Growth-0.10) > 1e-9 {
		t.Errorf("Expected year 2 growth 0.10, got %f", res.Years[1].Growth)
	}
}

func TestRunDCFZeroShares(t *testing.T) {
	a := baseAssumptions()
	a.Shares = 0
	res := RunDCF(a)
	if res.ValuePerShare != 0 {
		t.Errorf("Expected value per share 0 with zero shares, got %f", res.ValuePerShare)
	}
}
