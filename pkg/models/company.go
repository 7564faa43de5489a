// Package models defines the shared entities a valuation run is built from.
// All monetary stock/flow figures are carried in billions of VND ("bn");
// per-share values are in VND per share.
package models

// CompanyFinancials is an immutable snapshot of raw financial inputs for one
// valuation run. The engine trusts these numbers as supplied and applies
// deterministic formulas and safety clamps; it never validates them against
// real accounting figures.
type CompanyFinancials struct {
	CurrentPrice      float64 `json:"current_price"`      // VND/share
	SharesOutstanding float64 `json:"shares_outstanding"` // count
	PlanNPAT          float64 `json:"plan_npat"`          // bn, full-year company plan
	PlanRevenue       float64 `json:"plan_revenue"`       // bn, full-year company plan
	NPAT9M            float64 `json:"npat_9m"`            // bn, 9-month actual
	Cash              float64 `json:"cash"`               // bn
	HTMInvestments    float64 `json:"htm_investments"`    // bn, held-to-maturity deposits
	Borrowings        float64 `json:"borrowings"`         // bn
	TotalEquity       float64 `json:"total_equity"`       // bn
}
