package calc

// bnScale converts a bn (billion VND) aggregate to VND.
const bnScale = 1e9

// PerShare converts a bn aggregate to a VND per-share value.
//
// FORMULA: value = amount(bn) × 1e9 / shares
//
// Returns 0 when shares is non-positive; per-share conversion is the one
// place a degenerate denominator appears, so the guard lives here.
func PerShare(amountBn, shares float64) float64 {
	if shares <= 0 {
		return 0
	}
	return amountBn * bnScale / shares
}

// PlanEPS returns the company plan's EPS in VND/share from plan NPAT in bn.
func PlanEPS(planNPATBn, shares float64) float64 {
	return PerShare(planNPATBn, shares)
}

// PriceFromPE converts an EPS into an implied price at a target multiple.
//
// FORMULA: price = EPS × P/E
func PriceFromPE(eps, pe float64) float64 {
	return eps * pe
}

// ForwardPE returns price divided by EPS, or 0 when EPS is non-positive.
func ForwardPE(price, eps float64) float64 {
	if eps <= 0 {
		return 0
	}
	return price / eps
}

// NetCash returns cash plus held-to-maturity investments minus borrowings,
// all in bn.
func NetCash(cashBn, htmBn, borrowBn float64) float64 {
	return cashBn + htmBn - borrowBn
}

// BookValuePerShare returns total equity per share in VND/share.
func BookValuePerShare(totalEquityBn, shares float64) float64 {
	return PerShare(totalEquityBn, shares)
}

// Upside returns value/price - 1, or 0 when price is non-positive.
func Upside(value, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return value/price - 1
}
