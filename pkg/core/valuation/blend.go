package valuation

import (
	"math"

	"retail_valuation/pkg/core/calc"
)

// MethodWeight is one toggleable valuation method: the per-share value it
// implies and its raw weight (0–100). A disabled method contributes zero
// weight regardless of the raw number.
type MethodWeight struct {
	Value   float64 `json:"value"` // VND/share
	Weight  float64 `json:"weight"`
	Enabled bool    `json:"enabled"`
}

// BlendedValuation is the weighted combination of the P/E-, DCF- and
// P/B-implied per-share values.
type BlendedValuation struct {
	PEValue   float64 `json:"pe_value"`  // VND/share
	DCFValue  float64 `json:"dcf_value"` // VND/share
	PBValue   float64 `json:"pb_value"`  // VND/share
	PEWeight  float64 `json:"pe_weight"` // normalized, 0 when disabled
	DCFWeight float64 `json:"dcf_weight"`
	PBWeight  float64 `json:"pb_weight"`
	Value     float64 `json:"value"`  // VND/share
	Upside    float64 `json:"upside"` // vs. current price
}

// BlendValuations normalizes the enabled weights and combines the three
// method-implied prices. All-disabled (or all-zero-weight) is a valid,
// degenerate state: weights and blended value come back 0.
func BlendValuations(pe, dcf, pb MethodWeight, currentPrice float64) BlendedValuation {
	eff := func(m MethodWeight) float64 {
		if !m.Enabled {
			return 0
		}
		return math.Max(0, m.Weight)
	}

	wPE, wDCF, wPB := eff(pe), eff(dcf), eff(pb)
	sum := wPE + wDCF + wPB

	out := BlendedValuation{
		PEValue:  pe.Value,
		DCFValue: dcf.Value,
		PBValue:  pb.Value,
	}
	if sum > 0 {
		out.PEWeight = wPE / sum
		out.DCFWeight = wDCF / sum
		out.PBWeight = wPB / sum
		out.Value = out.PEWeight*pe.Value + out.DCFWeight*dcf.Value + out.PBWeight*pb.Value
	}
	out.Upside = calc.Upside(out.Value, currentPrice)
	return out
}
