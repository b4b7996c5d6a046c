package dividend

import (
	"math"

	"github.com/shopspring/decimal"
)

// CAGR returns the compound annual growth rate of DPS, in percent, over the
// last CAGRWindow points of s. It returns nil when s has fewer points than
// the window, when the oldest value of the window is not positive, or when
// the result is not a finite number.
//
// The window is positional: rows sharing a fiscal year each take a slot.
func CAGR(s EntitySeries) *float64 {
	n := len(s.Points)
	if n < CAGRWindow {
		return nil
	}

	window := s.Points[n-CAGRWindow:]
	past := window[0].DPS
	latest := window[CAGRWindow-1].DPS
	return growthRate(past, latest, CAGRYears)
}

// growthRate computes ((latest/past)^(1/years) - 1) * 100 rounded to
// CAGRPrecision decimals.
func growthRate(past, latest float64, years int) *float64 {
	if past <= 0 || years <= 0 {
		return nil
	}

	rate := (math.Pow(latest/past, 1/float64(years)) - 1) * 100
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil
	}

	rounded, _ := decimal.NewFromFloat(rate).Round(CAGRPrecision).Float64()
	return &rounded
}

// CAGRs computes the CAGR of every series.
func CAGRs(series []EntitySeries) CagrResult {
	out := make(CagrResult, len(series))
	for _, s := range series {
		out[s.Code] = CAGR(s)
	}
	return out
}
