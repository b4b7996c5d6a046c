// Package ranking filters and orders dividend ranking rows for display.
//
// The engine in package dividend leaves its rows unsorted and unfiltered;
// this package applies the minimum-streak and market controls a caller
// exposes and the fixed display order: streak descending, then CAGR
// descending with missing CAGR values last, then code ascending.
package ranking

import (
	"sort"
	"strings"

	"divstreak/internal/dividend"
)

// AllMarkets selects every market. The empty string does the same.
const AllMarkets = "all"

// DefaultMinStreak is the initial position of the minimum-streak control.
const DefaultMinStreak = 3

// Filter holds the display thresholds. It is never passed to the engine.
type Filter struct {
	// MinStreak keeps rows with Streak >= MinStreak.
	MinStreak int `json:"min_streak"`
	// Market keeps rows whose market equals Market exactly, unless it
	// is AllMarkets or empty.
	Market string `json:"market"`
}

// MatchesMarket reports whether the filter accepts market.
func (f Filter) MatchesMarket(market string) bool {
	if f.Market == "" || strings.EqualFold(f.Market, AllMarkets) {
		return true
	}
	return market == f.Market
}

// Match reports whether row passes the filter.
func (f Filter) Match(row dividend.RankingRow) bool {
	return row.Streak >= f.MinStreak && f.MatchesMarket(row.Market)
}

// Apply returns the rows that pass f in display order. rows is not modified.
func Apply(rows []dividend.RankingRow, f Filter) []dividend.RankingRow {
	out := make([]dividend.RankingRow, 0, len(rows))
	for _, row := range rows {
		if f.Match(row) {
			out = append(out, row)
		}
	}
	Sort(out)
	return out
}

// Sort orders rows in place by streak descending, CAGR descending with nil
// CAGR last, then code ascending.
func Sort(rows []dividend.RankingRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return less(rows[i], rows[j])
	})
}

func less(a, b dividend.RankingRow) bool {
	if a.Streak != b.Streak {
		return a.Streak > b.Streak
	}

	switch {
	case a.HasCAGR() && !b.HasCAGR():
		return true
	case !a.HasCAGR() && b.HasCAGR():
		return false
	case a.HasCAGR() && b.HasCAGR() && *a.CAGR != *b.CAGR:
		return *a.CAGR > *b.CAGR
	}

	return a.Code < b.Code
}

// Top returns at most n rows. n <= 0 returns all rows.
func Top(rows []dividend.RankingRow, n int) []dividend.RankingRow {
	if n <= 0 || n >= len(rows) {
		return rows
	}
	return rows[:n]
}

// Markets returns the distinct non-empty markets of rows, sorted.
func Markets(rows []dividend.RankingRow) []string {
	seen := make(map[string]struct{})
	for _, row := range rows {
		if row.Market != "" {
			seen[row.Market] = struct{}{}
		}
	}

	markets := make([]string, 0, len(seen))
	for m := range seen {
		markets = append(markets, m)
	}
	sort.Strings(markets)
	return markets
}

// SliderBounds parametrizes a minimum-streak range control.
type SliderBounds struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// Bounds derives the range control for r. Max is the largest streak in r
// (0 for an empty ranking) and Default is defaultMin clamped into range.
func Bounds(r *dividend.Ranking, defaultMin int) SliderBounds {
	b := SliderBounds{}
	if r != nil {
		b.Max = r.MaxStreak
	}

	switch {
	case defaultMin < b.Min:
		b.Default = b.Min
	case defaultMin > b.Max:
		b.Default = b.Max
	default:
		b.Default = defaultMin
	}
	return b
}
