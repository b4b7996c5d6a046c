package dividend

// Comparison is one backward step of the streak walk.
type Comparison struct {
	FiscalYear      int `json:"fiscal_year"`
	YearsFromLatest int `json:"years_from_latest"`
	// Increased is true when DPS rose from this point to the next
	// reported point.
	Increased bool `json:"increased"`
}

// Comparisons returns the streak-eligible points of s, nearest past first.
//
// Only points at least one year older than the latest year are eligible.
// Each carries whether DPS increased into the point that follows it, so the
// walk starts with the comparison that ends at the latest reported year.
// Rows sharing a fiscal year are visited in reverse input order.
func Comparisons(s EntitySeries) []Comparison {
	last := -1
	for i, p := range s.Points {
		if p.YearsFromLatest >= 1 {
			last = i
		}
	}
	if last < 0 {
		return nil
	}

	growth := s.GrowthFlags()
	out := make([]Comparison, 0, last+1)
	for i := last; i >= 0; i-- {
		p := s.Points[i]
		out = append(out, Comparison{
			FiscalYear:      p.FiscalYear,
			YearsFromLatest: p.YearsFromLatest,
			Increased:       growth[i+1],
		})
	}
	return out
}

// Streak counts consecutive increases walking back from the latest year.
// It stops at the first comparison that did not increase.
func Streak(s EntitySeries) int {
	streak := 0
	for _, c := range Comparisons(s) {
		if !c.Increased {
			break
		}
		streak++
	}
	return streak
}

// Streaks computes the streak of every series.
func Streaks(series []EntitySeries) StreakResult {
	out := make(StreakResult, len(series))
	for _, s := range series {
		out[s.Code] = Streak(s)
	}
	return out
}
