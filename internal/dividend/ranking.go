package dividend

// Assemble joins streaks, CAGRs and entity metadata into one row per entity
// of the streak result. Name and market come from the chronologically last
// point of each series. Rows follow the order of series.
func Assemble(series []EntitySeries, streaks StreakResult, cagrs CagrResult) Ranking {
	r := Ranking{
		Rows:   make([]RankingRow, 0, len(series)),
		Series: make(map[string]EntitySeries, len(series)),
	}

	for _, s := range series {
		streak, ok := streaks[s.Code]
		if !ok || len(s.Points) == 0 {
			continue
		}

		last := s.Last()
		r.Rows = append(r.Rows, RankingRow{
			Code:       s.Code,
			Name:       last.Name,
			Market:     last.Market,
			Streak:     streak,
			CAGR:       cagrs[s.Code],
			LatestYear: s.LatestYear,
			LatestDPS:  last.DPS,
			Years:      len(s.Points),
		})
		r.Series[s.Code] = s
	}

	r.MaxStreak = MaxStreak(r.Rows)
	r.Stats.Entities = len(r.Rows)
	return r
}

// MaxStreak returns the largest streak among rows, or 0 when rows is empty.
func MaxStreak(rows []RankingRow) int {
	best := 0
	for _, row := range rows {
		if row.Streak > best {
			best = row.Streak
		}
	}
	return best
}
