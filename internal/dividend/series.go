package dividend

import (
	"sort"
)

// BuildSeries groups records by code into chronologically ordered series.
//
// Points of one entity are sorted by fiscal year ascending; rows sharing a
// fiscal year keep their input order. The returned series are ordered by
// code so repeated runs over the same input produce the same output.
func BuildSeries(records []Record) []EntitySeries {
	groups := make(map[string][]Record)
	for _, rec := range records {
		groups[rec.Code] = append(groups[rec.Code], rec)
	}

	codes := make([]string, 0, len(groups))
	for code := range groups {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	series := make([]EntitySeries, 0, len(codes))
	for _, code := range codes {
		series = append(series, buildEntitySeries(code, groups[code]))
	}
	return series
}

func buildEntitySeries(code string, recs []Record) EntitySeries {
	sorted := make([]Record, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].FiscalYear != sorted[j].FiscalYear {
			return sorted[i].FiscalYear < sorted[j].FiscalYear
		}
		return sorted[i].Index < sorted[j].Index
	})

	latest := sorted[len(sorted)-1].FiscalYear

	points := make([]Point, len(sorted))
	for i, rec := range sorted {
		p := Point{
			Record:          rec,
			YearsFromLatest: latest - rec.FiscalYear,
		}
		if i > 0 {
			prev := sorted[i-1].DPS
			p.PrevDPS = &prev
			p.IsGrowth = rec.DPS > prev
		}
		points[i] = p
	}

	return EntitySeries{
		Code:       code,
		Points:     points,
		LatestYear: latest,
	}
}

// GrowthFlags returns the IsGrowth flag of every point, oldest first.
func (s EntitySeries) GrowthFlags() []bool {
	flags := make([]bool, len(s.Points))
	for i, p := range s.Points {
		flags[i] = p.IsGrowth
	}
	return flags
}
