package dividend

import (
	"sort"
)

// Input column names. This is a fixed contract with the data loaders.
const (
	ColumnCode       = "code"
	ColumnFiscalYear = "fiscal_year"
	ColumnDPS        = "dps_regular_adj"
	ColumnName       = "name"
	ColumnMarket     = "market"
)

// RequiredColumns lists the columns every input table must carry, in the
// order they are reported by MissingColumnsError.
var RequiredColumns = []string{ColumnCode, ColumnFiscalYear, ColumnDPS}

const (
	// CAGRWindow is the number of points in the CAGR window.
	CAGRWindow = 6
	// CAGRYears is the compounding span covered by the window.
	CAGRYears = CAGRWindow - 1
	// CAGRPrecision is the number of decimals kept in CAGR percentages.
	CAGRPrecision = 2
)

// RawRecord is one input row as delivered by a loader: column name to value.
// Values may be strings, numbers or nil.
type RawRecord map[string]any

// Table is the raw input of the engine.
type Table struct {
	// Columns is the schema of the table. Required columns are checked
	// against it rather than against row contents.
	Columns []string
	Rows    []RawRecord
}

// NewTable builds a table whose schema is the union of the keys present in
// rows, sorted by name.
func NewTable(rows []RawRecord) Table {
	seen := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			seen[k] = struct{}{}
		}
	}

	columns := make([]string, 0, len(seen))
	for k := range seen {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	return Table{Columns: columns, Rows: rows}
}

// HasColumn reports whether the table schema includes name.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Record is a validated dividend row.
type Record struct {
	Code       string  `json:"code"`
	FiscalYear int     `json:"fiscal_year"`
	DPS        float64 `json:"dps"`
	Name       string  `json:"name"`
	Market     string  `json:"market"`
	// Index is the row position in the input table and breaks ties
	// between rows sharing a fiscal year.
	Index int `json:"-"`
}

// Point is one entry of an EntitySeries.
type Point struct {
	Record
	// PrevDPS is the DPS of the chronologically previous point of the same
	// entity, nil for the first point.
	PrevDPS *float64 `json:"prev_dps,omitempty"`
	// IsGrowth is true iff DPS is strictly greater than PrevDPS.
	IsGrowth        bool `json:"is_growth"`
	YearsFromLatest int  `json:"years_from_latest"`
}

// EntitySeries is the chronologically ordered history of one entity.
type EntitySeries struct {
	Code       string  `json:"code"`
	Points     []Point `json:"points"`
	LatestYear int     `json:"latest_year"`
}

// Last returns the chronologically last point. The series must not be empty.
func (s EntitySeries) Last() Point {
	return s.Points[len(s.Points)-1]
}

// StreakResult maps entity code to its streak length.
type StreakResult map[string]int

// CagrResult maps entity code to its CAGR percentage; nil means the value
// is not computable.
type CagrResult map[string]*float64

// RankingRow is the per-entity result exposed to callers.
type RankingRow struct {
	Code       string   `json:"code"`
	Name       string   `json:"name"`
	Market     string   `json:"market"`
	Streak     int      `json:"streak"`
	CAGR       *float64 `json:"cagr"`
	LatestYear int      `json:"latest_year"`
	LatestDPS  float64  `json:"latest_dps"`
	Years      int      `json:"years"`
}

// HasCAGR reports whether the row carries a computable CAGR.
func (r RankingRow) HasCAGR() bool {
	return r.CAGR != nil
}

// DropReason classifies rows excluded by the normalizer.
type DropReason string

const (
	DropMissingCode       DropReason = "missing_code"
	DropInvalidFiscalYear DropReason = "invalid_fiscal_year"
	DropInvalidDPS        DropReason = "invalid_dps"
)

// Stats describes one pipeline run.
type Stats struct {
	InputRows       int                `json:"input_rows"`
	Retained        int                `json:"retained"`
	Dropped         int                `json:"dropped"`
	DroppedByReason map[DropReason]int `json:"dropped_by_reason,omitempty"`
	Entities        int                `json:"entities"`
}

// Ranking is the output of a pipeline run. Rows are neither filtered nor
// sorted; that is left to the presentation layer.
type Ranking struct {
	Rows      []RankingRow `json:"rows"`
	MaxStreak int          `json:"max_streak"`
	Stats     Stats        `json:"stats"`
	// Series holds the per-entity series the rows were computed from,
	// keyed by code. It is not serialized with the ranking.
	Series map[string]EntitySeries `json:"-"`
}

// IsEmpty reports whether no entity survived normalization.
func (r *Ranking) IsEmpty() bool {
	return r == nil || len(r.Rows) == 0
}

// Row returns the row for code.
func (r *Ranking) Row(code string) (RankingRow, bool) {
	if r == nil {
		return RankingRow{}, false
	}
	for _, row := range r.Rows {
		if row.Code == code {
			return row, true
		}
	}
	return RankingRow{}, false
}
