// Package dividend implements the dividend streak and growth engine.
//
// The engine turns a table of per-company, per-fiscal-year dividend-per-share
// (DPS) rows into a ranking that carries, for every company, the length of
// its current run of year-over-year DPS increases and the 5-year compound
// annual growth rate of its DPS.
//
// # Pipeline
//
// Data flows strictly forward through five stages:
//
//  1. Normalize: checks the schema, coerces values and drops unusable rows.
//  2. BuildSeries: groups rows by company code and orders them by fiscal year.
//  3. Streaks: counts consecutive increases walking back from the latest year.
//  4. CAGRs: computes growth over the trailing six reported points.
//  5. Assemble: joins streak, CAGR and company metadata into RankingRows.
//
// Compute runs the whole pipeline as a pure function of its input. Engine
// wraps Compute with structured logging for callers that want stage counts
// in their logs.
//
// # Input columns
//
// The input table must carry the columns code, fiscal_year and
// dps_regular_adj. The name and market columns are optional. A table missing
// any required column fails with *MissingColumnsError before any row is
// looked at.
//
// # Usage
//
//	table := dividend.NewTable(rows)
//	ranking, err := dividend.Compute(table)
//	if err != nil {
//	    var missing *dividend.MissingColumnsError
//	    if errors.As(err, &missing) {
//	        log.Fatalf("input lacks columns %v", missing.Missing)
//	    }
//	    log.Fatal(err)
//	}
//	fmt.Println(ranking.MaxStreak, len(ranking.Rows))
//
// Duplicate (code, fiscal_year) rows are not deduplicated. They flow through
// as separate series points in input order, which affects both the streak
// walk and the positional CAGR window. Callers are expected to supply one
// row per company and year.
package dividend
