package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"divstreak/internal/dividend"
)

// MultiSource loads several sources concurrently and concatenates their
// rows in source order. See Concat for how schemas combine.
type MultiSource struct {
	parts  []Source
	logger *slog.Logger
}

// NewMultiSource combines parts into one source
func NewMultiSource(logger *slog.Logger, parts ...Source) *MultiSource {
	return &MultiSource{
		parts:  parts,
		logger: logger.With(slog.String("component", "multi_source")),
	}
}

// Name implements Source
func (m *MultiSource) Name() string {
	names := make([]string, len(m.parts))
	for i, p := range m.parts {
		names[i] = p.Name()
	}
	return "multi(" + strings.Join(names, ",") + ")"
}

// Load implements Source. The first failing part cancels the others.
func (m *MultiSource) Load(ctx context.Context) (dividend.Table, error) {
	tables := make([]dividend.Table, len(m.parts))

	g, gctx := errgroup.WithContext(ctx)
	for i, part := range m.parts {
		g.Go(func() error {
			t, err := part.Load(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", part.Name(), err)
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dividend.Table{}, err
	}

	merged := Concat(tables...)
	m.logger.InfoContext(ctx, "sources merged",
		slog.Int("parts", len(m.parts)),
		slog.Int("rows", len(merged.Rows)),
		slog.Int("columns", len(merged.Columns)))
	return merged, nil
}

// Concat joins tables row-wise. A required column survives only when
// every table has it, so a part lacking one still fails validation. Other
// columns are unioned in first-seen order; rows from parts without them
// read as missing values.
func Concat(tables ...dividend.Table) dividend.Table {
	if len(tables) == 0 {
		return dividend.Table{}
	}

	required := make(map[string]bool, len(dividend.RequiredColumns))
	for _, col := range dividend.RequiredColumns {
		required[col] = true
	}

	var columns []string
	seen := make(map[string]bool)
	for _, t := range tables {
		for _, col := range t.Columns {
			if seen[col] {
				continue
			}
			seen[col] = true
			if required[col] && !inAll(tables, col) {
				continue
			}
			columns = append(columns, col)
		}
	}

	var rows []dividend.RawRecord
	for _, t := range tables {
		rows = append(rows, t.Rows...)
	}
	return dividend.Table{Columns: columns, Rows: rows}
}

func inAll(tables []dividend.Table, col string) bool {
	for _, t := range tables {
		if !t.HasColumn(col) {
			return false
		}
	}
	return true
}
