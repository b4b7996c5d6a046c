package source

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"divstreak/internal/config"
	"divstreak/internal/dividend"
)

// SQLSource runs a query against SQLite or PostgreSQL and returns the
// result set as a table. Column names come from the result set.
type SQLSource struct {
	driver string
	dsn    string
	query  string
	logger *slog.Logger
}

// NewSQLSource creates a database source. driver is config.DriverSQLite or
// config.DriverPostgres; an empty query reads the dividend_history table.
func NewSQLSource(driver, dsn, query string, logger *slog.Logger) *SQLSource {
	if query == "" {
		query = config.DefaultSourceQuery
	}
	return &SQLSource{
		driver: driver,
		dsn:    dsn,
		query:  query,
		logger: logger.With(slog.String("component", "sql_source")),
	}
}

// Name implements Source
func (s *SQLSource) Name() string { return s.driver }

// Load implements Source
func (s *SQLSource) Load(ctx context.Context) (dividend.Table, error) {
	db, err := sql.Open(s.driver, s.dsn)
	if err != nil {
		return dividend.Table{}, fmt.Errorf("open %s: %w", s.driver, err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return dividend.Table{}, fmt.Errorf("ping %s: %w", s.driver, err)
	}

	start := time.Now()
	rows, err := db.QueryContext(ctx, s.query)
	if err != nil {
		return dividend.Table{}, fmt.Errorf("query dividend history: %w", err)
	}
	defer rows.Close()

	table, err := scanTable(rows)
	if err != nil {
		return dividend.Table{}, err
	}

	s.logger.DebugContext(ctx, "query loaded",
		slog.String("driver", s.driver),
		slog.Int("rows", len(table.Rows)),
		slog.Duration("duration", time.Since(start)))
	return table, nil
}

func scanTable(rows *sql.Rows) (dividend.Table, error) {
	columns, err := rows.Columns()
	if err != nil {
		return dividend.Table{}, fmt.Errorf("read columns: %w", err)
	}

	var records []dividend.RawRecord
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return dividend.Table{}, fmt.Errorf("scan row: %w", err)
		}
		rec := make(dividend.RawRecord, len(columns))
		for i, col := range columns {
			// Drivers hand back TEXT and NUMERIC as bytes.
			if b, ok := values[i].([]byte); ok {
				rec[col] = string(b)
			} else {
				rec[col] = values[i]
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return dividend.Table{}, fmt.Errorf("iterate rows: %w", err)
	}

	return dividend.Table{Columns: columns, Rows: records}, nil
}
