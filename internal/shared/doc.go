// Package shared holds helpers used across divstreak packages that belong
// to no single domain.
//
// The testutil subpackage provides a capturing slog handler and dividend
// history fixtures for tests:
//
//	logger, logs := testutil.NewTestLogger(t)
//	path := testutil.WriteCSV(t, "history.csv", testutil.SampleHistories())
package shared
