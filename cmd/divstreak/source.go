package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/google/subcommands"

	"divstreak/internal/config"
	"divstreak/internal/dividend"
	"divstreak/internal/infrastructure"
	"divstreak/internal/services"
	"divstreak/internal/source"
)

// sourceFlags selects the input of the commands that compute a ranking.
// Positional arguments are file paths and replace the configured ones.
type sourceFlags struct {
	configPath string
	driver     string
	dsn        string
	query      string
	sheet      string
	logLevel   string
}

func (s *sourceFlags) register(f *flag.FlagSet) {
	f.StringVar(&s.configPath, "config", "", "YAML config file (defaults to DIVSTREAK_CONFIG or ./divstreak.yaml)")
	f.StringVar(&s.driver, "driver", "", "source driver: csv, xlsx, sqlite or postgres (defaults to the file extension)")
	f.StringVar(&s.dsn, "dsn", "", "database connection string for sqlite and postgres")
	f.StringVar(&s.query, "query", "", "SQL query returning the dividend history")
	f.StringVar(&s.sheet, "sheet", "", "workbook sheet for xlsx input (defaults to the first)")
	f.StringVar(&s.logLevel, "log-level", "error", "log level written to stderr")
}

// load resolves the configuration with the command line applied on top
func (s *sourceFlags) load(args []string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if s.configPath != "" {
		cfg, err = config.LoadFile(s.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.Source.Paths = args
	}
	if s.driver != "" {
		cfg.Source.Driver = strings.ToLower(s.driver)
	}
	if s.dsn != "" {
		cfg.Source.DSN = s.dsn
	}
	if s.query != "" {
		cfg.Source.Query = s.query
	}
	if s.sheet != "" {
		cfg.Source.Sheet = s.sheet
	}
	return cfg, nil
}

// service opens the source and returns an uncached ranking service over it
func (s *sourceFlags) service(cfg *config.Config, stderr io.Writer) (*services.RankingService, error) {
	logger := infrastructure.NewLogger(stderr, s.logLevel)

	src, err := source.Open(cfg.Source, logger)
	if err != nil {
		return nil, err
	}

	return services.NewRankingService(src, services.RankingOptions{
		DefaultMinStreak: cfg.Ranking.DefaultMinStreak,
		MaxLimit:         cfg.Ranking.MaxLimit,
	}, logger), nil
}

// failureStatus maps a ranking failure to an exit status. Input lacking
// required columns is the caller's mistake, not a runtime failure.
func failureStatus(err error) subcommands.ExitStatus {
	if dividend.IsMissingColumns(err) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// printError reports err on w, listing the columns when the input lacks
// required ones.
func printError(w io.Writer, err error) {
	var missing *dividend.MissingColumnsError
	if errors.As(err, &missing) {
		fmt.Fprintf(w, "Error: input is missing required columns: %s\n", strings.Join(missing.Missing, ", "))
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
