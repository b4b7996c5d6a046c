package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"divstreak/internal/dividend"
	"divstreak/internal/exporter"
	"divstreak/internal/infrastructure"
	"divstreak/internal/ranking"
)

type rankCmd struct {
	src sourceFlags

	minStreak int
	market    string
	limit     int
	format    string
	out       string
	style     string
	width     int

	stdout io.Writer
	stderr io.Writer
}

func newRankCmd() *rankCmd {
	return &rankCmd{stdout: os.Stdout, stderr: os.Stderr}
}

func (*rankCmd) Name() string     { return "rank" }
func (*rankCmd) Synopsis() string { return "rank entities by dividend growth streak and 5-year CAGR" }
func (*rankCmd) Usage() string {
	return `divstreak rank [-min N] [-market M] [-limit N] [-format md|csv|json|xlsx] [-out path] [<file>...]

  Computes the ranking from the given files, or the configured source, and
  prints it as a terminal table or writes it to -out.
`
}

func (c *rankCmd) SetFlags(f *flag.FlagSet) {
	c.src.register(f)
	f.IntVar(&c.minStreak, "min", -1, "minimum streak (defaults to the configured default)")
	f.StringVar(&c.market, "market", ranking.AllMarkets, "market to keep, or all")
	f.IntVar(&c.limit, "limit", 0, "maximum number of rows, 0 for no limit")
	f.StringVar(&c.format, "format", "md", "output format: md, csv, json or xlsx")
	f.StringVar(&c.out, "out", "", "write to this file instead of stdout")
	f.StringVar(&c.style, "style", "notty", "terminal style for markdown output (notty, dark, light, ascii)")
	f.IntVar(&c.width, "width", 120, "word wrap width for markdown output")
}

func (c *rankCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = infrastructure.EnsureTraceID(ctx)

	format, err := exporter.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if format.Binary() && c.out == "" {
		fmt.Fprintf(c.stderr, "Error: %s output requires -out\n", format)
		return subcommands.ExitUsageError
	}
	if c.limit < 0 {
		fmt.Fprintln(c.stderr, "Error: -limit must not be negative")
		return subcommands.ExitUsageError
	}
	if explicitlySet(f, "min") && c.minStreak < 0 {
		fmt.Fprintln(c.stderr, "Error: -min must not be negative")
		return subcommands.ExitUsageError
	}

	cfg, err := c.src.load(f.Args())
	if err != nil {
		printError(c.stderr, err)
		return subcommands.ExitUsageError
	}
	if c.minStreak < 0 {
		c.minStreak = cfg.Ranking.DefaultMinStreak
	}

	svc, err := c.src.service(cfg, c.stderr)
	if err != nil {
		printError(c.stderr, err)
		return subcommands.ExitUsageError
	}

	filter := ranking.Filter{MinStreak: c.minStreak, Market: c.market}
	view, err := svc.Ranking(ctx, filter, c.limit)
	if err != nil {
		printError(c.stderr, err)
		return failureStatus(err)
	}

	title := fmt.Sprintf("Dividend growth streaks (min %d, market %s)", c.minStreak, marketLabel(c.market))

	if c.out != "" {
		if err := c.save(format, title, view.Rows); err != nil {
			printError(c.stderr, err)
			return subcommands.ExitFailure
		}
		if view.Empty {
			fmt.Fprintln(c.stderr, exporter.NoData)
		}
		fmt.Fprintf(c.stderr, "wrote %d rows to %s\n", len(view.Rows), c.out)
		return subcommands.ExitSuccess
	}

	if view.Empty {
		fmt.Fprintln(c.stdout, exporter.NoData)
		return subcommands.ExitSuccess
	}

	if format == exporter.FormatMarkdown {
		rendered, err := exporter.RenderTerminal(exporter.Markdown(title, view.Rows), c.style, c.width)
		if err != nil {
			printError(c.stderr, err)
			return subcommands.ExitFailure
		}
		fmt.Fprint(c.stdout, rendered)
		return subcommands.ExitSuccess
	}

	if err := exporter.Write(c.stdout, format, title, view.Rows); err != nil {
		printError(c.stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (c *rankCmd) save(format exporter.Format, title string, rows []dividend.RankingRow) error {
	switch format {
	case exporter.FormatXLSX:
		return exporter.SaveXLSX(c.out, rows)
	case exporter.FormatCSV:
		return exporter.SaveCSV(c.out, rows)
	}

	f, err := os.Create(c.out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", c.out, err)
	}
	if err := exporter.Write(f, format, title, rows); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", c.out, err)
	}
	return f.Close()
}

func marketLabel(m string) string {
	if m == "" {
		return ranking.AllMarkets
	}
	return m
}

func explicitlySet(f *flag.FlagSet, name string) bool {
	set := false
	f.Visit(func(fl *flag.Flag) {
		if fl.Name == name {
			set = true
		}
	})
	return set
}
