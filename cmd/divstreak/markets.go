package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"divstreak/internal/exporter"
	"divstreak/internal/infrastructure"
)

type marketsCmd struct {
	src sourceFlags

	stdout io.Writer
	stderr io.Writer
}

func newMarketsCmd() *marketsCmd {
	return &marketsCmd{stdout: os.Stdout, stderr: os.Stderr}
}

func (*marketsCmd) Name() string     { return "markets" }
func (*marketsCmd) Synopsis() string { return "list the markets present in the input" }
func (*marketsCmd) Usage() string {
	return `divstreak markets [<file>...]

  Prints the distinct market labels, one per line, in sorted order.
`
}

func (c *marketsCmd) SetFlags(f *flag.FlagSet) {
	c.src.register(f)
}

func (c *marketsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx = infrastructure.EnsureTraceID(ctx)

	cfg, err := c.src.load(f.Args())
	if err != nil {
		printError(c.stderr, err)
		return subcommands.ExitUsageError
	}

	svc, err := c.src.service(cfg, c.stderr)
	if err != nil {
		printError(c.stderr, err)
		return subcommands.ExitUsageError
	}

	markets, err := svc.Markets(ctx)
	if err != nil {
		printError(c.stderr, err)
		return failureStatus(err)
	}

	if len(markets) == 0 {
		fmt.Fprintln(c.stdout, exporter.NoData)
		return subcommands.ExitSuccess
	}
	for _, m := range markets {
		fmt.Fprintln(c.stdout, m)
	}
	return subcommands.ExitSuccess
}
