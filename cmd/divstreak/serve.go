package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"divstreak/internal/app"
	"divstreak/internal/config"
)

type serveCmd struct {
	configPath string
	port       int
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the ranking over HTTP" }
func (*serveCmd) Usage() string {
	return `divstreak serve [-config path] [-port N]

  Starts the API server. Settings come from the config file and
  DIVSTREAK_* environment variables.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "YAML config file (defaults to DIVSTREAK_CONFIG or ./divstreak.yaml)")
	f.IntVar(&c.port, "port", 0, "listen port, overriding the configuration")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var (
		cfg *config.Config
		err error
	)
	if c.configPath != "" {
		cfg, err = config.LoadFile(c.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.port > 0 {
		cfg.Server.Port = c.port
	}

	application, err := app.NewApplication(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
