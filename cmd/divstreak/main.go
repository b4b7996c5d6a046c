// Command divstreak ranks dividend payers by their run of consecutive
// dividend-per-share increases and five-year DPS growth.
//
//	divstreak rank [-min N] [-market M] [-limit N] [-format md|csv|json|xlsx] [-out path] <file>...
//	divstreak markets <file>...
//	divstreak serve [-config path]
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(newRankCmd(), "ranking")
	c.Register(newMarketsCmd(), "ranking")
	c.Register(&serveCmd{}, "server")
}
