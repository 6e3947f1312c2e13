package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/finlens/thirteenf"
	"github.com/finlens/thirteenf/quarter"
	"github.com/finlens/thirteenf/renderer"
	"github.com/google/subcommands"
)

// moversCmd holds the flags for the 'movers' subcommand.
type moversCmd struct {
	quarter string
	action  string
	top     int
}

func (*moversCmd) Name() string     { return "movers" }
func (*moversCmd) Synopsis() string { return "rank securities by how many funds traded them" }
func (*moversCmd) Usage() string {
	return `fft movers -q <quarter> [-action <action>] [-n <top>]

  Ranks securities by how many funds performed the same action on them
  in a quarter, across every fund in the filings file. Ties are broken
  by the aggregate value change, then by key.
`
}

func (c *moversCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.quarter, "q", "", "Quarter to rank, e.g. \"Q1 2024\".")
	f.StringVar(&c.action, "action", "opened", "Action to rank: opened, closed, increased, decreased or unchanged.")
	f.IntVar(&c.top, "n", 20, "Number of securities to display, 0 for all.")
}

func (c *moversCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	q, err := quarter.Parse(c.quarter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quarter: %v\n", err)
		return subcommands.ExitUsageError
	}
	action, err := thirteenf.ParseAction(c.action)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing action: %v\n", err)
		return subcommands.ExitUsageError
	}

	svc, err := LoadService()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	movers, err := thirteenf.NewAggregator(svc.Store()).Movers(q, action, c.top)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.MoversMarkdown(q, action, movers))
	return subcommands.ExitSuccess
}
