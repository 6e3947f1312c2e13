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

// snapshotCmd holds the flags for the 'snapshot' subcommand.
type snapshotCmd struct {
	fund    string
	quarter string
	top     int
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "display a fund's portfolio for one quarter" }
func (*snapshotCmd) Usage() string {
	return `fft snapshot -f <fund> -q <quarter> [-n <top>]

  Displays a fund's portfolio for a quarter: total value, the largest
  holdings with their weights, and the concentration index.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fund, "f", "", "Fund identifier.")
	f.StringVar(&c.quarter, "q", "", "Quarter of the filing, e.g. \"Q1 2024\".")
	f.IntVar(&c.top, "n", 20, "Number of top holdings to display, 0 for all.")
}

func (c *snapshotCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	q, err := quarter.Parse(c.quarter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quarter: %v\n", err)
		return subcommands.ExitUsageError
	}

	svc, err := LoadService()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	snap, err := thirteenf.NewAggregator(svc.Store()).Snapshot(c.fund, q, c.top)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SnapshotMarkdown(snap))
	return subcommands.ExitSuccess
}
