package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/finlens/thirteenf"
	"github.com/finlens/thirteenf/renderer"
	"github.com/google/subcommands"
)

// seriesCmd holds the flags for the 'series' subcommand.
type seriesCmd struct {
	fund string
	key  string
}

func (*seriesCmd) Name() string     { return "series" }
func (*seriesCmd) Synopsis() string { return "display a security's value in a fund over time" }
func (*seriesCmd) Usage() string {
	return `fft series -f <fund> -k <key>

  Displays the reported value of one security in one fund for every
  quarter of the fund's observed range. Quarters where the position is
  absent show an explicit zero.
`
}

func (c *seriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fund, "f", "", "Fund identifier.")
	f.StringVar(&c.key, "k", "", "Security key or any known raw identifier for it.")
}

func (c *seriesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := LoadService()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	// Any alias works: a raw CUSIP, a ticker or the canonical key itself.
	key := thirteenf.Key(c.key)
	if resolved, ok := svc.Normalizer().Resolve(c.key); ok {
		key = resolved
	}

	series, err := thirteenf.NewAggregator(svc.Store()).Series(c.fund, key)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SeriesMarkdown(c.fund, key, series))
	return subcommands.ExitSuccess
}
