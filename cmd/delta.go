package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/finlens/thirteenf"
	"github.com/finlens/thirteenf/quarter"
	"github.com/finlens/thirteenf/renderer"
	"github.com/google/subcommands"
)

// deltaCmd holds the flags for the 'delta' subcommand.
type deltaCmd struct {
	fund    string
	quarter string
}

func (*deltaCmd) Name() string     { return "delta" }
func (*deltaCmd) Synopsis() string { return "display what a fund traded in a quarter" }
func (*deltaCmd) Usage() string {
	return `fft delta -f <fund> -q <quarter>

  Displays the full diff of a fund's filing against its nearest earlier
  filing: every opened, closed, increased, decreased and unchanged
  position, with the turnover of the pair.
`
}

func (c *deltaCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fund, "f", "", "Fund identifier.")
	f.StringVar(&c.quarter, "q", "", "Quarter of the later filing, e.g. \"Q1 2024\".")
}

func (c *deltaCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	d, err := thirteenf.NewAggregator(svc.Store()).DeltaFor(c.fund, q)
	if errors.Is(err, thirteenf.ErrMissingBaseline) {
		fmt.Fprintf(os.Stderr, "%s is the first observed filing of %s, nothing to diff against\n", q, c.fund)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.DeltaMarkdown(d))
	return subcommands.ExitSuccess
}
