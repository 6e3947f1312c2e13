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

// timelineCmd holds the flags for the 'timeline' subcommand.
type timelineCmd struct {
	fund string
}

func (*timelineCmd) Name() string     { return "timeline" }
func (*timelineCmd) Synopsis() string { return "display a fund's quarter-by-quarter history" }
func (*timelineCmd) Usage() string {
	return `fft timeline -f <fund>

  Displays a fund's whole filing history, one row per reported quarter,
  with the number of positions opened, closed, increased and decreased
  against the nearest earlier filing.
`
}

func (c *timelineCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fund, "f", "", "Fund identifier.")
}

func (c *timelineCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := LoadService()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	entries, err := thirteenf.NewAggregator(svc.Store()).Timeline(c.fund)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.TimelineMarkdown(c.fund, entries))
	return subcommands.ExitSuccess
}
