package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/finlens/thirteenf/renderer"
	"github.com/google/subcommands"
)

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct {
	fund string
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list a fund's filings" }
func (*historyCmd) Usage() string {
	return `fft history -f <fund>

  Lists every filing stored for a fund, one row per quarter, with the
  reported total value, the number of positions, and the count of rows
  that were rejected during parsing.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.fund, "f", "", "Fund identifier.")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := LoadService()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	filings := svc.Store().History(c.fund)
	if len(filings) == 0 {
		fmt.Fprintf(os.Stderr, "No filings stored for %q.\n", c.fund)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HistoryMarkdown(c.fund, filings))
	return subcommands.ExitSuccess
}
