package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/finlens/thirteenf/renderer"
	"github.com/google/subcommands"
)

// fundsCmd lists the funds in the store.
type fundsCmd struct {
	securities bool
}

func (*fundsCmd) Name() string     { return "funds" }
func (*fundsCmd) Synopsis() string { return "list the funds and securities in the filings file" }
func (*fundsCmd) Usage() string {
	return `fft funds [-securities]

  Lists every fund known to the filings file. With -securities it also
  prints the full table of known securities with their aliases.
`
}

func (c *fundsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.securities, "securities", false, "also list all known securities and their aliases")
}

func (c *fundsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := LoadService()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	out := renderer.FundsMarkdown(svc.Store().Funds())
	if c.securities {
		out += "\n" + renderer.SecuritiesMarkdown(svc.Normalizer())
	}
	printMarkdown(out)
	return subcommands.ExitSuccess
}
