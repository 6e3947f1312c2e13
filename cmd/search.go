package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/finlens/thirteenf"
	"github.com/google/subcommands"
)

// searchCmd looks up manager identifiers on 13f.info.
type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search 13f.info for a manager by name" }
func (*searchCmd) Usage() string {
	return `fft search <name>

  Searches the 13f.info manager index by name and prints the matching
  manager identifiers usable with 'fft fetch -m'.
`
}

func (*searchCmd) SetFlags(f *flag.FlagSet) {}

func (c *searchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: a name to search for is required")
		return subcommands.ExitUsageError
	}
	query := strings.Join(f.Args(), " ")

	managers, err := thirteenf.SearchManagers(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching for %q: %v\n", query, err)
		return subcommands.ExitFailure
	}
	if len(managers) == 0 {
		fmt.Printf("No manager matching %q.\n", query)
		return subcommands.ExitSuccess
	}
	for _, m := range managers {
		fmt.Printf("%-60s %s\n", m.Name, m.Slug)
	}
	return subcommands.ExitSuccess
}
