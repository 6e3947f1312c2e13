package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/finlens/thirteenf"
	"github.com/google/subcommands"
)

// fetchCmd downloads a manager's filing history from 13f.info.
type fetchCmd struct {
	manager string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "download a fund's 13F filing history from 13f.info" }
func (*fetchCmd) Usage() string {
	return `fft fetch -m <manager>

  Downloads every filing of a manager from 13f.info, appends the raw
  holdings to the filings file and reports ingestion warnings.
  Use 'fft search' to find the manager identifier.

Usage Examples:
# Fetch all filings of Valley Forge Capital Management.
$ fft fetch -m 0001697868-valley-forge-capital-management-lp

`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.manager, "m", "", "Manager identifier on 13f.info (see 'fft search').")
}

func (c *fetchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.manager == "" {
		fmt.Fprintln(os.Stderr, "Error: -m <manager> is required")
		return subcommands.ExitUsageError
	}

	raws, err := thirteenf.FetchFund(c.manager)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching %q: %v\n", c.manager, err)
		return subcommands.ExitFailure
	}

	// Ingest before persisting so a filing that cannot be indexed at all
	// never lands in the file.
	svc := thirteenf.NewService(options())
	for _, raw := range raws {
		filing, res, err := svc.Ingest(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error ingesting %s %s: %v\n", raw.Fund, raw.Quarter, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("%s %s: %d positions, %d rejected rows\n",
			filing.Fund(), filing.Quarter(), filing.Len(), res.Rejected)
		for _, w := range res.Warnings {
			fmt.Fprintf(os.Stderr, "  warning %s\n", w)
		}
	}

	if err := AppendRawFilings(raws...); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully appended %d filings to %s\n", len(raws), *filingsFile)
	return subcommands.ExitSuccess
}
