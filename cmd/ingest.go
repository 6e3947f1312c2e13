package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/finlens/thirteenf"
	"github.com/google/subcommands"
)

// ingestCmd adds raw filing files to the filings file.
type ingestCmd struct{}

func (*ingestCmd) Name() string     { return "ingest" }
func (*ingestCmd) Synopsis() string { return "ingest raw filing files into the filings file" }
func (*ingestCmd) Usage() string {
	return `fft ingest <file>...

  Reads raw filings (JSONL format, one filing per line) from the given
  files, validates them, reports data-quality warnings, and appends them
  to the filings file. A filing for an already known (fund, quarter)
  pair replaces the previous one.
`
}

func (*ingestCmd) SetFlags(f *flag.FlagSet) {}

func (c *ingestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one raw filing file is required")
		return subcommands.ExitUsageError
	}

	// Start from the existing store so replacements are detected and warned.
	svc, err := LoadService()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	var accepted []thirteenf.RawFiling
	for _, name := range f.Args() {
		file, err := os.Open(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", name, err)
			return subcommands.ExitFailure
		}
		raws, err := thirteenf.DecodeRawFilings(file)
		file.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error decoding %q: %v\n", name, err)
			return subcommands.ExitFailure
		}

		for _, raw := range raws {
			filing, res, err := svc.Ingest(raw)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error ingesting from %q: %v\n", name, err)
				return subcommands.ExitFailure
			}
			fmt.Printf("%s %s: %d positions, %d rejected rows\n",
				filing.Fund(), filing.Quarter(), filing.Len(), res.Rejected)
			for _, w := range res.Warnings {
				fmt.Fprintf(os.Stderr, "  warning %s\n", w)
			}
			accepted = append(accepted, raw)
		}
	}

	if err := AppendRawFilings(accepted...); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully appended %d filings to %s\n", len(accepted), *filingsFile)
	return subcommands.ExitSuccess
}
