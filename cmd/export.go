package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/finlens/thirteenf"
	"github.com/google/subcommands"
)

// exportCmd writes the parsed, canonical form of the store.
type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the parsed filings in canonical JSONL form" }
func (*exportCmd) Usage() string {
	return `fft export [-o <file>]

  Parses the filings file and writes every filing in its canonical form
  (normalized keys, merged rows, derived totals) as JSONL, ordered by
  fund then quarter. Writes to stdout by default.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file. Writes to stdout by default.")
}

func (c *exportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := LoadService()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	var buf bytes.Buffer
	if err := thirteenf.EncodeStore(&buf, svc.Store()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	// The canonical form must survive its own round trip before it is
	// handed to anyone else.
	decoded, err := thirteenf.DecodeStore(bytes.NewReader(buf.Bytes()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: canonical output does not decode: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, fund := range svc.Store().Funds() {
		want, got := svc.Store().History(fund), decoded.History(fund)
		if len(want) != len(got) {
			fmt.Fprintf(os.Stderr, "Error: canonical output lost filings of %s\n", fund)
			return subcommands.ExitFailure
		}
		for i := range want {
			if !want[i].Equal(got[i]) {
				fmt.Fprintf(os.Stderr, "Error: canonical output altered %s %s\n", fund, want[i].Quarter())
				return subcommands.ExitFailure
			}
		}
	}

	if c.output == "" {
		_, err = os.Stdout.Write(buf.Bytes())
	} else {
		err = os.WriteFile(c.output, buf.Bytes(), 0644)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
