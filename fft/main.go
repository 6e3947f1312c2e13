package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/finlens/thirteenf/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command tree for shell completion. It returns
// immediately unless the shell is asking for completions.
func completion() {
	quarters := predict.Set{"\"Q1 2024\"", "\"Q2 2024\"", "\"Q3 2024\"", "\"Q4 2024\""}
	actions := predict.Set{"opened", "closed", "increased", "decreased", "unchanged"}

	c := &complete.Command{
		Flags: map[string]complete.Predictor{
			"filings-file":    predict.Files("*.jsonl"),
			"value-tolerance": predict.Something,
		},
		Sub: map[string]*complete.Command{
			"fetch":   {Flags: map[string]complete.Predictor{"m": predict.Something}},
			"search":  {},
			"ingest":  {Args: predict.Files("*.jsonl")},
			"funds":   {Flags: map[string]complete.Predictor{"securities": predict.Nothing}},
			"history": {Flags: map[string]complete.Predictor{"f": predict.Something}},
			"snapshot": {Flags: map[string]complete.Predictor{
				"f": predict.Something,
				"q": quarters,
				"n": predict.Something,
			}},
			"timeline": {Flags: map[string]complete.Predictor{"f": predict.Something}},
			"delta": {Flags: map[string]complete.Predictor{
				"f": predict.Something,
				"q": quarters,
			}},
			"movers": {Flags: map[string]complete.Predictor{
				"q":      quarters,
				"action": actions,
				"n":      predict.Something,
			}},
			"series": {Flags: map[string]complete.Predictor{
				"f": predict.Something,
				"k": predict.Something,
			}},
			"export": {Flags: map[string]complete.Predictor{"o": predict.Files("*.jsonl")}},
			"topic":  {Args: predict.Set{"identifiers", "quarters", "deltas", "warnings", "readme"}},
			"assist": {},
		},
	}
	c.Complete("fft")
}

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
