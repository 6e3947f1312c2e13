// Package cmd implements the CLI application to explore 13F filings.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/finlens/thirteenf"
	"github.com/google/subcommands"
)

// Commands lists every subcommand. A main package registers them on a
// commander and executes the user-selected one.
var Commands = []subcommands.Command{
	&fetchCmd{},
	&searchCmd{},
	&ingestCmd{},
	&fundsCmd{},
	&historyCmd{},
	&snapshotCmd{},
	&timelineCmd{},
	&deltaCmd{},
	&moversCmd{},
	&seriesCmd{},
	&exportCmd{},
	&topicCmd{},
	&assistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var filingsFile = flag.String("filings-file", "filings.jsonl", "Path to the raw filings file (JSONL format)")
var valueTolerance = flag.Float64("value-tolerance", float64(thirteenf.DefaultValueTolerance), "Relative tolerance in percent between a filing's derived and reported totals before a VALUE_MISMATCH warning")

func options() thirteenf.Options {
	return thirteenf.Options{ValueTolerance: thirteenf.Percent(*valueTolerance)}
}

// LoadService rebuilds the ingestion service from the app's raw filings
// file. A missing file is an empty store, not an error. Filings are ingested
// in file order so a re-fetched quarter later in the file wins.
func LoadService() (*thirteenf.Service, error) {
	svc := thirteenf.NewService(options())

	f, err := os.Open(*filingsFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, filings file does not exist, starting with an empty store")
		return svc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open filings file %q: %w", *filingsFile, err)
	}
	defer f.Close()

	raws, err := thirteenf.DecodeRawFilings(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode filings file %q: %w", *filingsFile, err)
	}
	for _, raw := range raws {
		if _, _, err := svc.Ingest(raw); err != nil {
			return nil, fmt.Errorf("filings file %q: %w", *filingsFile, err)
		}
	}
	return svc, nil
}

// AppendRawFilings appends raw filings to the app's filings file, creating
// it if needed.
func AppendRawFilings(raws ...thirteenf.RawFiling) error {
	f, err := os.OpenFile(*filingsFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open filings file %q: %w", *filingsFile, err)
	}
	defer f.Close()

	for _, raw := range raws {
		if err := thirteenf.EncodeRawFiling(f, raw); err != nil {
			return fmt.Errorf("could not write to filings file %q: %w", *filingsFile, err)
		}
	}
	return nil
}
