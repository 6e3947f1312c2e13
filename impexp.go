package thirteenf

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// This file handles import and export of raw filings. The raw JSONL file is
// the system of record: parsing is deterministic, so re-ingesting the same
// raw file always rebuilds the same store and the same alias table.

// EncodeRawFiling writes one raw filing as a single JSON line.
func EncodeRawFiling(w io.Writer, raw RawFiling) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to marshal raw filing of %s: %w", raw.Fund, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write raw filing: %w", err)
	}
	return nil
}

// DecodeRawFilings reads raw filings from a stream of JSONL data, in file
// order. Later lines for the same (fund, quarter) pair intentionally win at
// ingestion time.
func DecodeRawFilings(r io.Reader) ([]RawFiling, error) {
	var raws []RawFiling
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<24)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}
		var raw RawFiling
		if err := json.Unmarshal(lineBytes, &raw); err != nil {
			return nil, fmt.Errorf("could not decode raw filing line %q: %w", string(lineBytes), err)
		}
		raws = append(raws, raw)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return raws, nil
}
