package thirteenf

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/finlens/thirteenf/quarter"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// positionCmd is a specialized struct for decoding a position line field.
type positionCmd struct {
	Security Key             `json:"security"`
	Shares   decimal.Decimal `json:"shares"`
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency,omitempty"`
}

func (p positionCmd) Position() Position {
	cur := p.Currency
	if cur == "" {
		cur = "USD"
	}
	return Position{
		Security: p.Security,
		Shares:   Q(p.Shares),
		Value:    M(p.Value, cur),
	}
}

// filingCmd is the on-disk shape of one filing line.
type filingCmd struct {
	Fund      string          `json:"fund"`
	Quarter   quarter.Quarter `json:"quarter"`
	Positions []positionCmd   `json:"positions"`
	Warnings  []Warning       `json:"warnings,omitempty"`
	Rejected  int             `json:"rejected,omitempty"`
}

// MarshalJSON encodes a filing with a stable field order: fund, quarter,
// positions, warnings, rejected.
func (f *Filing) MarshalJSON() ([]byte, error) {
	positions := make([]positionCmd, 0, len(f.positions))
	for _, p := range f.positions {
		v, cur := p.Value.value, p.Value.cur
		if cur == "USD" {
			cur = "" // USD is the implied currency of 13F values
		}
		positions = append(positions, positionCmd{
			Security: p.Security,
			Shares:   p.Shares.value,
			Value:    v,
			Currency: cur,
		})
	}
	w := &jsonObjectWriter{}
	w.Append("fund", f.fund)
	w.Append("quarter", f.quarter)
	w.Append("positions", positions)
	if len(f.warnings) > 0 {
		w.Append("warnings", f.warnings)
	}
	if f.rejected > 0 {
		w.Append("rejected", f.rejected)
	}
	return w.MarshalJSON()
}

// EncodeFiling writes one filing as a single JSON line.
func EncodeFiling(w io.Writer, f *Filing) error {
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal filing of %s: %w", f.Fund(), err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write filing: %w", err)
	}
	return nil
}

// EncodeStore persists every filing in the store to an io.Writer in JSONL
// format, ordered by fund then quarter so output is canonical.
func EncodeStore(w io.Writer, s *Store) error {
	for _, fund := range s.Funds() {
		for _, f := range s.History(fund) {
			if err := EncodeFiling(w, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// DecodeStore reads filings from a stream of JSONL data and indexes them
// into a fresh store. Positions round-trip exactly, including warnings and
// rejection counts recorded at parse time.
func DecodeStore(r io.Reader) (*Store, error) {
	store := NewStore()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1<<20), 1<<24) // filings can exceed the default line limit

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var cmd filingCmd
		if err := json.Unmarshal(lineBytes, &cmd); err != nil {
			return nil, fmt.Errorf("could not decode filing line %q: %w", string(lineBytes), err)
		}
		if cmd.Fund == "" {
			return nil, fmt.Errorf("filing line %q has no fund", string(lineBytes))
		}

		f := &Filing{
			fund:     cmd.Fund,
			quarter:  cmd.Quarter,
			index:    make(map[Key]int, len(cmd.Positions)),
			total:    USD(0),
			warnings: cmd.Warnings,
			rejected: cmd.Rejected,
		}
		for _, pc := range cmd.Positions {
			p := pc.Position()
			if _, dup := f.index[p.Security]; dup {
				return nil, fmt.Errorf("filing of %s for %s repeats security %s", cmd.Fund, cmd.Quarter, p.Security)
			}
			f.index[p.Security] = len(f.positions)
			f.positions = append(f.positions, p)
			f.total = f.total.Add(p.Value)
		}
		store.Put(f)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	return store, nil
}
