package thirteenf

import (
	"math"

	"github.com/finlens/thirteenf/quarter"
)

// RawRow is one holdings row as disclosed in a filing, before normalization.
// The column set follows the 13f.info filing payloads; only identifier,
// name, shares and value are required.
type RawRow struct {
	Cusip      string  `json:"cusip"`
	Ticker     string  `json:"ticker"`
	Name       string  `json:"name"`
	Class      string  `json:"class,omitempty"`
	OptionType string  `json:"optionType,omitempty"` // "put", "call" or ""
	Shares     float64 `json:"shares"`
	Value      float64 `json:"value"` // reported market value in USD
}

// RawFiling is one fund's one-quarter raw holdings table as produced by an
// external fetch collaborator. The core does not know or care how it was
// obtained.
type RawFiling struct {
	Fund          string   `json:"fund"`
	Quarter       string   `json:"quarter"` // e.g. "Q1 2024"
	ReportedTotal float64  `json:"reportedTotal,omitempty"`
	Rows          []RawRow `json:"rows"`
}

// DefaultValueTolerance is the default relative tolerance between a filing's
// derived total and its reported total before a VALUE_MISMATCH warning is
// attached. 13F filers round values inconsistently, so the exact figure is
// configurable rather than hard-coded.
const DefaultValueTolerance = Percent(0.5)

// Options configures the parsing policies that vary across filers.
type Options struct {
	// ValueTolerance is the relative tolerance (in percent of the reported
	// total) for the derived-total invariant check.
	ValueTolerance Percent
	// RejectDuplicates disables the default policy of merging rows that
	// normalize to the same security key by summing shares and value.
	// When set, only the first row for a key is kept and later ones are
	// rejected as malformed.
	RejectDuplicates bool
}

// DefaultOptions returns the parsing defaults.
func DefaultOptions() Options {
	return Options{ValueTolerance: DefaultValueTolerance}
}

// Parser converts raw holdings tables into Filings using a shared Normalizer.
type Parser struct {
	norm *Normalizer
	opts Options
}

// NewParser returns a parser bound to a normalizer.
func NewParser(norm *Normalizer, opts Options) *Parser {
	if opts.ValueTolerance <= 0 {
		opts.ValueTolerance = DefaultValueTolerance
	}
	return &Parser{norm: norm, opts: opts}
}

// Parse converts one fund's one-quarter raw rows into a Filing. Each row
// yields one position via the normalizer. Bad rows are dropped and counted,
// never fatal: rows with unparsable, non-positive or fractional share counts
// or negative values are rejected as malformed, and rows that cannot be
// keyed at all are rejected as unresolved.
//
// Rows that normalize to the same key are merged by summing shares and
// value. This is a deliberate policy: 13F filings occasionally report the
// same issuer across multiple row entries (share classes, lot splits).
//
// reportedTotal, when positive, is checked against the derived total within
// the configured tolerance; disagreement attaches a VALUE_MISMATCH warning
// but still constructs the filing.
func (p *Parser) Parse(fund string, q quarter.Quarter, rows []RawRow, reportedTotal float64) *Filing {
	f := &Filing{
		fund:    fund,
		quarter: q,
		index:   make(map[Key]int, len(rows)),
		total:   USD(0),
	}

	for i, row := range rows {
		if !validShares(row.Shares) || !validValue(row.Value) {
			f.warnings = append(f.warnings, warnf(WarnMalformedRow,
				"row %d (%s): unusable shares %v or value %v", i, row.Name, row.Shares, row.Value))
			f.rejected++
			continue
		}

		rawID := row.Cusip
		if rawID == "" {
			rawID = row.Ticker
		}
		key := p.norm.Normalize(rawID, row.Name)
		if key.IsUnresolved() {
			f.warnings = append(f.warnings, warnf(WarnUnresolvedIdentifier,
				"row %d: no usable identifier or name", i))
			f.rejected++
			continue
		}
		key = key.WithOption(row.OptionType)

		shares, value := Q(row.Shares), USD(row.Value)
		if at, dup := f.index[key]; dup {
			if p.opts.RejectDuplicates {
				f.warnings = append(f.warnings, warnf(WarnMalformedRow,
					"row %d (%s): duplicate of %s rejected by policy", i, row.Name, key))
				f.rejected++
				continue
			}
			merged := f.positions[at]
			merged.Shares = merged.Shares.Add(shares)
			merged.Value = merged.Value.Add(value)
			f.positions[at] = merged
		} else {
			f.index[key] = len(f.positions)
			f.positions = append(f.positions, Position{Security: key, Shares: shares, Value: value})
		}
		f.total = f.total.Add(value)
	}

	if reportedTotal > 0 {
		derived := f.total.AsFloat()
		if relDiff(derived, reportedTotal) > float64(p.opts.ValueTolerance)/100 {
			f.warnings = append(f.warnings, warnf(WarnValueMismatch,
				"derived total %s disagrees with reported total %s beyond %s",
				f.total, USD(reportedTotal), p.opts.ValueTolerance))
		}
	}
	return f
}

// validShares accepts positive whole share counts only. 13F share counts
// are integers; a fractional count is a parsing artifact, not a holding.
func validShares(s float64) bool {
	return !math.IsNaN(s) && !math.IsInf(s, 0) && s > 0 && Q(s).IsInteger()
}

func validValue(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func relDiff(a, b float64) float64 {
	if b == 0 {
		return math.Abs(a)
	}
	return math.Abs(a-b) / math.Abs(b)
}
