package thirteenf

import (
	"iter"

	"github.com/finlens/thirteenf/quarter"
)

// Position is one security's holding within one filing. Positions are
// immutable once parsed; the percentage-of-portfolio is derived through
// Filing.Weight rather than stored.
type Position struct {
	Security Key
	Shares   Quantity
	Value    Money
}

// Filing is one fund's disclosure for one calendar quarter: an ordered set
// of positions with a unique security key each, plus the data-quality
// observations made while parsing. Immutable after creation; a (fund,
// quarter) pair has at most one Filing in a Store.
type Filing struct {
	fund      string
	quarter   quarter.Quarter
	positions []Position // insertion order
	index     map[Key]int
	total     Money // derived: sum of position values
	warnings  []Warning
	rejected  int
}

// Fund returns the fund identifier.
func (f *Filing) Fund() string { return f.fund }

// Quarter returns the calendar quarter of the disclosure.
func (f *Filing) Quarter() quarter.Quarter { return f.quarter }

// Len returns the number of positions.
func (f *Filing) Len() int { return len(f.positions) }

// Positions returns an iterator over positions in insertion order.
func (f *Filing) Positions() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		for _, p := range f.positions {
			if !yield(p) {
				return
			}
		}
	}
}

// Position returns the position for a security key, if present.
func (f *Filing) Position(key Key) (Position, bool) {
	if i, ok := f.index[key]; ok {
		return f.positions[i], true
	}
	return Position{}, false
}

// TotalValue returns the derived total reported value of the filing.
func (f *Filing) TotalValue() Money { return f.total }

// Weight returns a security's share of the filing's total value.
func (f *Filing) Weight(key Key) Percent {
	if f.total.IsZero() {
		return 0
	}
	p, ok := f.Position(key)
	if !ok {
		return 0
	}
	w, _ := p.Value.Ratio(f.total).Mul(newDecimal(100)).Float64()
	return Percent(w)
}

// Warnings returns the data-quality warnings attached while parsing.
func (f *Filing) Warnings() []Warning {
	out := make([]Warning, len(f.warnings))
	copy(out, f.warnings)
	return out
}

// RejectedRows returns the number of raw rows dropped while parsing.
func (f *Filing) RejectedRows() int { return f.rejected }

// Equal reports whether two filings carry identical position data. Used to
// verify that re-ingestion is idempotent.
func (f *Filing) Equal(g *Filing) bool {
	if f.fund != g.fund || f.quarter != g.quarter || len(f.positions) != len(g.positions) {
		return false
	}
	for i, p := range f.positions {
		q := g.positions[i]
		if p.Security != q.Security || !p.Shares.Equal(q.Shares) || !p.Value.Equal(q.Value) {
			return false
		}
	}
	return true
}
