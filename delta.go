package thirteenf

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/finlens/thirteenf/quarter"
)

// Action classifies one security's movement between two filings. The set is
// closed: consumers match it exhaustively.
type Action int

const (
	// Opened: absent from the earlier filing, present in the later.
	Opened Action = iota
	// Closed: present in the earlier filing, absent from the later.
	Closed
	// Increased: present in both with a higher later share count.
	Increased
	// Decreased: present in both with a lower later share count.
	Decreased
	// Unchanged: present in both with an equal share count. A value change
	// without a share change is still Unchanged: value alone conflates
	// market price movement with trading decisions.
	Unchanged
)

func (a Action) String() string {
	switch a {
	case Opened:
		return "opened"
	case Closed:
		return "closed"
	case Increased:
		return "increased"
	case Decreased:
		return "decreased"
	case Unchanged:
		return "unchanged"
	default:
		panic(fmt.Sprintf("unknown action %d", int(a)))
	}
}

// ParseAction parses an action name as typed on the command line.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "opened", "open", "new":
		return Opened, nil
	case "closed", "close", "exited":
		return Closed, nil
	case "increased", "increase", "added":
		return Increased, nil
	case "decreased", "decrease", "trimmed":
		return Decreased, nil
	case "unchanged", "held":
		return Unchanged, nil
	default:
		return Opened, fmt.Errorf("unknown action %q", s)
	}
}

// PositionDelta is one security's classified movement between two filings.
type PositionDelta struct {
	Security    Key
	Action      Action
	ShareChange Quantity
	ValueChange Money
}

// Delta is the position-level diff between two chronologically ordered
// filings of the same fund. Every security present in either filing appears
// exactly once, sorted by key for determinism.
type Delta struct {
	fund      string
	from, to  quarter.Quarter
	entries   []PositionDelta
	index     map[Key]int
	fromTotal Money
	toTotal   Money
}

// Fund returns the fund both filings belong to.
func (d *Delta) Fund() string { return d.fund }

// From returns the earlier filing's quarter.
func (d *Delta) From() quarter.Quarter { return d.from }

// To returns the later filing's quarter.
func (d *Delta) To() quarter.Quarter { return d.to }

// Len returns the number of classified securities.
func (d *Delta) Len() int { return len(d.entries) }

// Entries returns an iterator over all position deltas, ordered by key.
func (d *Delta) Entries() iter.Seq[PositionDelta] {
	return func(yield func(PositionDelta) bool) {
		for _, e := range d.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Get returns the delta entry for a security key, if present.
func (d *Delta) Get(key Key) (PositionDelta, bool) {
	if i, ok := d.index[key]; ok {
		return d.entries[i], true
	}
	return PositionDelta{}, false
}

// Turnover is the sum of absolute position value changes normalized by the
// average total value across the pair.
func (d *Delta) Turnover() Percent {
	avg := d.fromTotal.Add(d.toTotal).AsFloat() / 2
	if avg == 0 {
		return 0
	}
	var moved float64
	for _, e := range d.entries {
		moved += e.ValueChange.Abs().AsFloat()
	}
	return Percent(100 * moved / avg)
}

// TopMovers returns the n entries with the largest absolute value change,
// largest first. Ties resolve by key ascending.
func (d *Delta) TopMovers(n int) []PositionDelta {
	movers := make([]PositionDelta, len(d.entries))
	copy(movers, d.entries)
	sort.SliceStable(movers, func(i, j int) bool {
		a, b := movers[i].ValueChange.Abs(), movers[j].ValueChange.Abs()
		if !a.Equal(b) {
			return a.GreaterThan(b)
		}
		return movers[i].Security < movers[j].Security
	})
	if n < len(movers) {
		movers = movers[:n]
	}
	return movers
}

// Diff computes the position-level diff between two filings of the same
// fund. earlier must strictly precede later in the fund's filing sequence;
// the store's Earlier method provides the gap-aware pairing. For a fund's
// first observed filing there is nothing to diff against and callers must
// treat the quarter as a baseline (ErrMissingBaseline at the service level).
func Diff(earlier, later *Filing) (*Delta, error) {
	if earlier.Fund() != later.Fund() {
		return nil, fmt.Errorf("cannot diff filings of different funds %q and %q", earlier.Fund(), later.Fund())
	}
	if !earlier.Quarter().Before(later.Quarter()) {
		return nil, fmt.Errorf("filing %s does not strictly precede %s", earlier.Quarter(), later.Quarter())
	}

	// Union of keys, earlier first to keep long-held positions stable.
	keys := make([]Key, 0, earlier.Len()+later.Len())
	seen := make(map[Key]struct{}, earlier.Len()+later.Len())
	for p := range earlier.Positions() {
		keys = append(keys, p.Security)
		seen[p.Security] = struct{}{}
	}
	for p := range later.Positions() {
		if _, ok := seen[p.Security]; !ok {
			keys = append(keys, p.Security)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	d := &Delta{
		fund:      earlier.Fund(),
		from:      earlier.Quarter(),
		to:        later.Quarter(),
		index:     make(map[Key]int, len(keys)),
		fromTotal: earlier.TotalValue(),
		toTotal:   later.TotalValue(),
	}
	for _, key := range keys {
		was, hadBefore := earlier.Position(key)
		is, hasAfter := later.Position(key)

		var e PositionDelta
		switch {
		case !hadBefore:
			e = PositionDelta{Security: key, Action: Opened, ShareChange: is.Shares, ValueChange: is.Value}
		case !hasAfter:
			e = PositionDelta{Security: key, Action: Closed, ShareChange: was.Shares.Neg(), ValueChange: was.Value.Neg()}
		default:
			action := Unchanged
			if is.Shares.GreaterThan(was.Shares) {
				action = Increased
			} else if is.Shares.LessThan(was.Shares) {
				action = Decreased
			}
			e = PositionDelta{
				Security:    key,
				Action:      action,
				ShareChange: is.Shares.Sub(was.Shares),
				ValueChange: is.Value.Sub(was.Value),
			}
		}
		d.index[key] = len(d.entries)
		d.entries = append(d.entries, e)
	}
	return d, nil
}
