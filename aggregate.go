package thirteenf

import (
	"fmt"
	"sort"

	"github.com/finlens/thirteenf/quarter"
)

// Aggregator computes read-only views over a store of filings: per-quarter
// snapshots, per-fund timelines, cross-fund movers and per-security series.
// It holds no state of its own, so it is safe for concurrent use whenever
// the underlying store is.
type Aggregator struct {
	store *Store
}

// NewAggregator returns an aggregator over the given store.
func NewAggregator(store *Store) *Aggregator {
	return &Aggregator{store: store}
}

// Holding is one position enriched with its share of the filing's total.
type Holding struct {
	Position
	Weight Percent
}

// Snapshot is the summary view of one fund's one-quarter filing.
type Snapshot struct {
	Fund          string
	Quarter       quarter.Quarter
	TotalValue    Money
	Positions     int
	Top           []Holding // largest by value, ties by key ascending
	Concentration float64   // sum of squared portfolio weights, in [0,1]
}

// Snapshot summarizes a fund's filing for one quarter: total value, the n
// largest holdings by value, and the concentration index. Concentration is
// the sum of squared weights, so a single-position portfolio scores 1 and an
// equal-weighted portfolio of k positions scores 1/k.
func (a *Aggregator) Snapshot(fund string, q quarter.Quarter, n int) (*Snapshot, error) {
	f, ok := a.store.Get(fund, q)
	if !ok {
		return nil, fmt.Errorf("no filing for %s in %s", fund, q)
	}

	holdings := make([]Holding, 0, f.Len())
	var concentration float64
	for p := range f.Positions() {
		w := f.Weight(p.Security)
		concentration += float64(w) / 100 * float64(w) / 100
		holdings = append(holdings, Holding{Position: p, Weight: w})
	}
	sort.SliceStable(holdings, func(i, j int) bool {
		if !holdings[i].Value.Equal(holdings[j].Value) {
			return holdings[i].Value.GreaterThan(holdings[j].Value)
		}
		return holdings[i].Security < holdings[j].Security
	})
	if n > 0 && n < len(holdings) {
		holdings = holdings[:n]
	}

	return &Snapshot{
		Fund:          fund,
		Quarter:       q,
		TotalValue:    f.TotalValue(),
		Positions:     f.Len(),
		Top:           holdings,
		Concentration: concentration,
	}, nil
}

// TimelineEntry pairs a filing with the delta against its nearest earlier
// filing. Delta is nil for the fund's first observed quarter.
type TimelineEntry struct {
	Filing *Filing
	Delta  *Delta
}

// Timeline returns a fund's full filing history, ascending by quarter, each
// entry carrying the delta against its nearest earlier filing. A fund that
// skipped quarters still gets a consistent chain: pairing follows the
// observed sequence, not the calendar.
func (a *Aggregator) Timeline(fund string) ([]TimelineEntry, error) {
	history := a.store.History(fund)
	if len(history) == 0 {
		return nil, fmt.Errorf("no filings for %s", fund)
	}

	entries := make([]TimelineEntry, 0, len(history))
	for i, f := range history {
		e := TimelineEntry{Filing: f}
		if i > 0 {
			d, err := Diff(history[i-1], f)
			if err != nil {
				return nil, fmt.Errorf("timeline of %s at %s: %w", fund, f.Quarter(), err)
			}
			e.Delta = d
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// DeltaFor computes the delta of a fund's filing at q against its nearest
// earlier filing. Returns ErrMissingBaseline when q is the fund's first
// observed quarter.
func (a *Aggregator) DeltaFor(fund string, q quarter.Quarter) (*Delta, error) {
	f, ok := a.store.Get(fund, q)
	if !ok {
		return nil, fmt.Errorf("no filing for %s in %s", fund, q)
	}
	earlier, ok := a.store.Earlier(fund, q)
	if !ok {
		return nil, fmt.Errorf("%s in %s: %w", fund, q, ErrMissingBaseline)
	}
	return Diff(earlier, f)
}

// Mover is one security ranked by how many funds performed the same action
// on it in a quarter.
type Mover struct {
	Security   Key
	Funds      []string // sorted, for determinism
	ValueDelta Money    // aggregate value change across those funds
}

// Movers ranks securities by how many funds performed the given action on
// them in quarter q, considering every fund whose filing at q has an earlier
// filing to diff against. Ranking is by fund count descending, then by
// signed aggregate value change descending, then by key ascending, so the
// output is stable across runs.
func (a *Aggregator) Movers(q quarter.Quarter, action Action, n int) ([]Mover, error) {
	byKey := make(map[Key]*Mover)
	for _, fund := range a.store.Funds() {
		d, err := a.DeltaFor(fund, q)
		if err != nil {
			// Funds without a filing at q, or without a baseline, simply
			// do not participate.
			continue
		}
		for e := range d.Entries() {
			if e.Action != action {
				continue
			}
			m, ok := byKey[e.Security]
			if !ok {
				m = &Mover{Security: e.Security, ValueDelta: USD(0)}
				byKey[e.Security] = m
			}
			m.Funds = append(m.Funds, fund)
			m.ValueDelta = m.ValueDelta.Add(e.ValueChange)
		}
	}

	movers := make([]Mover, 0, len(byKey))
	for _, m := range byKey {
		sort.Strings(m.Funds)
		movers = append(movers, *m)
	}
	sort.SliceStable(movers, func(i, j int) bool {
		if len(movers[i].Funds) != len(movers[j].Funds) {
			return len(movers[i].Funds) > len(movers[j].Funds)
		}
		if !movers[i].ValueDelta.Equal(movers[j].ValueDelta) {
			return movers[i].ValueDelta.GreaterThan(movers[j].ValueDelta)
		}
		return movers[i].Security < movers[j].Security
	})
	if n > 0 && n < len(movers) {
		movers = movers[:n]
	}
	return movers, nil
}

// Series returns a security's reported value in a fund across the fund's
// whole observed quarter range. Quarters between the fund's first and last
// filing where the security is absent, or where the fund itself did not
// file, appear with a zero value, so plots do not interpolate over exits.
func (a *Aggregator) Series(fund string, key Key) (*quarter.History[float64], error) {
	history := a.store.History(fund)
	if len(history) == 0 {
		return nil, fmt.Errorf("no filings for %s", fund)
	}

	byQuarter := make(map[quarter.Quarter]float64, len(history))
	for _, f := range history {
		if p, ok := f.Position(key); ok {
			byQuarter[f.Quarter()] = p.Value.AsFloat()
		}
	}

	var series quarter.History[float64]
	first, last := history[0].Quarter(), history[len(history)-1].Quarter()
	for q := first; !q.After(last); q = q.Next() {
		series.Append(q, byQuarter[q])
	}
	return &series, nil
}
