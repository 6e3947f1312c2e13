package thirteenf

import (
	"slices"
	"sort"
	"sync"

	"github.com/finlens/thirteenf/quarter"
)

// Store is the in-memory, append-only index of parsed filings keyed by
// (fund, quarter). It exclusively owns the Filing objects for the lifetime
// of a data-loading session.
//
// Put is atomic per key so concurrent readers never observe a partially
// stored filing; ordering is guaranteed per fund only, by the quarter's
// total order.
type Store struct {
	mu      sync.RWMutex
	filings map[string]map[quarter.Quarter]*Filing
	order   map[string][]quarter.Quarter // ascending per fund
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		filings: make(map[string]map[quarter.Quarter]*Filing),
		order:   make(map[string][]quarter.Quarter),
	}
}

// Put indexes a filing. Re-ingestion of an existing (fund, quarter) entry
// replaces it idempotently, never duplicates; the returned flag lets the
// caller log the overwrite.
func (s *Store) Put(f *Filing) (replaced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byQuarter, ok := s.filings[f.Fund()]
	if !ok {
		byQuarter = make(map[quarter.Quarter]*Filing)
		s.filings[f.Fund()] = byQuarter
	}
	_, replaced = byQuarter[f.Quarter()]
	byQuarter[f.Quarter()] = f
	if !replaced {
		order := s.order[f.Fund()]
		i, _ := slices.BinarySearchFunc(order, f.Quarter(), quarter.Quarter.Compare)
		s.order[f.Fund()] = slices.Insert(order, i, f.Quarter())
	}
	return replaced
}

// Get returns the filing for a (fund, quarter) pair, if present.
func (s *Store) Get(fund string, q quarter.Quarter) (*Filing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.filings[fund][q]
	return f, ok
}

// History returns a fund's filings ascending by quarter. Quarters form a
// sparse sequence: funds may skip quarters or start and stop reporting.
func (s *Store) History(fund string) []*Filing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order := s.order[fund]
	out := make([]*Filing, 0, len(order))
	for _, q := range order {
		out = append(out, s.filings[fund][q])
	}
	return out
}

// Earlier returns the nearest filing strictly before q for the fund, if any.
// This is the gap-aware pairing used by the delta engine: a fund with a
// reporting gap pairs a filing with its nearest earlier one, not with the
// previous calendar quarter.
func (s *Store) Earlier(fund string, q quarter.Quarter) (*Filing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order := s.order[fund]
	i, _ := slices.BinarySearchFunc(order, q, quarter.Quarter.Compare)
	if i == 0 {
		return nil, false
	}
	return s.filings[fund][order[i-1]], true
}

// Funds returns all known fund identifiers, sorted for determinism.
func (s *Store) Funds() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.filings))
	for fund := range s.filings {
		out = append(out, fund)
	}
	sort.Strings(out)
	return out
}
