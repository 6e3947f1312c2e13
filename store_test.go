package thirteenf

import (
	"fmt"
	"sync"
	"testing"

	"github.com/finlens/thirteenf/quarter"
)

// filingOf builds a minimal filing for store and delta tests.
func filingOf(t *testing.T, fund, q string, rows ...RawRow) *Filing {
	t.Helper()
	return NewParser(NewNormalizer(), DefaultOptions()).
		Parse(fund, quarter.MustParse(q), rows, 0)
}

func TestStorePutGet(t *testing.T) {
	s := NewStore()
	f := filingOf(t, "fund-a", "Q1 2024",
		RawRow{Cusip: "037833100", Name: "APPLE INC", Shares: 100, Value: 16000})

	if replaced := s.Put(f); replaced {
		t.Error("first Put reported a replacement")
	}
	got, ok := s.Get("fund-a", quarter.MustParse("Q1 2024"))
	if !ok || got != f {
		t.Fatal("Get did not return the stored filing")
	}
	if _, ok := s.Get("fund-a", quarter.MustParse("Q2 2024")); ok {
		t.Error("Get returned a filing for an absent quarter")
	}
	if _, ok := s.Get("fund-b", quarter.MustParse("Q1 2024")); ok {
		t.Error("Get returned a filing for an absent fund")
	}
}

func TestStoreReplaceIsIdempotent(t *testing.T) {
	s := NewStore()
	row := RawRow{Cusip: "037833100", Name: "APPLE INC", Shares: 100, Value: 16000}
	s.Put(filingOf(t, "fund-a", "Q1 2024", row))

	f2 := filingOf(t, "fund-a", "Q1 2024", row)
	if replaced := s.Put(f2); !replaced {
		t.Error("second Put did not report a replacement")
	}
	history := s.History("fund-a")
	if len(history) != 1 {
		t.Fatalf("re-ingestion duplicated the quarter: %d entries", len(history))
	}
	if history[0] != f2 {
		t.Error("re-ingestion did not replace the stored filing")
	}
}

func TestStoreHistoryOrdered(t *testing.T) {
	s := NewStore()
	// Insert out of order, including a year boundary.
	for _, q := range []string{"Q2 2024", "Q4 2023", "Q1 2024", "Q3 2023"} {
		s.Put(filingOf(t, "fund-a", q))
	}
	history := s.History("fund-a")
	want := []string{"Q3 2023", "Q4 2023", "Q1 2024", "Q2 2024"}
	if len(history) != len(want) {
		t.Fatalf("History() has %d entries, want %d", len(history), len(want))
	}
	for i, f := range history {
		if f.Quarter().String() != want[i] {
			t.Errorf("history[%d] = %s, want %s", i, f.Quarter(), want[i])
		}
	}
}

func TestStoreEarlier(t *testing.T) {
	s := NewStore()
	// A sparse sequence: the fund skipped Q3 2023 and Q1 2024.
	for _, q := range []string{"Q2 2023", "Q4 2023", "Q2 2024"} {
		s.Put(filingOf(t, "fund-a", q))
	}

	tests := []struct {
		q    string
		want string // empty means no earlier filing
	}{
		{"Q2 2024", "Q4 2023"}, // gap-aware: nearest earlier, not previous calendar quarter
		{"Q1 2024", "Q4 2023"},
		{"Q4 2023", "Q2 2023"},
		{"Q3 2023", "Q2 2023"},
		{"Q2 2023", ""}, // first observed quarter has no baseline
		{"Q1 2023", ""},
	}
	for _, tc := range tests {
		got, ok := s.Earlier("fund-a", quarter.MustParse(tc.q))
		if tc.want == "" {
			if ok {
				t.Errorf("Earlier(%s) = %s, want none", tc.q, got.Quarter())
			}
			continue
		}
		if !ok || got.Quarter().String() != tc.want {
			t.Errorf("Earlier(%s) = %v, want %s", tc.q, got, tc.want)
		}
	}
}

func TestStoreFundsSorted(t *testing.T) {
	s := NewStore()
	for _, fund := range []string{"zeta", "alpha", "mid"} {
		s.Put(filingOf(t, fund, "Q1 2024"))
	}
	funds := s.Funds()
	want := []string{"alpha", "mid", "zeta"}
	if len(funds) != len(want) {
		t.Fatalf("Funds() = %v", funds)
	}
	for i := range want {
		if funds[i] != want[i] {
			t.Errorf("Funds()[%d] = %s, want %s", i, funds[i], want[i])
		}
	}
}

func TestStoreConcurrentPut(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for y := 2020; y < 2025; y++ {
				for q := 1; q <= 4; q++ {
					fund := fmt.Sprintf("fund-%d", w)
					s.Put(filingOf(t, fund, fmt.Sprintf("Q%d %d", q, y)))
				}
			}
		}()
	}
	wg.Wait()

	for w := range 4 {
		fund := fmt.Sprintf("fund-%d", w)
		history := s.History(fund)
		if len(history) != 20 {
			t.Errorf("%s has %d filings, want 20", fund, len(history))
		}
		for i := 1; i < len(history); i++ {
			if !history[i-1].Quarter().Before(history[i].Quarter()) {
				t.Errorf("%s history out of order at %d", fund, i)
			}
		}
	}
}
