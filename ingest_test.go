package thirteenf

import (
	"fmt"
	"testing"

	"github.com/finlens/thirteenf/quarter"
)

func rawFilingOf(fund, q string, rows ...RawRow) RawFiling {
	return RawFiling{Fund: fund, Quarter: q, Rows: rows}
}

func TestIngest(t *testing.T) {
	svc := NewService(DefaultOptions())
	f, res, err := svc.Ingest(rawFilingOf("fund-a", "Q1 2024",
		RawRow{Cusip: "037833100", Name: "APPLE INC", Shares: 100, Value: 16000},
		RawRow{Cusip: "594918104", Name: "MICROSOFT CORP", Shares: -1, Value: 100},
	))
	if err != nil {
		t.Fatal(err)
	}
	if f.Len() != 1 || res.Rejected != 1 {
		t.Errorf("Len=%d Rejected=%d, want 1 and 1", f.Len(), res.Rejected)
	}
	if res.Replaced {
		t.Error("first ingestion reported a replacement")
	}
	if _, ok := svc.Store().Get("fund-a", quarter.MustParse("Q1 2024")); !ok {
		t.Error("filing not indexed in the store")
	}
}

func TestIngestFatalConditions(t *testing.T) {
	svc := NewService(DefaultOptions())
	if _, _, err := svc.Ingest(rawFilingOf("", "Q1 2024")); err == nil {
		t.Error("empty fund must be fatal")
	}
	if _, _, err := svc.Ingest(rawFilingOf("fund-a", "sometime in 2024")); err == nil {
		t.Error("unparsable quarter must be fatal")
	}
}

func TestIngestReplaceWarns(t *testing.T) {
	svc := NewService(DefaultOptions())
	raw := rawFilingOf("fund-a", "Q1 2024",
		RawRow{Cusip: "037833100", Name: "APPLE INC", Shares: 100, Value: 16000})

	if _, res, err := svc.Ingest(raw); err != nil || res.Replaced {
		t.Fatalf("first ingest: res=%+v err=%v", res, err)
	}
	_, res, err := svc.Ingest(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Replaced {
		t.Error("re-ingestion did not report a replacement")
	}
	found := false
	for _, w := range res.Warnings {
		if w.Code == WarnDuplicateQuarter {
			found = true
		}
	}
	if !found {
		t.Errorf("Warnings = %v, want a %s", res.Warnings, WarnDuplicateQuarter)
	}
	if len(svc.Store().History("fund-a")) != 1 {
		t.Error("re-ingestion duplicated the quarter")
	}
}

func TestIngestIdempotent(t *testing.T) {
	raw := rawFilingOf("fund-a", "Q1 2024",
		RawRow{Cusip: "037833100", Name: "APPLE INC", Shares: 100, Value: 16000},
		RawRow{Ticker: "BRK.B", Name: "BERKSHIRE HATHAWAY", Shares: 10, Value: 4000},
	)
	svc := NewService(DefaultOptions())
	f1, _, err := svc.Ingest(raw)
	if err != nil {
		t.Fatal(err)
	}
	f2, _, err := svc.Ingest(raw)
	if err != nil {
		t.Fatal(err)
	}
	if !f1.Equal(f2) {
		t.Error("re-ingestion produced a different filing")
	}
}

func TestIngestSharedNormalizer(t *testing.T) {
	svc := NewService(DefaultOptions())
	// First filing establishes the CUSIP key with its aliases.
	if _, _, err := svc.Ingest(rawFilingOf("fund-a", "Q1 2024",
		RawRow{Cusip: "037833100", Name: "APPLE INC", Shares: 100, Value: 16000})); err != nil {
		t.Fatal(err)
	}
	// Second fund reports the same raw CUSIP string; the alias table maps it
	// to the same canonical key so cross-fund aggregation lines up.
	if _, _, err := svc.Ingest(rawFilingOf("fund-b", "Q1 2024",
		RawRow{Cusip: "037833100", Name: "Apple Incorporated", Shares: 5, Value: 800})); err != nil {
		t.Fatal(err)
	}

	key, ok := svc.Normalizer().Resolve("037833100")
	if !ok {
		t.Fatal("CUSIP not in the alias table")
	}
	for _, fund := range []string{"fund-a", "fund-b"} {
		f, _ := svc.Store().Get(fund, quarter.MustParse("Q1 2024"))
		if _, ok := f.Position(key); !ok {
			t.Errorf("%s has no position under the shared key %s", fund, key)
		}
	}
}

func TestIngestAll(t *testing.T) {
	raws := make([]RawFiling, 0, 40)
	for i := range 10 {
		fund := fmt.Sprintf("fund-%02d", i)
		for q := 1; q <= 4; q++ {
			raws = append(raws, rawFilingOf(fund, fmt.Sprintf("Q%d 2024", q),
				RawRow{Cusip: "037833100", Name: "APPLE INC", Shares: float64(100 + q), Value: 16000}))
		}
	}
	svc := NewService(DefaultOptions())
	if err := svc.IngestAll(raws); err != nil {
		t.Fatal(err)
	}
	if funds := svc.Store().Funds(); len(funds) != 10 {
		t.Fatalf("Funds() = %v, want 10 funds", funds)
	}
	for _, fund := range svc.Store().Funds() {
		if got := len(svc.Store().History(fund)); got != 4 {
			t.Errorf("%s has %d filings, want 4", fund, got)
		}
	}
}

func TestIngestAllCollectsFailures(t *testing.T) {
	svc := NewService(DefaultOptions())
	raws := []RawFiling{
		rawFilingOf("fund-a", "Q1 2024",
			RawRow{Cusip: "037833100", Name: "APPLE INC", Shares: 100, Value: 16000}),
		rawFilingOf("", "Q1 2024"), // fatal: no fund
	}
	if err := svc.IngestAll(raws); err == nil {
		t.Fatal("batch with a fatal filing must return an error")
	}
	// The good filing is in the store regardless.
	if _, ok := svc.Store().Get("fund-a", quarter.MustParse("Q1 2024")); !ok {
		t.Error("valid filing was dropped because a sibling failed")
	}
}
