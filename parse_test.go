package thirteenf

import (
	"strings"
	"testing"

	"github.com/finlens/thirteenf/quarter"
)

func newTestParser() *Parser {
	return NewParser(NewNormalizer(), DefaultOptions())
}

func q1_2024() quarter.Quarter { return quarter.MustParse("Q1 2024") }

func TestParseBasic(t *testing.T) {
	p := newTestParser()
	rows := []RawRow{
		{Cusip: "037833100", Name: "APPLE INC", Shares: 100, Value: 16000},
		{Cusip: "594918104", Name: "MICROSOFT CORP", Shares: 50, Value: 20000},
	}
	f := p.Parse("fund-a", q1_2024(), rows, 36000)

	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}
	if f.RejectedRows() != 0 || len(f.Warnings()) != 0 {
		t.Errorf("clean filing has rejected=%d warnings=%v", f.RejectedRows(), f.Warnings())
	}
	if !f.TotalValue().Equal(USD(36000)) {
		t.Errorf("TotalValue() = %s, want $36,000.00", f.TotalValue())
	}

	pos, ok := f.Position(Key("037833100"))
	if !ok {
		t.Fatal("apple position missing")
	}
	if !pos.Shares.Equal(Q(100)) || !pos.Value.Equal(USD(16000)) {
		t.Errorf("apple position = %+v", pos)
	}
}

func TestParseWeight(t *testing.T) {
	p := newTestParser()
	f := p.Parse("fund-a", q1_2024(), []RawRow{
		{Cusip: "037833100", Name: "APPLE INC", Shares: 100, Value: 7500},
		{Cusip: "594918104", Name: "MICROSOFT CORP", Shares: 50, Value: 2500},
	}, 0)

	if w := f.Weight(Key("037833100")); !w.Equal(Percent(75)) {
		t.Errorf("Weight(apple) = %s, want 75.00%%", w)
	}
	if w := f.Weight(Key("594918104")); !w.Equal(Percent(25)) {
		t.Errorf("Weight(msft) = %s, want 25.00%%", w)
	}
	if w := f.Weight(Key("XXXX")); w != 0 {
		t.Errorf("Weight(absent) = %s, want 0", w)
	}
}

func TestParseRejectsMalformedRows(t *testing.T) {
	p := newTestParser()
	rows := []RawRow{
		{Cusip: "037833100", Name: "APPLE INC", Shares: 100, Value: 16000},
		{Cusip: "594918104", Name: "MICROSOFT CORP", Shares: -50, Value: 20000}, // negative shares
		{Cusip: "88160R101", Name: "TESLA INC", Shares: 0, Value: 500},          // zero shares
		{Cusip: "68389X105", Name: "ORACLE CORP", Shares: 10, Value: -1},        // negative value
		{Cusip: "023135106", Name: "AMAZON COM INC", Shares: 10.5, Value: 2000}, // fractional shares
	}
	f := p.Parse("fund-a", q1_2024(), rows, 0)

	if f.Len() != 1 {
		t.Fatalf("Len() = %d, want only the valid row", f.Len())
	}
	if f.RejectedRows() != 4 {
		t.Errorf("RejectedRows() = %d, want 4", f.RejectedRows())
	}
	warnings := f.Warnings()
	if len(warnings) != 4 {
		t.Fatalf("Warnings() = %v, want 4", warnings)
	}
	for _, w := range warnings {
		if w.Code != WarnMalformedRow {
			t.Errorf("warning code = %s, want %s", w.Code, WarnMalformedRow)
		}
	}
	// Rejections never contaminate the derived total.
	if !f.TotalValue().Equal(USD(16000)) {
		t.Errorf("TotalValue() = %s, want $16,000.00", f.TotalValue())
	}
}

func TestParseUnresolvedRow(t *testing.T) {
	p := newTestParser()
	f := p.Parse("fund-a", q1_2024(), []RawRow{
		{Cusip: "", Ticker: "", Name: "", Shares: 10, Value: 100},
	}, 0)

	if f.Len() != 0 || f.RejectedRows() != 1 {
		t.Fatalf("Len=%d rejected=%d, want 0 and 1", f.Len(), f.RejectedRows())
	}
	if w := f.Warnings(); len(w) != 1 || w[0].Code != WarnUnresolvedIdentifier {
		t.Errorf("Warnings() = %v, want one %s", w, WarnUnresolvedIdentifier)
	}
}

func TestParseMergesDuplicateRows(t *testing.T) {
	p := newTestParser()
	// Same issuer reported across two row entries (share classes).
	f := p.Parse("fund-a", q1_2024(), []RawRow{
		{Cusip: "037833100", Name: "APPLE INC", Shares: 100, Value: 16000},
		{Cusip: "037833100", Name: "APPLE INC CL A", Shares: 25, Value: 4000},
	}, 0)

	if f.Len() != 1 {
		t.Fatalf("Len() = %d, want merged single position", f.Len())
	}
	pos, _ := f.Position(Key("037833100"))
	if !pos.Shares.Equal(Q(125)) || !pos.Value.Equal(USD(20000)) {
		t.Errorf("merged position = %s shares %s, want 125 and $20,000.00", pos.Shares, pos.Value)
	}
}

func TestParseRejectDuplicatesPolicy(t *testing.T) {
	p := NewParser(NewNormalizer(), Options{RejectDuplicates: true})
	f := p.Parse("fund-a", q1_2024(), []RawRow{
		{Cusip: "037833100", Name: "APPLE INC", Shares: 100, Value: 16000},
		{Cusip: "037833100", Name: "APPLE INC CL A", Shares: 25, Value: 4000},
	}, 0)

	if f.Len() != 1 || f.RejectedRows() != 1 {
		t.Fatalf("Len=%d rejected=%d, want first row kept and second rejected", f.Len(), f.RejectedRows())
	}
	pos, _ := f.Position(Key("037833100"))
	if !pos.Shares.Equal(Q(100)) {
		t.Errorf("kept position shares = %s, want 100", pos.Shares)
	}
}

func TestParseOptionPositionsAreDistinct(t *testing.T) {
	p := newTestParser()
	f := p.Parse("fund-a", q1_2024(), []RawRow{
		{Cusip: "037833100", Name: "APPLE INC", Shares: 100, Value: 16000},
		{Cusip: "037833100", Name: "APPLE INC", Shares: 10, Value: 1000, OptionType: "put"},
		{Cusip: "037833100", Name: "APPLE INC", Shares: 10, Value: 1200, OptionType: "call"},
	}, 0)

	if f.Len() != 3 {
		t.Fatalf("Len() = %d, want 3 distinct positions", f.Len())
	}
	if _, ok := f.Position(Key("037833100:PUT")); !ok {
		t.Error("put position missing")
	}
	if _, ok := f.Position(Key("037833100:CALL")); !ok {
		t.Error("call position missing")
	}
}

func TestParseValueMismatch(t *testing.T) {
	p := newTestParser()
	rows := []RawRow{{Cusip: "037833100", Name: "APPLE INC", Shares: 100, Value: 16000}}

	// Derived total within tolerance of the reported one: no warning.
	f := p.Parse("fund-a", q1_2024(), rows, 16010)
	if len(f.Warnings()) != 0 {
		t.Errorf("within tolerance, Warnings() = %v", f.Warnings())
	}

	// Far off: VALUE_MISMATCH, but the filing is still constructed.
	f = p.Parse("fund-a", q1_2024(), rows, 20000)
	w := f.Warnings()
	if len(w) != 1 || w[0].Code != WarnValueMismatch {
		t.Fatalf("Warnings() = %v, want one %s", w, WarnValueMismatch)
	}
	if f.Len() != 1 {
		t.Error("mismatch must not reject the filing")
	}
	if !strings.Contains(w[0].Message, "reported total") {
		t.Errorf("mismatch message %q should name the reported total", w[0].Message)
	}
}

func TestParseCustomTolerance(t *testing.T) {
	// 10 percent tolerance accepts a 5 percent disagreement.
	p := NewParser(NewNormalizer(), Options{ValueTolerance: Percent(10)})
	f := p.Parse("fund-a", q1_2024(), []RawRow{
		{Cusip: "037833100", Name: "APPLE INC", Shares: 100, Value: 19000},
	}, 20000)
	if len(f.Warnings()) != 0 {
		t.Errorf("5%% off with 10%% tolerance, Warnings() = %v", f.Warnings())
	}
}

func TestParseIdempotent(t *testing.T) {
	p := newTestParser()
	rows := []RawRow{
		{Cusip: "037833100", Name: "APPLE INC", Shares: 100, Value: 16000},
		{Ticker: "BRK.B", Name: "BERKSHIRE HATHAWAY", Shares: 10, Value: 4000},
	}
	f1 := p.Parse("fund-a", q1_2024(), rows, 0)
	f2 := p.Parse("fund-a", q1_2024(), rows, 0)
	if !f1.Equal(f2) {
		t.Error("parsing the same rows twice must produce identical filings")
	}
}
