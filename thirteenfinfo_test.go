package thirteenf

import "testing"

func TestParseManagerIndex(t *testing.T) {
	body := []byte(`<table><tbody>
<tr><td><a href="/manager/0001697868-valley-forge-capital-management-lp">Valley Forge Capital Management, LP</a></td><td>Wayne</td></tr>
<tr><td><a href="/manager/0001067983-berkshire-hathaway-inc">Berkshire Hathaway Inc</a></td><td>Omaha</td></tr>
</tbody></table>`)

	managers := parseManagerIndex(body)
	if len(managers) != 2 {
		t.Fatalf("parsed %d managers, want 2", len(managers))
	}
	if managers[0].Slug != "0001697868-valley-forge-capital-management-lp" {
		t.Errorf("slug = %q", managers[0].Slug)
	}
	if managers[0].Name != "Valley Forge Capital Management, LP" {
		t.Errorf("name = %q", managers[0].Name)
	}
}

func TestParseFilingIndex(t *testing.T) {
	body := []byte(`<table><tbody>
<tr><td><a href="/13f/000169786824000003-valley-forge-capital-management-lp-q4-2023">Q4 2023</a></td><td>2024-02-14</td></tr>
<tr><td><a href="/13f/000169786823000008-valley-forge-capital-management-lp-q3-2023">Q3 2023</a></td><td>2023-11-13</td></tr>
</tbody></table>`)

	refs := parseFilingIndex(body)
	if len(refs) != 2 {
		t.Fatalf("parsed %d filings, want 2", len(refs))
	}
	if refs[0].ID != "000169786824000003" {
		t.Errorf("ID = %q, want the bare filing identifier", refs[0].ID)
	}
	if refs[0].Quarter != "Q4 2023" {
		t.Errorf("Quarter = %q", refs[0].Quarter)
	}
}

func TestParseFilingPayload(t *testing.T) {
	body := []byte(`{"data":[
["AAPL","APPLE INC","COM","037833100",16000,3.2,100,"SH",null],
["MSFT","MICROSOFT CORP","COM","594918104",20000,4.0,50,"SH","put"],
["BAD ROW"]
]}`)

	rows, err := parseFilingPayload(body)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("parsed %d rows, want 2 (short row skipped)", len(rows))
	}

	aapl := rows[0]
	if aapl.Cusip != "037833100" || aapl.Ticker != "AAPL" || aapl.Name != "APPLE INC" {
		t.Errorf("row = %+v", aapl)
	}
	// Values are reported in $000 and scaled to dollars at this boundary.
	if aapl.Value != 16_000_000 {
		t.Errorf("value = %v, want 16000000", aapl.Value)
	}
	if aapl.Shares != 100 {
		t.Errorf("shares = %v", aapl.Shares)
	}
	if aapl.OptionType != "" {
		t.Errorf("option type = %q, want empty for null", aapl.OptionType)
	}
	if rows[1].OptionType != "put" {
		t.Errorf("option type = %q, want put", rows[1].OptionType)
	}
}

func TestParseFilingPayloadErrors(t *testing.T) {
	if _, err := parseFilingPayload([]byte("not json")); err == nil {
		t.Error("invalid JSON must fail")
	}
	if _, err := parseFilingPayload([]byte(`{"rows":[]}`)); err == nil {
		t.Error("payload without a data table must fail")
	}
	if _, err := parseFilingPayload([]byte(`{"data":"nope"}`)); err == nil {
		t.Error("non-table data must fail")
	}
}

func TestFetchedPayloadFlowsThroughParser(t *testing.T) {
	body := []byte(`{"data":[
["AAPL","APPLE INC","COM","037833100",16000,3.2,100,"SH",null],
["","TESLA INC","COM","88160R101",6000,1.2,30,"SH","call"]
]}`)
	rows, err := parseFilingPayload(body)
	if err != nil {
		t.Fatal(err)
	}
	f := newTestParser().Parse("fund-a", q1_2024(), rows, 0)
	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}
	if _, ok := f.Position(Key("88160R101:CALL")); !ok {
		t.Error("call option position missing after the fetch-parse pipeline")
	}
	if !f.TotalValue().Equal(USD(22_000_000)) {
		t.Errorf("TotalValue() = %s, want $22,000,000.00", f.TotalValue())
	}
}
