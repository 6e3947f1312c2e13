package quarter

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Quarter
		wantErr bool
	}{
		{in: "Q1 2024", want: New(2024, 1)},
		{in: "Q4 2019", want: New(2019, 4)},
		{in: "2024Q1", want: New(2024, 1)},
		{in: "2024-Q3", want: New(2024, 3)},
		{in: "2024 Q2", want: New(2024, 2)},
		{in: "  q1 2024 ", want: New(2024, 1)},
		{in: "Q5 2024", wantErr: true},
		{in: "2024", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOrdering(t *testing.T) {
	q1 := New(2023, 4)
	q2 := New(2024, 1)
	if !q1.Before(q2) || q2.Before(q1) {
		t.Errorf("want %v before %v", q1, q2)
	}
	if q1.Next() != q2 {
		t.Errorf("%v.Next() = %v, want %v", q1, q1.Next(), q2)
	}
	if q2.Prev() != q1 {
		t.Errorf("%v.Prev() = %v, want %v", q2, q2.Prev(), q1)
	}
	if got := q1.Compare(q1); got != 0 {
		t.Errorf("Compare same = %d, want 0", got)
	}
}

func TestEnd(t *testing.T) {
	tests := []struct {
		q    Quarter
		want time.Time
	}{
		{New(2024, 1), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)},
		{New(2024, 2), time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)},
		{New(2024, 3), time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)},
		{New(2023, 4), time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := tt.q.End(); !got.Equal(tt.want) {
			t.Errorf("%v.End() = %v, want %v", tt.q, got, tt.want)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	q := New(2024, 2)
	b, err := json.Marshal(q)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != `"Q2 2024"` {
		t.Errorf("Marshal() = %s, want %q", b, `"Q2 2024"`)
	}
	var back Quarter
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back != q {
		t.Errorf("round trip = %v, want %v", back, q)
	}
}

func TestHistory(t *testing.T) {
	var h History[float64]
	h.Append(New(2024, 2), 150)
	h.Append(New(2024, 1), 100)
	h.Append(New(2023, 4), 50)
	h.Append(New(2024, 1), 120) // overwrite

	if h.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", h.Len())
	}
	first, v := h.First()
	if first != New(2023, 4) || v != 50 {
		t.Errorf("First() = %v %v, want Q4 2023 50", first, v)
	}
	last, v := h.Latest()
	if last != New(2024, 2) || v != 150 {
		t.Errorf("Latest() = %v %v, want Q2 2024 150", last, v)
	}
	if got, ok := h.Get(New(2024, 1)); !ok || got != 120 {
		t.Errorf("Get(Q1 2024) = %v %v, want 120 true", got, ok)
	}

	var prev Quarter
	for q := range h.Values() {
		if !prev.IsZero() && !prev.Before(q) {
			t.Errorf("Values() not chronological: %v before %v", prev, q)
		}
		prev = q
	}
}
