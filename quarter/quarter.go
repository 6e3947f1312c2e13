// Package quarter provides the calendar-quarter value type used to key 13F
// filings, together with a quarter-indexed history container.
package quarter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Quarter identifies one calendar quarter (year + quarter number 1..4).
// Quarters form a total order; the zero value is "no quarter".
type Quarter struct {
	y int
	q int
}

// New returns the quarter for the given year and quarter number.
// It panics if q is outside 1..4; quarters are not normalized like dates.
func New(year, q int) Quarter {
	if q < 1 || q > 4 {
		panic(fmt.Sprintf("invalid quarter number %d", q))
	}
	return Quarter{y: year, q: q}
}

// Of returns the quarter containing the given date.
func Of(t time.Time) Quarter {
	return Quarter{y: t.Year(), q: (int(t.Month())-1)/3 + 1}
}

// Year returns the calendar year.
func (q Quarter) Year() int { return q.y }

// Number returns the quarter number in 1..4.
func (q Quarter) Number() int { return q.q }

// IsZero returns true if the quarter is the zero value.
func (q Quarter) IsZero() bool { return q.y == 0 && q.q == 0 }

// String formats the quarter the way 13F filing indexes do, e.g. "Q1 2024".
func (q Quarter) String() string { return fmt.Sprintf("Q%d %d", q.q, q.y) }

// Compare returns -1, 0, or +1 ordering q against o chronologically.
func (q Quarter) Compare(o Quarter) int {
	if q.y != o.y {
		if q.y < o.y {
			return -1
		}
		return 1
	}
	if q.q != o.q {
		if q.q < o.q {
			return -1
		}
		return 1
	}
	return 0
}

// Before reports whether q is chronologically before o.
func (q Quarter) Before(o Quarter) bool { return q.Compare(o) < 0 }

// After reports whether q is chronologically after o.
func (q Quarter) After(o Quarter) bool { return q.Compare(o) > 0 }

// Next returns the following calendar quarter.
func (q Quarter) Next() Quarter {
	if q.q == 4 {
		return Quarter{y: q.y + 1, q: 1}
	}
	return Quarter{y: q.y, q: q.q + 1}
}

// Prev returns the preceding calendar quarter.
func (q Quarter) Prev() Quarter {
	if q.q == 1 {
		return Quarter{y: q.y - 1, q: 4}
	}
	return Quarter{y: q.y, q: q.q - 1}
}

// End returns the quarter-end date at midnight UTC. Filing indexes are keyed
// by these uniformly spaced dates rather than by the (irregular) filing dates.
func (q Quarter) End() time.Time {
	// day 0 of the next month is the last day of the quarter's final month.
	return time.Date(q.y, time.Month(q.q*3)+1, 0, 0, 0, 0, 0, time.UTC)
}

var quarterRE = regexp.MustCompile(`^(?:Q([1-4])\s+(\d{4})|(\d{4})\s*[-\s]?\s*Q([1-4]))$`)

// Parse parses a quarter from a string. It accepts the "Q1 2024" form used by
// filing indexes as well as "2024Q1", "2024-Q1" and "2024 Q1".
func Parse(s string) (Quarter, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	m := quarterRE.FindStringSubmatch(s)
	if m == nil {
		return Quarter{}, fmt.Errorf("invalid quarter %q: want e.g. %q or %q", s, "Q1 2024", "2024Q1")
	}
	var ys, qs string
	if m[1] != "" {
		qs, ys = m[1], m[2]
	} else {
		ys, qs = m[3], m[4]
	}
	year, err := strconv.Atoi(ys)
	if err != nil {
		// unreachable given the regex
		return Quarter{}, fmt.Errorf("invalid year in quarter %q: %w", s, err)
	}
	n, err := strconv.Atoi(qs)
	if err != nil {
		// unreachable given the regex
		return Quarter{}, fmt.Errorf("invalid number in quarter %q: %w", s, err)
	}
	return Quarter{y: year, q: n}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Quarter {
	q, err := Parse(s)
	if err != nil {
		panic(err.Error())
	}
	return q
}

// MarshalJSON encodes the quarter as its string form.
func (q Quarter) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.String())
}

// UnmarshalJSON decodes a quarter from its string form.
func (q *Quarter) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := Parse(s)
	if err != nil {
		return fmt.Errorf("invalid quarter in data file: %w", err)
	}
	*q = parsed
	return nil
}

var _ json.Marshaler = Quarter{}
var _ json.Unmarshaler = (*Quarter)(nil)
