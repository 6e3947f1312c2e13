package thirteenf

import (
	"fmt"
	"strings"
)

// cusipValues maps the CUSIP alphabet to its numeric values. Letters follow
// digits (A=10..Z=35) and the three special characters close the table.
const cusipAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ*@#"

// Key is the canonical identifier of a security across filings and quarters.
//
// It can have multiple different kinds, distinguishable by shape so that no
// prefix bookkeeping is needed:
//
// CUSIP-keyed.
//
// Exactly 9 alphanumeric characters whose trailing character is a valid
// CUSIP check digit (modulus 10 "double-add-double"). This is the preferred,
// high-confidence kind: two filings reporting the same issuer under CUSIP
// formatting variants (8-character legacy form, wrong or missing check
// character, stray punctuation) map to the same key.
//
// Ticker-keyed.
//
// 1 to 6 characters from [A-Z0-9.]. Used when a filing row carries no usable
// CUSIP but a ticker. Cannot be confused with a CUSIP because of the length
// rule.
//
// Name-keyed.
//
// "NAME:" followed by the upper-cased, punctuation-stripped company name.
// This is the low-confidence fallback: cross-quarter matching by name risks
// false merges (two issuers normalizing to the same name) and false splits
// (one issuer renamed between quarters). Callers can detect the reduced
// confidence with IsNameKeyed.
//
// Unresolved.
//
// The explicit Unresolved key is returned when neither identifier nor name
// is usable, so downstream code can surface unparsable rows without
// aborting ingestion of the rest of the filing.
//
// Any kind may carry an option suffix ":PUT" or ":CALL" so that an equity
// position and options on the same issuer form distinct series.
type Key string

// Unresolved is the explicit key for rows that could not be keyed at all.
const Unresolved Key = "UNRESOLVED"

const namePrefix = "NAME:"

// String implements the fmt.Stringer interface.
func (k Key) String() string { return string(k) }

// IsUnresolved reports whether the key is the explicit Unresolved key.
func (k Key) IsUnresolved() bool { return k.Base() == Unresolved }

// IsNameKeyed reports whether the key was derived from a company name only,
// and therefore matches across quarters with lower confidence.
func (k Key) IsNameKeyed() bool { return strings.HasPrefix(string(k), namePrefix) }

// IsCUSIP reports whether the key (ignoring any option suffix) is a
// 9-character CUSIP with a valid check digit.
func (k Key) IsCUSIP() bool { return ValidateCUSIP(string(k.Base())) == nil }

// Base returns the key without its option suffix.
func (k Key) Base() Key {
	if s, ok := strings.CutSuffix(string(k), ":PUT"); ok {
		return Key(s)
	}
	if s, ok := strings.CutSuffix(string(k), ":CALL"); ok {
		return Key(s)
	}
	return k
}

// Option returns "PUT", "CALL", or "" for the key's option suffix.
func (k Key) Option() string {
	switch {
	case strings.HasSuffix(string(k), ":PUT"):
		return "PUT"
	case strings.HasSuffix(string(k), ":CALL"):
		return "CALL"
	}
	return ""
}

// WithOption returns the key with an option suffix attached. The option type
// is the filing row's "put"/"call" column; anything else leaves k untouched.
func (k Key) WithOption(optionType string) Key {
	switch strings.ToUpper(strings.TrimSpace(optionType)) {
	case "PUT":
		return k + ":PUT"
	case "CALL":
		return k + ":CALL"
	}
	return k
}

// cusipValue returns the numeric value of a CUSIP character, or -1.
func cusipValue(c byte) int {
	return strings.IndexByte(cusipAlphabet, c)
}

// cusipCheckDigit computes the check digit for an 8-character CUSIP base
// using the modulus 10 double-add-double algorithm.
func cusipCheckDigit(base string) (byte, error) {
	if len(base) != 8 {
		return 0, fmt.Errorf("invalid length: CUSIP base must be 8 characters, got %d", len(base))
	}
	sum := 0
	for i := 0; i < 8; i++ {
		v := cusipValue(base[i])
		if v < 0 {
			return 0, fmt.Errorf("invalid character %q in CUSIP base %q", base[i], base)
		}
		if i%2 == 1 {
			v *= 2
		}
		sum += (v / 10) + (v % 10)
	}
	check := (10 - (sum % 10)) % 10
	return byte('0' + check), nil
}

// ValidateCUSIP checks if a string is a validly formatted 9-character CUSIP.
// It returns nil if valid, or a descriptive error if invalid.
func ValidateCUSIP(cusip string) error {
	if len(cusip) != 9 {
		return fmt.Errorf("invalid length: must be 9 characters, got %d", len(cusip))
	}
	want, err := cusipCheckDigit(cusip[:8])
	if err != nil {
		return err
	}
	if cusip[8] != want {
		return fmt.Errorf("invalid check digit: expected %c, got %c", want, cusip[8])
	}
	return nil
}

// NewCUSIPKey canonicalizes a raw CUSIP-like identifier. It strips formatting
// noise, upper-cases, completes 8-character legacy identifiers with the
// computed check digit, and repairs a wrong trailing check character by
// recomputing it from the 8-character base. Identifier variants that differ
// only in formatting or check character therefore share one key.
func NewCUSIPKey(raw string) (Key, error) {
	cleaned := stripNoise(raw)
	switch len(cleaned) {
	case 9:
		if err := ValidateCUSIP(cleaned); err == nil {
			return Key(cleaned), nil
		}
		// tolerate a bad trailing character: the 8-character base decides.
		check, err := cusipCheckDigit(cleaned[:8])
		if err != nil {
			return "", fmt.Errorf("invalid CUSIP %q: %w", raw, err)
		}
		return Key(cleaned[:8] + string(check)), nil
	case 8:
		check, err := cusipCheckDigit(cleaned)
		if err != nil {
			return "", fmt.Errorf("invalid CUSIP %q: %w", raw, err)
		}
		return Key(cleaned + string(check)), nil
	default:
		return "", fmt.Errorf("invalid CUSIP %q: want 8 or 9 characters, got %d", raw, len(cleaned))
	}
}

// NewTickerKey validates a raw ticker and returns it as a key. Tickers are
// 1 to 6 characters from [A-Z0-9.]; the length rule keeps them disjoint from
// 9-character CUSIP keys.
func NewTickerKey(raw string) (Key, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	if len(cleaned) == 0 || len(cleaned) > 6 {
		return "", fmt.Errorf("invalid ticker %q: want 1 to 6 characters", raw)
	}
	for i := 0; i < len(cleaned); i++ {
		c := cleaned[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'Z') && c != '.' {
			return "", fmt.Errorf("invalid character %q in ticker %q", c, raw)
		}
	}
	return Key(cleaned), nil
}

// NewNameKey derives a low-confidence key from a company name.
func NewNameKey(rawName string) (Key, error) {
	normalized := normalizeName(rawName)
	if normalized == "" {
		return "", fmt.Errorf("empty name")
	}
	return Key(namePrefix + normalized), nil
}

// stripNoise removes everything but alphanumerics and upper-cases the rest.
func stripNoise(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeName upper-cases a name and collapses runs of punctuation and
// whitespace into single spaces.
func normalizeName(s string) string {
	var b strings.Builder
	space := true // swallow leading separators
	for _, r := range strings.ToUpper(s) {
		switch {
		case (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
			space = false
		default:
			if !space {
				b.WriteRune(' ')
				space = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
