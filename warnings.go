package thirteenf

import (
	"errors"
	"fmt"
)

// WarningCode categorizes the non-fatal data-quality issues the engine can
// surface. Failures are always scoped to the smallest unit (one row, one
// filing) and never abort processing of other funds or quarters.
type WarningCode string

const (
	// WarnUnresolvedIdentifier marks a row whose identifier and name were
	// both unusable. The row is dropped and counted.
	WarnUnresolvedIdentifier WarningCode = "UNRESOLVED_IDENTIFIER"
	// WarnMalformedRow marks a row with an unparsable or non-positive share
	// count or a negative value. The row is dropped and counted.
	WarnMalformedRow WarningCode = "MALFORMED_ROW"
	// WarnValueMismatch marks a filing whose derived total disagrees with
	// the reported total beyond tolerance. The filing is still constructed.
	WarnValueMismatch WarningCode = "VALUE_MISMATCH"
	// WarnDuplicateQuarter marks re-ingestion of an existing (fund, quarter)
	// pair. The overwrite is intentional, logged, and not an error.
	WarnDuplicateQuarter WarningCode = "DUPLICATE_QUARTER"
)

// Warning represents a non-fatal issue encountered during processing.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}

func (w Warning) String() string { return fmt.Sprintf("%s: %s", w.Code, w.Message) }

// warnf builds a Warning with a formatted message.
func warnf(code WarningCode, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ErrMissingBaseline is returned when a delta is requested for a fund's
// first observed filing. Callers must treat that quarter as a baseline; it
// is distinct from a delta with no changes.
var ErrMissingBaseline = errors.New("no earlier filing to diff against")
