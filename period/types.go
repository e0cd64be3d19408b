package period

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidIndex is matched (via errors.Is) by every *IndexError.
var ErrInvalidIndex = errors.New("period: invalid period index")

// ID identifies one period of a validated horizon, in the closed range [1, N].
type ID int

// String renders the id as a plain integer ("5"), which is how ids appear in
// error messages and output tables.
func (id ID) String() string { return strconv.Itoa(int(id)) }

// Prev returns the id of the preceding period. The caller is responsible for
// not calling it on the first period.
func (id ID) Prev() ID { return id - 1 }

// Reason classifies why a column failed validation.
type Reason int

const (
	// NonInteger marks NaN, ±Inf, or fractional entries.
	NonInteger Reason = iota
	// OutOfRange marks entries < 1 or > the row count.
	OutOfRange
	// Duplicate marks an id that appears more than once.
	Duplicate
	// Gap marks an id of 1..N that never appears.
	Gap
)

func (r Reason) String() string {
	switch r {
	case NonInteger:
		return "non-integer entry"
	case OutOfRange:
		return "entry out of range"
	case Duplicate:
		return "duplicate entry"
	case Gap:
		return "missing entry"
	default:
		return "unknown reason"
	}
}

// IndexError reports a period column that is not an exact 1..N permutation.
type IndexError struct {
	Table  string  // offending table, e.g. "demand"
	Field  string  // offending column, e.g. "Period ID"
	Reason Reason  // first violation found
	Value  float64 // offending value (the missing id for Gap)
}

func (e *IndexError) Error() string {
	return fmt.Sprintf(
		"period: %q column at %q table must have all integers from 1 to the biggest period index, "+
			"not necessarily ordered: %s %s",
		e.Field, e.Table, e.Reason, strconv.FormatFloat(e.Value, 'g', -1, 64),
	)
}

// Unwrap lets errors.Is(err, ErrInvalidIndex) succeed.
func (e *IndexError) Unwrap() error { return ErrInvalidIndex }
