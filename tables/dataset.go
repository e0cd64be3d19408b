package tables

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors.
var (
	// ErrBadCell is matched by every *CellError.
	ErrBadCell = errors.New("tables: invalid cell")

	// ErrUnknownFormat indicates a path whose format cannot be inferred.
	ErrUnknownFormat = errors.New("tables: unknown data format")
)

// CellError reports a cell that cannot be decoded into its field.
type CellError struct {
	Table  string
	Row    int // 0-based position within the table
	Field  string
	Value  any
	Reason string
}

func (e *CellError) Error() string {
	return fmt.Sprintf("tables: %q table, row %d, field %q (%v): %s", e.Table, e.Row, e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is(err, ErrBadCell) succeed.
func (e *CellError) Unwrap() error { return ErrBadCell }

// Row is one table row keyed by field name.
type Row map[string]any

// Number returns the cell as a float64.
func (r Row) Number(field string) (float64, bool) {
	v, ok := r[field].(float64)

	return v, ok
}

// Text returns the cell as a string.
func (r Row) Text(field string) (string, bool) {
	v, ok := r[field].(string)

	return v, ok
}

// DataSet maps table names to rows.
type DataSet map[string][]Row

// Names returns the table names in ascending order.
func (ds DataSet) Names() []string {
	names := make([]string, 0, len(ds))
	for name := range ds {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Clone returns a deep copy of ds. Cells are immutable values and are shared.
func (ds DataSet) Clone() DataSet {
	out := make(DataSet, len(ds))
	for name, rows := range ds {
		cp := make([]Row, len(rows))
		for i, r := range rows {
			cp[i] = make(Row, len(r))
			for k, v := range r {
				cp[i][k] = v
			}
		}
		out[name] = cp
	}

	return out
}

// normalize rewrites every cell into one of the canonical cell types.
// Integers of any width become float64; other unknown types are kept as
// their fmt representation so they fail type checks as text.
func (ds DataSet) normalize() {
	for _, rows := range ds {
		for _, r := range rows {
			for k, v := range r {
				r[k] = normalizeCell(v)
			}
		}
	}
}

func normalizeCell(v any) any {
	switch x := v.(type) {
	case nil, float64, string, bool:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int8:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint:
		return float64(x)
	case uint8:
		return float64(x)
	case uint16:
		return float64(x)
	case uint32:
		return float64(x)
	case uint64:
		return float64(x)
	default:
		return fmt.Sprint(x)
	}
}

func fromRaw(raw map[string][]map[string]any) DataSet {
	ds := make(DataSet, len(raw))
	for name, rows := range raw {
		out := make([]Row, len(rows))
		for i, r := range rows {
			out[i] = Row(r)
			if out[i] == nil {
				out[i] = Row{}
			}
		}
		ds[name] = out
	}
	ds.normalize()

	return ds
}
