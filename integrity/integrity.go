// Package integrity inspects a tables.DataSet against its schema before any
// solve is attempted, and repairs what can be repaired.
//
// Check collects every problem instead of stopping at the first one:
//   - data type failures (cells that do not fit their field or parameter),
//   - duplicate primary keys,
//   - foreign key failures between tables,
//   - row predicate failures,
//   - period column failures (ids that are not a permutation of 1..N,
//     tables that disagree on the horizon, or no demand at all).
//
// Fix replaces failing data cells with their defaults and drops duplicate
// rows, keeping the first occurrence.
package integrity

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/lotplan/period"
	"github.com/katalvlaran/lotplan/planning"
	"github.com/katalvlaran/lotplan/tables"
)

// TypeFailure is a cell that does not fit its field.
type TypeFailure struct {
	Table  string
	Row    int
	Field  string
	Value  any
	Reason string
}

// DuplicateFailure is a row whose primary key already appeared.
type DuplicateFailure struct {
	Table    string
	Row      int
	FirstRow int
	Key      string
}

// ForeignKeyFailure is a row whose key is absent from the foreign table.
type ForeignKeyFailure struct {
	Native  string
	Foreign string
	Field   string
	Row     int
	Value   any
}

// PredicateFailure is a row that violates a named predicate.
type PredicateFailure struct {
	Table     string
	Predicate string
	Row       int
}

// Report is the outcome of Check. Within each list entries follow schema
// table order, then row order.
type Report struct {
	DataTypes   []TypeFailure
	Duplicates  []DuplicateFailure
	ForeignKeys []ForeignKeyFailure
	Predicates  []PredicateFailure
	Periods     []error // *period.IndexError, *planning.ConsistencyError or planning.ErrEmptyHorizon
}

// Count returns the total number of failures.
func (r Report) Count() int {
	return len(r.DataTypes) + len(r.Duplicates) + len(r.ForeignKeys) + len(r.Predicates) + len(r.Periods)
}

// Clean reports whether no failure was found.
func (r Report) Clean() bool { return r.Count() == 0 }

// Check inspects ds against s. Tables of s absent from ds are treated as
// empty; tables of ds unknown to s are ignored.
func Check(ds tables.DataSet, s *tables.Schema) Report {
	var r Report
	for _, t := range s.Tables {
		rows := ds[t.Name]
		r.DataTypes = append(r.DataTypes, typeFailures(t, rows, s)...)
		r.Duplicates = append(r.Duplicates, duplicates(t, rows)...)
	}
	for _, fk := range s.ForeignKeys {
		r.ForeignKeys = append(r.ForeignKeys, foreignKeyFailures(fk, ds)...)
	}
	for _, p := range s.Predicates {
		for i, row := range ds[p.Table] {
			if !p.Check(row) {
				r.Predicates = append(r.Predicates, PredicateFailure{Table: p.Table, Predicate: p.Name, Row: i})
			}
		}
	}
	r.Periods = periodFailures(ds, s)

	return r
}

func typeFailures(t tables.Table, rows []tables.Row, s *tables.Schema) []TypeFailure {
	var out []TypeFailure
	for i, row := range rows {
		for _, f := range t.Fields {
			if ok, reason := f.Accepts(row[f.Name]); !ok {
				out = append(out, TypeFailure{Table: t.Name, Row: i, Field: f.Name, Value: row[f.Name], Reason: reason})
			}
		}
		if t.Name != planning.TableParameters {
			continue
		}
		name, _ := row.Text(tables.FieldName)
		value, isNum := row.Number(tables.FieldValue)
		p, known := s.Parameter(name)
		switch {
		case name == "":
		case !known:
			out = append(out, TypeFailure{Table: t.Name, Row: i, Field: tables.FieldName, Value: name, Reason: "unknown parameter"})
		case isNum:
			if ok, reason := p.Accepts(value); !ok {
				out = append(out, TypeFailure{Table: t.Name, Row: i, Field: tables.FieldValue, Value: value, Reason: reason + " for " + name})
			}
		}
	}

	return out
}

func keyOf(t tables.Table, row tables.Row) (string, bool) {
	parts := make([]string, len(t.PrimaryKey))
	for i, k := range t.PrimaryKey {
		v := row[k]
		if v == nil {
			return "", false
		}
		parts[i] = fmt.Sprint(v)
	}

	return strings.Join(parts, "|"), true
}

func duplicates(t tables.Table, rows []tables.Row) []DuplicateFailure {
	var (
		out   []DuplicateFailure
		first = make(map[string]int, len(rows))
	)
	for i, row := range rows {
		key, ok := keyOf(t, row)
		if !ok {
			continue
		}
		if j, seen := first[key]; seen {
			out = append(out, DuplicateFailure{Table: t.Name, Row: i, FirstRow: j, Key: key})
			continue
		}
		first[key] = i
	}

	return out
}

// foreignKeyFailures is skipped when either side is empty: time_periods is
// optional, and an empty demand table is reported by the period checks.
func foreignKeyFailures(fk tables.ForeignKey, ds tables.DataSet) []ForeignKeyFailure {
	native, foreign := ds[fk.Native], ds[fk.Foreign]
	if len(native) == 0 || len(foreign) == 0 {
		return nil
	}
	present := make(map[any]struct{}, len(foreign))
	for _, row := range foreign {
		if v := row[fk.Field]; v != nil {
			present[v] = struct{}{}
		}
	}

	var out []ForeignKeyFailure
	for i, row := range native {
		v := row[fk.Field]
		if v == nil {
			continue
		}
		if _, ok := present[v]; !ok {
			out = append(out, ForeignKeyFailure{Native: fk.Native, Foreign: fk.Foreign, Field: fk.Field, Row: i, Value: v})
		}
	}

	return out
}

// periodFailures validates every Period ID column that is fully numeric,
// then compares the horizons of demand, costs and time_periods. A missing
// or empty demand or costs table counts as an empty horizon, so it fails
// the comparison the same way Solve does; time_periods is optional.
func periodFailures(ds tables.DataSet, s *tables.Schema) []error {
	var (
		out     []error
		indexes = make(map[string]period.Index)
	)
	for _, t := range s.Tables {
		if _, ok := t.Field(planning.FieldPeriodID); !ok {
			continue
		}
		rows := ds[t.Name]
		if len(rows) == 0 {
			// demand and costs are required: an absent table covers no ids.
			if t.Name == planning.TableDemand || t.Name == planning.TableCosts {
				indexes[t.Name] = period.Index{}
			}
			continue
		}
		col := make([]float64, 0, len(rows))
		for _, row := range rows {
			v, isNum := row.Number(planning.FieldPeriodID)
			if !isNum {
				col = nil
				break
			}
			col = append(col, v)
		}
		if col == nil {
			continue // already a type failure
		}
		ix, err := period.ValidateColumn(t.Name, planning.FieldPeriodID, col)
		if err != nil {
			out = append(out, err)
			continue
		}
		indexes[t.Name] = ix
	}

	pairs := [][2]string{
		{planning.TableDemand, planning.TableCosts},
		{planning.TableTimePeriods, planning.TableDemand},
	}
	for _, p := range pairs {
		a, okA := indexes[p[0]]
		b, okB := indexes[p[1]]
		if !okA || !okB {
			continue
		}
		if onlyA, onlyB := period.Diff(a, b); len(onlyA)+len(onlyB) > 0 {
			out = append(out, &planning.ConsistencyError{Left: p[0], Right: p[1], OnlyLeft: onlyA, OnlyRight: onlyB})
		}
	}
	if _, ok := s.Table(planning.TableDemand); ok && len(ds[planning.TableDemand]) == 0 {
		out = append(out, planning.ErrEmptyHorizon)
	}

	return out
}
