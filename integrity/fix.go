package integrity

import (
	"github.com/katalvlaran/lotplan/planning"
	"github.com/katalvlaran/lotplan/tables"
)

// Fix returns a repaired copy of ds and the number of changes made:
//   - data cells that fail their field are replaced by the field default,
//     or nil for nullable fields, or 0 otherwise; primary key cells are
//     never rewritten,
//   - parameter values that fail their parameter are replaced by the
//     parameter default,
//   - rows with a duplicate primary key are dropped, keeping the first.
//
// ds is not modified. Foreign key, predicate and period failures are left
// for the caller to resolve.
func Fix(ds tables.DataSet, s *tables.Schema) (tables.DataSet, int) {
	out := ds.Clone()
	changes := 0

	for _, t := range s.Tables {
		rows := out[t.Name]
		for _, row := range rows {
			if t.Name == planning.TableParameters {
				changes += fixParameter(row, s)
			}
			for _, f := range t.Fields {
				if isKey(t, f.Name) {
					continue
				}
				if ok, _ := f.Accepts(row[f.Name]); ok {
					continue
				}
				row[f.Name] = replacement(f)
				changes++
			}
		}

		kept := rows[:0]
		seen := make(map[string]struct{}, len(rows))
		for _, row := range rows {
			if key, ok := keyOf(t, row); ok {
				if _, dup := seen[key]; dup {
					changes++
					continue
				}
				seen[key] = struct{}{}
			}
			kept = append(kept, row)
		}
		if _, present := out[t.Name]; present {
			out[t.Name] = kept
		}
	}

	return out, changes
}

func fixParameter(row tables.Row, s *tables.Schema) int {
	name, _ := row.Text(tables.FieldName)
	p, known := s.Parameter(name)
	if !known {
		return 0
	}
	value, isNum := row.Number(tables.FieldValue)
	if isNum {
		if ok, _ := p.Accepts(value); ok {
			return 0
		}
	}
	row[tables.FieldValue] = p.Default

	return 1
}

func isKey(t tables.Table, field string) bool {
	for _, k := range t.PrimaryKey {
		if k == field {
			return true
		}
	}

	return false
}

func replacement(f tables.Field) any {
	switch {
	case f.Default != nil:
		return f.Default
	case f.Nullable:
		return nil
	case f.Kind == tables.Text:
		return ""
	default:
		return 0.0
	}
}
