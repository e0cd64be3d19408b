package integrity

import (
	"fmt"
	"io"
	"strings"
)

const rule = "------------------------------"

// WriteTo prints r in sections, one line per failure.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	section(&b, "Foreign Key Failures", len(r.ForeignKeys), func() {
		for _, f := range r.ForeignKeys {
			fmt.Fprintf(&b, "%s -> %s (%s): row %d, value %v not found\n", f.Native, f.Foreign, f.Field, f.Row, f.Value)
		}
	})
	section(&b, "Duplicate Rows Failures", len(r.Duplicates), func() {
		for _, d := range r.Duplicates {
			fmt.Fprintf(&b, "%s: row %d repeats key %s of row %d\n", d.Table, d.Row, d.Key, d.FirstRow)
		}
	})
	section(&b, "Data Rows Failures (Predicates)", len(r.Predicates), func() {
		for _, p := range r.Predicates {
			fmt.Fprintf(&b, "%s: row %d fails %q\n", p.Table, p.Row, p.Predicate)
		}
	})
	section(&b, "Data Type Failures", len(r.DataTypes), func() {
		for _, t := range r.DataTypes {
			fmt.Fprintf(&b, "%s.%s: row %d, value %v: %s\n", t.Table, t.Field, t.Row, t.Value, t.Reason)
		}
	})
	section(&b, "Period Index Failures", len(r.Periods), func() {
		for _, err := range r.Periods {
			fmt.Fprintln(&b, err.Error())
		}
	})

	n, err := io.WriteString(w, b.String())

	return int64(n), err
}

func section(b *strings.Builder, title string, n int, body func()) {
	fmt.Fprintf(b, "%s\n%s\n%s\n", rule, title, rule)
	if n == 0 {
		b.WriteString("none\n\n")
		return
	}
	body()
	b.WriteString("\n")
}
