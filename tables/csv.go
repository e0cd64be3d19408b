package tables

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadCSVDir reads <dir>/<table>.csv for every table of s. Missing files
// are skipped. Cells are parsed by their field kind: empty cells are nil,
// Number cells that do not parse are kept as text so type checks can
// report them.
func ReadCSVDir(dir string, s *Schema) (DataSet, error) {
	ds := make(DataSet, len(s.Tables))
	for _, t := range s.Tables {
		path := filepath.Join(dir, t.Name+".csv")
		f, err := os.Open(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("tables: open %s: %w", path, err)
		}
		rows, err := ReadCSV(f, t)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("tables: read %s: %w", path, err)
		}
		ds[t.Name] = rows
	}

	return ds, nil
}

// ReadCSV reads one table from r. The first record is the header.
func ReadCSV(r io.Reader, t Table) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []Row{}, nil
	}
	if err != nil {
		return nil, err
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows := []Row{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row := make(Row, len(header))
		for i, name := range header {
			f, known := t.Field(name)
			row[name] = parseCell(rec[i], f.Kind, known)
		}
		rows = append(rows, row)
	}
}

func parseCell(raw string, kind Kind, known bool) any {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if known && kind == Text {
		return raw
	}
	if x, err := strconv.ParseFloat(raw, 64); err == nil {
		return x
	}
	if b, err := strconv.ParseBool(raw); err == nil && !known {
		return b
	}

	return raw
}

// WriteCSVDir writes every table of s present in ds to <dir>/<table>.csv,
// creating dir when needed. Columns follow the schema field order.
func WriteCSVDir(dir string, s *Schema, ds DataSet) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("tables: create %s: %w", dir, err)
	}
	for _, t := range s.Tables {
		rows, ok := ds[t.Name]
		if !ok {
			continue
		}
		path := filepath.Join(dir, t.Name+".csv")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("tables: create %s: %w", path, err)
		}
		werr := WriteCSV(f, t, rows)
		cerr := f.Close()
		if err = errors.Join(werr, cerr); err != nil {
			return fmt.Errorf("tables: write %s: %w", path, err)
		}
	}

	return nil
}

// WriteCSV writes rows as one CSV table with a header row.
func WriteCSV(w io.Writer, t Table, rows []Row) error {
	cw := csv.NewWriter(w)
	names := t.FieldNames()
	if err := cw.Write(names); err != nil {
		return err
	}
	rec := make([]string, len(names))
	for _, r := range rows {
		for i, name := range names {
			rec[i] = formatCell(r[name])
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
