package tables

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Format is an on-disk representation of a DataSet.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "csv"
	}
}

// DetectFormat infers the format of path: existing directories and paths
// without an extension are CSV directories, otherwise the extension decides.
func DetectFormat(path string) (Format, error) {
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		return FormatCSV, nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case "":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// ReadPath reads a DataSet in the format DetectFormat infers for path.
func ReadPath(path string, s *Schema) (DataSet, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == FormatCSV {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("tables: %w: %s", fs.ErrNotExist, path)
		}

		return ReadCSVDir(path, s)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tables: open %s: %w", path, err)
	}
	defer f.Close()
	if format == FormatJSON {
		return ReadJSON(f)
	}

	return ReadYAML(f)
}

// WritePath writes ds in the format DetectFormat infers for path.
func WritePath(path string, s *Schema, ds DataSet) error {
	format, err := DetectFormat(path)
	if err != nil {
		return err
	}
	if format == FormatCSV {
		return WriteCSVDir(path, s, ds)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tables: create %s: %w", path, err)
	}
	if format == FormatJSON {
		err = WriteJSON(f, ds)
	} else {
		err = WriteYAML(f, ds)
	}

	return errors.Join(err, f.Close())
}
