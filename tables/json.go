package tables

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ReadJSON decodes a DataSet from a JSON object of table arrays.
// Empty input yields an empty DataSet.
func ReadJSON(r io.Reader) (DataSet, error) {
	var raw map[string][]map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("tables: decode json: %w", err)
	}

	return fromRaw(raw), nil
}

// WriteJSON encodes ds as indented JSON.
func WriteJSON(w io.Writer, ds DataSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ds); err != nil {
		return fmt.Errorf("tables: encode json: %w", err)
	}

	return nil
}

// ReadYAML decodes a DataSet from a YAML mapping of table sequences.
// Empty input yields an empty DataSet.
func ReadYAML(r io.Reader) (DataSet, error) {
	var raw map[string][]map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("tables: decode yaml: %w", err)
	}

	return fromRaw(raw), nil
}

// WriteYAML encodes ds as YAML with two-space indentation.
func WriteYAML(w io.Writer, ds DataSet) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(map[string][]Row(ds)); err != nil {
		return fmt.Errorf("tables: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("tables: encode yaml: %w", err)
	}

	return nil
}
