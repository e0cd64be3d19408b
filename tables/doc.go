// Package tables moves planning data between files and the planning package.
//
// A DataSet is a set of named tables, each a slice of Rows keyed by field
// name. Cells hold nil (missing), float64, string or bool; readers
// normalize every numeric representation to float64 so that type problems
// surface in one place (Decode or the integrity package) instead of inside
// each reader.
//
// Supported on-disk formats:
//
//	CSV  - a directory with one <table>.csv per table, header row first
//	JSON - {"demand": [{"Period ID": 1, "Demand": 200}, ...], ...}
//	YAML - the same shape as JSON
//
// Input and Output describe the two schemas: primary keys, field types,
// defaults, foreign keys, parameter tooltips and row predicates.
package tables
