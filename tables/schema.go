package tables

import (
	"math"

	"github.com/katalvlaran/lotplan/planning"
)

// Output table and field names.
const (
	TableProductionFlow = "production_flow"
	TableCosts          = planning.TableCosts

	FieldName               = "Name"
	FieldValue              = "Value"
	FieldTimePeriod         = "Time Period"
	FieldProductionQuantity = "Production Quantity"
	FieldInventoryQuantity  = "Inventory Quantity"
	FieldTotalCost          = "Total Cost"
)

// Kind is the data type of a field.
type Kind int

const (
	// Number fields hold float64 cells.
	Number Kind = iota
	// Text fields hold string cells.
	Text
)

func (k Kind) String() string {
	if k == Text {
		return "text"
	}

	return "number"
}

// Field describes one column.
type Field struct {
	Name        string
	Kind        Kind
	MustBeInt   bool
	HasMin      bool
	Min         float64 // inclusive
	Nullable    bool
	Default     any // used when the cell is missing; nil means required
	DisplayName string
}

// Accepts reports whether v is a valid cell for f, and if not, why.
func (f Field) Accepts(v any) (bool, string) {
	if v == nil {
		if f.Nullable || f.Default != nil {
			return true, ""
		}

		return false, "missing value"
	}
	switch f.Kind {
	case Text:
		if _, ok := v.(string); !ok {
			return false, "expected text"
		}

		return true, ""
	default:
		x, ok := v.(float64)
		if !ok || math.IsNaN(x) || math.IsInf(x, 0) {
			return false, "expected a finite number"
		}
		if f.MustBeInt && x != math.Trunc(x) {
			return false, "expected an integer"
		}
		if f.HasMin && x < f.Min {
			return false, "below minimum"
		}

		return true, ""
	}
}

// Table describes one table of a schema.
type Table struct {
	Name       string
	PrimaryKey []string
	Fields     []Field // primary key fields first
	Hidden     bool    // not listed by user-facing tools
}

// Field returns the named field.
func (t Table) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}

	return Field{}, false
}

// FieldNames returns the column order used when writing the table.
func (t Table) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}

	return names
}

// ForeignKey requires every Field value of Native to appear in Foreign.
type ForeignKey struct {
	Native  string
	Foreign string
	Field   string
}

// Parameter describes one entry of the parameters table.
type Parameter struct {
	Name      string
	Default   float64
	Min       float64
	MustBeInt bool
	Tooltip   string
}

// Accepts reports whether v is a valid value for p, and if not, why.
func (p Parameter) Accepts(v float64) (bool, string) {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return false, "expected a finite number"
	case p.MustBeInt && v != math.Trunc(v):
		return false, "expected an integer"
	case v < p.Min:
		return false, "below minimum"
	}

	return true, ""
}

// Predicate is a named row-level rule on one table.
type Predicate struct {
	Table string
	Name  string
	Check func(Row) bool
}

// Schema is the full description of a data set.
type Schema struct {
	Tables      []Table
	ForeignKeys []ForeignKey
	Parameters  []Parameter
	Predicates  []Predicate
}

// Table returns the named table.
func (s *Schema) Table(name string) (Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}

	return Table{}, false
}

// Parameter returns the named parameter.
func (s *Schema) Parameter(name string) (Parameter, bool) {
	for _, p := range s.Parameters {
		if p.Name == name {
			return p, true
		}
	}

	return Parameter{}, false
}

// TableNames lists the tables in schema order.
func (s *Schema) TableNames() []string {
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}

	return names
}

func periodField() Field {
	return Field{Name: planning.FieldPeriodID, Kind: Number, MustBeInt: true, HasMin: true, Min: 1}
}

func amountField(name, display string) Field {
	return Field{Name: name, Kind: Number, HasMin: true, Min: 0, DisplayName: display}
}

// Input returns the input schema.
func Input() *Schema {
	return &Schema{
		Tables: []Table{
			{
				Name:       planning.TableParameters,
				PrimaryKey: []string{FieldName},
				Fields: []Field{
					{Name: FieldName, Kind: Text},
					{Name: FieldValue, Kind: Number},
				},
				Hidden: true,
			},
			{
				Name:       planning.TableTimePeriods,
				PrimaryKey: []string{planning.FieldPeriodID},
				Fields: []Field{
					periodField(),
					{Name: FieldTimePeriod, Kind: Text, Nullable: true},
				},
			},
			{
				Name:       planning.TableDemand,
				PrimaryKey: []string{planning.FieldPeriodID},
				Fields: []Field{
					periodField(),
					{Name: planning.FieldDemand, Kind: Number, MustBeInt: true, HasMin: true, Min: 0, Default: 0.0},
				},
			},
			{
				Name:       planning.TableCosts,
				PrimaryKey: []string{planning.FieldPeriodID},
				Fields: []Field{
					periodField(),
					amountField(planning.FieldProductionCost, "Production ($/unit)"),
					withDefault(amountField(planning.FieldInventoryCost, "Inventory ($/unit)"), 0.0),
				},
			},
		},
		ForeignKeys: []ForeignKey{
			{Native: planning.TableTimePeriods, Foreign: planning.TableDemand, Field: planning.FieldPeriodID},
			{Native: planning.TableTimePeriods, Foreign: planning.TableCosts, Field: planning.FieldPeriodID},
			{Native: planning.TableDemand, Foreign: planning.TableTimePeriods, Field: planning.FieldPeriodID},
			{Native: planning.TableCosts, Foreign: planning.TableTimePeriods, Field: planning.FieldPeriodID},
		},
		Parameters: []Parameter{
			{
				Name:      planning.ParamProductionCapacity,
				Default:   planning.CapacitySentinel,
				Min:       -1,
				MustBeInt: true,
				Tooltip: "Maximum number of lasagnas that can be produced throughout each period. " +
					"Set it to -1 (default) when there is no such maximum.",
			},
			{
				Name:      planning.ParamInventoryCapacity,
				Default:   planning.CapacitySentinel,
				Min:       -1,
				MustBeInt: true,
				Tooltip: "Maximum number of lasagnas that can be stored throughout each period. " +
					"Set it to -1 (default) when there is no such maximum.",
			},
			{
				Name:      planning.ParamEndingInventory,
				Default:   planning.DefaultEndingInventory,
				Min:       0,
				MustBeInt: true,
				Tooltip:   "Number of lasagnas expected at the end of the planning horizon, default=0.",
			},
			{
				Name:      planning.ParamStartingInventory,
				Default:   planning.DefaultStartingInventory,
				Min:       0,
				MustBeInt: true,
				Tooltip:   "Number of lasagnas in the inventory at the beginning of the planning horizon, default=50.",
			},
		},
	}
}

// CostTolerance bounds |Total Cost - Production Cost - Inventory Cost| in
// the output costs table.
const CostTolerance = 1e-2

// Output returns the output schema.
func Output() *Schema {
	return &Schema{
		Tables: []Table{
			{
				Name:       TableProductionFlow,
				PrimaryKey: []string{planning.FieldPeriodID},
				Fields: []Field{
					periodField(),
					amountField(FieldProductionQuantity, ""),
					amountField(FieldInventoryQuantity, ""),
				},
			},
			{
				Name:       TableCosts,
				PrimaryKey: []string{planning.FieldPeriodID},
				Fields: []Field{
					periodField(),
					amountField(planning.FieldProductionCost, "Production ($)"),
					amountField(planning.FieldInventoryCost, "Inventory ($)"),
					amountField(FieldTotalCost, "Total ($)"),
				},
			},
		},
		Predicates: []Predicate{{
			Table: TableCosts,
			Name:  "Total Cost = Production Cost + Inventory Cost",
			Check: func(r Row) bool {
				total, ok1 := r.Number(FieldTotalCost)
				pc, ok2 := r.Number(planning.FieldProductionCost)
				ic, ok3 := r.Number(planning.FieldInventoryCost)

				return ok1 && ok2 && ok3 && math.Abs(total-pc-ic) <= CostTolerance
			},
		}},
	}
}

func withDefault(f Field, v any) Field {
	f.Default = v

	return f
}
