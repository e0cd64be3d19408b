package tables

import (
	"sort"

	"github.com/katalvlaran/lotplan/planning"
)

// Decode converts an input DataSet into planning.Input, applying field
// defaults to missing cells. Tables absent from ds decode as empty.
//
// Only cell types are checked here; period columns, cross-table
// consistency and value ranges are left to planning.Solve so that every
// caller gets the same validation errors.
func Decode(ds DataSet) (planning.Input, error) {
	s := Input()
	in := planning.Input{Parameters: make(map[string]float64)}

	for i, r := range ds[planning.TableParameters] {
		name, err := textCell(planning.TableParameters, FieldName, i, r)
		if err != nil {
			return planning.Input{}, err
		}
		if r[FieldValue] == nil {
			if p, known := s.Parameter(name); known {
				in.Parameters[name] = p.Default
				continue
			}
		}
		value, err := numberCell(s, planning.TableParameters, FieldValue, i, r)
		if err != nil {
			return planning.Input{}, err
		}
		in.Parameters[name] = value
	}

	for i, r := range ds[planning.TableTimePeriods] {
		id, err := numberCell(s, planning.TableTimePeriods, planning.FieldPeriodID, i, r)
		if err != nil {
			return planning.Input{}, err
		}
		var label string
		if r[FieldTimePeriod] != nil {
			if label, err = textCell(planning.TableTimePeriods, FieldTimePeriod, i, r); err != nil {
				return planning.Input{}, err
			}
		}
		in.TimePeriods = append(in.TimePeriods, planning.TimePeriod{PeriodID: id, Label: label})
	}

	for i, r := range ds[planning.TableDemand] {
		id, err := numberCell(s, planning.TableDemand, planning.FieldPeriodID, i, r)
		if err != nil {
			return planning.Input{}, err
		}
		q, err := numberCell(s, planning.TableDemand, planning.FieldDemand, i, r)
		if err != nil {
			return planning.Input{}, err
		}
		in.Demand = append(in.Demand, planning.Demand{PeriodID: id, Quantity: q})
	}

	for i, r := range ds[planning.TableCosts] {
		id, err := numberCell(s, planning.TableCosts, planning.FieldPeriodID, i, r)
		if err != nil {
			return planning.Input{}, err
		}
		pc, err := numberCell(s, planning.TableCosts, planning.FieldProductionCost, i, r)
		if err != nil {
			return planning.Input{}, err
		}
		ic, err := numberCell(s, planning.TableCosts, planning.FieldInventoryCost, i, r)
		if err != nil {
			return planning.Input{}, err
		}
		in.Costs = append(in.Costs, planning.UnitCost{PeriodID: id, Production: pc, Inventory: ic})
	}

	return in, nil
}

// numberCell reads a Number cell, falling back to the field default.
func numberCell(s *Schema, table, field string, i int, r Row) (float64, error) {
	v := r[field]
	if v == nil {
		if f, ok := fieldOf(s, table, field); ok && f.Default != nil {
			if d, ok := f.Default.(float64); ok {
				return d, nil
			}
		}

		return 0, &CellError{Table: table, Row: i, Field: field, Reason: "missing value"}
	}
	x, ok := v.(float64)
	if !ok {
		return 0, &CellError{Table: table, Row: i, Field: field, Value: v, Reason: "expected a number"}
	}

	return x, nil
}

func textCell(table, field string, i int, r Row) (string, error) {
	v := r[field]
	x, ok := v.(string)
	if !ok {
		reason := "expected text"
		if v == nil {
			reason = "missing value"
		}

		return "", &CellError{Table: table, Row: i, Field: field, Value: v, Reason: reason}
	}

	return x, nil
}

func fieldOf(s *Schema, table, field string) (Field, bool) {
	t, ok := s.Table(table)
	if !ok {
		return Field{}, false
	}

	return t.Field(field)
}

// EncodeInput is the inverse of Decode. Parameters are written in schema
// order, followed by any others in ascending name order.
func EncodeInput(in planning.Input) DataSet {
	ds := DataSet{
		planning.TableParameters:  []Row{},
		planning.TableTimePeriods: []Row{},
		planning.TableDemand:      []Row{},
		planning.TableCosts:       []Row{},
	}

	seen := make(map[string]bool, len(in.Parameters))
	for _, p := range Input().Parameters {
		if v, ok := in.Parameters[p.Name]; ok {
			ds[planning.TableParameters] = append(ds[planning.TableParameters], Row{FieldName: p.Name, FieldValue: v})
			seen[p.Name] = true
		}
	}
	for _, name := range sortedKeys(in.Parameters) {
		if !seen[name] {
			ds[planning.TableParameters] = append(ds[planning.TableParameters], Row{FieldName: name, FieldValue: in.Parameters[name]})
		}
	}

	for _, tp := range in.TimePeriods {
		var label any
		if tp.Label != "" {
			label = tp.Label
		}
		ds[planning.TableTimePeriods] = append(ds[planning.TableTimePeriods],
			Row{planning.FieldPeriodID: tp.PeriodID, FieldTimePeriod: label})
	}
	for _, d := range in.Demand {
		ds[planning.TableDemand] = append(ds[planning.TableDemand],
			Row{planning.FieldPeriodID: d.PeriodID, planning.FieldDemand: d.Quantity})
	}
	for _, c := range in.Costs {
		ds[planning.TableCosts] = append(ds[planning.TableCosts], Row{
			planning.FieldPeriodID:       c.PeriodID,
			planning.FieldProductionCost: c.Production,
			planning.FieldInventoryCost:  c.Inventory,
		})
	}

	return ds
}

// Encode renders a solution as the output DataSet. A non-optimal solution
// yields both tables empty.
func Encode(sol planning.Solution) DataSet {
	ds := DataSet{
		TableProductionFlow: make([]Row, 0, len(sol.ProductionFlow)),
		TableCosts:          make([]Row, 0, len(sol.Costs)),
	}
	for _, f := range sol.ProductionFlow {
		ds[TableProductionFlow] = append(ds[TableProductionFlow], Row{
			planning.FieldPeriodID:  float64(f.Period),
			FieldProductionQuantity: f.ProductionQuantity,
			FieldInventoryQuantity:  f.InventoryQuantity,
		})
	}
	for _, c := range sol.Costs {
		ds[TableCosts] = append(ds[TableCosts], Row{
			planning.FieldPeriodID:       float64(c.Period),
			planning.FieldProductionCost: c.ProductionCost,
			planning.FieldInventoryCost:  c.InventoryCost,
			FieldTotalCost:               c.TotalCost,
		})
	}

	return ds
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
