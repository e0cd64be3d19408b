package planning

import (
	"errors"
	"math"
	"sort"

	"github.com/katalvlaran/lotplan/period"
)

// ResolveParameters overlays raw onto DefaultParameters.
//
// Rules:
//   - Names must be one of the Param* constants.
//   - Every value must be a finite integer.
//   - Capacities accept −1 (unbounded) or any value ≥ 0.
//   - Starting and ending inventory must be ≥ 0.
//
// Names are checked in sorted order so the first reported error is stable.
func ResolveParameters(raw map[string]float64) (Parameters, error) {
	p := DefaultParameters()

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v := raw[name]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Parameters{}, &ParameterError{Name: name, Value: v, Reason: "value must be finite"}
		}

		switch name {
		case ParamProductionCapacity, ParamInventoryCapacity:
			c, err := capacityOf(name, v)
			if err != nil {
				return Parameters{}, err
			}
			if name == ParamProductionCapacity {
				p.ProductionCapacity = c
			} else {
				p.InventoryCapacity = c
			}
		case ParamStartingInventory, ParamEndingInventory:
			if v != math.Trunc(v) {
				return Parameters{}, &ParameterError{Name: name, Value: v, Reason: "value must be an integer"}
			}
			if v < 0 {
				return Parameters{}, &ParameterError{Name: name, Value: v, Reason: "value must be non-negative"}
			}
			if name == ParamStartingInventory {
				p.StartingInventory = v
			} else {
				p.EndingInventory = v
			}
		default:
			return Parameters{}, &ParameterError{Name: name, Value: v, Reason: "unknown parameter"}
		}
	}

	return p, nil
}

func capacityOf(name string, v float64) (Capacity, error) {
	switch {
	case v != math.Trunc(v):
		return Capacity{}, &ParameterError{Name: name, Value: v, Reason: "value must be an integer"}
	case v == CapacitySentinel:
		return Unbounded(), nil
	case v < 0:
		return Capacity{}, &ParameterError{Name: name, Value: v, Reason: "value must be -1 (unbounded) or non-negative"}
	default:
		return Bounded(v), nil
	}
}

// ResolveTables validates the period columns and builds per-period lookups.
//
// Stages:
//  1. Each period column (demand, costs, and time_periods when present)
//     must be a permutation of 1..N.
//  2. Demand and costs must cover the same ids; time_periods, when present,
//     must cover the same ids as demand.
//  3. Demand must not be empty.
//  4. Demand and cost values must be finite and non-negative.
//
// The first violated stage is reported; no partial Tables are returned.
func ResolveTables(in Input) (Tables, error) {
	// Stage 1: period columns.
	demandIx, err := period.ValidateColumn(TableDemand, FieldPeriodID, demandColumn(in.Demand))
	if err != nil {
		return Tables{}, err
	}
	costsIx, err := period.ValidateColumn(TableCosts, FieldPeriodID, costsColumn(in.Costs))
	if err != nil {
		return Tables{}, err
	}
	var timeIx period.Index
	if len(in.TimePeriods) > 0 {
		if timeIx, err = period.ValidateColumn(TableTimePeriods, FieldPeriodID, timeColumn(in.TimePeriods)); err != nil {
			return Tables{}, err
		}
	}

	// Stage 2: cross-table consistency.
	if onlyD, onlyC := period.Diff(demandIx, costsIx); len(onlyD)+len(onlyC) > 0 {
		return Tables{}, &ConsistencyError{Left: TableDemand, Right: TableCosts, OnlyLeft: onlyD, OnlyRight: onlyC}
	}
	if len(in.TimePeriods) > 0 {
		if onlyT, onlyD := period.Diff(timeIx, demandIx); len(onlyT)+len(onlyD) > 0 {
			return Tables{}, &ConsistencyError{Left: TableTimePeriods, Right: TableDemand, OnlyLeft: onlyT, OnlyRight: onlyD}
		}
	}

	// Stage 3: horizon.
	if demandIx.Len() == 0 {
		return Tables{}, ErrEmptyHorizon
	}

	// Stage 4: values.
	n := demandIx.Len()
	t := Tables{
		Periods:        demandIx.IDs(),
		Index:          demandIx,
		Demand:         make(map[period.ID]float64, n),
		ProductionCost: make(map[period.ID]float64, n),
		InventoryCost:  make(map[period.ID]float64, n),
	}
	for _, row := range in.Demand {
		id := period.ID(row.PeriodID)
		if err := checkValue(TableDemand, FieldDemand, id, row.Quantity); err != nil {
			return Tables{}, err
		}
		t.Demand[id] = row.Quantity
	}
	for _, row := range in.Costs {
		id := period.ID(row.PeriodID)
		if err := checkValue(TableCosts, FieldProductionCost, id, row.Production); err != nil {
			return Tables{}, err
		}
		if err := checkValue(TableCosts, FieldInventoryCost, id, row.Inventory); err != nil {
			return Tables{}, err
		}
		t.ProductionCost[id] = row.Production
		t.InventoryCost[id] = row.Inventory
	}

	return t, nil
}

func checkValue(table, field string, id period.ID, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return &ValueError{Table: table, Field: field, Period: id, Value: v}
	}

	return nil
}

func demandColumn(rows []Demand) []float64 {
	col := make([]float64, len(rows))
	for i, r := range rows {
		col[i] = r.PeriodID
	}

	return col
}

func costsColumn(rows []UnitCost) []float64 {
	col := make([]float64, len(rows))
	for i, r := range rows {
		col[i] = r.PeriodID
	}

	return col
}

func timeColumn(rows []TimePeriod) []float64 {
	col := make([]float64, len(rows))
	for i, r := range rows {
		col[i] = r.PeriodID
	}

	return col
}

// Error kinds reported by ErrorKind.
const (
	KindIndex       = "index"
	KindConsistency = "consistency"
	KindParameter   = "parameter"
	KindValue       = "value"
	KindEmpty       = "empty_horizon"
	KindOther       = "other"
)

// ErrorKind classifies a validation error returned by Solve, ResolveTables
// or ResolveParameters. Anything unrecognized is KindOther.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, period.ErrInvalidIndex):
		return KindIndex
	case errors.Is(err, ErrInconsistentPeriods):
		return KindConsistency
	case errors.Is(err, ErrBadParameter):
		return KindParameter
	case errors.Is(err, ErrBadValue):
		return KindValue
	case errors.Is(err, ErrEmptyHorizon):
		return KindEmpty
	default:
		return KindOther
	}
}

// IsValidation reports whether err is an input defect rather than a solver
// or context failure.
func IsValidation(err error) bool { return ErrorKind(err) != KindOther }
