package planning

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/katalvlaran/lotplan/period"
	"github.com/katalvlaran/lotplan/solver"
)

// Table and field names shared with the tables package and used in errors.
const (
	TableParameters  = "parameters"
	TableTimePeriods = "time_periods"
	TableDemand      = "demand"
	TableCosts       = "costs"

	FieldPeriodID       = "Period ID"
	FieldDemand         = "Demand"
	FieldProductionCost = "Production Cost"
	FieldInventoryCost  = "Inventory Cost"
)

// Recognized parameter names.
const (
	ParamProductionCapacity = "Production Capacity"
	ParamInventoryCapacity  = "Inventory Capacity"
	ParamEndingInventory    = "Lasagnas To Be Left"
	ParamStartingInventory  = "Lasagnas To Start"
)

// Parameter defaults.
const (
	// CapacitySentinel is the input value meaning "no capacity limit".
	CapacitySentinel = -1

	DefaultStartingInventory = 50
	DefaultEndingInventory   = 0
)

// Sentinel errors.
var (
	// ErrInconsistentPeriods is matched by every *ConsistencyError.
	ErrInconsistentPeriods = errors.New("planning: period ids differ between tables")

	// ErrBadParameter is matched by every *ParameterError.
	ErrBadParameter = errors.New("planning: invalid parameter")

	// ErrBadValue is matched by every *ValueError.
	ErrBadValue = errors.New("planning: invalid table value")

	// ErrEmptyHorizon indicates a demand table without rows.
	ErrEmptyHorizon = errors.New("planning: demand table has no periods")
)

// ConsistencyError reports two tables whose period-id sets differ.
type ConsistencyError struct {
	Left, Right         string      // table names
	OnlyLeft, OnlyRight []period.ID // ascending
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf(
		"planning: period ids differ between %q and %q tables: extra in %q: %s; extra in %q: %s",
		e.Left, e.Right, e.Left, formatIDs(e.OnlyLeft), e.Right, formatIDs(e.OnlyRight),
	)
}

// Unwrap lets errors.Is(err, ErrInconsistentPeriods) succeed.
func (e *ConsistencyError) Unwrap() error { return ErrInconsistentPeriods }

func formatIDs(ids []period.ID) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// ParameterError reports an unknown or out-of-range named parameter.
type ParameterError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("planning: parameter %q = %s: %s",
		e.Name, strconv.FormatFloat(e.Value, 'g', -1, 64), e.Reason)
}

// Unwrap lets errors.Is(err, ErrBadParameter) succeed.
func (e *ParameterError) Unwrap() error { return ErrBadParameter }

// ValueError reports a negative or non-finite demand or cost entry.
type ValueError struct {
	Table  string
	Field  string
	Period period.ID
	Value  float64
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("planning: %q at %q table, period %s: value %s must be finite and non-negative",
		e.Field, e.Table, e.Period, strconv.FormatFloat(e.Value, 'g', -1, 64))
}

// Unwrap lets errors.Is(err, ErrBadValue) succeed.
func (e *ValueError) Unwrap() error { return ErrBadValue }

// Capacity is an optional upper bound: either Unbounded or Bounded(limit).
// The zero value is Unbounded.
type Capacity struct {
	limit   float64
	bounded bool
}

// Unbounded returns a capacity that adds no constraint.
func Unbounded() Capacity { return Capacity{} }

// Bounded returns a capacity limit. limit must be finite and non-negative.
func Bounded(limit float64) Capacity {
	if math.IsNaN(limit) || math.IsInf(limit, 0) || limit < 0 {
		panic("planning: Bounded: limit must be finite, non-negative")
	}

	return Capacity{limit: limit, bounded: true}
}

// Limit returns the bound and whether one exists.
func (c Capacity) Limit() (float64, bool) { return c.limit, c.bounded }

// IsBounded reports whether c constrains anything.
func (c Capacity) IsBounded() bool { return c.bounded }

// Sentinel returns the table representation: the limit, or −1 when unbounded.
func (c Capacity) Sentinel() float64 {
	if !c.bounded {
		return CapacitySentinel
	}

	return c.limit
}

func (c Capacity) String() string {
	if !c.bounded {
		return "unbounded"
	}

	return strconv.FormatFloat(c.limit, 'g', -1, 64)
}

// Parameters are the resolved scalar planning parameters.
type Parameters struct {
	ProductionCapacity Capacity
	InventoryCapacity  Capacity
	StartingInventory  float64
	EndingInventory    float64
}

// DefaultParameters returns the documented defaults: both capacities
// unbounded, 50 units on hand at the start, nothing left at the end.
func DefaultParameters() Parameters {
	return Parameters{
		ProductionCapacity: Unbounded(),
		InventoryCapacity:  Unbounded(),
		StartingInventory:  DefaultStartingInventory,
		EndingInventory:    DefaultEndingInventory,
	}
}

// TimePeriod is one row of the time_periods table.
type TimePeriod struct {
	PeriodID float64
	Label    string
}

// Demand is one row of the demand table.
type Demand struct {
	PeriodID float64
	Quantity float64
}

// UnitCost is one row of the costs table.
type UnitCost struct {
	PeriodID   float64
	Production float64
	Inventory  float64
}

// Input is the schema-shaped input of one planning request. Period ids are
// carried as read (float64) so that non-integer entries reach the period
// validator instead of being silently truncated.
type Input struct {
	Parameters  map[string]float64
	TimePeriods []TimePeriod // optional
	Demand      []Demand
	Costs       []UnitCost
}

// Tables are the validated per-period lookups built from an Input.
type Tables struct {
	// Periods lists the demand table's ids in encountered order (not sorted).
	Periods []period.ID
	// Index is the validated demand period column.
	Index period.Index

	Demand         map[period.ID]float64
	ProductionCost map[period.ID]float64
	InventoryCost  map[period.ID]float64
}

// FlowRow is one row of the production_flow output table.
type FlowRow struct {
	Period             period.ID
	ProductionQuantity float64
	InventoryQuantity  float64
}

// CostRow is one row of the costs output table.
// TotalCost == ProductionCost + InventoryCost within 0.01.
type CostRow struct {
	Period         period.ID
	ProductionCost float64
	InventoryCost  float64
	TotalCost      float64
}

// Solution is the outcome of Solve. The tables are non-nil only when
// Status is solver.StatusOptimal; both are present or both are nil.
type Solution struct {
	Status         solver.Status
	Objective      float64
	ProductionFlow []FlowRow
	Costs          []CostRow
}

// Optimal reports whether the solution carries output tables.
func (s Solution) Optimal() bool { return s.Status == solver.StatusOptimal }
