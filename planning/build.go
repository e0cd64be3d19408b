package planning

import (
	"fmt"

	"github.com/katalvlaran/lotplan/period"
	"github.com/katalvlaran/lotplan/solver"
)

// ModelName names every model BuildModel produces.
const ModelName = "lotplan"

// Plan is a built model plus the variable handles Extract needs.
type Plan struct {
	Model *solver.Model
	// Periods is 1..N ascending.
	Periods []period.ID

	Production map[period.ID]solver.Var // x_i
	Storage    map[period.ID]solver.Var // s_i
}

// Variable and constraint names.
func prodVarName(id period.ID) string    { return fmt.Sprintf("x_%d", id) }
func storeVarName(id period.ID) string   { return fmt.Sprintf("s_%d", id) }
func balanceRowName(id period.ID) string { return fmt.Sprintf("balance_at_%d", id) }
func prodCapRowName(id period.ID) string { return fmt.Sprintf("prod_capacity_%d", id) }
func invCapRowName(id period.ID) string  { return fmt.Sprintf("inv_capacity_%d", id) }

// LastStorageRow names the ending-inventory constraint.
const LastStorageRow = "last_storage"

// BuildModel turns validated tables and parameters into a minimization
// model with 2N variables and N+1 equality rows, plus N rows for each
// bounded capacity. With integer set every variable is declared integer.
//
// Rows are added in ascending period order so the model is identical for
// any row order of the input tables.
func BuildModel(t Tables, p Parameters, integer bool) *Plan {
	ids := t.Index.Sorted()
	m := solver.NewModel(ModelName, solver.Minimize)
	plan := &Plan{
		Model:      m,
		Periods:    ids,
		Production: make(map[period.ID]solver.Var, len(ids)),
		Storage:    make(map[period.ID]solver.Var, len(ids)),
	}
	for _, id := range ids {
		plan.Production[id] = m.AddVar(prodVarName(id), integer)
		plan.Storage[id] = m.AddVar(storeVarName(id), integer)
	}

	// Flow balance: inflow (production + carried stock) equals outflow
	// (demand + stock kept). Stock carried into period 1 is the starting
	// inventory, so it moves to the right-hand side.
	for _, id := range ids {
		x, s := plan.Production[id], plan.Storage[id]
		if id == ids[0] {
			m.AddConstraint(balanceRowName(id), solver.Equal, t.Demand[id]-p.StartingInventory,
				solver.T(1, x), solver.T(-1, s))
			continue
		}
		m.AddConstraint(balanceRowName(id), solver.Equal, t.Demand[id],
			solver.T(1, x), solver.T(1, plan.Storage[id.Prev()]), solver.T(-1, s))
	}
	last := ids[len(ids)-1]
	m.AddConstraint(LastStorageRow, solver.Equal, p.EndingInventory, solver.T(1, plan.Storage[last]))

	if limit, ok := p.ProductionCapacity.Limit(); ok {
		for _, id := range ids {
			m.AddConstraint(prodCapRowName(id), solver.LessEq, limit, solver.T(1, plan.Production[id]))
		}
	}
	if limit, ok := p.InventoryCapacity.Limit(); ok {
		for _, id := range ids {
			m.AddConstraint(invCapRowName(id), solver.LessEq, limit, solver.T(1, plan.Storage[id]))
		}
	}

	obj := make([]solver.Term, 0, 2*len(ids))
	for _, id := range ids {
		obj = append(obj,
			solver.T(t.ProductionCost[id], plan.Production[id]),
			solver.T(t.InventoryCost[id], plan.Storage[id]),
		)
	}
	m.SetObjective(obj...)

	return plan
}
