package planning_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/lotplan/planning"
)

func ExampleSolve() {
	in := planning.Input{
		Parameters: map[string]float64{planning.ParamStartingInventory: 0},
		Demand: []planning.Demand{
			{PeriodID: 1, Quantity: 100},
			{PeriodID: 2, Quantity: 100},
		},
		Costs: []planning.UnitCost{
			{PeriodID: 1, Production: 1, Inventory: 0.5},
			{PeriodID: 2, Production: 3, Inventory: 0.5},
		},
	}

	sol, err := planning.Solve(context.Background(), in)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(sol.Status)
	for _, r := range sol.ProductionFlow {
		fmt.Printf("period %d: make %.0f, keep %.0f\n", r.Period, r.ProductionQuantity, r.InventoryQuantity)
	}
	fmt.Printf("total %.2f\n", sol.Objective)
	// Output:
	// Optimal
	// period 1: make 200, keep 100
	// period 2: make 0, keep 0
	// total 250.00
}
