package planning

import (
	"math"

	"github.com/katalvlaran/lotplan/solver"
)

// Extract reads an optimal result into the two output tables, one row per
// period in ascending order. It returns nil tables for any other status.
//
// Quantities below zero by solver noise are clamped to 0. Production and
// inventory costs are rounded to decimals; the total is the rounded sum of
// the rounded parts, so the row-level identity holds after rounding.
func Extract(plan *Plan, t Tables, res solver.Result, decimals int) ([]FlowRow, []CostRow) {
	if plan == nil || !res.IsOptimal() {
		return nil, nil
	}

	flow := make([]FlowRow, 0, len(plan.Periods))
	costs := make([]CostRow, 0, len(plan.Periods))
	for _, id := range plan.Periods {
		q := nonNegative(res.Value(plan.Production[id]))
		inv := nonNegative(res.Value(plan.Storage[id]))
		flow = append(flow, FlowRow{Period: id, ProductionQuantity: q, InventoryQuantity: inv})

		pc := round(q*t.ProductionCost[id], decimals)
		ic := round(inv*t.InventoryCost[id], decimals)
		costs = append(costs, CostRow{
			Period:         id,
			ProductionCost: pc,
			InventoryCost:  ic,
			TotalCost:      round(pc+ic, decimals),
		})
	}

	return flow, costs
}

func nonNegative(v float64) float64 {
	if v <= 0 {
		return 0
	}

	return v
}

func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)

	return math.Round(v*p) / p
}
