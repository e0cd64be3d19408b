package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/katalvlaran/lotplan/logging"
)

// Solve validates in, builds the model, runs the configured solver and
// extracts the output tables.
//
// Validation failures are returned as errors (see ErrorKind). A solver
// status other than optimal yields a Solution with that status, no tables
// and a nil error. Errors from the solver itself (cancellation, numeric
// failure) are wrapped and returned.
func Solve(ctx context.Context, in Input, opts ...Option) (Solution, error) {
	o := gatherOptions(opts...)
	log := o.Logger.WithName("planning")

	params, err := ResolveParameters(in.Parameters)
	if err != nil {
		return Solution{}, o.reject(err)
	}
	tables, err := ResolveTables(in)
	if err != nil {
		return Solution{}, o.reject(err)
	}

	plan := BuildModel(tables, params, o.Integer)
	log.V(logging.DEBUG).Info("model built",
		"periods", len(plan.Periods),
		"variables", plan.Model.NumVars(),
		"constraints", plan.Model.NumConstraints(),
		"productionCapacity", params.ProductionCapacity.String(),
		"inventoryCapacity", params.InventoryCapacity.String(),
		"integer", o.Integer,
	)

	start := time.Now()
	res, err := o.Solver.Solve(ctx, plan.Model)
	elapsed := time.Since(start)
	if err != nil {
		log.Error(err, "solver failed", "periods", len(plan.Periods))

		return Solution{}, fmt.Errorf("planning: solve %q: %w", plan.Model.Name(), err)
	}
	o.Recorder.ObserveSolve(Outcome{
		Status:    res.Status,
		Periods:   len(plan.Periods),
		Objective: res.Objective,
		Elapsed:   elapsed,
	})

	if !res.IsOptimal() {
		log.Info("no optimal plan", "status", res.Status.String(), "elapsed", elapsed)

		return Solution{Status: res.Status}, nil
	}

	flow, costs := Extract(plan, tables, res, o.Decimals)
	log.Info("plan solved", "objective", res.Objective, "nodes", res.Nodes, "elapsed", elapsed)

	return Solution{
		Status:         res.Status,
		Objective:      res.Objective,
		ProductionFlow: flow,
		Costs:          costs,
	}, nil
}

func (o Options) reject(err error) error {
	kind := ErrorKind(err)
	o.Recorder.ObserveRejected(kind)
	o.Logger.WithName("planning").V(logging.DEBUG).Info("input rejected", "kind", kind, "error", err.Error())

	return err
}
