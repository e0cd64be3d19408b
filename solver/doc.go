// Package solver provides a small linear-programming surface: a Model of
// non-negative decision variables, linear constraints and a linear
// objective, plus a Solver that returns either an optimal assignment or a
// non-optimal Status.
//
// The package is the "black box" the planning core depends on. Callers only
// see:
//
//	m := solver.NewModel("plan", solver.Minimize)
//	x := m.AddVar("x", false)
//	y := m.AddVar("y", false)
//	m.AddConstraint("demand", solver.GreaterEq, 10, solver.T(1, x), solver.T(1, y))
//	m.SetObjective(solver.T(2, x), solver.T(3, y))
//
//	res, err := solver.NewSimplex().Solve(ctx, m)
//	if err != nil {
//	    // malformed model or cancelled context
//	}
//	if res.IsOptimal() {
//	    fmt.Println(res.Value(x), res.Value(y))
//	}
//
// Simplex adapts gonum's optimize/convex/lp.Simplex (standard form
// min cᵀx, Ax = b, x ≥ 0):
//   - inequality rows receive their own slack (≤) or surplus (≥) column,
//     which keeps the row rank full;
//   - empty rows are checked against their right-hand side and dropped;
//   - variables that appear in no row are fixed at 0 (or reported unbounded
//     when they would decrease the objective);
//   - gonum sentinels map to StatusInfeasible / StatusUnbounded /
//     StatusUndefined.
//
// Integer variables are handled by a deterministic depth-first
// branch-and-bound over LP relaxations (see bb.go).
//
// Status names follow the usual LP-solver vocabulary: "Not Solved",
// "Optimal", "Infeasible", "Unbounded", "Undefined".
package solver
