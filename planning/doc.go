// Package planning builds and solves single-product production/inventory
// plans over a finite horizon of periods 1..N.
//
// Given per-period demand d[i], production unit cost pc[i] and inventory
// unit cost ic[i], Solve finds production x[i] ≥ 0 and end-of-period stock
// s[i] ≥ 0 minimizing
//
//	Σ pc[i]·x[i] + Σ ic[i]·s[i]
//
// subject to
//
//	x[1] + start     = d[1] + s[1]          (first period)
//	x[i] + s[i−1]    = d[i] + s[i]          (i = 2..N)
//	s[N]             = end                  (in addition to the row above)
//	x[i] ≤ prodCap                          (only when production capacity is bounded)
//	s[i] ≤ invCap                           (only when inventory capacity is bounded)
//
// With a single period the start row and the end row both constrain
// period 1.
//
// Pipeline:
//
//	Input → ResolveParameters / ResolveTables → BuildModel → solver.Solver → Extract → Solution
//
// Error classes:
//   - Validation (period.ErrInvalidIndex, ErrInconsistentPeriods,
//     ErrBadParameter, ErrBadValue, ErrEmptyHorizon) is returned as an error
//     with no partial output. It is an upstream data defect.
//   - A non-optimal solver status is NOT an error: Solve returns a Solution
//     carrying the status and no tables. Infeasible demand is a business
//     outcome.
//
// Solve keeps no state between calls; concurrent calls on distinct inputs
// need no synchronization.
package planning
