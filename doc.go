// Package lotplan plans production and inventory over a horizon of
// numbered periods: given per-period demand, per-unit production and
// holding costs and a few scalar parameters, it finds the quantities to
// make and to keep in each period at minimum total cost.
//
// The work is split into small packages:
//
//	period/      period-index validation and set comparison
//	solver/      linear model, simplex solver (gonum) and branch-and-bound
//	planning/    parameter resolution, model building, Solve, extraction
//	tables/      named tables, schemas and CSV / JSON / YAML codecs
//	integrity/   data integrity report and default-based fixing
//	config/      viper configuration with env and flag overrides
//	logging/     logr over zap
//	metrics/     prometheus solve counters and histograms
//	server/      echo HTTP API
//	cmd/lotplan  cobra command line
//
// The model, for periods p₁ < … < pₙ:
//
//	minimize   Σ pc[p]·x[p] + ic[p]·s[p]
//	subject to x[p₁] − s[p₁]          = d[p₁] − start
//	           x[p] + s[p−1] − s[p]   = d[p]          for p > p₁
//	           s[pₙ]                  = end
//	           x[p] ≤ production cap, s[p] ≤ inventory cap (when bounded)
//	           x, s ≥ 0
//
// Quick start:
//
//	sol, err := planning.Solve(ctx, planning.Input{Demand: ..., Costs: ...})
//	if err != nil { ... }          // malformed or inconsistent input
//	if !sol.Optimal() { ... }      // infeasible or unbounded, not an error
//
//	go get github.com/katalvlaran/lotplan
package lotplan
