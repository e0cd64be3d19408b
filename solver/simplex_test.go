// Package solver_test validates the Simplex adapter and branch-and-bound.
// Focus:
//  1. Strict sentinels on malformed models.
//  2. Correct optima on tiny LPs with unique solutions.
//  3. Status mapping for infeasible and unbounded models.
//  4. Integer models: exact optimum, node limit, determinism.
package solver_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lotplan/solver"
)

const eps = 1e-7

// mkCover builds: minimize 2x + 3y  s.t.  x + y ≥ 10.  Optimum x=10, y=0, f=20.
func mkCover() (*solver.Model, solver.Var, solver.Var) {
	m := solver.NewModel("cover", solver.Minimize)
	x := m.AddVar("x", false)
	y := m.AddVar("y", false)
	m.AddConstraint("cover", solver.GreaterEq, 10, solver.T(1, x), solver.T(1, y))
	m.SetObjective(solver.T(2, x), solver.T(3, y))

	return m, x, y
}

// mkKnapsack builds: maximize 5a + 4b  s.t.  6a + 4b ≤ 24,  a + 2b ≤ 6.
// LP optimum (3, 1.5) → 21; integer optimum (4, 0) → 20.
func mkKnapsack(integer bool) (*solver.Model, solver.Var, solver.Var) {
	m := solver.NewModel("knapsack", solver.Maximize)
	a := m.AddVar("a", integer)
	b := m.AddVar("b", integer)
	m.AddConstraint("c1", solver.LessEq, 24, solver.T(6, a), solver.T(4, b))
	m.AddConstraint("c2", solver.LessEq, 6, solver.T(1, a), solver.T(2, b))
	m.SetObjective(solver.T(5, a), solver.T(4, b))

	return m, a, b
}

func TestSimplex_Errors_StrictSentinels(t *testing.T) {
	ctx := context.Background()
	s := solver.NewSimplex()

	_, err := s.Solve(ctx, nil)
	assert.ErrorIs(t, err, solver.ErrNilModel)

	m := solver.NewModel("dup", solver.Minimize)
	m.AddVar("x", false)
	m.AddVar("x", false)
	_, err = s.Solve(ctx, m)
	assert.ErrorIs(t, err, solver.ErrDuplicateVar)

	m = solver.NewModel("foreign", solver.Minimize)
	m.AddVar("x", false)
	m.AddConstraint("bad", solver.LessEq, 1, solver.T(1, solver.Var{}))
	_, err = s.Solve(ctx, m)
	assert.ErrorIs(t, err, solver.ErrUnknownVar)

	m = solver.NewModel("nan", solver.Minimize)
	x := m.AddVar("x", false)
	m.AddConstraint("bad", solver.LessEq, math.NaN(), solver.T(1, x))
	_, err = s.Solve(ctx, m)
	assert.ErrorIs(t, err, solver.ErrBadCoefficient)

	m = solver.NewModel("inf", solver.Minimize)
	x = m.AddVar("x", false)
	m.SetObjective(solver.T(math.Inf(1), x))
	_, err = s.Solve(ctx, m)
	assert.ErrorIs(t, err, solver.ErrBadCoefficient)
}

func TestSimplex_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m, _, _ := mkCover()
	_, err := solver.NewSimplex().Solve(ctx, m)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSimplex_Cover_Optimal(t *testing.T) {
	m, x, y := mkCover()
	res, err := solver.NewSimplex().Solve(context.Background(), m)
	require.NoError(t, err)
	require.True(t, res.IsOptimal(), "status %s", res.Status)
	assert.InDelta(t, 10, res.Value(x), eps)
	assert.InDelta(t, 0, res.Value(y), eps)
	assert.InDelta(t, 20, res.Objective, eps)
	assert.Zero(t, res.Nodes, "pure LP explores no nodes")
}

func TestSimplex_Equality_ExactlyConstrained(t *testing.T) {
	// Two equalities, two variables: gonum takes the linear-solve path.
	m := solver.NewModel("square", solver.Minimize)
	x := m.AddVar("x", false)
	y := m.AddVar("y", false)
	m.AddConstraint("e1", solver.Equal, 3, solver.T(1, x), solver.T(1, y))
	m.AddConstraint("e2", solver.Equal, 1, solver.T(1, x), solver.T(-1, y))
	m.SetObjective(solver.T(1, x), solver.T(1, y))

	res, err := solver.NewSimplex().Solve(context.Background(), m)
	require.NoError(t, err)
	require.True(t, res.IsOptimal())
	assert.InDelta(t, 2, res.Value(x), eps)
	assert.InDelta(t, 1, res.Value(y), eps)
}

func TestSimplex_Maximize_LP(t *testing.T) {
	m, a, b := mkKnapsack(false)
	res, err := solver.NewSimplex().Solve(context.Background(), m)
	require.NoError(t, err)
	require.True(t, res.IsOptimal())
	assert.InDelta(t, 3, res.Value(a), eps)
	assert.InDelta(t, 1.5, res.Value(b), eps)
	assert.InDelta(t, 21, res.Objective, eps)
}

func TestSimplex_Infeasible(t *testing.T) {
	m := solver.NewModel("infeasible", solver.Minimize)
	x := m.AddVar("x", false)
	m.AddConstraint("hi", solver.LessEq, 1, solver.T(1, x))
	m.AddConstraint("lo", solver.GreaterEq, 2, solver.T(1, x))
	m.SetObjective(solver.T(1, x))

	res, err := solver.NewSimplex().Solve(context.Background(), m)
	require.NoError(t, err, "infeasibility is a status, not an error")
	assert.Equal(t, solver.StatusInfeasible, res.Status)
	assert.Nil(t, res.Values)
}

func TestSimplex_NegativeRHSEquality_Infeasible(t *testing.T) {
	// x = −5 with x ≥ 0 has no solution.
	m := solver.NewModel("neg", solver.Minimize)
	x := m.AddVar("x", false)
	y := m.AddVar("y", false)
	m.AddConstraint("e", solver.Equal, -5, solver.T(1, x))
	m.AddConstraint("f", solver.LessEq, 3, solver.T(1, y))
	m.SetObjective(solver.T(1, x), solver.T(1, y))

	res, err := solver.NewSimplex().Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, solver.StatusInfeasible, res.Status)
}

func TestSimplex_NegativeRHSEquality_Feasible(t *testing.T) {
	// x − s = −30: opening stock exceeds the first demand.
	m := solver.NewModel("surplus", solver.Minimize)
	x := m.AddVar("x", false)
	s := m.AddVar("s", false)
	m.AddConstraint("balance", solver.Equal, -30, solver.T(1, x), solver.T(-1, s))
	m.SetObjective(solver.T(1, x), solver.T(1, s))

	res, err := solver.NewSimplex().Solve(context.Background(), m)
	require.NoError(t, err)
	require.True(t, res.IsOptimal())
	assert.InDelta(t, 0, res.Value(x), eps)
	assert.InDelta(t, 30, res.Value(s), eps)
	assert.InDelta(t, 30, res.Objective, eps)
}

func TestSimplex_EmptyRow(t *testing.T) {
	m := solver.NewModel("empty-row", solver.Minimize)
	x := m.AddVar("x", false)
	m.AddConstraint("never", solver.GreaterEq, 5)
	m.AddConstraint("x", solver.GreaterEq, 1, solver.T(1, x))
	m.SetObjective(solver.T(1, x))

	res, err := solver.NewSimplex().Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, solver.StatusInfeasible, res.Status)

	// A satisfiable empty row is simply dropped.
	m = solver.NewModel("empty-ok", solver.Minimize)
	x = m.AddVar("x", false)
	m.AddConstraint("trivial", solver.LessEq, 5)
	m.AddConstraint("x", solver.GreaterEq, 1, solver.T(1, x))
	m.SetObjective(solver.T(1, x))

	res, err = solver.NewSimplex().Solve(context.Background(), m)
	require.NoError(t, err)
	require.True(t, res.IsOptimal())
	assert.InDelta(t, 1, res.Value(x), eps)
}

func TestSimplex_FreeColumn(t *testing.T) {
	// z appears in no row: fixed at 0 when its cost is non-negative.
	m, x, _ := mkCover()
	z := m.AddVar("z", false)
	m.SetObjective(solver.T(2, x), solver.T(4, z))
	res, err := solver.NewSimplex().Solve(context.Background(), m)
	require.NoError(t, err)
	require.True(t, res.IsOptimal())
	assert.Zero(t, res.Value(z))

	// ...and unbounded when it improves the objective.
	m = solver.NewModel("free", solver.Minimize)
	z = m.AddVar("z", false)
	m.SetObjective(solver.T(-1, z))
	res, err = solver.NewSimplex().Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, solver.StatusUnbounded, res.Status)
}

func TestSimplex_Unbounded(t *testing.T) {
	// maximize x  s.t.  x − y ≤ 1: y can grow without limit and x with it.
	m := solver.NewModel("unbounded", solver.Maximize)
	x := m.AddVar("x", false)
	y := m.AddVar("y", false)
	m.AddConstraint("c", solver.LessEq, 1, solver.T(1, x), solver.T(-1, y))
	m.SetObjective(solver.T(1, x))

	res, err := solver.NewSimplex().Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, solver.StatusUnbounded, res.Status)
}

func TestSimplex_NoRows(t *testing.T) {
	m := solver.NewModel("none", solver.Minimize)
	x := m.AddVar("x", false)
	m.SetObjective(solver.T(1, x))

	res, err := solver.NewSimplex().Solve(context.Background(), m)
	require.NoError(t, err)
	require.True(t, res.IsOptimal())
	assert.Equal(t, []float64{0}, res.Values)
}

func TestBranchAndBound_Knapsack(t *testing.T) {
	m, a, b := mkKnapsack(true)
	res, err := solver.NewSimplex().Solve(context.Background(), m)
	require.NoError(t, err)
	require.True(t, res.IsOptimal(), "status %s", res.Status)
	assert.Equal(t, 4.0, res.Value(a))
	assert.Equal(t, 0.0, res.Value(b))
	assert.InDelta(t, 20, res.Objective, eps)
	assert.Greater(t, res.Nodes, 1, "fractional root must branch")
}

func TestBranchAndBound_NodeLimit(t *testing.T) {
	m, _, _ := mkKnapsack(true)
	res, err := solver.NewSimplex(solver.WithMaxNodes(1)).Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, solver.StatusNotSolved, res.Status)
	assert.Nil(t, res.Values)
	assert.Equal(t, 1, res.Nodes)
}

func TestBranchAndBound_RootInfeasible(t *testing.T) {
	m := solver.NewModel("int-infeasible", solver.Minimize)
	x := m.AddVar("x", true)
	m.AddConstraint("hi", solver.LessEq, 1, solver.T(1, x))
	m.AddConstraint("lo", solver.GreaterEq, 2, solver.T(1, x))
	m.SetObjective(solver.T(1, x))

	res, err := solver.NewSimplex().Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, solver.StatusInfeasible, res.Status)
}

func TestBranchAndBound_NoIntegerPoint(t *testing.T) {
	// 2x = 1 has the LP solution 0.5 and no integer solution.
	m := solver.NewModel("half", solver.Minimize)
	x := m.AddVar("x", true)
	y := m.AddVar("y", false)
	m.AddConstraint("half", solver.Equal, 1, solver.T(2, x))
	m.AddConstraint("y", solver.LessEq, 1, solver.T(1, y))
	m.SetObjective(solver.T(1, x), solver.T(1, y))

	res, err := solver.NewSimplex().Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, solver.StatusInfeasible, res.Status)
}

func TestBranchAndBound_Determinism(t *testing.T) {
	var first solver.Result
	for i := 0; i < 4; i++ {
		m, _, _ := mkKnapsack(true)
		res, err := solver.NewSimplex().Solve(context.Background(), m)
		require.NoError(t, err)
		if i == 0 {
			first = res

			continue
		}
		assert.Equal(t, first, res)
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "Optimal", solver.StatusOptimal.String())
	assert.Equal(t, "Infeasible", solver.StatusInfeasible.String())
	assert.Equal(t, "Unbounded", solver.StatusUnbounded.String())
	assert.Equal(t, "Not Solved", solver.StatusNotSolved.String())
	assert.Equal(t, "Undefined", solver.StatusUndefined.String())
	assert.Equal(t, "<=", solver.LessEq.String())
	assert.Equal(t, "==", solver.Equal.String())
	assert.Equal(t, ">=", solver.GreaterEq.String())
}

func TestOptions_PanicOnNonsense(t *testing.T) {
	assert.Panics(t, func() { solver.WithTolerance(-1) })
	assert.Panics(t, func() { solver.WithIntegralityTolerance(0.5) })
	assert.Panics(t, func() { solver.WithMaxNodes(-1) })

	s := solver.NewSimplex(solver.WithTolerance(1e-9), solver.WithMaxNodes(0))
	assert.Equal(t, 1e-9, s.Options().Tolerance)
	assert.Equal(t, 0, s.Options().MaxNodes)
}
