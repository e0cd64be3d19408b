package solver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lotplan/solver"
)

func TestModel_Accessors(t *testing.T) {
	m := solver.NewModel("acc", solver.Minimize)
	x := m.AddVar("x_1", false)
	s := m.AddVar("s_1", true)
	m.AddConstraint("balance_at_1", solver.Equal, 150, solver.T(1, x), solver.T(-1, s))
	m.SetObjective(solver.T(5.5, x), solver.T(1.3, s))

	assert.Equal(t, "acc", m.Name())
	assert.Equal(t, solver.Minimize, m.Direction())
	assert.Equal(t, 2, m.NumVars())
	assert.Equal(t, 1, m.NumConstraints())
	assert.Equal(t, "x_1", m.VarName(x))
	assert.Equal(t, "", m.VarName(solver.Var{}))
	assert.True(t, m.IsInteger(s))
	assert.False(t, m.IsInteger(x))
	assert.True(t, m.HasIntegers())
	assert.True(t, x.Valid())
	assert.False(t, solver.Var{}.Valid())

	got, ok := m.Lookup("s_1")
	require.True(t, ok)
	assert.Equal(t, s, got)

	row, ok := m.Constraint("balance_at_1")
	require.True(t, ok)
	assert.Equal(t, solver.Equal, row.Sense)
	assert.Equal(t, 150.0, row.RHS)
	assert.Len(t, row.Terms, 2)

	_, ok = m.Constraint("missing")
	assert.False(t, ok)

	assert.InDelta(t, 5.5*2+1.3*3, m.Evaluate([]float64{2, 3}), 1e-12)
	assert.Len(t, m.Objective(), 2)
	assert.NoError(t, m.Validate())
}

func TestModel_ConstraintsAreCopies(t *testing.T) {
	m := solver.NewModel("copy", solver.Minimize)
	x := m.AddVar("x", false)
	m.AddConstraint("r", solver.LessEq, 1, solver.T(1, x))

	rows := m.Constraints()
	rows[0].Terms[0].Coef = 42
	rows[0].RHS = 42

	again := m.Constraints()
	assert.Equal(t, 1.0, again[0].Terms[0].Coef)
	assert.Equal(t, 1.0, again[0].RHS)
}

func TestResult_Value(t *testing.T) {
	r := solver.Result{Status: solver.StatusOptimal, Values: []float64{7}}
	m := solver.NewModel("v", solver.Minimize)
	x := m.AddVar("x", false)
	y := m.AddVar("y", false)
	assert.Equal(t, 7.0, r.Value(x))
	assert.Equal(t, 0.0, r.Value(y), "out of range reads as 0")
	assert.True(t, r.IsOptimal())
}
