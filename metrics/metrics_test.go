package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lotplan/planning"
	"github.com/katalvlaran/lotplan/solver"
)

func TestRecorder_ObserveSolve(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := New(reg)
	require.NoError(t, err)

	r.ObserveSolve(planning.Outcome{Status: solver.StatusOptimal, Periods: 4, Objective: 7242.5, Elapsed: 3 * time.Millisecond})
	r.ObserveSolve(planning.Outcome{Status: solver.StatusInfeasible, Periods: 6, Objective: 99})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.solves.WithLabelValues("Optimal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.solves.WithLabelValues("Infeasible")))
	assert.Equal(t, 6.0, testutil.ToFloat64(r.periods))
	assert.Equal(t, 7242.5, testutil.ToFloat64(r.objective), "only optimal plans move the objective")

	n, err := testutil.GatherAndCount(reg, "lotplan_solve_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRecorder_ObserveRejected(t *testing.T) {
	r, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	r.ObserveRejected(planning.KindIndex)
	r.ObserveRejected(planning.KindIndex)
	assert.Equal(t, 2.0, testutil.ToFloat64(r.rejected.WithLabelValues(planning.KindIndex)))
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestRecorder_WiredIntoSolve(t *testing.T) {
	r, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	in := planning.Input{
		Demand: []planning.Demand{{PeriodID: 1, Quantity: 80}},
		Costs:  []planning.UnitCost{{PeriodID: 1, Production: 2}},
	}
	_, err = planning.Solve(context.Background(), in, planning.WithRecorder(r))
	require.NoError(t, err)

	in.Costs[0].PeriodID = 2
	_, err = planning.Solve(context.Background(), in, planning.WithRecorder(r))
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.solves.WithLabelValues("Optimal")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rejected.WithLabelValues(planning.KindIndex)))
	assert.Equal(t, 60.0, testutil.ToFloat64(r.objective))
}
