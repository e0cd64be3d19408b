// Package solver - gonum Simplex adapter.
//
// standardize turns a Model into gonum's standard form
//
//	minimize cᵀz  subject to  A z = b,  z ≥ 0
//
// where z is the kept structural columns followed by one slack/surplus column
// per inequality row. Rows and columns that would trip gonum's ErrZeroRow /
// ErrZeroColumn checks are resolved here instead.
package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Simplex solves Models with gonum's simplex routine. It is stateless
// between calls and safe for concurrent use.
type Simplex struct {
	opts Options
}

var _ Solver = (*Simplex)(nil)

// NewSimplex returns a Simplex configured by opts applied over DefaultOptions.
func NewSimplex(opts ...Option) *Simplex {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return &Simplex{opts: o}
}

// Options returns the effective configuration.
func (s *Simplex) Options() Options { return s.opts }

// Solve validates m and solves it: as an LP when every variable is
// continuous, by branch-and-bound otherwise.
func (s *Simplex) Solve(ctx context.Context, m *Model) (Result, error) {
	if m == nil {
		return Result{}, ErrNilModel
	}
	if err := m.Validate(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if m.HasIntegers() {
		return s.branchAndBound(ctx, m)
	}

	return s.relax(m)
}

// standardForm is a Model lowered to gonum's input shape.
type standardForm struct {
	c    []float64
	a    *mat.Dense
	b    []float64
	cols []int // kept structural column k → model variable index
}

// standardize lowers m. It returns a terminal Status instead of a form when
// the outcome is already known (an empty row that cannot hold, a free
// improving column, or nothing left to solve).
//
// Stages:
//  1. Collapse each row to a dense coefficient vector (duplicate terms add up).
//  2. Drop all-zero rows after checking 0 (sense) rhs.
//  3. Drop structural columns that appear in no kept row; such a column is
//     unbounded when its cost is negative, otherwise fixed at 0.
//  4. Append one slack (+1, ≤) or surplus (−1, ≥) column per inequality row
//     and negate rows with a negative right-hand side.
//
// Complexity: O(rows · vars) time and memory.
func (s *Simplex) standardize(m *Model) (*standardForm, Status) {
	var (
		n    = len(m.vars)
		tol  = s.opts.Tolerance
		sign = 1.0
	)
	if m.direction == Maximize {
		sign = -1
	}

	// Stage 1-2.
	type denseRow struct {
		coef  []float64
		sense Sense
		rhs   float64
	}
	rows := make([]denseRow, 0, len(m.rows))
	used := make([]bool, n)
	for _, r := range m.rows {
		coef := make([]float64, n)
		for _, t := range r.Terms {
			coef[t.Var.Index()] += t.Coef
		}
		empty := true
		for _, a := range coef {
			if a != 0 {
				empty = false
				break
			}
		}
		if empty {
			if !holdsAtZero(r.Sense, r.RHS, tol) {
				return nil, StatusInfeasible
			}
			continue
		}
		for j, a := range coef {
			if a != 0 {
				used[j] = true
			}
		}
		rows = append(rows, denseRow{coef: coef, sense: r.Sense, rhs: r.RHS})
	}

	cost := make([]float64, n)
	for _, t := range m.objective {
		cost[t.Var.Index()] += sign * t.Coef
	}

	// Stage 3.
	cols := make([]int, 0, n)
	for j := 0; j < n; j++ {
		if used[j] {
			cols = append(cols, j)
			continue
		}
		if cost[j] < 0 {
			return nil, StatusUnbounded
		}
	}
	if len(rows) == 0 {
		return &standardForm{cols: cols}, StatusOptimal
	}

	// Stage 4.
	slacks := 0
	for _, r := range rows {
		if r.sense != Equal {
			slacks++
		}
	}
	width := len(cols) + slacks
	if len(rows) > width {
		// More independent-looking equalities than columns: gonum requires
		// m ≤ n, and such systems are either redundant or over-determined.
		return nil, StatusUndefined
	}

	var (
		a     = mat.NewDense(len(rows), width, nil)
		b     = make([]float64, len(rows))
		c     = make([]float64, width)
		slack = len(cols)
	)
	for k, j := range cols {
		c[k] = cost[j]
	}
	for i, r := range rows {
		for k, j := range cols {
			a.Set(i, k, r.coef[j])
		}
		switch r.sense {
		case LessEq:
			a.Set(i, slack, 1)
			slack++
		case GreaterEq:
			a.Set(i, slack, -1)
			slack++
		}
		b[i] = r.rhs
		if b[i] < 0 {
			// Keep b ≥ 0 so phase one starts from a feasible slack basis.
			for k := 0; k < width; k++ {
				a.Set(i, k, -a.At(i, k))
			}
			b[i] = -b[i]
		}
	}

	return &standardForm{c: c, a: a, b: b, cols: cols}, StatusNotSolved
}

// holdsAtZero reports whether 0 (sense) rhs.
func holdsAtZero(sense Sense, rhs, tol float64) bool {
	switch sense {
	case LessEq:
		return rhs >= -tol
	case GreaterEq:
		return rhs <= tol
	default:
		return math.Abs(rhs) <= tol
	}
}

// relax solves m as a continuous LP, ignoring integrality.
func (s *Simplex) relax(m *Model) (res Result, err error) {
	sf, status := s.standardize(m)
	switch status {
	case StatusOptimal:
		values := make([]float64, len(m.vars))

		return Result{Status: StatusOptimal, Values: values, Objective: m.Evaluate(values)}, nil
	case StatusNotSolved:
		// fall through to gonum
	default:
		return Result{Status: status}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			res = Result{Status: StatusUndefined}
			err = fmt.Errorf("%w: %v", ErrSolverFailure, r)
		}
	}()

	_, z, lpErr := lp.Simplex(sf.c, sf.a, sf.b, s.opts.Tolerance, nil)
	if lpErr != nil {
		return Result{Status: statusFromLP(lpErr)}, nil
	}

	values := make([]float64, len(m.vars))
	for k, j := range sf.cols {
		values[j] = clean(z[k], s.opts.Tolerance)
	}

	return Result{Status: StatusOptimal, Values: values, Objective: m.Evaluate(values)}, nil
}

// statusFromLP maps gonum's lp sentinels to a Status.
func statusFromLP(err error) Status {
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return StatusInfeasible
	case errors.Is(err, lp.ErrUnbounded):
		return StatusUnbounded
	default:
		return StatusUndefined
	}
}

// clean snaps |v| ≤ tol to 0 so that degenerate vertices do not leak -1e-17
// into non-negative outputs.
func clean(v, tol float64) float64 {
	if math.Abs(v) <= math.Max(tol, 1e-12) {
		return 0
	}

	return v
}
