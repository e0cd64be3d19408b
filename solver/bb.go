// Package solver - Branch-and-Bound over LP relaxations.
//
// branchAndBound handles models with integer variables:
//  1. Solve the LP relaxation of the current node (root = original model).
//  2. Prune the node when it is infeasible or when its bound cannot beat the
//     incumbent (bound ≥ UB − eps in minimization sense).
//  3. If every integer variable is integral within IntegralityTolerance the
//     node becomes the new incumbent.
//  4. Otherwise branch on the most fractional integer variable (lowest
//     index on ties): child "down" adds x ≤ ⌊v⌋, child "up" adds x ≥ ⌈v⌉.
//     Down is explored first.
//
// Bounds are added as ordinary rows, each with its own slack column, so the
// relaxation keeps full row rank.
//
// Limits: MaxNodes (0 = unlimited) and ctx cancellation are checked before
// every node. Hitting the node limit yields StatusNotSolved with no values,
// since the incumbent is not proven optimal.
//
// Complexity: exponential in the number of integer variables in the worst
// case; each node costs one simplex solve.
package solver

import (
	"context"
	"fmt"
	"math"
)

// bbEps is the pruning slack on objective comparisons.
const bbEps = 1e-9

// bbNode is one subproblem: the original model plus branching rows.
type bbNode struct {
	bounds []Constraint
}

// bbEngine holds the search state of one branchAndBound call.
type bbEngine struct {
	s      *Simplex
	m      *Model
	sign   float64 // +1 minimize, −1 maximize; objectives are compared as sign·f
	intTol float64

	nodes    int
	best     Result
	haveBest bool
}

func (s *Simplex) branchAndBound(ctx context.Context, m *Model) (Result, error) {
	e := &bbEngine{s: s, m: m, sign: 1, intTol: s.opts.IntegralityTolerance}
	if m.direction == Maximize {
		e.sign = -1
	}

	stack := []bbNode{{}}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return Result{Status: StatusNotSolved, Nodes: e.nodes}, err
		}
		if s.opts.MaxNodes > 0 && e.nodes >= s.opts.MaxNodes {
			return Result{Status: StatusNotSolved, Nodes: e.nodes}, nil
		}

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		e.nodes++

		res, err := s.relax(m.withRows(node.bounds...))
		if err != nil {
			return Result{Status: StatusUndefined, Nodes: e.nodes}, err
		}
		if e.nodes == 1 && res.Status != StatusOptimal {
			// Root relaxation decides infeasible/unbounded for the whole model.
			res.Nodes = e.nodes

			return res, nil
		}
		if res.Status != StatusOptimal {
			continue
		}
		if e.haveBest && e.sign*res.Objective >= e.sign*e.best.Objective-bbEps {
			continue
		}

		j := e.mostFractional(res.Values)
		if j < 0 {
			e.accept(res)
			continue
		}

		v := res.Values[j]
		name := m.vars[j].name
		down := append(append([]Constraint(nil), node.bounds...), Constraint{
			Name:  fmt.Sprintf("bb_%s_le_%g", name, math.Floor(v)),
			Terms: []Term{{Var: Var{id: j + 1}, Coef: 1}},
			Sense: LessEq,
			RHS:   math.Floor(v),
		})
		up := append(append([]Constraint(nil), node.bounds...), Constraint{
			Name:  fmt.Sprintf("bb_%s_ge_%g", name, math.Ceil(v)),
			Terms: []Term{{Var: Var{id: j + 1}, Coef: 1}},
			Sense: GreaterEq,
			RHS:   math.Ceil(v),
		})
		// LIFO: push up first so down is explored first.
		stack = append(stack, bbNode{bounds: up}, bbNode{bounds: down})
	}

	if !e.haveBest {
		return Result{Status: StatusInfeasible, Nodes: e.nodes}, nil
	}
	e.best.Nodes = e.nodes

	return e.best, nil
}

// mostFractional returns the integer variable farthest from integrality, or
// -1 when all integer variables are integral.
func (e *bbEngine) mostFractional(values []float64) int {
	var (
		best     = -1
		bestDist = e.intTol
	)
	for j, v := range e.m.vars {
		if !v.integer {
			continue
		}
		frac := values[j] - math.Floor(values[j])
		dist := math.Min(frac, 1-frac)
		if dist > bestDist {
			best, bestDist = j, dist
		}
	}

	return best
}

// accept rounds integer variables and records res as the incumbent.
func (e *bbEngine) accept(res Result) {
	values := append([]float64(nil), res.Values...)
	for j, v := range e.m.vars {
		if v.integer {
			values[j] = math.Round(values[j])
		}
	}
	e.best = Result{Status: StatusOptimal, Values: values, Objective: e.m.Evaluate(values)}
	e.haveBest = true
}
