package solver

import (
	"fmt"
	"math"
)

// variable is the per-column metadata of a Model.
type variable struct {
	name    string
	integer bool
}

// Model is a linear program over non-negative variables. A Model is built by
// one goroutine and must not be mutated while a Solver is using it.
type Model struct {
	name      string
	direction Direction
	vars      []variable
	byName    map[string]Var
	rows      []Constraint
	objective []Term

	err error // first construction error, reported by Validate
}

// NewModel returns an empty model.
func NewModel(name string, dir Direction) *Model {
	return &Model{
		name:      name,
		direction: dir,
		byName:    make(map[string]Var),
	}
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Direction returns the optimization direction.
func (m *Model) Direction() Direction { return m.direction }

// AddVar appends a non-negative variable. integer marks it for
// branch-and-bound. A duplicate name is recorded and reported by Validate.
func (m *Model) AddVar(name string, integer bool) Var {
	if _, ok := m.byName[name]; ok && m.err == nil {
		m.err = fmt.Errorf("%w: %q", ErrDuplicateVar, name)
	}
	m.vars = append(m.vars, variable{name: name, integer: integer})
	v := Var{id: len(m.vars)}
	m.byName[name] = v

	return v
}

// AddConstraint appends the row Σ terms (sense) rhs.
func (m *Model) AddConstraint(name string, sense Sense, rhs float64, terms ...Term) {
	m.rows = append(m.rows, Constraint{
		Name:  name,
		Terms: append([]Term(nil), terms...),
		Sense: sense,
		RHS:   rhs,
	})
}

// SetObjective replaces the objective with Σ terms.
func (m *Model) SetObjective(terms ...Term) {
	m.objective = append([]Term(nil), terms...)
}

// NumVars returns the number of variables.
func (m *Model) NumVars() int { return len(m.vars) }

// NumConstraints returns the number of rows.
func (m *Model) NumConstraints() int { return len(m.rows) }

// Lookup returns the variable with the given name.
func (m *Model) Lookup(name string) (Var, bool) {
	v, ok := m.byName[name]

	return v, ok
}

// VarName returns the name of v, or "" when v does not belong to m.
func (m *Model) VarName(v Var) string {
	if i := v.Index(); i >= 0 && i < len(m.vars) {
		return m.vars[i].name
	}

	return ""
}

// IsInteger reports whether v is an integer variable.
func (m *Model) IsInteger(v Var) bool {
	i := v.Index()

	return i >= 0 && i < len(m.vars) && m.vars[i].integer
}

// HasIntegers reports whether any variable is integer.
func (m *Model) HasIntegers() bool {
	for _, v := range m.vars {
		if v.integer {
			return true
		}
	}

	return false
}

// Constraints returns a copy of the rows in insertion order.
func (m *Model) Constraints() []Constraint {
	out := make([]Constraint, len(m.rows))
	for i, r := range m.rows {
		r.Terms = append([]Term(nil), r.Terms...)
		out[i] = r
	}

	return out
}

// Constraint returns the first row with the given name.
func (m *Model) Constraint(name string) (Constraint, bool) {
	for _, r := range m.rows {
		if r.Name == name {
			r.Terms = append([]Term(nil), r.Terms...)

			return r, true
		}
	}

	return Constraint{}, false
}

// Objective returns a copy of the objective terms.
func (m *Model) Objective() []Term { return append([]Term(nil), m.objective...) }

// Evaluate returns the objective value of an assignment indexed by Var.Index().
func (m *Model) Evaluate(values []float64) float64 {
	var sum float64
	for _, t := range m.objective {
		if i := t.Var.Index(); i >= 0 && i < len(values) {
			sum += t.Coef * values[i]
		}
	}

	return sum
}

// Validate reports construction errors: duplicate names, terms referencing
// foreign variables, non-finite coefficients or right-hand sides.
//
// Complexity: O(total terms).
func (m *Model) Validate() error {
	if m == nil {
		return ErrNilModel
	}
	if m.err != nil {
		return m.err
	}
	var (
		n = len(m.vars)
		r Constraint
		t Term
	)
	for _, t = range m.objective {
		if err := checkTerm(t, n); err != nil {
			return fmt.Errorf("objective: %w", err)
		}
	}
	for _, r = range m.rows {
		if math.IsNaN(r.RHS) || math.IsInf(r.RHS, 0) {
			return fmt.Errorf("row %q: %w", r.Name, ErrBadCoefficient)
		}
		for _, t = range r.Terms {
			if err := checkTerm(t, n); err != nil {
				return fmt.Errorf("row %q: %w", r.Name, err)
			}
		}
	}

	return nil
}

// checkTerm validates one term against a model with n variables.
func checkTerm(t Term, n int) error {
	if i := t.Var.Index(); i < 0 || i >= n {
		return ErrUnknownVar
	}
	if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
		return ErrBadCoefficient
	}

	return nil
}

// withRows returns a shallow copy of m with extra rows appended. Variables
// and objective are shared read-only; only the row slice is new.
func (m *Model) withRows(extra ...Constraint) *Model {
	rows := make([]Constraint, 0, len(m.rows)+len(extra))
	rows = append(rows, m.rows...)
	rows = append(rows, extra...)

	return &Model{
		name:      m.name,
		direction: m.direction,
		vars:      m.vars,
		byName:    m.byName,
		rows:      rows,
		objective: m.objective,
	}
}
