package solver

import (
	"context"
	"errors"
)

// Sentinel errors. Non-optimal outcomes are never errors; they are reported
// through Result.Status.
var (
	// ErrNilModel indicates that a nil *Model was passed to Solve.
	ErrNilModel = errors.New("solver: model is nil")

	// ErrUnknownVar indicates a term referencing a variable that does not
	// belong to the model.
	ErrUnknownVar = errors.New("solver: unknown variable")

	// ErrDuplicateVar indicates that two variables share a name.
	ErrDuplicateVar = errors.New("solver: duplicate variable name")

	// ErrBadCoefficient indicates a NaN or ±Inf coefficient or right-hand side.
	ErrBadCoefficient = errors.New("solver: coefficient must be finite")

	// ErrSolverFailure indicates that the underlying LP routine failed in a
	// way that is neither infeasibility nor unboundedness.
	ErrSolverFailure = errors.New("solver: numeric failure")
)

// Status is the outcome of a solve.
type Status int

const (
	// StatusNotSolved means no conclusion was reached (e.g. node limit).
	StatusNotSolved Status = iota
	// StatusOptimal means Values minimizes (or maximizes) the objective.
	StatusOptimal
	// StatusInfeasible means no assignment satisfies every constraint.
	StatusInfeasible
	// StatusUnbounded means the objective can be improved without limit.
	StatusUnbounded
	// StatusUndefined means the solver could not classify the model.
	StatusUndefined
)

func (s Status) String() string {
	switch s {
	case StatusNotSolved:
		return "Not Solved"
	case StatusOptimal:
		return "Optimal"
	case StatusInfeasible:
		return "Infeasible"
	case StatusUnbounded:
		return "Unbounded"
	case StatusUndefined:
		return "Undefined"
	default:
		return "Unknown"
	}
}

// Sense is the relation of a constraint row.
type Sense int

const (
	// LessEq is Σ aᵢxᵢ ≤ rhs.
	LessEq Sense = iota
	// Equal is Σ aᵢxᵢ = rhs.
	Equal
	// GreaterEq is Σ aᵢxᵢ ≥ rhs.
	GreaterEq
)

func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case Equal:
		return "=="
	case GreaterEq:
		return ">="
	default:
		return "?"
	}
}

// Direction selects minimization or maximization of the objective.
type Direction int

const (
	// Minimize the objective.
	Minimize Direction = iota
	// Maximize the objective.
	Maximize
)

// Var is a handle to a model variable. The zero Var is invalid.
type Var struct {
	id int // index+1
}

// Index returns the column index of v inside its model, or -1 for the zero Var.
func (v Var) Index() int { return v.id - 1 }

// Valid reports whether v was returned by Model.AddVar.
func (v Var) Valid() bool { return v.id > 0 }

// Term is a coefficient applied to a variable.
type Term struct {
	Var  Var
	Coef float64
}

// T is shorthand for Term{Var: v, Coef: coef}.
func T(coef float64, v Var) Term { return Term{Var: v, Coef: coef} }

// Constraint is one linear row: Σ Terms (Sense) RHS.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Result is the outcome of Solver.Solve. Values is indexed by Var.Index()
// and is only populated when Status == StatusOptimal.
type Result struct {
	Status    Status
	Objective float64
	Values    []float64
	Nodes     int // branch-and-bound nodes explored; 0 for pure LPs
}

// IsOptimal reports whether Status is StatusOptimal.
func (r Result) IsOptimal() bool { return r.Status == StatusOptimal }

// Value returns the value assigned to v, or 0 when no assignment exists.
func (r Result) Value(v Var) float64 {
	i := v.Index()
	if i < 0 || i >= len(r.Values) {
		return 0
	}

	return r.Values[i]
}

// Solver solves a Model. Implementations must not retain m after returning
// and must honour ctx cancellation between major steps.
type Solver interface {
	Solve(ctx context.Context, m *Model) (Result, error)
}
