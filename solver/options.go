package solver

import "math"

// Defaults - single source of truth for zero-value behavior.
const (
	// DefaultTolerance is passed to gonum's Simplex as the reduced-cost
	// tolerance and used to clean near-zero values.
	DefaultTolerance = 1e-10

	// DefaultIntegralityTolerance is how far from an integer a value may be
	// and still count as integral during branch-and-bound.
	DefaultIntegralityTolerance = 1e-6

	// DefaultMaxNodes bounds branch-and-bound. 0 means unlimited.
	DefaultMaxNodes = 10000
)

const (
	panicToleranceInvalid = "solver: WithTolerance: tol must be finite, non-negative"
	panicIntTolInvalid    = "solver: WithIntegralityTolerance: tol must be in [0, 0.5)"
	panicMaxNodesNegative = "solver: WithMaxNodes: n must be non-negative"
)

// Options configures Simplex.
type Options struct {
	Tolerance            float64
	IntegralityTolerance float64
	MaxNodes             int
}

// Option mutates Options. Constructors panic on nonsensical values.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Tolerance:            DefaultTolerance,
		IntegralityTolerance: DefaultIntegralityTolerance,
		MaxNodes:             DefaultMaxNodes,
	}
}

// WithTolerance sets the LP tolerance.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicToleranceInvalid)
	}

	return func(o *Options) { o.Tolerance = tol }
}

// WithIntegralityTolerance sets the integrality tolerance for integer variables.
func WithIntegralityTolerance(tol float64) Option {
	if math.IsNaN(tol) || tol < 0 || tol >= 0.5 {
		panic(panicIntTolInvalid)
	}

	return func(o *Options) { o.IntegralityTolerance = tol }
}

// WithMaxNodes bounds the number of branch-and-bound nodes; 0 is unlimited.
func WithMaxNodes(n int) Option {
	if n < 0 {
		panic(panicMaxNodesNegative)
	}

	return func(o *Options) { o.MaxNodes = n }
}
