package planning

import (
	"time"

	"github.com/go-logr/logr"

	"github.com/katalvlaran/lotplan/solver"
)

// DefaultDecimals is how many decimals output costs are rounded to.
const DefaultDecimals = 2

const (
	panicNilSolver      = "planning: WithSolver: solver must not be nil"
	panicNilRecorder    = "planning: WithRecorder: recorder must not be nil"
	panicDecimalsBounds = "planning: WithDecimals: decimals must be in [0, 9]"
)

// Outcome describes one completed solver call.
type Outcome struct {
	Status    solver.Status
	Periods   int
	Objective float64 // meaningful only when Status is optimal
	Elapsed   time.Duration
}

// Recorder receives solve telemetry. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// ObserveSolve is called once per solver call that returned without error.
	ObserveSolve(o Outcome)
	// ObserveRejected is called when an input fails validation; kind is
	// one of the values returned by ErrorKind.
	ObserveRejected(kind string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveSolve(Outcome)   {}
func (nopRecorder) ObserveRejected(string) {}

// Options configures Solve.
type Options struct {
	Solver   solver.Solver
	Integer  bool
	Decimals int
	Logger   logr.Logger
	Recorder Recorder
}

// Option mutates Options. Constructors panic on nonsensical values.
type Option func(*Options)

// DefaultOptions returns a continuous LP on gonum's simplex with two-decimal
// costs, discarded logs and no telemetry.
func DefaultOptions() Options {
	return Options{
		Solver:   solver.NewSimplex(),
		Decimals: DefaultDecimals,
		Logger:   logr.Discard(),
		Recorder: nopRecorder{},
	}
}

// WithSolver replaces the default Simplex.
func WithSolver(s solver.Solver) Option {
	if s == nil {
		panic(panicNilSolver)
	}

	return func(o *Options) { o.Solver = s }
}

// WithInteger declares production and storage variables integer.
func WithInteger(on bool) Option {
	return func(o *Options) { o.Integer = on }
}

// WithDecimals sets the rounding applied to output costs.
func WithDecimals(d int) Option {
	if d < 0 || d > 9 {
		panic(panicDecimalsBounds)
	}

	return func(o *Options) { o.Decimals = d }
}

// WithLogger routes pipeline logs to l.
func WithLogger(l logr.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithRecorder attaches solve telemetry.
func WithRecorder(r Recorder) Option {
	if r == nil {
		panic(panicNilRecorder)
	}

	return func(o *Options) { o.Recorder = r }
}

func gatherOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return o
}
