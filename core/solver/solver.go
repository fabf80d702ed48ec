package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/mverel/caseplan/core/milp"
)

// Status is the outcome of one solve call. Infeasibility and solver
// failures are expected results the caller branches on, not errors.
type Status int

const (
	// StatusOptimal means the engine proved the returned solution optimal.
	StatusOptimal Status = iota
	// StatusFeasible means a solution was found but optimality was not
	// proven (for example when stopping on the gap tolerance).
	StatusFeasible
	// StatusInfeasible means the model is provably unsatisfiable.
	StatusInfeasible
	// StatusTimedOut means the time limit was hit. Values holds the best
	// incumbent found so far when the engine could report one.
	StatusTimedOut
	// StatusError means the engine itself failed; feasibility is unknown.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusTimedOut:
		return "timed_out"
	case StatusError:
		return "solver_error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Options configures one solve call. Passed explicitly at call time, never
// ambient state.
type Options struct {
	// TimeLimit bounds the engine's run time. Zero means no limit.
	TimeLimit time.Duration
	// GapTolerance lets the engine stop once the relative optimality gap
	// drops below this value. Zero means prove optimality.
	GapTolerance float64
}

// Result is the engine's response: a status, the solved value of each
// variable index when a solution exists, and the achieved objective.
type Result struct {
	Status    Status
	Values    map[int]float64
	Objective float64
	// Message carries engine diagnostics, mainly for StatusError.
	Message string
}

// HasSolution reports whether the result carries usable variable values.
// A timed-out result may still carry the incumbent.
func (r Result) HasSolution() bool {
	switch r.Status {
	case StatusOptimal, StatusFeasible:
		return true
	case StatusTimedOut:
		return len(r.Values) > 0
	default:
		return false
	}
}

// Solver submits a built model to an external MILP engine. Any engine
// satisfying this contract is substitutable; implementations do no
// modeling work of their own.
type Solver interface {
	Solve(ctx context.Context, m *milp.Model, opts Options) (Result, error)
}
