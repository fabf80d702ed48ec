// Package solvertest provides an exhaustive Solver for tiny models. It
// exists so tests can assert end-to-end scheduling outcomes without an
// external MILP engine installed.
package solvertest

import (
	"context"
	"fmt"

	"github.com/mverel/caseplan/core/milp"
	"github.com/mverel/caseplan/core/solver"
)

// maxVariables caps enumeration; 2^20 assignments is the most a unit test
// should ever burn.
const maxVariables = 20

// Solver enumerates every binary assignment and keeps the best feasible
// one. Ties go to the first assignment found in enumeration order, which
// keeps test expectations deterministic.
type Solver struct{}

// Solve implements solver.Solver by brute force.
func (Solver) Solve(ctx context.Context, m *milp.Model, _ solver.Options) (solver.Result, error) {
	if m == nil {
		return solver.Result{}, fmt.Errorf("solvertest: nil model")
	}
	n := m.NumVariables()
	if n > maxVariables {
		return solver.Result{Status: solver.StatusError, Message: fmt.Sprintf("solvertest: %d variables exceeds limit %d", n, maxVariables)}, nil
	}

	bestObj := -1.0
	var best uint32
	for mask := uint32(0); mask < 1<<n; mask++ {
		if ctx.Err() != nil {
			return solver.Result{Status: solver.StatusTimedOut}, nil
		}
		if !feasible(m, mask) {
			continue
		}
		obj := 0.0
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				obj += m.Weights[i]
			}
		}
		if obj > bestObj {
			bestObj = obj
			best = mask
		}
	}

	values := make(map[int]float64, n)
	for i := 0; i < n; i++ {
		if best&(1<<i) != 0 {
			values[i] = 1
		} else {
			values[i] = 0
		}
	}
	return solver.Result{Status: solver.StatusOptimal, Values: values, Objective: bestObj}, nil
}

func feasible(m *milp.Model, mask uint32) bool {
	for _, con := range m.Constraints {
		sum := 0.0
		for _, t := range con.Terms {
			if mask&(1<<t.Var) != 0 {
				sum += t.Coef
			}
		}
		if sum > con.Bound {
			return false
		}
	}
	return true
}
