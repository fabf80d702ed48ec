package solver

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/mverel/caseplan/core/milp"
)

// lpSimplex points to the LP routine used for the relaxation. It can be
// overridden in tests to simulate numerical failures.
var lpSimplex = lp.Simplex

// RelaxationBound solves the model's LP relaxation (integrality dropped,
// 0 <= x <= 1) and returns its optimum. The bound is an upper limit on
// any integer objective, used to report the remaining gap when a solve
// times out on an incumbent.
func RelaxationBound(m *milp.Model) (float64, error) {
	if m == nil || m.NumVariables() == 0 {
		return 0, fmt.Errorf("relaxation: empty model")
	}

	n := m.NumVariables()
	rows := m.NumConstraints() + n // constraints plus x <= 1 bounds

	// Standard form min c.x s.t. Ax = b, x >= 0: one slack per row.
	c := make([]float64, n+rows)
	for i, w := range m.Weights {
		c[i] = -w
	}
	a := mat.NewDense(rows, n+rows, nil)
	b := make([]float64, rows)
	for i, con := range m.Constraints {
		for _, t := range con.Terms {
			a.Set(i, t.Var, t.Coef)
		}
		a.Set(i, n+i, 1)
		b[i] = con.Bound
	}
	for j := 0; j < n; j++ {
		row := m.NumConstraints() + j
		a.Set(row, j, 1)
		a.Set(row, n+row, 1)
		b[row] = 1
	}

	opt, _, err := lpSimplex(c, a, b, 1e-9, nil)
	if err != nil {
		return 0, fmt.Errorf("relaxation: %w", err)
	}
	return -opt, nil
}
