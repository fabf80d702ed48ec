package solver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/mverel/caseplan/core/milp"
)

// writeLP serializes the model in CPLEX LP format, the lingua franca of
// MILP engines. Variables are named x<index> so the solution file maps
// straight back to model indices.
func writeLP(w io.Writer, m *milp.Model) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "\\ caseplan weekly assignment model")
	fmt.Fprintln(bw, "Maximize")
	fmt.Fprint(bw, " obj:")
	wrote := false
	for i, weight := range m.Weights {
		if weight == 0 {
			continue
		}
		fmt.Fprintf(bw, " + %s x%d", coef(weight), i)
		wrote = true
	}
	if !wrote {
		// a constant objective still needs one term to be well formed
		fmt.Fprint(bw, " + 0 x0")
	}
	fmt.Fprintln(bw)

	fmt.Fprintln(bw, "Subject To")
	for i, con := range m.Constraints {
		fmt.Fprintf(bw, " c%d:", i)
		for _, t := range con.Terms {
			fmt.Fprintf(bw, " + %s x%d", coef(t.Coef), t.Var)
		}
		fmt.Fprintf(bw, " <= %s\n", coef(con.Bound))
	}

	fmt.Fprintln(bw, "Binary")
	for i := range m.Variables {
		fmt.Fprintf(bw, " x%d\n", i)
	}
	fmt.Fprintln(bw, "End")
	return bw.Flush()
}

func coef(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
