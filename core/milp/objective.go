package milp

import "github.com/mverel/caseplan/core/model"

// Weighter assigns the objective coefficient of one feasible
// (case, session, offset) combination. Swapping the weighter changes the
// objective without touching constraint generation.
type Weighter interface {
	Weight(c model.Case, session string, offset int) float64
}

// CountObjective weighs every variable 1, so the solver maximizes the
// number of scheduled cases. This is the default.
type CountObjective struct{}

func (CountObjective) Weight(model.Case, string, int) float64 { return 1 }

// PriorityObjective weighs each variable by its case's priority, so
// high-priority cases win slots when not everything fits.
type PriorityObjective struct{}

func (PriorityObjective) Weight(c model.Case, _ string, _ int) float64 { return c.Weight() }
