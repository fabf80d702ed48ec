package extract

import (
	"fmt"

	"github.com/mverel/caseplan/core/grid"
	"github.com/mverel/caseplan/core/milp"
	"github.com/mverel/caseplan/core/model"
	"github.com/mverel/caseplan/core/registry"
	"github.com/mverel/caseplan/core/solver"
)

// assignedThreshold separates solved binary values from numerical noise.
const assignedThreshold = 0.5

// InconsistentSolutionError reports a solver solution that violates the
// model's own constraints. This is a modeling defect, not user error, and
// is not recoverable by retrying.
type InconsistentSolutionError struct {
	Reason string
}

func (e *InconsistentSolutionError) Error() string {
	return fmt.Sprintf("inconsistent solver solution: %s", e.Reason)
}

// Schedule reconstructs the final case-to-time mapping from the solver's
// variable values. Each case gets at most one placement; cases without an
// assigned variable are unscheduled. The single-assignment and
// no-double-booking invariants hold by construction, but are re-validated
// here independently of the solver.
func Schedule(reg *registry.Registry, g *grid.Grid, m *milp.Model, res solver.Result) (model.Schedule, error) {
	out := model.Schedule{Placements: make(map[string]model.Placement, reg.Len())}

	for _, c := range reg.Cases() {
		var chosen *milp.Variable
		for _, idx := range m.VarsForCase(c.Name) {
			if res.Values[idx] < assignedThreshold {
				continue
			}
			if chosen != nil {
				return model.Schedule{}, &InconsistentSolutionError{
					Reason: fmt.Sprintf("case %q assigned more than one start", c.Name),
				}
			}
			v := m.Variables[idx]
			chosen = &v
		}
		if chosen == nil {
			out.Unscheduled = append(out.Unscheduled, c.Name)
			continue
		}
		slots := g.SlotsAt(chosen.Session, chosen.Offset, chosen.Length)
		if slots == nil {
			return model.Schedule{}, &InconsistentSolutionError{
				Reason: fmt.Sprintf("case %q assigned outside session %q", c.Name, chosen.Session),
			}
		}
		s, _ := g.Session(chosen.Session)
		out.Placements[c.Name] = model.Placement{
			Case:     c.Name,
			Session:  chosen.Session,
			Day:      s.Day,
			StartMin: slots[0].StartMin,
			EndMin:   slots[len(slots)-1].EndMin(),
		}
	}

	if err := checkBooking(g, out); err != nil {
		return model.Schedule{}, err
	}

	out.Summary = model.Summary{
		Scheduled: len(out.Placements),
		Total:     reg.Len(),
		Objective: res.Objective,
	}
	return out, nil
}

// checkBooking re-scans the extracted schedule and verifies that no two
// placements in one session overlap.
func checkBooking(g *grid.Grid, s model.Schedule) error {
	perSession := make(map[string][]model.Placement)
	for _, p := range s.Placements {
		perSession[p.Session] = append(perSession[p.Session], p)
	}
	for session, ps := range perSession {
		for i := 0; i < len(ps); i++ {
			for j := i + 1; j < len(ps); j++ {
				if ps[i].StartMin < ps[j].EndMin && ps[j].StartMin < ps[i].EndMin {
					return &InconsistentSolutionError{
						Reason: fmt.Sprintf("cases %q and %q double-book session %q", ps[i].Case, ps[j].Case, session),
					}
				}
			}
		}
	}
	return nil
}
