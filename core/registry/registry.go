package registry

import (
	"fmt"
	"sort"

	"github.com/mverel/caseplan/core/grid"
	"github.com/mverel/caseplan/core/model"
)

// InvalidCaseError reports malformed case data, naming the case so the
// caller can fix the input row.
type InvalidCaseError struct {
	Case   string
	Reason string
}

func (e *InvalidCaseError) Error() string {
	if e.Case == "" {
		return fmt.Sprintf("invalid case data: %s", e.Reason)
	}
	return fmt.Sprintf("invalid case %q: %s", e.Case, e.Reason)
}

// Registry holds the validated cases of one planning run. Read-only after
// construction.
type Registry struct {
	cases  []model.Case
	byName map[string]model.Case
	groups map[string][]string
}

// New validates every case against the grid and returns the registry.
// A case must have a positive duration expressible in whole grid units, a
// non-empty eligible set of known sessions, and consistent must-use and
// group references.
func New(cases []model.Case, g *grid.Grid) (*Registry, error) {
	r := &Registry{
		cases:  make([]model.Case, 0, len(cases)),
		byName: make(map[string]model.Case, len(cases)),
		groups: make(map[string][]string),
	}
	for _, c := range cases {
		if err := c.Validate(); err != nil {
			return nil, &InvalidCaseError{Case: c.Name, Reason: err.Error()}
		}
		if _, dup := r.byName[c.Name]; dup {
			return nil, &InvalidCaseError{Case: c.Name, Reason: "duplicate case name"}
		}
		if _, ok := c.DurationUnits(g.UnitMinutes()); !ok {
			return nil, &InvalidCaseError{
				Case:   c.Name,
				Reason: fmt.Sprintf("duration %d min is not a multiple of the %d min grid unit", c.DurationMin, g.UnitMinutes()),
			}
		}
		for _, name := range c.Eligible {
			if _, ok := g.Session(name); !ok {
				return nil, &InvalidCaseError{Case: c.Name, Reason: fmt.Sprintf("unknown session %q", name)}
			}
		}
		if c.MustUse != "" && !contains(c.Eligible, c.MustUse) {
			return nil, &InvalidCaseError{
				Case:   c.Name,
				Reason: fmt.Sprintf("must-use session %q is not in the eligible set", c.MustUse),
			}
		}
		if c.Priority < 0 {
			return nil, &InvalidCaseError{Case: c.Name, Reason: "priority must not be negative"}
		}
		r.cases = append(r.cases, c)
		r.byName[c.Name] = c
		if c.Group != "" {
			r.groups[c.Group] = append(r.groups[c.Group], c.Name)
		}
	}
	return r, nil
}

// Cases returns the cases in input order.
func (r *Registry) Cases() []model.Case {
	out := make([]model.Case, len(r.cases))
	copy(out, r.cases)
	return out
}

// Case looks up one case by name.
func (r *Registry) Case(name string) (model.Case, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// Len returns the number of registered cases.
func (r *Registry) Len() int { return len(r.cases) }

// Groups returns the mutual-exclusion groups with at least two members,
// group name to sorted member case names. Singleton groups constrain
// nothing and are dropped.
func (r *Registry) Groups() map[string][]string {
	out := make(map[string][]string, len(r.groups))
	for name, members := range r.groups {
		if len(members) < 2 {
			continue
		}
		cp := make([]string, len(members))
		copy(cp, members)
		sort.Strings(cp)
		out[name] = cp
	}
	return out
}

// PlacementSessions returns the sessions the case may actually start in,
// narrowed to the must-use session when one is set.
func (r *Registry) PlacementSessions(c model.Case) []string {
	if c.MustUse != "" {
		return []string{c.MustUse}
	}
	return c.Eligible
}

func contains(xs []string, v string) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
