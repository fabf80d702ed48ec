package milp

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mverel/caseplan/core/grid"
	"github.com/mverel/caseplan/core/registry"
)

// ErrEmptyModel indicates that no feasible assignment variable exists, so
// there is nothing to solve.
var ErrEmptyModel = errors.New("milp: no feasible assignment variables")

// Build enumerates the feasible assignment variables and constraints for
// the given cases and grid. Infeasible (case, session, offset)
// combinations are never generated; the duration-fit probe filters them
// up front, which is what keeps the problem size under control.
func Build(reg *registry.Registry, g *grid.Grid, w Weighter) (*Model, error) {
	if w == nil {
		w = CountObjective{}
	}

	m := &Model{varsByCase: make(map[string][]int)}
	for _, c := range reg.Cases() {
		units, _ := c.DurationUnits(g.UnitMinutes())
		for _, sname := range reg.PlacementSessions(c) {
			s, _ := g.Session(sname)
			for offset := 0; offset+units <= s.NumSlots(); offset++ {
				if g.SlotsAt(sname, offset, units) == nil {
					continue
				}
				idx := len(m.Variables)
				m.Variables = append(m.Variables, Variable{
					Index:   idx,
					Case:    c.Name,
					Session: sname,
					Offset:  offset,
					Length:  units,
				})
				m.Weights = append(m.Weights, w.Weight(c, sname, offset))
				m.varsByCase[c.Name] = append(m.varsByCase[c.Name], idx)
			}
		}
	}
	if len(m.Variables) == 0 {
		return nil, ErrEmptyModel
	}

	m.addSingleAssignment(reg)
	m.addNoDoubleBooking(g)
	m.addGroupExclusion(reg, g)
	return m, nil
}

// addSingleAssignment caps each case at one start. The bound is <= 1, not
// == 1: leaving a case unscheduled is allowed and is exactly what the
// objective trades off.
func (m *Model) addSingleAssignment(reg *registry.Registry) {
	for _, c := range reg.Cases() {
		vars := m.varsByCase[c.Name]
		if len(vars) < 2 {
			continue
		}
		terms := make([]Term, len(vars))
		for i, v := range vars {
			terms[i] = Term{Var: v, Coef: 1}
		}
		m.Constraints = append(m.Constraints, Constraint{
			Kind:  SingleAssignment,
			Label: fmt.Sprintf("assign[%s]", c.Name),
			Terms: terms,
			Bound: 1,
		})
	}
}

// addNoDoubleBooking caps each session slot at one covering variable. The
// covering set is exact: a variable starting at offset o with length d
// covers offsets o..o+d-1 of its session.
func (m *Model) addNoDoubleBooking(g *grid.Grid) {
	covering := make(map[string]map[int][]int)
	for _, v := range m.Variables {
		slots := covering[v.Session]
		if slots == nil {
			slots = make(map[int][]int)
			covering[v.Session] = slots
		}
		for o := v.Offset; o < v.Offset+v.Length; o++ {
			slots[o] = append(slots[o], v.Index)
		}
	}
	for _, sname := range g.SessionNames() {
		s, _ := g.Session(sname)
		for o := 0; o < s.NumSlots(); o++ {
			vars := covering[sname][o]
			if len(vars) < 2 {
				// a slot only one variable can cover cannot be double-booked
				continue
			}
			terms := make([]Term, len(vars))
			for i, v := range vars {
				terms[i] = Term{Var: v, Coef: 1}
			}
			m.Constraints = append(m.Constraints, Constraint{
				Kind:  NoDoubleBooking,
				Label: fmt.Sprintf("slot[%s:%d]", sname, o),
				Terms: terms,
				Bound: 1,
			})
		}
	}
}

// addGroupExclusion caps each point in wall-clock time at one case per
// mutual-exclusion group, so it binds across parallel sessions. Keying by
// interval overlap rather than by shared slot starts keeps the constraint
// exact when parallel windows are phase-shifted against each other. Every
// maximal set of pairwise-overlapping intervals contains the start of one
// of them, so interval starts are the only points that need a constraint.
func (m *Model) addGroupExclusion(reg *registry.Registry, g *grid.Grid) {
	groups := reg.Groups()
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	type span struct {
		v          int
		start, end int
	}
	for _, gname := range names {
		members := make(map[string]bool, len(groups[gname]))
		for _, c := range groups[gname] {
			members[c] = true
		}

		var spans []span
		for _, v := range m.Variables {
			if !members[v.Case] {
				continue
			}
			s, _ := g.Session(v.Session)
			first, last := s.Slots[v.Offset], s.Slots[v.Offset+v.Length-1]
			spans = append(spans, span{
				v:     v.Index,
				start: first.AbsStart(),
				end:   last.AbsStart() + last.UnitMin,
			})
		}

		points := make([]int, 0, len(spans))
		seen := make(map[int]bool, len(spans))
		for _, sp := range spans {
			if !seen[sp.start] {
				seen[sp.start] = true
				points = append(points, sp.start)
			}
		}
		sort.Ints(points)

		var prev []int
		for _, p := range points {
			var vars []int
			for _, sp := range spans {
				if sp.start <= p && p < sp.end {
					vars = append(vars, sp.v)
				}
			}
			if len(vars) < 2 || !multipleCases(m, vars) || equalVars(vars, prev) {
				continue
			}
			prev = vars
			terms := make([]Term, len(vars))
			for i, v := range vars {
				terms[i] = Term{Var: v, Coef: 1}
			}
			m.Constraints = append(m.Constraints, Constraint{
				Kind:  GroupExclusion,
				Label: fmt.Sprintf("group[%s@%d]", gname, p),
				Terms: terms,
				Bound: 1,
			})
		}
	}
}

func equalVars(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// multipleCases reports whether the variables belong to more than one
// case. Units covered by a single case are already handled by its
// single-assignment constraint.
func multipleCases(m *Model, vars []int) bool {
	first := m.Variables[vars[0]].Case
	for _, v := range vars[1:] {
		if m.Variables[v].Case != first {
			return true
		}
	}
	return false
}
