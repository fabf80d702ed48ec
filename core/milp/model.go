package milp

import "fmt"

// Variable is one binary decision: "this case starts at this offset in
// this session". Variables exist only for combinations where the case's
// full duration fits inside the session from that offset.
type Variable struct {
	Index   int
	Case    string
	Session string
	Offset  int // start offset within the session, in grid units
	Length  int // case duration in grid units
}

// Covers reports whether the variable's span includes the given offset
// within its session.
func (v Variable) Covers(offset int) bool {
	return offset >= v.Offset && offset < v.Offset+v.Length
}

// ConstraintKind tags the origin of a constraint.
type ConstraintKind int

const (
	// SingleAssignment limits each case to at most one start.
	SingleAssignment ConstraintKind = iota
	// NoDoubleBooking limits each session slot to at most one covering case.
	NoDoubleBooking
	// GroupExclusion limits each point in wall-clock time to at most one
	// case of a mutual-exclusion group, across parallel sessions.
	GroupExclusion
)

func (k ConstraintKind) String() string {
	switch k {
	case SingleAssignment:
		return "single-assignment"
	case NoDoubleBooking:
		return "no-double-booking"
	case GroupExclusion:
		return "group-exclusion"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Term is one coefficient of a linear expression.
type Term struct {
	Var  int
	Coef float64
}

// Constraint is a linear inequality: sum of terms <= Bound. Constraints
// are never mutated after generation.
type Constraint struct {
	Kind  ConstraintKind
	Label string
	Terms []Term
	Bound float64
}

// Model is the solver-agnostic MILP description: binary variables, linear
// constraints and the objective weights to maximize. Single-owner and
// single-use: build once, solve once, discard.
type Model struct {
	Variables   []Variable
	Constraints []Constraint
	// Weights holds the objective coefficient of each variable, indexed
	// like Variables. The objective is maximize sum(Weights[i] * x[i]).
	Weights []float64

	varsByCase map[string][]int
}

// NumVariables returns the number of decision variables.
func (m *Model) NumVariables() int { return len(m.Variables) }

// NumConstraints returns the number of generated constraints.
func (m *Model) NumConstraints() int { return len(m.Constraints) }

// VarsForCase returns the indices of the variables generated for a case,
// in generation order. A case whose duration fits nowhere has none.
func (m *Model) VarsForCase(name string) []int {
	return m.varsByCase[name]
}
