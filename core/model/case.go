package model

import "fmt"

// Case is an appointment request with a fixed duration and a set of
// sessions it may be placed in. Cases are read-only during solving and
// annotated with a placement (or left unscheduled) after extraction.
type Case struct {
	Name        string
	DurationMin int      // required duration in minutes
	Eligible    []string // session names the case may be placed in
	// MustUse restricts placement to this single session. Empty means any
	// eligible session.
	MustUse string
	// Group names a mutual-exclusion group: no two cases of the same group
	// may overlap in wall-clock time, even across parallel sessions.
	Group string
	// Priority weights the case in the priority objective mode. Zero is
	// treated as 1 so plain inputs behave like the count objective.
	Priority float64
}

// Validate checks the basic shape of the case.
func (c Case) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("case has no name")
	}
	if c.DurationMin <= 0 {
		return fmt.Errorf("case %s: duration must be positive", c.Name)
	}
	if len(c.Eligible) == 0 {
		return fmt.Errorf("case %s: no eligible sessions", c.Name)
	}
	return nil
}

// DurationUnits converts the case duration to grid units. The second
// return value is false when the duration is not a whole number of units.
func (c Case) DurationUnits(unitMin int) (int, bool) {
	if unitMin <= 0 || c.DurationMin%unitMin != 0 {
		return 0, false
	}
	return c.DurationMin / unitMin, true
}

// Weight returns the case's objective weight with the zero value mapped
// to 1.
func (c Case) Weight() float64 {
	if c.Priority == 0 {
		return 1
	}
	return c.Priority
}
