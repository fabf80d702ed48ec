package model

import (
	"fmt"
	"time"
)

// minutesPerDay is the number of grid-addressable minutes in one day.
const minutesPerDay = 24 * 60

// Window is a raw availability window as read from the session source,
// before the week is discretized into slots.
type Window struct {
	Name     string
	Day      time.Weekday
	StartMin int // minutes since midnight
	EndMin   int // minutes since midnight, exclusive
	// Resource identifies the clinician or room the window belongs to.
	// Windows of the same resource must not overlap on a day; windows of
	// different resources may run in parallel.
	Resource string
}

// Validate checks that the window is well formed.
func (w Window) Validate() error {
	if w.Name == "" {
		return fmt.Errorf("window has no name")
	}
	if w.StartMin < 0 || w.EndMin > minutesPerDay {
		return fmt.Errorf("window %s: times outside 00:00-24:00", w.Name)
	}
	if w.EndMin <= w.StartMin {
		return fmt.Errorf("window %s: end not after start", w.Name)
	}
	return nil
}

// Overlaps reports whether two windows intersect in wall-clock time.
func (w Window) Overlaps(o Window) bool {
	return w.Day == o.Day && w.StartMin < o.EndMin && o.StartMin < w.EndMin
}

// TimeSlot is the smallest bookable unit of the weekly grid. Slots are
// immutable once the grid is built.
type TimeSlot struct {
	Day      time.Weekday
	StartMin int // minutes since midnight
	UnitMin  int // grid unit length in minutes
}

// EndMin returns the slot's end in minutes since midnight.
func (t TimeSlot) EndMin() int { return t.StartMin + t.UnitMin }

// AbsStart returns the slot start in minutes since the start of the week.
// Only used for ordering and overlap checks, so the choice of week origin
// is irrelevant.
func (t TimeSlot) AbsStart() int { return int(t.Day)*minutesPerDay + t.StartMin }

// Session is a named contiguous block of availability, divided into grid
// units. Its slots are contiguous within one day.
type Session struct {
	Name     string
	Day      time.Weekday
	Resource string
	Slots    []TimeSlot
}

// NumSlots returns the session's capacity in grid units.
func (s Session) NumSlots() int { return len(s.Slots) }

// StartMin returns the session start in minutes since midnight.
func (s Session) StartMin() int {
	if len(s.Slots) == 0 {
		return 0
	}
	return s.Slots[0].StartMin
}

// EndMin returns the session end in minutes since midnight.
func (s Session) EndMin() int {
	if len(s.Slots) == 0 {
		return 0
	}
	return s.Slots[len(s.Slots)-1].EndMin()
}
