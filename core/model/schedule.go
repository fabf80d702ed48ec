package model

import (
	"sort"
	"time"
)

// Placement locates one scheduled case in the week.
type Placement struct {
	Case     string       `json:"case"`
	Session  string       `json:"session"`
	Day      time.Weekday `json:"day"`
	StartMin int          `json:"start_min"`
	EndMin   int          `json:"end_min"`
}

// Summary counts the outcome of a planning run.
type Summary struct {
	Scheduled int     `json:"scheduled"`
	Total     int     `json:"total"`
	Objective float64 `json:"objective"`
}

// Schedule is the final case-to-time mapping produced after solving.
// Cases absent from Placements are unscheduled.
type Schedule struct {
	Placements  map[string]Placement `json:"placements"`
	Unscheduled []string             `json:"unscheduled"`
	Summary     Summary              `json:"summary"`
}

// ScheduledNames returns the scheduled case names in sorted order.
func (s Schedule) ScheduledNames() []string {
	names := make([]string, 0, len(s.Placements))
	for name := range s.Placements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sorted returns the placements ordered by day, start time and case name,
// the order exporters write them in.
func (s Schedule) Sorted() []Placement {
	out := make([]Placement, 0, len(s.Placements))
	for _, p := range s.Placements {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		if out[i].StartMin != out[j].StartMin {
			return out[i].StartMin < out[j].StartMin
		}
		return out[i].Case < out[j].Case
	})
	return out
}
