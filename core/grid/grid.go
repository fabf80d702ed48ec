package grid

import (
	"fmt"
	"sort"

	"github.com/mverel/caseplan/core/model"
)

// ConfigurationError reports an invalid session or grid definition. The
// window name is carried so the caller can fix the input row.
type ConfigurationError struct {
	Window string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Window == "" {
		return fmt.Sprintf("session configuration: %s", e.Reason)
	}
	return fmt.Sprintf("session configuration: window %q: %s", e.Window, e.Reason)
}

// Config defines the grid discretization loaded from configuration.
type Config struct {
	// UnitMinutes is the length of one grid unit. All windows and case
	// durations must be whole multiples of it.
	UnitMinutes int `json:"unit_minutes"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.UnitMinutes == 0 {
		c.UnitMinutes = 30
	}
}

// Validate checks the grid unit.
func (c Config) Validate() error {
	if c.UnitMinutes <= 0 {
		return &ConfigurationError{Reason: "unit_minutes must be positive"}
	}
	if (24*60)%c.UnitMinutes != 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("unit_minutes %d does not divide a day", c.UnitMinutes)}
	}
	return nil
}

// Grid discretizes the weekly availability windows into sessions made of
// fixed-length slots. Immutable once built.
type Grid struct {
	unitMin  int
	sessions map[string]model.Session
	order    []string
}

// Build converts availability windows into sessions of contiguous slots.
// It fails with a ConfigurationError when a window is malformed, its
// duration is not a multiple of the grid unit, or two windows of the same
// resource overlap on a day.
func Build(windows []model.Window, cfg Config) (*Grid, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Grid{unitMin: cfg.UnitMinutes, sessions: make(map[string]model.Session, len(windows))}
	for i, w := range windows {
		if err := w.Validate(); err != nil {
			return nil, &ConfigurationError{Window: w.Name, Reason: err.Error()}
		}
		if _, dup := g.sessions[w.Name]; dup {
			return nil, &ConfigurationError{Window: w.Name, Reason: "duplicate window name"}
		}
		if (w.EndMin-w.StartMin)%cfg.UnitMinutes != 0 {
			return nil, &ConfigurationError{
				Window: w.Name,
				Reason: fmt.Sprintf("duration %d min is not a multiple of the %d min grid unit", w.EndMin-w.StartMin, cfg.UnitMinutes),
			}
		}
		for _, prev := range windows[:i] {
			if w.Resource == prev.Resource && w.Overlaps(prev) {
				return nil, &ConfigurationError{
					Window: w.Name,
					Reason: fmt.Sprintf("overlaps window %q on the same day", prev.Name),
				}
			}
		}

		n := (w.EndMin - w.StartMin) / cfg.UnitMinutes
		slots := make([]model.TimeSlot, n)
		for j := range slots {
			slots[j] = model.TimeSlot{
				Day:      w.Day,
				StartMin: w.StartMin + j*cfg.UnitMinutes,
				UnitMin:  cfg.UnitMinutes,
			}
		}
		g.sessions[w.Name] = model.Session{Name: w.Name, Day: w.Day, Resource: w.Resource, Slots: slots}
	}

	g.order = make([]string, 0, len(g.sessions))
	for name := range g.sessions {
		g.order = append(g.order, name)
	}
	sort.Slice(g.order, func(i, j int) bool {
		a, b := g.sessions[g.order[i]], g.sessions[g.order[j]]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		if a.StartMin() != b.StartMin() {
			return a.StartMin() < b.StartMin()
		}
		return a.Name < b.Name
	})
	return g, nil
}

// UnitMinutes returns the grid unit length.
func (g *Grid) UnitMinutes() int { return g.unitMin }

// Session looks up a session by name.
func (g *Grid) Session(name string) (model.Session, bool) {
	s, ok := g.sessions[name]
	return s, ok
}

// SessionNames returns all session names ordered by day, start time and
// name. The order is stable across builds from identical input.
func (g *Grid) SessionNames() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// SlotsAt returns the run of count slots starting at offset within the
// session, or nil when the run does not fit. This is the duration-fit
// probe used during variable generation.
func (g *Grid) SlotsAt(session string, offset, count int) []model.TimeSlot {
	s, ok := g.sessions[session]
	if !ok || offset < 0 || count <= 0 || offset+count > len(s.Slots) {
		return nil
	}
	return s.Slots[offset : offset+count]
}
