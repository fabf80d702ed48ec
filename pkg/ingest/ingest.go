// Package ingest reads the tabular case and session sources. One row per
// case instance, one row per availability window; schema violations are
// reported with the core error types so callers see which row to fix.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mverel/caseplan/core/grid"
	"github.com/mverel/caseplan/core/model"
	"github.com/mverel/caseplan/core/registry"
)

// ReadCasesFile loads the case source from a CSV file.
func ReadCasesFile(path string) ([]model.Case, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cases: %w", err)
	}
	defer f.Close()
	return ReadCases(f)
}

// ReadCases parses case rows. Required columns: name, duration_min,
// sessions (semicolon-separated). Optional: must_use, group, priority.
func ReadCases(r io.Reader) ([]model.Case, error) {
	rows, header, err := readTable(r)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{"name", "duration_min", "sessions"} {
		if _, ok := header[col]; !ok {
			return nil, &registry.InvalidCaseError{Case: "", Reason: fmt.Sprintf("missing column %q", col)}
		}
	}

	cases := make([]model.Case, 0, len(rows))
	for i, row := range rows {
		name := field(row, header, "name")
		if name == "" {
			return nil, &registry.InvalidCaseError{Case: "", Reason: fmt.Sprintf("row %d: empty name", i+2)}
		}
		dur, err := strconv.Atoi(field(row, header, "duration_min"))
		if err != nil {
			return nil, &registry.InvalidCaseError{Case: name, Reason: "duration_min is not an integer"}
		}
		var eligible []string
		for _, s := range strings.Split(field(row, header, "sessions"), ";") {
			if s = strings.TrimSpace(s); s != "" {
				eligible = append(eligible, s)
			}
		}
		c := model.Case{
			Name:        name,
			DurationMin: dur,
			Eligible:    eligible,
			MustUse:     field(row, header, "must_use"),
			Group:       field(row, header, "group"),
		}
		if p := field(row, header, "priority"); p != "" {
			c.Priority, err = strconv.ParseFloat(p, 64)
			if err != nil {
				return nil, &registry.InvalidCaseError{Case: name, Reason: "priority is not a number"}
			}
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// ReadSessionsFile loads the session source from a CSV file.
func ReadSessionsFile(path string) ([]model.Window, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sessions: %w", err)
	}
	defer f.Close()
	return ReadSessions(f)
}

// ReadSessions parses availability window rows. Required columns: name,
// day, start, end. Optional: resource.
func ReadSessions(r io.Reader) ([]model.Window, error) {
	rows, header, err := readTable(r)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{"name", "day", "start", "end"} {
		if _, ok := header[col]; !ok {
			return nil, &grid.ConfigurationError{Reason: fmt.Sprintf("missing column %q", col)}
		}
	}

	windows := make([]model.Window, 0, len(rows))
	for _, row := range rows {
		name := field(row, header, "name")
		day, err := parseDay(field(row, header, "day"))
		if err != nil {
			return nil, &grid.ConfigurationError{Window: name, Reason: err.Error()}
		}
		start, err := parseClock(field(row, header, "start"))
		if err != nil {
			return nil, &grid.ConfigurationError{Window: name, Reason: fmt.Sprintf("start: %v", err)}
		}
		end, err := parseClock(field(row, header, "end"))
		if err != nil {
			return nil, &grid.ConfigurationError{Window: name, Reason: fmt.Sprintf("end: %v", err)}
		}
		windows = append(windows, model.Window{
			Name:     name,
			Day:      day,
			StartMin: start,
			EndMin:   end,
			Resource: field(row, header, "resource"),
		})
	}
	return windows, nil
}

func readTable(r io.Reader) ([][]string, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty input")
	}
	header := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		header[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return records[1:], header, nil
}

func field(row []string, header map[string]int, col string) string {
	i, ok := header[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

var days = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday,
}

func parseDay(s string) (time.Weekday, error) {
	d, ok := days[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("unknown day %q", s)
	}
	return d, nil
}

// parseClock converts "HH:MM" to minutes since midnight. "24:00" is
// accepted as an end-of-day bound even though it is not a valid clock
// reading.
func parseClock(s string) (int, error) {
	if s == "24:00" {
		return 24 * 60, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("want HH:MM, got %q", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}
