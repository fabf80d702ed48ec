// Package export writes the final schedule for downstream consumers
// (spreadsheet import, calendar rendering). The core contract is the
// mapping itself; these are plain JSON and CSV renderings of it.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mverel/caseplan/core/model"
)

// Report wraps a schedule with run metadata for export.
type Report struct {
	RunID    string         `json:"run_id"`
	Status   string         `json:"status"`
	Schedule model.Schedule `json:"schedule"`
}

// WriteJSON writes the report to w in JSON format.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteCSV writes one row per case: scheduled cases with their session
// and times, unscheduled cases with the "unscheduled" sentinel.
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"case", "session", "day", "start", "end"}); err != nil {
		return err
	}
	for _, p := range r.Schedule.Sorted() {
		rec := []string{
			p.Case,
			p.Session,
			p.Day.String(),
			clock(p.StartMin),
			clock(p.EndMin),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	for _, name := range r.Schedule.Unscheduled {
		if err := cw.Write([]string{name, "unscheduled", "", "", ""}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func clock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}
