package solver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	coresolver "github.com/mverel/caseplan/core/solver"
)

// parseSolution reads a CBC solution file: a one-line status header
// followed by one line per nonzero variable ("<row> <name> <value>
// <reduced cost>"). Variables absent from the file are zero.
func parseSolution(r io.Reader, numVars int) (coresolver.Result, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return coresolver.Result{}, fmt.Errorf("empty solution file")
	}
	header := strings.TrimSpace(sc.Text())

	res := coresolver.Result{Status: statusFromHeader(header), Message: header}
	if obj, ok := objectiveFromHeader(header); ok {
		res.Objective = obj
	}
	switch res.Status {
	case coresolver.StatusInfeasible, coresolver.StatusError:
		return res, nil
	}

	values := make(map[int]float64, numVars)
	for i := 0; i < numVars; i++ {
		values[i] = 0
	}
	any := false
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 3 {
			continue
		}
		name := fields[1]
		if !strings.HasPrefix(name, "x") {
			continue
		}
		idx, err := strconv.Atoi(name[1:])
		if err != nil || idx < 0 || idx >= numVars {
			return coresolver.Result{}, fmt.Errorf("unexpected variable %q in solution", name)
		}
		val, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return coresolver.Result{}, fmt.Errorf("bad value for %q: %w", name, err)
		}
		values[idx] = val
		any = true
	}
	if err := sc.Err(); err != nil {
		return coresolver.Result{}, err
	}

	if any || res.Status == coresolver.StatusOptimal || res.Status == coresolver.StatusFeasible {
		res.Values = values
	}
	return res, nil
}

func statusFromHeader(header string) coresolver.Status {
	h := strings.ToLower(header)
	switch {
	case strings.HasPrefix(h, "optimal"):
		return coresolver.StatusOptimal
	case strings.HasPrefix(h, "infeasible"):
		return coresolver.StatusInfeasible
	case strings.Contains(h, "stopped on time"):
		return coresolver.StatusTimedOut
	case strings.Contains(h, "stopped on gap"):
		return coresolver.StatusFeasible
	default:
		return coresolver.StatusError
	}
}

// objectiveFromHeader pulls the value out of headers like
// "Optimal - objective value 2.00000000".
func objectiveFromHeader(header string) (float64, bool) {
	i := strings.LastIndex(strings.ToLower(header), "objective value")
	if i < 0 {
		return 0, false
	}
	fields := strings.Fields(header[i+len("objective value"):])
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
