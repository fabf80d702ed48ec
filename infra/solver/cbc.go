// Package solver contains external MILP engine adapters. The production
// adapter drives the COIN-OR cbc binary through files: CPLEX LP format
// in, solution file out. No modeling or solving logic lives here.
package solver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/mverel/caseplan/core/milp"
	coresolver "github.com/mverel/caseplan/core/solver"
)

// Config defines the solver section of the configuration.
type Config struct {
	// Backend selects the engine; only "cbc" is built in.
	Backend string `json:"backend"`
	// Path locates the engine binary. Defaults to the backend name,
	// resolved through PATH.
	Path string `json:"path"`
	// TimeLimitSeconds bounds a solve. Zero means no limit.
	TimeLimitSeconds int `json:"time_limit_seconds"`
	// Gap is the relative optimality gap at which the engine may stop.
	Gap float64 `json:"gap"`
	// KeepFiles leaves the model and solution files on disk for debugging.
	KeepFiles bool `json:"keep_files"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "cbc"
	}
	if c.Path == "" {
		c.Path = c.Backend
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Backend != "cbc" {
		return fmt.Errorf("unknown solver backend %s", c.Backend)
	}
	if c.TimeLimitSeconds < 0 {
		return fmt.Errorf("time_limit_seconds must not be negative")
	}
	if c.Gap < 0 || c.Gap >= 1 {
		return fmt.Errorf("gap must be in [0,1)")
	}
	return nil
}

// New builds the configured solver.
func New(cfg Config) (coresolver.Solver, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &CBC{Path: cfg.Path, Gap: cfg.Gap, KeepFiles: cfg.KeepFiles}, nil
}

// runCBC executes the engine; overridable in tests to fake the binary.
var runCBC = func(ctx context.Context, path string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.String(), err
}

// CBC submits models to the cbc binary. The engine enforces the time
// limit itself and writes its best incumbent before stopping, which is
// what lets a timed-out run still return a usable solution.
type CBC struct {
	Path      string
	Gap       float64
	KeepFiles bool
}

// Solve implements coresolver.Solver.
func (c *CBC) Solve(ctx context.Context, m *milp.Model, opts coresolver.Options) (coresolver.Result, error) {
	if m == nil || m.NumVariables() == 0 {
		return coresolver.Result{}, fmt.Errorf("cbc: empty model")
	}

	dir, err := os.MkdirTemp("", "caseplan-cbc-*")
	if err != nil {
		return coresolver.Result{Status: coresolver.StatusError, Message: err.Error()}, nil
	}
	if !c.KeepFiles {
		defer os.RemoveAll(dir)
	}

	modelPath := filepath.Join(dir, "model.lp")
	solPath := filepath.Join(dir, "solution.txt")
	f, err := os.Create(modelPath)
	if err != nil {
		return coresolver.Result{Status: coresolver.StatusError, Message: err.Error()}, nil
	}
	if err := writeLP(f, m); err != nil {
		_ = f.Close()
		return coresolver.Result{Status: coresolver.StatusError, Message: err.Error()}, nil
	}
	if err := f.Close(); err != nil {
		return coresolver.Result{Status: coresolver.StatusError, Message: err.Error()}, nil
	}

	args := []string{modelPath}
	if opts.TimeLimit > 0 {
		args = append(args, "-seconds", strconv.Itoa(int(opts.TimeLimit.Seconds())))
	}
	gap := opts.GapTolerance
	if gap == 0 {
		gap = c.Gap
	}
	if gap > 0 {
		args = append(args, "-ratioGap", strconv.FormatFloat(gap, 'g', -1, 64))
	}
	args = append(args, "-solve", "-solution", solPath)

	path := c.Path
	if path == "" {
		path = "cbc"
	}
	stderr, err := runCBC(ctx, path, args)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(ctx.Err(), context.Canceled) {
			return coresolver.Result{Status: coresolver.StatusTimedOut, Message: "cancelled before the engine finished"}, nil
		}
		return coresolver.Result{Status: coresolver.StatusError, Message: fmt.Sprintf("cbc: %v: %s", err, stderr)}, nil
	}

	sf, err := os.Open(solPath)
	if err != nil {
		return coresolver.Result{Status: coresolver.StatusError, Message: fmt.Sprintf("cbc wrote no solution file: %v", err)}, nil
	}
	defer sf.Close()
	res, err := parseSolution(sf, m.NumVariables())
	if err != nil {
		return coresolver.Result{Status: coresolver.StatusError, Message: fmt.Sprintf("parse solution: %v", err)}, nil
	}
	return res, nil
}
