package solver

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/mverel/caseplan/core/grid"
	"github.com/mverel/caseplan/core/milp"
	"github.com/mverel/caseplan/core/model"
	"github.com/mverel/caseplan/core/registry"
	coresolver "github.com/mverel/caseplan/core/solver"
)

func testModel(t *testing.T) *milp.Model {
	t.Helper()
	g, err := grid.Build([]model.Window{
		{Name: "Mon AM", Day: time.Monday, StartMin: 9 * 60, EndMin: 11 * 60},
	}, grid.Config{UnitMinutes: 30})
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	reg, err := registry.New([]model.Case{
		{Name: "anna", DurationMin: 60, Eligible: []string{"Mon AM"}},
		{Name: "ben", DurationMin: 60, Eligible: []string{"Mon AM"}},
	}, g)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	m, err := milp.Build(reg, g, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return m
}

func TestWriteLP(t *testing.T) {
	m := testModel(t)
	var sb strings.Builder
	if err := writeLP(&sb, m); err != nil {
		t.Fatalf("writeLP: %v", err)
	}
	out := sb.String()
	for _, want := range []string{"Maximize", "obj:", "Subject To", "Binary", "End"} {
		if !strings.Contains(out, want) {
			t.Fatalf("LP output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "x0") || !strings.Contains(out, "<= 1") {
		t.Fatalf("LP output missing variables or bounds:\n%s", out)
	}
	// every variable must be declared binary
	for i := 0; i < m.NumVariables(); i++ {
		if !strings.Contains(out, "x"+strconv.Itoa(i)) {
			t.Fatalf("variable x%d not declared:\n%s", i, out)
		}
	}
}

func TestParseSolutionOptimal(t *testing.T) {
	in := `Optimal - objective value 2.00000000
      0 x0                      1                       1
      5 x5                      1                       1
`
	res, err := parseSolution(strings.NewReader(in), 6)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res.Status != coresolver.StatusOptimal {
		t.Fatalf("expected optimal, got %v", res.Status)
	}
	if res.Objective != 2 {
		t.Fatalf("expected objective 2, got %v", res.Objective)
	}
	if res.Values[0] != 1 || res.Values[5] != 1 || res.Values[3] != 0 {
		t.Fatalf("unexpected values %v", res.Values)
	}
}

func TestParseSolutionInfeasible(t *testing.T) {
	res, err := parseSolution(strings.NewReader("Infeasible - objective value 0.00000000\n"), 3)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res.Status != coresolver.StatusInfeasible {
		t.Fatalf("expected infeasible, got %v", res.Status)
	}
	if res.Values != nil {
		t.Fatal("infeasible result must carry no values")
	}
}

func TestParseSolutionTimedOutWithIncumbent(t *testing.T) {
	in := `Stopped on time limit - objective value 1.00000000
      0 x1                      1                       1
`
	res, err := parseSolution(strings.NewReader(in), 3)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res.Status != coresolver.StatusTimedOut {
		t.Fatalf("expected timed_out, got %v", res.Status)
	}
	if !res.HasSolution() {
		t.Fatal("incumbent should be usable")
	}
	if res.Values[1] != 1 {
		t.Fatalf("unexpected values %v", res.Values)
	}
}

func TestParseSolutionUnknownHeader(t *testing.T) {
	res, err := parseSolution(strings.NewReader("Unbounded\n"), 1)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if res.Status != coresolver.StatusError {
		t.Fatalf("expected solver_error, got %v", res.Status)
	}
}

func TestParseSolutionBadVariable(t *testing.T) {
	in := `Optimal - objective value 1.0
      0 x9                      1                       1
`
	if _, err := parseSolution(strings.NewReader(in), 3); err == nil {
		t.Fatal("expected error for out-of-range variable")
	}
}

func TestCBCSolveFakedBinary(t *testing.T) {
	old := runCBC
	runCBC = func(_ context.Context, _ string, args []string) (string, error) {
		sol := args[len(args)-1]
		data := "Optimal - objective value 2.00000000\n      0 x0   1   1\n      1 x5   1   1\n"
		return "", os.WriteFile(sol, []byte(data), 0o644)
	}
	defer func() { runCBC = old }()

	c := &CBC{Path: "cbc"}
	res, err := c.Solve(context.Background(), testModel(t), coresolver.Options{TimeLimit: time.Minute})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if res.Status != coresolver.StatusOptimal || res.Objective != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Values[0] != 1 || res.Values[5] != 1 {
		t.Fatalf("unexpected values %v", res.Values)
	}
}

func TestCBCSolveBinaryFailure(t *testing.T) {
	old := runCBC
	runCBC = func(_ context.Context, _ string, _ []string) (string, error) {
		return "license expired", errors.New("exit status 1")
	}
	defer func() { runCBC = old }()

	c := &CBC{}
	res, err := c.Solve(context.Background(), testModel(t), coresolver.Options{})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if res.Status != coresolver.StatusError {
		t.Fatalf("engine failure must map to solver_error, got %v", res.Status)
	}
	if !strings.Contains(res.Message, "license expired") {
		t.Fatalf("stderr should be surfaced, got %q", res.Message)
	}
}

func TestCBCSolveCancelled(t *testing.T) {
	old := runCBC
	runCBC = func(ctx context.Context, _ string, _ []string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}
	defer func() { runCBC = old }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	c := &CBC{}
	res, err := c.Solve(ctx, testModel(t), coresolver.Options{})
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if res.Status != coresolver.StatusTimedOut {
		t.Fatalf("expected timed_out, got %v", res.Status)
	}
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	if cfg.Backend != "cbc" || cfg.Path != "cbc" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if err := (Config{Backend: "gurobi"}).Validate(); err == nil {
		t.Fatal("unknown backend must be rejected")
	}
	if err := (Config{Backend: "cbc", Gap: 1.5}).Validate(); err == nil {
		t.Fatal("gap outside [0,1) must be rejected")
	}
}
