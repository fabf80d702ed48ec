package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mverel/caseplan/config"
	"github.com/mverel/caseplan/core/milp"
	"github.com/mverel/caseplan/core/model"
	"github.com/mverel/caseplan/core/solver"
	"github.com/mverel/caseplan/core/solver/solvertest"
	"github.com/mverel/caseplan/infra/logger"
)

func newTestPlanner(t *testing.T) *Planner {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	p, err := New(context.Background(), cfg)
	require.NoError(t, err)
	p.SetSolver(solvertest.Solver{})
	return p
}

func TestPlanEndToEnd(t *testing.T) {
	p := newTestPlanner(t)
	windows := []model.Window{
		{Name: "Mon AM", Day: time.Monday, StartMin: 9 * 60, EndMin: 11 * 60},
	}
	cases := []model.Case{
		{Name: "anna", DurationMin: 60, Eligible: []string{"Mon AM"}},
		{Name: "ben", DurationMin: 60, Eligible: []string{"Mon AM"}},
	}
	report, err := p.Plan(context.Background(), windows, cases)
	require.NoError(t, err)
	require.Equal(t, "optimal", report.Status)
	require.Equal(t, 2, report.Schedule.Summary.Scheduled)
	require.NotEmpty(t, report.RunID)
}

func TestPlanSolverErrorReported(t *testing.T) {
	p := newTestPlanner(t)
	p.SetSolver(stubSolver{res: solver.Result{Status: solver.StatusError, Message: "crash"}})
	windows := []model.Window{
		{Name: "Mon AM", Day: time.Monday, StartMin: 9 * 60, EndMin: 11 * 60},
	}
	cases := []model.Case{{Name: "anna", DurationMin: 60, Eligible: []string{"Mon AM"}}}
	report, err := p.Plan(context.Background(), windows, cases)
	require.NoError(t, err)
	require.Equal(t, "solver_error", report.Status)
	require.Empty(t, report.Schedule.Placements)
	require.Equal(t, []string{"anna"}, report.Schedule.Unscheduled)
}

func TestPlanPropagatesBuildErrors(t *testing.T) {
	p := newTestPlanner(t)
	windows := []model.Window{
		{Name: "Mon AM", Day: time.Monday, StartMin: 9 * 60, EndMin: 11 * 60},
	}
	cases := []model.Case{{Name: "long", DurationMin: 600, Eligible: []string{"Mon AM"}}}
	_, err := p.Plan(context.Background(), windows, cases)
	require.ErrorIs(t, err, milp.ErrEmptyModel)
}

func TestRunReadsFiles(t *testing.T) {
	dir := t.TempDir()
	sessions := filepath.Join(dir, "sessions.csv")
	cases := filepath.Join(dir, "cases.csv")
	require.NoError(t, os.WriteFile(sessions, []byte("name,day,start,end\nMon AM,Mon,09:00,11:00\n"), 0o644))
	require.NoError(t, os.WriteFile(cases, []byte("name,duration_min,sessions\nanna,60,Mon AM\n"), 0o644))

	p := newTestPlanner(t)
	report, err := p.Run(context.Background(), cases, sessions)
	require.NoError(t, err)
	require.Equal(t, 1, report.Schedule.Summary.Scheduled)
	pl := report.Schedule.Placements["anna"]
	require.Equal(t, "Mon AM", pl.Session)
	require.Equal(t, 60, pl.EndMin-pl.StartMin)
}

func TestMetricsServerStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		servePrometheus(ctx, "127.0.0.1:0", logger.NopLogger{})
		close(done)
	}()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("metrics server did not stop on context cancel")
	}
}

type stubSolver struct {
	res solver.Result
}

func (s stubSolver) Solve(context.Context, *milp.Model, solver.Options) (solver.Result, error) {
	return s.res, nil
}
