// Package app wires the planning pipeline: ingest, grid, registry, model
// build, solve, extract, export.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mverel/caseplan/config"
	"github.com/mverel/caseplan/core/extract"
	"github.com/mverel/caseplan/core/grid"
	coremetrics "github.com/mverel/caseplan/core/metrics"
	"github.com/mverel/caseplan/core/milp"
	"github.com/mverel/caseplan/core/model"
	"github.com/mverel/caseplan/core/registry"
	"github.com/mverel/caseplan/core/solver"
	"github.com/mverel/caseplan/infra/logger"
	"github.com/mverel/caseplan/infra/metrics"
	infrasolver "github.com/mverel/caseplan/infra/solver"
	"github.com/mverel/caseplan/pkg/export"
	"github.com/mverel/caseplan/pkg/ingest"
)

// Planner runs one model-build-solve-extract cycle. The model is
// single-use: each Run builds a fresh one.
type Planner struct {
	cfg    *config.Config
	log    logger.Logger
	sink   coremetrics.Sink
	engine solver.Solver
	runID  string
}

// New creates a Planner from the configuration. The context bounds the
// background metrics server, if one is enabled.
func New(ctx context.Context, cfg *config.Config) (*Planner, error) {
	cfg.Logging.Apply()
	log := logger.New("planner")

	var sink coremetrics.Sink = coremetrics.NopSink{}
	if cfg.Metrics.PrometheusEnabled {
		s, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sink = s
		go servePrometheus(ctx, cfg.Metrics.PrometheusPort, log)
	}

	engine, err := infrasolver.New(cfg.Solver)
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}

	return &Planner{
		cfg:    cfg,
		log:    log,
		sink:   sink,
		engine: engine,
		runID:  uuid.NewString(),
	}, nil
}

// SetSolver replaces the engine, mainly for tests.
func (p *Planner) SetSolver(s solver.Solver) { p.engine = s }

// RunID returns the identifier attached to this planner's runs.
func (p *Planner) RunID() string { return p.runID }

// Run loads the tabular sources and plans the week.
func (p *Planner) Run(ctx context.Context, casesPath, sessionsPath string) (export.Report, error) {
	windows, err := ingest.ReadSessionsFile(sessionsPath)
	if err != nil {
		return export.Report{}, err
	}
	cases, err := ingest.ReadCasesFile(casesPath)
	if err != nil {
		return export.Report{}, err
	}
	return p.Plan(ctx, windows, cases)
}

// Plan builds the model from the given windows and cases, solves it and
// extracts the schedule. Infeasible, timed-out and failed solves are
// reported through the Report status, not as errors; only bad input and
// inconsistent solutions error out.
func (p *Planner) Plan(ctx context.Context, windows []model.Window, cases []model.Case) (export.Report, error) {
	g, err := grid.Build(windows, p.cfg.Grid)
	if err != nil {
		return export.Report{}, err
	}
	reg, err := registry.New(cases, g)
	if err != nil {
		return export.Report{}, err
	}
	m, err := milp.Build(reg, g, p.cfg.Objective.Weighter())
	if err != nil {
		return export.Report{}, err
	}
	p.sink.RecordModelSize(m.NumVariables(), m.NumConstraints())
	p.log.Debugw("model built", map[string]any{
		"run_id":      p.runID,
		"variables":   m.NumVariables(),
		"constraints": m.NumConstraints(),
	})

	bound, err := solver.RelaxationBound(m)
	if err != nil {
		p.log.Warnf("relaxation bound unavailable: %v", err)
		bound = -1
	} else {
		p.log.Debugf("relaxation bound %.3f", bound)
	}

	opts := solver.Options{
		TimeLimit:    time.Duration(p.cfg.Solver.TimeLimitSeconds) * time.Second,
		GapTolerance: p.cfg.Solver.Gap,
	}
	start := time.Now()
	res, err := p.engine.Solve(ctx, m, opts)
	elapsed := time.Since(start)
	if err != nil {
		return export.Report{}, fmt.Errorf("solve: %w", err)
	}
	p.sink.RecordSolve(res.Status.String(), elapsed, res.Objective)
	p.log.Infof("solve finished in %s: %s", elapsed.Round(time.Millisecond), res.Status)

	report := export.Report{RunID: p.runID, Status: res.Status.String()}
	if !res.HasSolution() {
		switch res.Status {
		case solver.StatusInfeasible:
			p.log.Warnf("model is provably infeasible")
		case solver.StatusTimedOut:
			p.log.Warnf("time limit hit with no incumbent")
		default:
			p.log.Errorf("solver failed: %s", res.Message)
		}
		report.Schedule = model.Schedule{Summary: model.Summary{Total: reg.Len()}}
		for _, c := range reg.Cases() {
			report.Schedule.Unscheduled = append(report.Schedule.Unscheduled, c.Name)
		}
		return report, nil
	}

	sched, err := extract.Schedule(reg, g, m, res)
	if err != nil {
		return export.Report{}, err
	}
	if bound >= 0 && bound > res.Objective {
		p.log.Infof("objective %.3f of relaxation bound %.3f", res.Objective, bound)
	}
	p.log.Infof("scheduled %d of %d cases", sched.Summary.Scheduled, sched.Summary.Total)
	if len(sched.Unscheduled) > 0 {
		p.log.Debugw("unscheduled cases", map[string]any{"cases": sched.Unscheduled})
	}
	p.sink.RecordScheduled(sched.Summary.Scheduled, sched.Summary.Total)

	report.Schedule = sched
	return report, nil
}

func servePrometheus(ctx context.Context, port string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: port, Handler: mux}
	go func() {
		<-ctx.Done()
		stop, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(stop); err != nil {
			log.Errorf("metrics server shutdown: %v", err)
		}
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("metrics server: %v", err)
	}
}
