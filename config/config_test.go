package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `grid:
  unit_minutes: 15
solver:
  backend: "cbc"
  time_limit_seconds: 120
  gap: 0.05
objective:
  mode: "priority"
metrics:
  prometheus_enabled: true
logging:
  level: "debug"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"grid.unit_minutes", cfg.Grid.UnitMinutes, 15},
		{"solver.backend", cfg.Solver.Backend, "cbc"},
		{"solver.path default", cfg.Solver.Path, "cbc"},
		{"solver.time_limit_seconds", cfg.Solver.TimeLimitSeconds, 120},
		{"solver.gap", cfg.Solver.Gap, 0.05},
		{"objective.mode", cfg.Objective.Mode, "priority"},
		{"metrics.prometheus_enabled", cfg.Metrics.PrometheusEnabled, true},
		{"metrics.prometheus_port default", cfg.Metrics.PrometheusPort, ":9090"},
		{"logging.level", cfg.Logging.Level, "debug"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestLoadRejectsBadObjective(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("objective:\n  mode: \"random\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unknown objective mode")
	}
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if cfg.Grid.UnitMinutes != 30 || cfg.Objective.Mode != "count" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}
