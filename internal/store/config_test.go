package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "universe:\n  - INFY\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Investment != 100000 {
		t.Errorf("expected default investment 100000, got %f", cfg.Investment)
	}
	if cfg.AnalysisYears != 15 {
		t.Errorf("expected default analysis_years 15, got %d", cfg.AnalysisYears)
	}
	if cfg.Strategy.Variant != "STACKED_DMA" {
		t.Errorf("expected default variant STACKED_DMA, got %q", cfg.Strategy.Variant)
	}
	want := []int{20, 50, 100, 200}
	if len(cfg.Strategy.Windows) != len(want) {
		t.Fatalf("expected default windows %v, got %v", want, cfg.Strategy.Windows)
	}
	for i, w := range want {
		if cfg.Strategy.Windows[i] != w {
			t.Errorf("windows[%d]: expected %d, got %d", i, w, cfg.Strategy.Windows[i])
		}
	}
	if cfg.Data.Source != "YAHOO" || cfg.Data.YahooSuffix != ".NS" {
		t.Errorf("expected YAHOO/.NS data defaults, got %q/%q", cfg.Data.Source, cfg.Data.YahooSuffix)
	}
	if cfg.Output.Dir != "results" {
		t.Errorf("expected default output dir results, got %q", cfg.Output.Dir)
	}
	if cfg.Batch.Workers != 4 {
		t.Errorf("expected default 4 workers, got %d", cfg.Batch.Workers)
	}
	if len(cfg.Universe) != 1 || cfg.Universe[0] != "INFY" {
		t.Errorf("unexpected universe %v", cfg.Universe)
	}
}

func TestLoadConfigMeanReversionDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "strategy:\n  variant: MEAN_REVERSION\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Strategy.Window != 20 {
		t.Errorf("expected default window 20, got %d", cfg.Strategy.Window)
	}
	if cfg.Strategy.TargetPct != 0 {
		t.Errorf("expected default target 0, got %f", cfg.Strategy.TargetPct)
	}
}

func TestLoadConfigExplicitValues(t *testing.T) {
	body := `
investment: 50000
analysis_years: 5
strategy:
  variant: STACKED_DMA
  windows: [10, 30]
data:
  source: CSV
  csv_dir: /tmp/bhav
batch:
  workers: 2
  cron: "0 18 * * 1-5"
`
	cfg, err := LoadConfig(writeConfig(t, body))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Investment != 50000 || cfg.AnalysisYears != 5 {
		t.Errorf("explicit values not honored: %+v", cfg)
	}
	if cfg.Data.Source != "CSV" || cfg.Data.CSVDir != "/tmp/bhav" {
		t.Errorf("unexpected data section %+v", cfg.Data)
	}
	if cfg.Batch.Cron != "0 18 * * 1-5" {
		t.Errorf("unexpected cron %q", cfg.Batch.Cron)
	}
}

func TestLoadConfigValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"bad variant", "strategy:\n  variant: MOMENTUM\n", "invalid strategy.variant"},
		{"unsorted windows", "strategy:\n  windows: [50, 20]\n", "strictly ascending"},
		{"bad source", "data:\n  source: BLOOMBERG\n", "invalid data.source"},
		{"csv without dir", "data:\n  source: CSV\n", "data.csv_dir required"},
		{"negative investment", "investment: -5\n", "investment must be positive"},
		{"negative workers", "batch:\n  workers: -1\n", "batch.workers"},
		{"negative target", "strategy:\n  variant: MEAN_REVERSION\n  target_pct: -2\n", "target_pct"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.body))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error containing %q, got %q", tc.want, err)
			}
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
