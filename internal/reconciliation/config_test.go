package reconciliation

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("RECONCILIATION_CONFIG", "")
	t.Setenv("LEDGER_TOLERANCE", "")
	t.Setenv("LEDGER_WINDOW_MONTHS", "")
	t.Setenv("CURRENCY", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WindowMonths != 24 || cfg.Currency != "EUR" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	eps, err := cfg.Epsilon()
	if err != nil {
		t.Fatalf("epsilon: %v", err)
	}
	if eps.String() != "0.01" {
		t.Fatalf("unexpected epsilon %s", eps)
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reconciliation.yaml")
	content := "tolerance: \"0.05\"\nwindow_months: 12\ncurrency: CHF\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("RECONCILIATION_CONFIG", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WindowMonths != 12 || cfg.Currency != "CHF" || cfg.Tolerance != "0.05" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadConfigRejectsBadTolerance(t *testing.T) {
	t.Setenv("RECONCILIATION_CONFIG", "")
	t.Setenv("LEDGER_TOLERANCE", "-0.01")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for negative tolerance")
	}

	t.Setenv("LEDGER_TOLERANCE", "abc")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for malformed tolerance")
	}
}
