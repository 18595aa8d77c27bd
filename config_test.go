package rebalance

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseTargets(t *testing.T) {
	targets, err := ParseTargets("vti=60, bnd=40")
	if err != nil {
		t.Fatalf("ParseTargets() error = %v", err)
	}
	if targets.Weight("VTI") != 0.6 || targets.Weight("BND") != 0.4 {
		t.Errorf("targets = %v, want VTI 0.6, BND 0.4", targets)
	}
	// Unmapped tickers fall back to the implicit zero target.
	if targets.Weight("GME") != 0 {
		t.Errorf("unmapped ticker weight = %v, want 0", targets.Weight("GME"))
	}
}

func TestParseTargets_Errors(t *testing.T) {
	for _, s := range []string{"VTI", "VTI=sixty", "VTI=140"} {
		_, err := ParseTargets(s)
		var cerr *ConfigurationError
		if !errors.As(err, &cerr) {
			t.Errorf("ParseTargets(%q) error = %v, want ConfigurationError", s, err)
		}
	}
}

func TestLoadClientConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client.yaml")
	content := `name: Dana
targets:
  vti: 0.70
  nvda: 0.08
  jnj: 0.22
tax_rate: 0.24
min_loss: 1000
data_source: alphavantage
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadClientConfig(path)
	if err != nil {
		t.Fatalf("LoadClientConfig() error = %v", err)
	}
	if cfg.Name != "Dana" {
		t.Errorf("name = %q, want Dana", cfg.Name)
	}
	if w := cfg.Allocation().Weight("NVDA"); w != 0.08 {
		t.Errorf("NVDA weight = %v, want 0.08 (tickers upper-cased)", w)
	}
	opts := cfg.Options()
	if opts.TaxRate != 0.24 || !opts.MinLoss.Equal(USD(1000)) {
		t.Errorf("options = %+v", opts)
	}
}

func TestLoadClientConfig_Invalid(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]string{
		"bad weight":   "targets:\n  vti: 1.4\n",
		"bad tax rate": "targets:\n  vti: 0.6\ntax_rate: 1.5\n",
		"bad min loss": "targets:\n  vti: 0.6\nmin_loss: -10\n",
		"no targets":   "name: Dana\ntax_rate: 0.24\n",
		"not yaml":     "targets: [unclosed",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.yaml")
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadClientConfig(path)
			var cerr *ConfigurationError
			if !errors.As(err, &cerr) {
				t.Errorf("LoadClientConfig() error = %v, want ConfigurationError", err)
			}
		})
	}
}
