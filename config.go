package rebalance

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ClientConfig is the per-client configuration file: who the report is
// for, the target allocation, and the tax parameters. It is a plain YAML
// document so clients can be versioned alongside their portfolios.
type ClientConfig struct {
	Name string `yaml:"name"`
	// Targets maps tickers to target weights as fractions in [0,1].
	Targets map[string]float64 `yaml:"targets"`
	TaxRate float64            `yaml:"tax_rate"`
	// MinLoss is the harvesting threshold in dollars (default $500).
	MinLoss float64 `yaml:"min_loss"`
	// DataSource selects the market-data collaborator ("alphavantage").
	DataSource string `yaml:"data_source"`
}

// LoadClientConfig reads and validates a client configuration file.
func LoadClientConfig(path string) (*ClientConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read client config %q: %w", path, err)
	}
	var cfg ClientConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, &ConfigurationError{Key: path, Reason: err.Error()}
	}
	if cfg.Name == "" {
		cfg.Name = "Personal"
	}
	if len(cfg.Targets) == 0 {
		return nil, &ConfigurationError{Key: "targets", Reason: "no target allocation"}
	}
	if err := cfg.Allocation().Validate(); err != nil {
		return nil, err
	}
	if cfg.TaxRate < 0 || cfg.TaxRate >= 1 {
		return nil, &ConfigurationError{Key: "tax_rate", Reason: "must be a fraction in [0,1)"}
	}
	if cfg.MinLoss < 0 {
		return nil, &ConfigurationError{Key: "min_loss", Reason: "must not be negative"}
	}
	return &cfg, nil
}

// Allocation returns the configured targets as a TargetAllocation with
// upper-cased tickers.
func (c *ClientConfig) Allocation() TargetAllocation {
	targets := make(TargetAllocation, len(c.Targets))
	for ticker, w := range c.Targets {
		targets[strings.ToUpper(strings.TrimSpace(ticker))] = w
	}
	return targets
}

// Options returns the analysis options implied by the config.
func (c *ClientConfig) Options() Options {
	opts := Options{TaxRate: c.TaxRate}
	if c.MinLoss > 0 {
		opts.MinLoss = USD(c.MinLoss)
	}
	return opts
}

// ParseTargets parses a compact command-line allocation such as
// "VTI=60,BND=40". Weights are percentages and are converted to
// fractions; they do not have to sum to 100.
func ParseTargets(s string) (TargetAllocation, error) {
	targets := make(TargetAllocation)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		ticker, weight, found := strings.Cut(pair, "=")
		if !found {
			return nil, &ConfigurationError{Key: pair, Reason: `expected "TICKER=WEIGHT"`}
		}
		ticker = strings.ToUpper(strings.TrimSpace(ticker))
		w, err := strconv.ParseFloat(strings.TrimSpace(weight), 64)
		if err != nil {
			return nil, &ConfigurationError{Key: ticker, Reason: "unparseable weight " + weight}
		}
		targets[ticker] = w / 100
	}
	if err := targets.Validate(); err != nil {
		return nil, err
	}
	return targets, nil
}
