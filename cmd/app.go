// Package cmd implements the CLI application to analyze and rebalance a
// portfolio.
package cmd

import (
	"flag"
	"fmt"
	"log"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/alphavantage"
	"github.com/etnz/rebalance/importer"
	"github.com/google/subcommands"
)

// Commands lists the subcommands for a main package to register.
var Commands = []subcommands.Command{
	&reportCmd{},
	&driftCmd{},
	&harvestCmd{},
	&tradesCmd{},
	&fetchCmd{},
	&importCmd{},
	&sampleCmd{},
	&explainCmd{},
	&topicCmd{},
}

// inputFlags holds the flags shared by every analysis command: where the
// holdings and prices live, and how the targets and tax parameters are
// supplied.
type inputFlags struct {
	holdings string
	prices   string
	config   string
	targets  string
	rate     float64
	minLoss  float64
	date     string
}

func (c *inputFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.holdings, "holdings", "portfolio.csv", "Holdings file (ticker,shares,cost_basis,purchase_date)")
	f.StringVar(&c.prices, "prices", "prices.json", "Prices file written by 'prs fetch'")
	f.StringVar(&c.config, "config", "", "Client configuration file (YAML)")
	f.StringVar(&c.targets, "targets", "", "Target allocation, e.g. VTI=60,BND=40 (percentages, overrides -config)")
	f.Float64Var(&c.rate, "rate", -1, "Marginal tax rate as a fraction (overrides -config)")
	f.Float64Var(&c.minLoss, "min-loss", -1, "Minimum harvestable loss in dollars (overrides -config)")
	f.StringVar(&c.date, "date", "", "Evaluation date, defaults to today")
}

// analysis loads the inputs and runs the whole pipeline. It returns the
// analysis and the client name for the report title.
func (c *inputFlags) analysis() (*rebalance.Analysis, string, error) {
	on := rebalance.Today()
	if c.date != "" {
		var err error
		on, err = rebalance.ParseDate(c.date)
		if err != nil {
			return nil, "", fmt.Errorf("invalid -date: %w", err)
		}
	}

	holdings, err := importer.LoadHoldingsFile(c.holdings)
	if err != nil {
		return nil, "", err
	}
	prices, asOf, err := alphavantage.LoadPrices(c.prices)
	if err != nil {
		return nil, "", err
	}
	if asOf != on {
		log.Printf("prices are as of %s, report is for %s", asOf, on)
	}

	name := ""
	var targets rebalance.TargetAllocation
	opts := rebalance.Options{TaxRate: rebalance.DefaultTaxRate}
	if c.config != "" {
		cfg, err := rebalance.LoadClientConfig(c.config)
		if err != nil {
			return nil, "", err
		}
		name = cfg.Name
		targets = cfg.Allocation()
		opts = cfg.Options()
	}
	if c.targets != "" {
		targets, err = rebalance.ParseTargets(c.targets)
		if err != nil {
			return nil, "", err
		}
	}
	if len(targets) == 0 {
		return nil, "", fmt.Errorf("no target allocation: use -config or -targets")
	}
	if c.rate >= 0 {
		opts.TaxRate = c.rate
	}
	if c.minLoss >= 0 {
		opts.MinLoss = rebalance.USD(c.minLoss)
	}

	a, err := rebalance.NewAnalysis(holdings, prices, targets, on, opts)
	if err != nil {
		return nil, "", err
	}
	return a, name, nil
}
