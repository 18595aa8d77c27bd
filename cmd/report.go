package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	inputFlags
	outputFile string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "full rebalancing and tax-loss harvesting report" }
func (*reportCmd) Usage() string {
	return `prs report [-holdings <file>] [-prices <file>] [-config <file> | -targets VTI=60,BND=40] [-o <file>]

  Values the portfolio, analyzes allocation drift, finds tax-loss
  harvesting opportunities and recommends an ordered trade plan.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.SetFlags(f)
	f.StringVar(&c.outputFile, "o", "", "Also save the markdown report to this file")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, name, err := c.analysis()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	md := renderer.ClientReportMarkdown(name, a)
	printMarkdown(md)

	if c.outputFile != "" {
		// Saving is best effort: the report was already printed.
		if err := os.WriteFile(c.outputFile, []byte(md), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not save report: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Report saved to %s\n", c.outputFile)
		}
	}
	return subcommands.ExitSuccess
}
