package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

type harvestCmd struct {
	inputFlags
}

func (*harvestCmd) Name() string     { return "harvest" }
func (*harvestCmd) Synopsis() string { return "tax-loss harvesting opportunities" }
func (*harvestCmd) Usage() string {
	return `prs harvest [-holdings <file>] [-prices <file>] [-min-loss <dollars>] [-rate <fraction>]

  Lists the tax lots whose unrealized loss exceeds the threshold, with
  the estimated tax benefit of selling them.
`
}

func (c *harvestCmd) SetFlags(f *flag.FlagSet) { c.inputFlags.SetFlags(f) }

func (c *harvestCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, _, err := c.analysis()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HarvestMarkdown(a))
	return subcommands.ExitSuccess
}
