package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

type driftCmd struct {
	inputFlags
}

func (*driftCmd) Name() string     { return "drift" }
func (*driftCmd) Synopsis() string { return "allocation drift against the target weights" }
func (*driftCmd) Usage() string {
	return `prs drift [-holdings <file>] [-prices <file>] [-config <file> | -targets VTI=60,BND=40]

  Shows each holding's current weight, target weight and drift.
`
}

func (c *driftCmd) SetFlags(f *flag.FlagSet) { c.inputFlags.SetFlags(f) }

func (c *driftCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, _, err := c.analysis()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.DriftMarkdown(a))
	return subcommands.ExitSuccess
}
