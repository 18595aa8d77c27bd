package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance/importer"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

type tradesCmd struct {
	inputFlags
	csvFile string
}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "recommended trades in execution order" }
func (*tradesCmd) Usage() string {
	return `prs trades [-holdings <file>] [-prices <file>] [-config <file> | -targets VTI=60,BND=40] [-csv <file>]

  Recommends the trades that bring the portfolio to its target
  allocation: liquidations first, then sells, then buys.
`
}

func (c *tradesCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.SetFlags(f)
	f.StringVar(&c.csvFile, "csv", "", "Also save the trades as CSV to this file")
}

func (c *tradesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, _, err := c.analysis()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.TradesMarkdown(a))

	if c.csvFile != "" {
		out, err := os.Create(c.csvFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.csvFile, err)
			return subcommands.ExitFailure
		}
		defer out.Close()
		if err := importer.WriteTrades(out, a.Trades); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing trades: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Trades saved to %s\n", c.csvFile)
	}
	return subcommands.ExitSuccess
}
