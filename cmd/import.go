package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance/importer"
	"github.com/google/subcommands"
)

type importCmd struct {
	outputFile string
}

func (*importCmd) Name() string { return "import" }
func (*importCmd) Synopsis() string {
	return "convert a brokerage positions export to the standard format"
}
func (*importCmd) Usage() string {
	return `prs import [-o <file>] <positions.csv>

  Detects the brokerage (Schwab, Vanguard, Fidelity or a generic
  Symbol/Quantity/Cost export) and converts the positions into the
  standard holdings format.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputFile, "o", "portfolio.csv", "Holdings file to write")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one positions export file")
		return subcommands.ExitUsageError
	}

	holdings, format, err := importer.ConvertFile(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out, err := os.Create(c.outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %q: %v\n", c.outputFile, err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := importer.WriteHoldings(out, holdings); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Converted %d %s positions into %s\n", len(holdings), format, c.outputFile)
	if format != importer.Standard {
		fmt.Println("Warning: purchase dates are placeholders. Update them from your brokerage's tax-lot view before trusting the long-term classification.")
	}
	return subcommands.ExitSuccess
}
