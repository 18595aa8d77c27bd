package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance/importer"
	"github.com/google/subcommands"
)

type sampleCmd struct {
	outputFile string
}

func (*sampleCmd) Name() string     { return "sample" }
func (*sampleCmd) Synopsis() string { return "write a sample holdings file" }
func (*sampleCmd) Usage() string {
	return `prs sample [-o <file>]

  Writes a small demonstration portfolio in the standard holdings
  format, to try the tool before importing real positions.
`
}

func (c *sampleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputFile, "o", "sample_portfolio.csv", "Holdings file to write")
}

func (c *sampleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := os.WriteFile(c.outputFile, []byte(importer.Sample()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created sample portfolio: %s\n", c.outputFile)
	return subcommands.ExitSuccess
}
