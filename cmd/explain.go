package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance/agent"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

type explainCmd struct {
	inputFlags
}

func (*explainCmd) Name() string     { return "explain" }
func (*explainCmd) Synopsis() string { return "ask the AI assistant to explain the report" }
func (*explainCmd) Usage() string {
	return `prs explain [-holdings <file>] [-prices <file>] [-config <file> | -targets VTI=60,BND=40]

  Builds the rebalancing report and asks Gemini for a plain-English
  explanation of what it recommends and why.
`
}

func (c *explainCmd) SetFlags(f *flag.FlagSet) { c.inputFlags.SetFlags(f) }

func (c *explainCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, name, err := c.analysis()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	explanation, err := agent.Explain(ctx, client, renderer.ClientReportMarkdown(name, a))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error from the assistant: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(explanation)
	return subcommands.ExitSuccess
}
