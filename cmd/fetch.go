package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/alphavantage"
	"github.com/etnz/rebalance/importer"
	"github.com/google/subcommands"
)

type fetchCmd struct {
	holdings   string
	outputFile string
	apiKey     string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch market prices for the held tickers" }
func (*fetchCmd) Usage() string {
	return `prs fetch [-holdings <file>] [-key <apikey>] [-o <file>]

  Fetches the latest price of every held ticker from Alpha Vantage and
  writes the prices file used by the report commands. The API key comes
  from -key or the ALPHAVANTAGE_API_KEY environment variable. The free
  tier allows 5 requests per minute; fetching paces itself accordingly.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.holdings, "holdings", "portfolio.csv", "Holdings file (ticker,shares,cost_basis,purchase_date)")
	f.StringVar(&c.outputFile, "o", "prices.json", "Prices file to write")
	f.StringVar(&c.apiKey, "key", os.Getenv("ALPHAVANTAGE_API_KEY"), "Alpha Vantage API key")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.apiKey == "" {
		fmt.Fprintln(os.Stderr, "Error: an Alpha Vantage API key is required (-key or ALPHAVANTAGE_API_KEY)")
		return subcommands.ExitUsageError
	}

	holdings, err := importer.LoadHoldingsFile(c.holdings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	client := alphavantage.New(c.apiKey)
	prices, err := client.Fetch(ctx, holdings.Tickers())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching prices: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := alphavantage.SavePrices(c.outputFile, prices, rebalance.Today()); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving prices: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Fetched %d prices into %s\n", len(prices), c.outputFile)
	return subcommands.ExitSuccess
}
