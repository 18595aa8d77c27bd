package alphavantage

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/rebalance"
)

// priceFile is the on-disk form of a fetched price map. Prices are
// fetched once and reused, so the engine itself never touches the
// network.
type priceFile struct {
	AsOf   rebalance.Date     `json:"as_of"`
	Prices rebalance.PriceMap `json:"prices"`
}

// SavePrices writes a fetched price map to a JSON file, stamped with
// the fetch date.
func SavePrices(path string, prices rebalance.PriceMap, asOf rebalance.Date) error {
	data, err := json.MarshalIndent(priceFile{AsOf: asOf, Prices: prices}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LoadPrices reads a price map written by SavePrices.
func LoadPrices(path string) (rebalance.PriceMap, rebalance.Date, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, rebalance.Date{}, fmt.Errorf("reading prices file: %w", err)
	}
	var file priceFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, rebalance.Date{}, fmt.Errorf("parsing %q: %w", path, err)
	}
	if len(file.Prices) == 0 {
		return nil, rebalance.Date{}, fmt.Errorf("prices file %q contains no prices", path)
	}
	// The engine keys prices by upper-cased ticker.
	prices := make(rebalance.PriceMap, len(file.Prices))
	for ticker, price := range file.Prices {
		prices[strings.ToUpper(ticker)] = price
	}
	return prices, file.AsOf, nil
}
