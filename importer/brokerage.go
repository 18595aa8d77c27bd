package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/rebalance"
)

// Format identifies the brokerage that produced a positions export.
type Format string

const (
	Schwab   Format = "schwab"
	Vanguard Format = "vanguard"
	Fidelity Format = "fidelity"
	// Generic is any export with recognizable Symbol/Quantity/Cost columns.
	Generic Format = "generic"
	// Standard is the tool's own format: no conversion needed.
	Standard Format = "standard"
	Unknown  Format = ""
)

// provisionalDate is assigned to converted lots when the export carries
// no lot-level purchase dates. Such lots are flagged Provisional and the
// holding period must not be trusted until the user fixes the dates.
var provisionalDate = rebalance.NewDate(2023, 1, 1)

// DetectFormat sniffs the first line of a positions export.
func DetectFormat(r io.Reader) (Format, error) {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return Unknown, fmt.Errorf("detecting format: %w", scanner.Err())
	}
	first := scanner.Text()

	switch {
	case strings.Contains(first, "Positions for account"):
		return Schwab, nil
	case strings.Contains(first, "Fund Name") || strings.Contains(first, "Account Number"):
		return Vanguard, nil
	case strings.Contains(first, "Account Name") && strings.Contains(first, "Symbol"):
		return Fidelity, nil
	case strings.HasPrefix(strings.ToLower(first), "ticker,shares,cost_basis,purchase_date"):
		return Standard, nil
	case strings.Contains(first, "Symbol") && strings.Contains(first, "Quantity") && strings.Contains(first, "Cost"):
		return Generic, nil
	}
	return Unknown, nil
}

// DetectFormatFile sniffs a positions export on disk.
func DetectFormatFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()
	return DetectFormat(f)
}

// Convert reads a brokerage positions export of the given format and
// returns the holdings it describes.
//
// Conversion is lenient where loading is strict: cash rows, empty
// tickers and zero-share rows are skipped, currency decorations are
// stripped, and a per-share basis is derived from totals when that is
// all the export carries. Lots whose purchase date had to be guessed
// come back with Provisional set.
func Convert(r io.Reader, format Format) (rebalance.HoldingSet, error) {
	switch format {
	case Standard:
		return LoadHoldings(r)
	case Schwab:
		return convertSchwab(r)
	case Vanguard, Fidelity, Generic:
		return convertColumns(r, format)
	}
	return nil, fmt.Errorf("unsupported brokerage format %q", format)
}

// ConvertFile detects the format of a positions export and converts it.
func ConvertFile(path string) (rebalance.HoldingSet, Format, error) {
	format, err := DetectFormatFile(path)
	if err != nil {
		return nil, Unknown, err
	}
	if format == Unknown {
		return nil, Unknown, fmt.Errorf("could not detect the brokerage format of %q", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, format, err
	}
	defer f.Close()
	holdings, err := Convert(f, format)
	if err != nil {
		return nil, format, fmt.Errorf("converting %q: %w", path, err)
	}
	return holdings, format, nil
}

// convertSchwab handles the Schwab "Positions for account" export: an
// account banner line, then a header with Symbol/Qty/Cost Basis columns
// where the cost basis is a position total.
func convertSchwab(r io.Reader) (rebalance.HoldingSet, error) {
	cr := newLenientReader(r)

	// Skip the account banner.
	if _, err := cr.Read(); err != nil {
		return nil, fmt.Errorf("reading account banner: %w", err)
	}
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	symbol, qty, basis := -1, -1, -1
	for i, col := range header {
		low := strings.ToLower(col)
		switch {
		case strings.Contains(low, "symbol") && !strings.Contains(low, "description"):
			symbol = i
		case strings.Contains(low, "qty") || strings.Contains(low, "quantity"):
			qty = i
		case strings.Contains(low, "cost basis"):
			basis = i
		}
	}
	if symbol < 0 || qty < 0 || basis < 0 {
		return nil, fmt.Errorf("missing Symbol/Quantity/Cost Basis columns in %v", header)
	}
	return convertRows(cr, symbol, qty, basis, true)
}

// convertColumns handles Vanguard, Fidelity and generic exports, which
// differ only in column naming and in whether the basis is per share or
// a position total.
func convertColumns(r io.Reader, format Format) (rebalance.HoldingSet, error) {
	cr := newLenientReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	symbol := findColumn(header, "Symbol", "Ticker", "Security", "Fund Name")
	qty := findColumn(header, "Shares", "Quantity", "Qty")
	perShare := findColumn(header, "Cost Basis Per Share", "Price Paid", "Cost Per Share", "Average Cost")
	total := findColumn(header, "Total Cost", "Cost Basis Total", "Cost Basis")

	basis, basisIsTotal := perShare, false
	if basis < 0 {
		basis, basisIsTotal = total, true
	}
	if symbol < 0 || qty < 0 || basis < 0 {
		return nil, fmt.Errorf("missing Symbol/Quantity/Cost columns in %s export: %v", format, header)
	}
	return convertRows(cr, symbol, qty, basis, basisIsTotal)
}

func convertRows(cr *csv.Reader, symbol, qty, basis int, basisIsTotal bool) (rebalance.HoldingSet, error) {
	var holdings rebalance.HoldingSet
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		max := symbol
		if qty > max {
			max = qty
		}
		if basis > max {
			max = basis
		}
		if len(row) <= max {
			continue
		}

		ticker := strings.TrimSpace(row[symbol])
		if ticker == "" || ticker == "--" || strings.EqualFold(ticker, "cash") {
			continue
		}
		cleanQty, ok := cleanCurrency(row[qty])
		if !ok {
			continue
		}
		shares, err := rebalance.ParseQuantity(cleanQty)
		if err != nil || !shares.IsPositive() {
			continue
		}
		cleanBasis, ok := cleanCurrency(row[basis])
		if !ok {
			continue
		}
		costBasis, err := rebalance.ParseMoney(cleanBasis, "USD")
		if err != nil || !costBasis.IsPositive() {
			continue
		}
		if basisIsTotal {
			costBasis = costBasis.Div(shares)
		}

		lot, err := rebalance.NewLot(ticker, shares, costBasis, provisionalDate)
		if err != nil {
			continue
		}
		lot.Provisional = true
		holdings = append(holdings, lot)
	}
	if len(holdings) == 0 {
		return nil, fmt.Errorf("export contains no usable positions")
	}
	return holdings, nil
}

// cleanCurrency strips $, grouping commas and accounting parentheses
// from a brokerage numeric cell.
func cleanCurrency(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "--" || strings.EqualFold(s, "n/a") {
		return "", false
	}
	replacer := strings.NewReplacer("$", "", ",", "", "(", "-", ")", "", "%", "")
	return replacer.Replace(s), true
}

func findColumn(header []string, names ...string) int {
	for _, name := range names {
		for i, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), name) {
				return i
			}
		}
	}
	return -1
}

// newLenientReader builds a CSV reader tolerant of the ragged rows that
// brokerage exports contain.
func newLenientReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}
