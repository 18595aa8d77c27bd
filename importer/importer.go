// Package importer loads holdings from CSV files and converts brokerage
// position exports into the standard format.
//
// The standard format is strict:
//
//	ticker,shares,cost_basis,purchase_date
//	VTI,100,220.00,2023-01-15
//
// Brokerage exports are messy, so conversion is lenient: unknown rows are
// skipped and missing purchase dates are guessed and flagged provisional.
// Loading the standard format is the opposite: every malformed row is a
// hard error with its record number.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/rebalance"
)

// standardHeader is the column set of the standard holdings format.
var standardHeader = []string{"ticker", "shares", "cost_basis", "purchase_date"}

// LoadHoldings reads holdings in the standard CSV format.
//
// Every row must parse and validate. Errors carry the 1-based record
// number (the header is record 1) and match *rebalance.ValidationError.
func LoadHoldings(r io.Reader) (rebalance.HoldingSet, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	// Field count is checked per row so that a short row reports its
	// record number instead of a bare csv error.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading holdings header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var holdings rebalance.HoldingSet
	for record := 2; ; record++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading holdings record %d: %w", record, err)
		}
		lot, err := parseRow(record, row)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, lot)
	}
	if len(holdings) == 0 {
		return nil, &rebalance.ValidationError{Record: 1, Field: "holdings", Reason: "file contains no holdings"}
	}
	return holdings, nil
}

// LoadHoldingsFile reads a standard-format holdings file from disk.
func LoadHoldingsFile(path string) (rebalance.HoldingSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening holdings file: %w", err)
	}
	defer f.Close()
	holdings, err := LoadHoldings(f)
	if err != nil {
		return nil, fmt.Errorf("loading %q: %w", path, err)
	}
	return holdings, nil
}

func checkHeader(header []string) error {
	if len(header) < len(standardHeader) {
		return &rebalance.ValidationError{Record: 1, Field: "header", Reason: fmt.Sprintf("expected columns %v", standardHeader)}
	}
	for i, want := range standardHeader {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return &rebalance.ValidationError{Record: 1, Field: "header", Reason: fmt.Sprintf("column %d is %q, want %q", i+1, header[i], want)}
		}
	}
	return nil
}

func parseRow(record int, row []string) (rebalance.Lot, error) {
	fail := func(field, reason string) (rebalance.Lot, error) {
		return rebalance.Lot{}, &rebalance.ValidationError{Record: record, Field: field, Reason: reason}
	}
	if len(row) < len(standardHeader) {
		return fail("record", fmt.Sprintf("has %d fields, want %d", len(row), len(standardHeader)))
	}

	shares, err := rebalance.ParseQuantity(strings.TrimSpace(row[1]))
	if err != nil {
		return fail("shares", fmt.Sprintf("%q is not a number", row[1]))
	}
	basis, err := rebalance.ParseMoney(strings.TrimSpace(row[2]), "USD")
	if err != nil {
		return fail("cost_basis", fmt.Sprintf("%q is not an amount", row[2]))
	}
	purchase, err := rebalance.ParseDate(strings.TrimSpace(row[3]))
	if err != nil {
		return fail("purchase_date", fmt.Sprintf("%q is not a YYYY-MM-DD date", row[3]))
	}

	lot, err := rebalance.NewLot(strings.TrimSpace(row[0]), shares, basis, purchase)
	if err != nil {
		var verr *rebalance.ValidationError
		if errors.As(err, &verr) {
			verr.Record = record
			return rebalance.Lot{}, verr
		}
		return rebalance.Lot{}, err
	}
	return lot, nil
}

// WriteHoldings writes holdings in the standard CSV format.
func WriteHoldings(w io.Writer, holdings rebalance.HoldingSet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(standardHeader); err != nil {
		return err
	}
	for _, lot := range holdings {
		row := []string{
			lot.Ticker,
			lot.Shares.String(),
			lot.CostBasis.Plain(),
			lot.PurchaseDate.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTrades writes the trade plan as CSV, in execution order.
func WriteTrades(w io.Writer, trades []rebalance.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ticker", "action", "type", "amount", "tax_impact"}); err != nil {
		return err
	}
	for _, t := range trades {
		row := []string{
			t.Ticker,
			string(t.Action),
			string(t.Type),
			t.Amount.Plain(),
			t.TaxImpact.Plain(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Sample returns a small demonstration portfolio in the standard format,
// for first contact with the tool.
func Sample() string {
	return `ticker,shares,cost_basis,purchase_date
VTI,100,220.00,2023-01-15
VTI,50,195.00,2022-06-20
VXUS,75,58.00,2023-05-10
BND,300,82.00,2023-03-10
BND,100,78.50,2024-08-05
`
}
