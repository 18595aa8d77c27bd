package rebalance

import "fmt"

// The engine reports failures with typed errors so callers can match them
// with errors.As. It never retries and never substitutes defaults for
// missing required inputs: a bad record or an absent price aborts the run.

// ValidationError reports a malformed or missing holdings field.
type ValidationError struct {
	Record int    // 1-based record number in the input, 0 when unknown
	Field  string // offending field name
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Record > 0 {
		return fmt.Sprintf("invalid holding record %d: field %q: %s", e.Record, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid holding: field %q: %s", e.Field, e.Reason)
}

// MissingPriceError reports a held ticker absent from the price map.
// Valuation aborts entirely rather than letting a zeroed value skew the
// downstream weight computations.
type MissingPriceError struct {
	Ticker string
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("no price for held ticker %s", e.Ticker)
}

// ZeroPortfolioError reports that the total portfolio value is zero at
// trade-generation time. Allocation and harvesting results do not divide
// by the total in every branch and remain usable; only the trade plan is
// aborted.
type ZeroPortfolioError struct{}

func (e *ZeroPortfolioError) Error() string {
	return "total portfolio value is zero: cannot size trades"
}

// ConfigurationError reports a malformed target allocation or option.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.Key, e.Reason)
}
