package rebalance

import (
	"math"
	"slices"
	"strings"
)

// Action is the direction of a recommended trade.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// TradeType classifies a recommended trade.
type TradeType string

const (
	// Liquidate fully exits a position whose target weight is zero.
	Liquidate TradeType = "LIQUIDATE"
	// NewPosition opens (or effectively opens) a position currently under
	// 1% of the portfolio.
	NewPosition TradeType = "NEW_POSITION"
	// Adjust resizes an existing position toward its target.
	Adjust TradeType = "ADJUST"
)

// rank orders trade types in execution order: raise cash from
// liquidations first, then adjustments, then commit to new positions.
func (t TradeType) rank() int {
	switch t {
	case Liquidate:
		return 0
	case Adjust:
		return 1
	case NewPosition:
		return 2
	}
	return 3
}

// Trade is one recommended BUY/SELL instruction.
type Trade struct {
	Ticker string
	Action Action
	Type   TradeType
	Amount Money // dollar amount, never negative
	// TaxImpact estimates the tax cost of the sell leg. It is zero for
	// buys, and never positive for loss-realizing sells.
	TaxImpact  Money
	NetBenefit Money // Amount - TaxImpact
	// Snapshot of the allocation row that produced the trade.
	CurrentWeight float64
	TargetWeight  float64
	Drift         Percent
	DriftDefined  bool
}

const (
	// driftEpsilon is the minimum absolute weight difference (0.1% of the
	// portfolio) that triggers a trade.
	driftEpsilon = 0.001
	// newPositionWeight is the current weight under which a position is
	// treated as effectively not held.
	newPositionWeight = 0.01
	// longTermDiscount scales the tax rate for long-term holdings.
	longTermDiscount = 0.6
)

// GenerateTrades turns the drift analysis into a tax-aware, ordered list
// of trades.
//
// A trade is emitted when the absolute weight difference exceeds
// driftEpsilon, or unconditionally when the target weight is zero:
// "target zero" is a binary exit signal, not a drift signal.
//
// The tax impact of a gain-realizing sell is an approximation, not a
// per-lot computation: shares are assumed sold from the
// highest-cost-basis lots first (minimizing realized gain), and the
// realized gain is a proportional share of the ticker's aggregate
// unrealized gain. The long-term discount applies when the reference
// (highest basis) lot is long-term-held.
//
// Trades are ordered liquidations first, then adjustments, then new
// positions; sells before buys within a tier; largest amounts first.
//
// When the total portfolio value is zero the generator fails with a
// ZeroPortfolioError instead of producing unsized trades.
func GenerateTrades(rows []AllocationRow, valued []ValuedLot, total Money, taxRate float64) ([]Trade, error) {
	if !total.IsPositive() {
		return nil, &ZeroPortfolioError{}
	}

	var trades []Trade
	for _, row := range rows {
		if math.Abs(row.WeightDiff) <= driftEpsilon && row.TargetWeight != 0 {
			continue
		}

		dollarChange := total.Mul(Q(row.TargetWeight)).Sub(row.Value)
		action := Sell
		if dollarChange.IsPositive() {
			action = Buy
		}

		trade := Trade{
			Ticker:        row.Ticker,
			Action:        action,
			Amount:        dollarChange.Abs(),
			CurrentWeight: row.CurrentWeight,
			TargetWeight:  row.TargetWeight,
			Drift:         row.Drift,
			DriftDefined:  row.DriftDefined,
		}

		switch {
		case row.TargetWeight == 0:
			trade.Type = Liquidate
		case row.CurrentWeight < newPositionWeight:
			trade.Type = NewPosition
		default:
			trade.Type = Adjust
		}

		if action == Sell && row.Gain.IsPositive() {
			trade.TaxImpact = estimateSellTax(valued, row.Ticker, row.Gain, trade.Amount, taxRate)
		}
		trade.NetBenefit = trade.Amount.Sub(trade.TaxImpact)

		trades = append(trades, trade)
	}

	slices.SortFunc(trades, func(a, b Trade) int {
		if ra, rb := a.Type.rank(), b.Type.rank(); ra != rb {
			return ra - rb
		}
		if a.Action != b.Action {
			if a.Action == Sell {
				return -1
			}
			return 1
		}
		if !a.Amount.Equal(b.Amount) {
			if a.Amount.GreaterThan(b.Amount) {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})
	return trades, nil
}

// estimateSellTax approximates the tax cost of selling 'amount' of a
// ticker with a positive aggregate unrealized gain.
func estimateSellTax(valued []ValuedLot, ticker string, aggregateGain, amount Money, taxRate float64) Money {
	// Collect the ticker's lots, highest cost basis first.
	var lots []ValuedLot
	for _, lot := range valued {
		if lot.Ticker == ticker {
			lots = append(lots, lot)
		}
	}
	if len(lots) == 0 {
		return Money{}
	}
	slices.SortFunc(lots, func(a, b ValuedLot) int {
		if a.CostBasis.Equal(b.CostBasis) {
			return 0
		}
		if a.CostBasis.GreaterThan(b.CostBasis) {
			return -1
		}
		return 1
	})

	sharesToSell := amount.DivPrice(lots[0].Price)
	if !sharesToSell.IsPositive() {
		return Money{}
	}
	var totalShares Quantity
	for _, lot := range lots {
		totalShares = totalShares.Add(lot.Shares)
	}
	if sharesToSell.GreaterThan(totalShares) {
		// The requested sale exceeds the position; no sensible estimate.
		return Money{}
	}

	gainPerShare := aggregateGain.Div(totalShares)
	realizedGain := gainPerShare.Mul(sharesToSell)

	rate := taxRate
	if lots[0].LongTerm {
		rate *= longTermDiscount
	}
	return realizedGain.Mul(Q(rate))
}
