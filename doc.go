// Package rebalance implements a tax-aware portfolio rebalancing engine.
//
// The engine is a pure batch pipeline: it consumes an in-memory set of tax
// lots, a price map and a target allocation, and produces a drift analysis,
// a ranked list of tax-loss-harvesting opportunities and an ordered,
// tax-aware trade plan. All I/O (CSV import, price fetching, rendering,
// persistence) lives in the surrounding packages; the engine itself never
// touches the filesystem or the network, so a run is a deterministic
// function of its inputs and the evaluation date.
package rebalance
