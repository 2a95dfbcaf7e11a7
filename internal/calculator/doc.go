// Package calculator is the ledger's balance and settlement engine.
//
// Every function here is pure: it receives an explicit Snapshot (project,
// member roles, transactions) and returns plain values. Nothing is cached
// between calls, so the same snapshot can be evaluated concurrently by the
// dashboard, settlement and reporting paths.
//
// Amounts are kept as full-precision float64 in the reporting currency
// through aggregation. Rounding happens only in RoundMoney (display) and in
// Validate (split tolerance).
package calculator
