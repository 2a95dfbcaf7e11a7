// Package models defines the core domain models for the shared ledger.
//
// # Models
//
//   - Transaction: one shared expense or a settlement repayment
//   - Project: a ledger scope with its own exchange rates and public/private flag
//   - Member: a user's role (host or guest) inside a project
//   - User: a registered account
//   - Category: reporting label with a display color
//   - Subscription: a recurring charge that materializes into transactions
//
// # Design Principles
//
//  1. Amounts are float64 in the transaction's own currency; conversion to the
//     reporting currency (TWD) happens in the calculator, never at rest.
//  2. Relationships use ID strings instead of pointers.
//  3. Models carry no behavior beyond small lookups; ledger math lives in
//     internal/calculator.
package models
