// Package models defines the core domain models for the ledger.
//
// # Models
//
//   - Participant: a person who pays for or shares in expenses
//   - Expense: a single payment with one payer split equally among participants
//   - Settlement: a suggested transfer between two participants (derived, never stored)
//
// # Design Principles
//
// 1. **Ids, not pointers**: expenses reference participants by ID string
// 2. **Exact money**: amounts are shopspring decimals, never float64
// 3. **Derived data stays derived**: balances and settlements are recomputed, not persisted
package models
