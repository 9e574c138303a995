// Package models defines the core domain models for Settleup.
//
// # Models
//
//   - User: Registered account that can belong to groups
//   - Group: A set of members sharing expenses, joinable by invite token
//   - Member: A user's membership in a group (the roster entry)
//   - Expense: An amount paid by one member, apportioned by Splits
//   - Settlement: A direct payment already made between two members
//
// # Money
//
// Every amount is a decimal.Decimal. Amounts never pass through float64,
// neither in memory nor in storage (SQLite stores them as TEXT).
//
// # Design Principles
//
//  1. Relationships are ID strings, never pointers
//  2. Computed values (balances, transfer plans) live in the calculator
//     package and are never stored
package models
