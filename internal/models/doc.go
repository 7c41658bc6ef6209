// Package models defines the core domain models for splitledger.
//
// # Models
//
//   - Participant: a person on an owner's roster, carrying a running balance.
//     Exactly one participant per owner is the self participant (the acting user).
//   - Expense: a shared cost split evenly across a set of participants.
//   - Category: the closed set of expense categories.
//   - User: a registered account; its ID is the owner ID of a roster.
//
// # Conventions
//
//  1. Relationships use ID strings, never pointers.
//  2. Timestamps are Unix seconds.
//  3. Balances are signed: negative means the participant owes, positive means
//     the participant is owed.
package models
