// Package sqlite implements the ledger storage contracts on SQLite.
//
// Write transactions begin IMMEDIATE so concurrent writers serialize at the
// database as well as in the service. Amounts are stored as INTEGER and are
// bounded by escrow.MaxAmount before they reach this layer.
package sqlite
