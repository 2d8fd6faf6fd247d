// Package migrations contains embedded SQL migrations for the ledger store.
package migrations

import "embed"

// LedgerFS holds the ledger schema under ledger/.
//
//go:embed ledger/*.sql
var LedgerFS embed.FS
