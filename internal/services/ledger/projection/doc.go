// Package projection folds journal events into the ledger read models.
//
// The applier runs inside the same transaction that appended the event, so
// read models never drift from the journal. Money movement happens here:
// escrow locks debit the author, payouts and funding credit balances, and
// every movement is checked against the supported amount range.
package projection
