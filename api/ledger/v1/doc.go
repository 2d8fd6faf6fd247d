// Package ledgerv1 defines the ledger.v1.GoalService wire contract: request and
// response messages, the gRPC service descriptor and a typed client.
//
// Messages travel with the "json" content subtype. The codec is registered on
// import, so servers serve it once this package is linked and clients select
// it through CallOptions.
package ledgerv1
