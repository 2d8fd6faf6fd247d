// Package metadata defines the gRPC headers the ledger reads from callers.
//
//   - CallerHeader: the account an operation acts as.
//   - RequestIDHeader: correlates journal events and logs across calls.
//   - LocaleHeader: selects the catalog used for error messages.
//
// The server interceptor copies these into requestctx so handlers and the
// goal ledger never read transport metadata directly.
package metadata
