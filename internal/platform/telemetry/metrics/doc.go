// Package metrics provides Prometheus collectors for Stakes.Space binaries.
//
// # gRPC Interceptor
//
// The unary interceptor records, per full method name:
//   - request count by status code
//   - request latency
//
// # Ledger Metrics
//
// Ledger records settlement outcomes, paid out amounts by payout reason and
// rejected operations by error code.
//
// Collectors register against a caller-supplied prometheus.Registerer so tests
// can use a fresh registry. Registering twice reuses the existing collectors.
package metrics
