// Package ledger serves ledger.v1.GoalService over the goal ledger.
//
// Handlers validate request shape, read the caller placed in context by the
// metadata interceptor, call the goal ledger and translate domain errors into
// localized gRPC statuses.
package ledger
