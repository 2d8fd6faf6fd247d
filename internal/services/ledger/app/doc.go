// Package server hosts the ledger gRPC server.
//
// It opens the SQLite store, bootstraps ledger settings, registers the
// configured verification predicates and serves GoalService next to a health
// service and a Prometheus metrics endpoint.
package server
