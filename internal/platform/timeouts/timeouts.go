// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// GRPCDial caps the wait time when dialing the ledger gRPC server.
const GRPCDial = 2 * time.Second

// GRPCRequest caps the time allowed for a single ledger call issued by the
// MCP bridge.
const GRPCRequest = 5 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long servers wait for in-flight requests during
// graceful shutdown.
const Shutdown = 5 * time.Second

// StoreBusy is the SQLite busy timeout applied to ledger databases.
const StoreBusy = 5 * time.Second
