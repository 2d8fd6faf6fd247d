// Package goalledger orchestrates the goal settlement engine.
//
// Every mutating operation runs under one service-wide mutex inside one
// storage transaction: settings are read, deciders are consulted against
// projected state, and the accepted events are journaled and projected
// before commit. A rejection or a failed projection rolls back the whole
// operation.
package goalledger
