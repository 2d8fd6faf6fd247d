// Package domain maps MCP tool and resource calls onto the ledger gRPC API.
//
// Tools act on behalf of a caller account. The caller comes from the tool
// input when present, otherwise from the session context set by set_context.
package domain
