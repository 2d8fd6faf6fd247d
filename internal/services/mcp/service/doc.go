// Package service hosts the MCP server that exposes the goal ledger as tools
// and resources over stdio or streamable HTTP.
package service
