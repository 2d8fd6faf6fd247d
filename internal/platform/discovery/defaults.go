// Package discovery holds the in-network naming convention for Stakes.Space
// services: each service is reachable at "<service>:<port>" with a fixed port
// per protocol.
package discovery

import (
	"strconv"
	"strings"
)

// Service identities.
const (
	// ServiceLedger serves the GoalService over gRPC and Prometheus metrics over HTTP.
	ServiceLedger = "ledger"
	// ServiceMCP serves the streamable HTTP MCP endpoint.
	ServiceMCP = "mcp"
)

// Protocol selects which of a service's ports to use.
type Protocol int

const (
	GRPC Protocol = iota
	HTTP
)

func (p Protocol) String() string {
	switch p {
	case GRPC:
		return "grpc"
	case HTTP:
		return "http"
	default:
		return "unknown"
	}
}

type ports struct {
	grpc int
	http int
}

var registry = map[string]ports{
	ServiceLedger: {grpc: 8082, http: 9092},
	ServiceMCP:    {http: 8085},
}

// Port returns the conventional port of service for p, or false when the
// service does not expose that protocol.
func Port(service string, p Protocol) (int, bool) {
	entry, ok := registry[strings.TrimSpace(service)]
	if !ok {
		return 0, false
	}
	var port int
	switch p {
	case GRPC:
		port = entry.grpc
	case HTTP:
		port = entry.http
	}
	return port, port > 0
}

// Addr returns the in-network dial address for service, or "" when unknown.
func Addr(service string, p Protocol) string {
	port, ok := Port(service, p)
	if !ok {
		return ""
	}
	return strings.TrimSpace(service) + ":" + strconv.Itoa(port)
}

// ListenAddr returns ":<port>" for binding service's own listener.
func ListenAddr(service string, p Protocol) string {
	port, ok := Port(service, p)
	if !ok {
		return ""
	}
	return ":" + strconv.Itoa(port)
}

// OrDefault returns value trimmed when set, otherwise Addr(service, p).
func OrDefault(value, service string, p Protocol) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return Addr(service, p)
}
