package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/louisbranch/stakes.space/internal/platform/timeouts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// mcpPath is where the streamable HTTP handler is mounted.
const mcpPath = "/mcp"

// healthCheckInterval is how often the ledger connection is probed while
// the HTTP transport runs.
const healthCheckInterval = 30 * time.Second

var listenTCP = net.Listen

// httpTransport serves one MCP server over streamable HTTP.
type httpTransport struct {
	addr   string
	server *mcp.Server
}

func newHTTPTransport(addr string, server *mcp.Server) *httpTransport {
	return &httpTransport{addr: addr, server: server}
}

func (t *httpTransport) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(mcpPath, mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return t.server
	}, nil))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// Start listens on the configured address and blocks until ctx ends.
func (t *httpTransport) Start(ctx context.Context) error {
	listener, err := listenTCP("tcp", t.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", t.addr, err)
	}
	return t.serve(ctx, listener)
}

func (t *httpTransport) serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           t.handler(),
		ReadHeaderTimeout: timeouts.ReadHeader,
	}
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("MCP HTTP listening at %s%s", listener.Addr(), mcpPath)
		serveErr <- httpServer.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve MCP HTTP: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			// Streaming sessions may outlive the grace period.
			log.Printf("MCP HTTP shutdown: %v", err)
			if closeErr := httpServer.Close(); closeErr != nil {
				return fmt.Errorf("close MCP HTTP: %w", closeErr)
			}
		}
		return nil
	}
}

// monitorHealth logs ledger health failures without stopping the HTTP
// transport; individual tool calls report their own errors.
func monitorHealth(ctx context.Context, conn *grpc.ClientConn) {
	ticker := time.NewTicker(healthCheckInterval)
	defer ticker.Stop()
	healthClient := grpc_health_v1.NewHealthClient(conn)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			callCtx, cancel := context.WithTimeout(ctx, timeouts.GRPCRequest)
			response, err := healthClient.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: ""})
			cancel()
			if err != nil {
				log.Printf("ledger health check failed: %v", err)
			} else if response.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
				log.Printf("ledger health check status: %s", response.GetStatus().String())
			}
		}
	}
}
