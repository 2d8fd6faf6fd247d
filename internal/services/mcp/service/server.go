package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"sync/atomic"

	ledgerv1 "github.com/louisbranch/stakes.space/api/ledger/v1"
	"github.com/louisbranch/stakes.space/internal/platform/branding"
	"github.com/louisbranch/stakes.space/internal/platform/discovery"
	platformgrpc "github.com/louisbranch/stakes.space/internal/platform/grpc"
	"github.com/louisbranch/stakes.space/internal/platform/timeouts"
	"github.com/louisbranch/stakes.space/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/grpc"
)

// serverName identifies this MCP server to clients.
var serverName = branding.ComponentName("MCP")

// TransportKind identifies the MCP transport implementation.
type TransportKind string

const (
	// TransportStdio uses standard input/output for MCP.
	TransportStdio TransportKind = "stdio"
	// TransportHTTP serves MCP over streamable HTTP.
	TransportHTTP TransportKind = "http"
)

// Config configures the MCP server.
type Config struct {
	LedgerAddr string
	Transport  TransportKind
	HTTPAddr   string
}

// Server is one MCP server bound to a ledger client. The session caller set by
// set_context is shared by every tool on the server.
type Server struct {
	mcpServer *mcp.Server
	conn      io.Closer
	caller    atomic.Pointer[domain.Context]

	closeOnce sync.Once
	closeErr  error
}

// newServer registers every tool and resource module against client. conn is
// closed by Close and may be nil.
func newServer(client domain.LedgerClient, conn io.Closer) (*Server, error) {
	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: branding.Version}, &mcp.ServerOptions{
		SubscribeHandler: func(_ context.Context, req *mcp.SubscribeRequest) error {
			if req == nil || req.Params == nil {
				return errResourceURIRequired
			}
			return requireResourceURI(req.Params.URI)
		},
		UnsubscribeHandler: func(_ context.Context, req *mcp.UnsubscribeRequest) error {
			if req == nil || req.Params == nil {
				return errResourceURIRequired
			}
			return requireResourceURI(req.Params.URI)
		},
	})
	server := &Server{mcpServer: mcpServer, conn: conn}

	for _, module := range newRegistrationModules(server, client, server.resourceUpdated) {
		if err := module.register(registrationAdapter{server: mcpServer}); err != nil {
			return nil, fmt.Errorf("register MCP module %q: %w", module.name, err)
		}
	}
	return server, nil
}

var errResourceURIRequired = errors.New("resource uri is required")

func requireResourceURI(uri string) error {
	if strings.TrimSpace(uri) == "" {
		return errResourceURIRequired
	}
	return nil
}

// resourceUpdated notifies subscribers; failures are logged and never fail
// the tool call that caused them.
func (s *Server) resourceUpdated(ctx context.Context, uri string) {
	if requireResourceURI(uri) != nil {
		return
	}
	params := &mcp.ResourceUpdatedNotificationParams{URI: uri}
	if err := s.mcpServer.ResourceUpdated(ctx, params); err != nil {
		log.Printf("notify %s updated: %v", uri, err)
	}
}

// Run connects to the ledger and serves MCP on cfg.Transport until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	switch cfg.Transport {
	case "", TransportStdio:
		return runWithTransport(ctx, cfg.LedgerAddr, &mcp.StdioTransport{})
	case TransportHTTP:
		return runWithHTTPTransport(ctx, cfg)
	}
	return fmt.Errorf("transport %q is not supported", cfg.Transport)
}

// runWithTransport serves one session over transport. The stdio and
// in-memory transports end when the peer disconnects or ctx ends.
func runWithTransport(ctx context.Context, ledgerAddr string, transport mcp.Transport) error {
	server, err := connectLedger(ctx, ledgerAddr)
	if err != nil {
		return err
	}
	return server.serveWithTransport(ctx, transport)
}

func runWithHTTPTransport(ctx context.Context, cfg Config) error {
	server, err := connectLedger(ctx, cfg.LedgerAddr)
	if err != nil {
		return err
	}
	defer server.Close()

	if conn, ok := server.conn.(*grpc.ClientConn); ok {
		monitorCtx, stopMonitor := context.WithCancel(ctx)
		defer stopMonitor()
		go monitorHealth(monitorCtx, conn)
	}
	addr := discovery.OrDefault(cfg.HTTPAddr, discovery.ServiceMCP, discovery.HTTP)
	return newHTTPTransport(addr, server.mcpServer).Start(ctx)
}

// connectLedger waits for the ledger to report SERVING and builds a server
// around the connection.
func connectLedger(ctx context.Context, ledgerAddr string) (*Server, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	addr := discovery.OrDefault(ledgerAddr, discovery.ServiceLedger, discovery.GRPC)
	logf := func(format string, args ...any) {
		log.Printf("ledger %s: %s", addr, fmt.Sprintf(format, args...))
	}
	conn, err := platformgrpc.DialWithHealth(ctx, nil, addr, timeouts.GRPCDial, logf, platformgrpc.DefaultClientDialOptions()...)
	if err != nil {
		var dialErr *platformgrpc.DialError
		if errors.As(err, &dialErr) && dialErr.Stage == platformgrpc.DialStageHealth {
			return nil, fmt.Errorf("ledger at %s is not serving: %w", addr, dialErr.Err)
		}
		return nil, fmt.Errorf("connect to ledger at %s: %w", addr, err)
	}
	server, err := newServer(ledgerv1.NewGoalServiceClient(conn), conn)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return server, nil
}

// Close releases the ledger connection. Later calls return the first result.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	s.closeOnce.Do(func() {
		if s.conn != nil {
			s.closeErr = s.conn.Close()
		}
	})
	return s.closeErr
}

func (s *Server) setContext(ctx domain.Context) {
	s.caller.Store(&ctx)
}

func (s *Server) getContext() domain.Context {
	if current := s.caller.Load(); current != nil {
		return *current
	}
	return domain.Context{}
}

// serveWithTransport runs the MCP session and always closes the ledger
// connection afterwards. Cancellation is a clean stop.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return errors.New("MCP server is not configured")
	}
	serveErr := s.mcpServer.Run(ctx, transport)
	if errors.Is(serveErr, context.Canceled) || errors.Is(serveErr, context.DeadlineExceeded) {
		serveErr = nil
	}
	if serveErr != nil {
		serveErr = fmt.Errorf("serve MCP: %w", serveErr)
	}
	if closeErr := s.Close(); closeErr != nil {
		return errors.Join(serveErr, fmt.Errorf("close ledger connection: %w", closeErr))
	}
	return serveErr
}
