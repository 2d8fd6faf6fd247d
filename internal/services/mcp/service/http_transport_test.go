package service

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestHTTPTransportServesTools(t *testing.T) {
	server, err := newServer(nil, nil)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- newHTTPTransport(listener.Addr().String(), server.mcpServer).serve(ctx, listener)
	}()
	base := "http://" + listener.Addr().String()

	resp, err := http.Get(base + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("healthz status = %d", resp.StatusCode)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	callCtx, callCancel := context.WithTimeout(ctx, 5*time.Second)
	defer callCancel()
	session, err := client.Connect(callCtx, &mcp.StreamableClientTransport{Endpoint: base + mcpPath}, nil)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	tools, err := session.ListTools(callCtx, nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	if len(tools.Tools) != len(toolRegistrars) {
		t.Fatalf("tools = %d, want %d", len(tools.Tools), len(toolRegistrars))
	}
	_ = session.Close()

	cancel()
	select {
	case err := <-serveErr:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("HTTP transport did not stop")
	}
}
