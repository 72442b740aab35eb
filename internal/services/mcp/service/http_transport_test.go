package service

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "localhost:8081", want: "localhost", ok: true},
		{in: "example.com", want: "example.com", ok: true},
		{in: "[::1]:8081", want: "::1", ok: true},
		{in: "[::1]", want: "::1", ok: true},
		{in: "::1", want: "::1", ok: true},
		{in: "[::1", ok: false},
		{in: "  ", ok: false},
	}

	for _, tt := range tests {
		got, ok := normalizeHost(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("normalizeHost(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIsLoopbackHost(t *testing.T) {
	for _, host := range []string{"localhost", "LOCALHOST", "127.0.0.1", "::1"} {
		if !isLoopbackHost(host) {
			t.Fatalf("expected %q to be loopback", host)
		}
	}
	for _, host := range []string{"example.com", "10.0.0.1", ""} {
		if isLoopbackHost(host) {
			t.Fatalf("expected %q not to be loopback", host)
		}
	}
}

func TestValidateLocalRequest(t *testing.T) {
	transport := NewHTTPTransport("", nil, []string{" Table.Example ", ""})

	tests := []struct {
		name    string
		host    string
		origin  string
		wantErr bool
	}{
		{name: "loopback", host: "localhost:8081"},
		{name: "allowed host", host: "table.example:8081"},
		{name: "unknown host", host: "evil.example", wantErr: true},
		{name: "loopback origin", host: "localhost:8081", origin: "http://127.0.0.1:3000"},
		{name: "foreign origin", host: "localhost:8081", origin: "http://evil.example", wantErr: true},
		{name: "bad origin", host: "localhost:8081", origin: "not a url", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/mcp/health", nil)
			req.Host = tt.host
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			err := transport.validateLocalRequest(req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateLocalRequest err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	handler := NewHTTPTransport("", mcp.NewServer(&mcp.Implementation{Name: "test", Version: "v0"}, nil), nil).Handler()

	tests := []struct {
		name   string
		method string
		host   string
		status int
	}{
		{name: "ok", method: http.MethodGet, host: "localhost", status: http.StatusOK},
		{name: "wrong method", method: http.MethodPost, host: "localhost", status: http.StatusMethodNotAllowed},
		{name: "foreign host", method: http.MethodGet, host: "evil.example", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/mcp/health", nil)
			req.Host = tt.host
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusOK && rec.Body.String() != "OK" {
				t.Fatalf("body = %q", rec.Body.String())
			}
		})
	}
}

func TestMCPEndpointRejectsForeignHost(t *testing.T) {
	handler := NewHTTPTransport("", mcp.NewServer(&mcp.Implementation{Name: "test", Version: "v0"}, nil), nil).Handler()

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{}`))
	req.Host = "evil.example"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestHTTPTransportServesStreamableClient(t *testing.T) {
	server, err := New(newTestTable(t, 4), Config{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	httpServer := httptest.NewServer(NewHTTPTransport("", server.mcpServer, nil).Handler())
	defer httpServer.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: httpServer.URL + "/mcp"}, nil)
	if err != nil {
		t.Fatalf("connect client: %v", err)
	}
	defer session.Close()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "rules_version", Arguments: map[string]any{}})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(result))
	}
}

func TestStartRequiresServer(t *testing.T) {
	if err := NewHTTPTransport("", nil, nil).Start(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestStartReportsListenError(t *testing.T) {
	original := listenTCP
	t.Cleanup(func() { listenTCP = original })
	listenTCP = func(string, string) (net.Listener, error) {
		return nil, errors.New("address in use")
	}

	transport := NewHTTPTransport("localhost:0", mcp.NewServer(&mcp.Implementation{Name: "test", Version: "v0"}, nil), nil)
	err := transport.Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "address in use") {
		t.Fatalf("expected listen error, got %v", err)
	}
}

func TestStartStopsOnContext(t *testing.T) {
	transport := NewHTTPTransport("127.0.0.1:0", mcp.NewServer(&mcp.Implementation{Name: "test", Version: "v0"}, nil), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- transport.Start(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("start returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("transport did not stop after cancel")
	}
}
