package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/duskwall/internal/core/dice"
	"github.com/louisbranch/duskwall/internal/services/mcp/domain"
	"github.com/louisbranch/duskwall/internal/services/table/app"
	"github.com/louisbranch/duskwall/internal/services/table/storage/memory"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var testNow = time.Date(2026, time.March, 5, 19, 30, 0, 0, time.UTC)

func newTestTable(t *testing.T, values ...int) *app.Service {
	t.Helper()

	src, err := dice.NewCyclingSource(values...)
	if err != nil {
		t.Fatalf("cycling source: %v", err)
	}
	var next int
	var mu sync.Mutex
	table, err := app.New(memory.New(), src,
		app.WithNow(func() time.Time { return testNow }),
		app.WithIDGenerator(func() (string, error) {
			mu.Lock()
			defer mu.Unlock()
			next++
			return fmt.Sprintf("id-%d", next), nil
		}),
	)
	if err != nil {
		t.Fatalf("new table: %v", err)
	}
	return table
}

// connectClient serves server over in-memory transports and returns a
// connected client session.
func connectClient(t *testing.T, server *Server) *mcp.ClientSession {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.serveWithTransport(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	clientCtx, clientCancel := context.WithTimeout(context.Background(), time.Second)
	defer clientCancel()
	session, err := client.Connect(clientCtx, clientTransport, nil)
	if err != nil {
		cancel()
		t.Fatalf("connect client: %v", err)
	}
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		select {
		case <-serveErr:
		case <-time.After(2 * time.Second):
			t.Error("server did not stop after cancel")
		}
	})
	return session
}

func decodeStructured(t *testing.T, result *mcp.CallToolResult, target any) {
	t.Helper()
	data, err := json.Marshal(result.StructuredContent)
	if err != nil {
		t.Fatalf("marshal structured content: %v", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		t.Fatalf("unmarshal structured content: %v", err)
	}
}

func toolText(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func TestNewRequiresTable(t *testing.T) {
	if _, err := New(nil, Config{}); err == nil {
		t.Fatal("expected error")
	}
}

func TestServeRequiresConfiguredServer(t *testing.T) {
	tests := []struct {
		name   string
		server *Server
	}{
		{name: "nil server", server: nil},
		{name: "missing mcp server", server: &Server{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.server.Serve(context.Background()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRunRejectsUnknownTransport(t *testing.T) {
	err := Run(context.Background(), newTestTable(t, 1), Config{Transport: "carrier-pigeon"})
	if err == nil || !strings.Contains(err.Error(), "carrier-pigeon") {
		t.Fatalf("expected unsupported transport error, got %v", err)
	}
}

func TestAddMCPToolRejectsUnknownHandler(t *testing.T) {
	server := mcp.NewServer(&mcp.Implementation{Name: "test", Version: "v0"}, nil)
	err := addMCPTool(server, &mcp.Tool{Name: "mystery"}, func() {})
	if err == nil || !strings.Contains(err.Error(), "mystery") {
		t.Fatalf("expected unsupported handler error, got %v", err)
	}
}

type recordingTarget struct {
	tools     []string
	resources []string
	templates []string
	failOn    string
}

func (r *recordingTarget) AddTool(tool *mcp.Tool, _ any) error {
	if tool.Name == r.failOn {
		return errors.New("boom")
	}
	r.tools = append(r.tools, tool.Name)
	return nil
}

func (r *recordingTarget) AddResourceTemplate(template *mcp.ResourceTemplate, _ mcp.ResourceHandler) {
	r.templates = append(r.templates, template.URITemplate)
}

func (r *recordingTarget) AddResource(resource *mcp.Resource, _ mcp.ResourceHandler) {
	r.resources = append(r.resources, resource.URI)
}

func TestRegistrationModules(t *testing.T) {
	table := newTestTable(t, 1)
	target := &recordingTarget{}
	for _, module := range newMCPRegistrationModules(table, domain.NewLocalizer(""), func() (int64, error) { return 1, nil }, nil) {
		if err := module.register(target); err != nil {
			t.Fatalf("register %s: %v", module.name, err)
		}
	}
	if len(target.tools) != 22 {
		t.Fatalf("expected 22 tools, got %d: %v", len(target.tools), target.tools)
	}
	wantResources := []string{domain.CharactersResourceURI, domain.ClocksResourceURI, domain.JournalResourceURI}
	if strings.Join(target.resources, ",") != strings.Join(wantResources, ",") {
		t.Fatalf("resources = %v, want %v", target.resources, wantResources)
	}
	if len(target.templates) != 1 || target.templates[0] != "table://characters/{character_id}" {
		t.Fatalf("templates = %v", target.templates)
	}
}

func TestRegistrationModuleStopsOnError(t *testing.T) {
	target := &recordingTarget{failOn: "stress_apply"}
	err := registerCharacterTools(target, newTestTable(t, 1), domain.NewLocalizer(""), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, name := range target.tools {
		if name == "harm_apply" {
			t.Fatal("registration continued past failure")
		}
	}
}

func TestServerListsTools(t *testing.T) {
	server, err := New(newTestTable(t, 4), Config{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	session := connectClient(t, server)

	result, err := session.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("list tools: %v", err)
	}
	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	for _, want := range []string{"action_roll", "character_create", "clock_tick", "consequence_apply", "journal_list", "resistance_roll", "roll_dice"} {
		idx := sort.SearchStrings(names, want)
		if idx >= len(names) || names[idx] != want {
			t.Fatalf("tool %q missing from %v", want, names)
		}
	}
}

func TestServerCallsActionRoll(t *testing.T) {
	server, err := New(newTestTable(t, 6, 6), Config{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	session := connectClient(t, server)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "action_roll",
		Arguments: map[string]any{
			"dice":     2,
			"position": "risky",
			"effect":   "standard",
		},
	})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", toolText(result))
	}
	var roll domain.ActionRollResult
	decodeStructured(t, result, &roll)
	if roll.Degree != "Critical" || !roll.Critical || roll.Value != 6 {
		t.Fatalf("unexpected roll %+v", roll)
	}
}

func TestServerReportsLocalizedToolErrors(t *testing.T) {
	server, err := New(newTestTable(t, 3), Config{Locale: "pt-BR"})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	session := connectClient(t, server)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "character_get",
		Arguments: map[string]any{"character_id": "ghost"},
	})
	if err != nil {
		t.Fatalf("call tool: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if text := toolText(result); !strings.Contains(text, "ghost não encontrado") {
		t.Fatalf("expected localized message, got %q", text)
	}
}

func TestServerReadsResources(t *testing.T) {
	server, err := New(newTestTable(t, 3), Config{})
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	session := connectClient(t, server)
	ctx := context.Background()

	created, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "character_create",
		Arguments: map[string]any{"name": "Arlo"},
	})
	if err != nil || created.IsError {
		t.Fatalf("create character: err=%v result=%s", err, toolText(created))
	}
	var character domain.CharacterResult
	decodeStructured(t, created, &character)

	read, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: domain.CharacterResourceURI(character.ID)})
	if err != nil {
		t.Fatalf("read resource: %v", err)
	}
	if len(read.Contents) != 1 || !strings.Contains(read.Contents[0].Text, `"name": "Arlo"`) {
		t.Fatalf("unexpected resource contents %+v", read.Contents)
	}

	list, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: domain.CharactersResourceURI})
	if err != nil {
		t.Fatalf("read list resource: %v", err)
	}
	if !strings.Contains(list.Contents[0].Text, character.ID) {
		t.Fatalf("character list missing %s: %s", character.ID, list.Contents[0].Text)
	}

	if _, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: domain.CharacterResourceURI("ghost")}); err == nil {
		t.Fatal("expected not found error")
	}
}

func TestResourceSubscriptionHandlers(t *testing.T) {
	if err := resourceSubscribeHandler(context.Background(), &mcp.SubscribeRequest{Params: &mcp.SubscribeParams{URI: " "}}); err == nil {
		t.Fatal("expected subscribe error for blank uri")
	}
	if err := resourceSubscribeHandler(context.Background(), &mcp.SubscribeRequest{Params: &mcp.SubscribeParams{URI: domain.ClocksResourceURI}}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if err := resourceUnsubscribeHandler(context.Background(), nil); err == nil {
		t.Fatal("expected unsubscribe error for nil request")
	}
}
