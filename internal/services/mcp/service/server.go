package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/louisbranch/duskwall/internal/platform/branding"
	"github.com/louisbranch/duskwall/internal/random"
	"github.com/louisbranch/duskwall/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// serverVersion identifies the MCP server version.
const serverVersion = "0.1.0"

type mcpRegistrationKind int

const (
	mcpRegistrationKindTools mcpRegistrationKind = iota
	mcpRegistrationKindResources
)

type mcpRegistrationModule struct {
	name     string
	kind     mcpRegistrationKind
	register func(mcpRegistrationTarget) error
}

const (
	mcpRollToolsModuleName        = "roll-tools"
	mcpCharacterToolsModuleName   = "character-tools"
	mcpClockToolsModuleName       = "clock-tools"
	mcpJournalToolsModuleName     = "journal-tools"
	mcpTableResourcesModuleName   = "table-resources"
	mcpJournalResourcesModuleName = "journal-resources"
)

type mcpServerRegistrationAdapter struct {
	server *mcp.Server
}

func (r mcpServerRegistrationAdapter) AddTool(tool *mcp.Tool, handler any) error {
	return addMCPTool(r.server, tool, handler)
}

func (r mcpServerRegistrationAdapter) AddResourceTemplate(resourceTemplate *mcp.ResourceTemplate, handler mcp.ResourceHandler) {
	r.server.AddResourceTemplate(resourceTemplate, handler)
}

func (r mcpServerRegistrationAdapter) AddResource(resource *mcp.Resource, handler mcp.ResourceHandler) {
	r.server.AddResource(resource, handler)
}

type mcpToolRegistrar struct {
	matches func(any) bool
	add     func(*mcp.Server, *mcp.Tool, any)
}

func newMCPToolRegistrar[I any, O any]() mcpToolRegistrar {
	return mcpToolRegistrar{
		matches: func(handler any) bool {
			_, ok := handler.(mcp.ToolHandlerFor[I, O])
			return ok
		},
		add: func(server *mcp.Server, tool *mcp.Tool, handler any) {
			mcp.AddTool(server, tool, handler.(mcp.ToolHandlerFor[I, O]))
		},
	}
}

var mcpToolRegistrars = []mcpToolRegistrar{
	newMCPToolRegistrar[domain.ActionRollInput, domain.ActionRollResult](),
	newMCPToolRegistrar[domain.ActionOutcomeInput, domain.ActionRollResult](),
	newMCPToolRegistrar[domain.ActionOutcomeInput, domain.ExplainRollResult](),
	newMCPToolRegistrar[domain.PoolProbabilityInput, domain.PoolProbabilityResult](),
	newMCPToolRegistrar[domain.RulesVersionInput, domain.RulesVersionResult](),
	newMCPToolRegistrar[domain.RollDiceInput, domain.RollDiceResult](),
	newMCPToolRegistrar[domain.CharacterCreateInput, domain.CharacterResult](),
	newMCPToolRegistrar[domain.CharacterIDInput, domain.CharacterResult](),
	newMCPToolRegistrar[domain.CharacterListInput, domain.CharacterListResult](),
	newMCPToolRegistrar[domain.StressInput, domain.StressResult](),
	newMCPToolRegistrar[domain.HarmApplyInput, domain.HarmApplyResult](),
	newMCPToolRegistrar[domain.CharacterIDInput, domain.HealResult](),
	newMCPToolRegistrar[domain.ResistanceRollInput, domain.ResistanceRollResult](),
	newMCPToolRegistrar[domain.ConsequenceApplyInput, domain.ConsequenceApplyResult](),
	newMCPToolRegistrar[domain.ClockCreateInput, domain.ClockResult](),
	newMCPToolRegistrar[domain.ClockIDInput, domain.ClockResult](),
	newMCPToolRegistrar[domain.ClockListInput, domain.ClockListResult](),
	newMCPToolRegistrar[domain.ClockFillInput, domain.ClockFillResult](),
	newMCPToolRegistrar[domain.ClockTickInput, domain.ClockTickResult](),
	newMCPToolRegistrar[domain.JournalListInput, domain.JournalListResult](),
}

func addMCPTool(server *mcp.Server, tool *mcp.Tool, handler any) error {
	for _, registrar := range mcpToolRegistrars {
		if registrar.matches(handler) {
			registrar.add(server, tool, handler)
			return nil
		}
	}
	toolName := "<nil>"
	if tool != nil {
		toolName = tool.Name
	}
	return fmt.Errorf("mcp registration adapter does not support handler type %T for tool %q", handler, toolName)
}

func newMCPRegistrationModules(table domain.Table, loc domain.Localizer, newSeed func() (int64, error), notify domain.ResourceUpdateNotifier) []mcpRegistrationModule {
	return []mcpRegistrationModule{
		{
			name: mcpRollToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerRollTools(registrar, table, loc, newSeed)
			},
		},
		{
			name: mcpCharacterToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerCharacterTools(registrar, table, loc, notify)
			},
		},
		{
			name: mcpClockToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerClockTools(registrar, table, loc, notify)
			},
		},
		{
			name: mcpJournalToolsModuleName,
			kind: mcpRegistrationKindTools,
			register: func(registrar mcpRegistrationTarget) error {
				return registerJournalTools(registrar, table, loc)
			},
		},
		{
			name: mcpTableResourcesModuleName,
			kind: mcpRegistrationKindResources,
			register: func(registrar mcpRegistrationTarget) error {
				registerTableResources(registrar, table, loc)
				return nil
			},
		},
		{
			name: mcpJournalResourcesModuleName,
			kind: mcpRegistrationKindResources,
			register: func(registrar mcpRegistrationTarget) error {
				registerJournalResources(registrar, table, loc)
				return nil
			},
		},
	}
}

// serverName identifies this MCP server to clients.
var serverName = branding.AppName + " MCP"

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
	Transport TransportKind
	// HTTPAddr is the listen address for the HTTP transport. Defaults to
	// localhost:8081.
	HTTPAddr string
	// AllowedHosts lists non-loopback hosts the HTTP transport accepts.
	AllowedHosts []string
	// Locale selects the language of labels and tool error messages.
	Locale string
	// NewSeed draws seeds for roll_dice calls without a client seed.
	// Defaults to crypto/rand.
	NewSeed func() (int64, error)
}

// Server hosts the MCP server.
type Server struct {
	mcpServer *mcp.Server
}

// New creates an MCP server whose tools and resources drive table.
func New(table domain.Table, cfg Config) (*Server, error) {
	if table == nil {
		return nil, fmt.Errorf("table is required")
	}
	newSeed := cfg.NewSeed
	if newSeed == nil {
		newSeed = random.NewSeed
	}
	loc := domain.NewLocalizer(cfg.Locale)

	mcpServer := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		CompletionHandler:  completionHandler,
		SubscribeHandler:   resourceSubscribeHandler,
		UnsubscribeHandler: resourceUnsubscribeHandler,
	})
	resourceNotifier := func(ctx context.Context, uri string) {
		if strings.TrimSpace(uri) == "" {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}
		if err := mcpServer.ResourceUpdated(ctx, &mcp.ResourceUpdatedNotificationParams{URI: uri}); err != nil {
			log.Printf("mcp resource updated notify failed: uri=%s err=%v", uri, err)
		}
	}

	for _, module := range newMCPRegistrationModules(table, loc, newSeed, resourceNotifier) {
		if err := module.register(mcpServerRegistrationAdapter{server: mcpServer}); err != nil {
			return nil, fmt.Errorf("register MCP module %q: %w", module.name, err)
		}
	}
	return &Server{mcpServer: mcpServer}, nil
}

// completionHandler answers completion requests with no suggestions.
func completionHandler(ctx context.Context, req *mcp.CompleteRequest) (*mcp.CompleteResult, error) {
	return &mcp.CompleteResult{
		Completion: mcp.CompletionResultDetails{
			Values: []string{},
		},
	}, nil
}

// resourceSubscribeHandler accepts resource subscriptions with a valid URI.
func resourceSubscribeHandler(_ context.Context, req *mcp.SubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// resourceUnsubscribeHandler accepts resource unsubscriptions with a valid URI.
func resourceUnsubscribeHandler(_ context.Context, req *mcp.UnsubscribeRequest) error {
	if req == nil || req.Params == nil || strings.TrimSpace(req.Params.URI) == "" {
		return fmt.Errorf("resource uri is required")
	}
	return nil
}

// Run builds a server for table and serves it on the configured transport
// until ctx ends.
func Run(ctx context.Context, table domain.Table, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}
	server, err := New(table, cfg)
	if err != nil {
		return err
	}

	switch cfg.Transport {
	case TransportStdio:
		return server.Serve(ctx)
	case TransportHTTP:
		httpAddr := cfg.HTTPAddr
		if httpAddr == "" {
			httpAddr = "localhost:8081"
		}
		return NewHTTPTransport(httpAddr, server.mcpServer, cfg.AllowedHosts).Start(ctx)
	default:
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// serveWithTransport starts the MCP server using the provided transport.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}
