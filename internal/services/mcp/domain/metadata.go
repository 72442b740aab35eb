package domain

import (
	"context"
	"strings"

	"github.com/louisbranch/duskwall/internal/platform/id"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"
)

const (
	// InvocationIDMeta is the tool result meta key for the invocation id.
	InvocationIDMeta = "invocation_id"
	// TraceIDMeta is the tool result meta key for the active trace id.
	TraceIDMeta = "trace_id"
)

// ToolCallMetadata carries correlation identifiers for MCP tool calls.
type ToolCallMetadata struct {
	InvocationID string
	TraceID      string
}

// ResourceUpdateNotifier notifies MCP clients about resource updates.
type ResourceUpdateNotifier func(ctx context.Context, uri string)

// NewInvocationID generates an invocation identifier for a tool call.
func NewInvocationID() (string, error) {
	return id.NewID()
}

// NewCallMetadata mints an invocation id and captures the trace in ctx.
func NewCallMetadata(ctx context.Context) (ToolCallMetadata, error) {
	invocationID, err := NewInvocationID()
	if err != nil {
		return ToolCallMetadata{}, err
	}
	meta := ToolCallMetadata{InvocationID: invocationID}
	if spanContext := trace.SpanFromContext(ctx).SpanContext(); spanContext.HasTraceID() {
		meta.TraceID = spanContext.TraceID().String()
	}
	return meta, nil
}

// CallToolResultWithMetadata builds a tool result with correlation metadata.
func CallToolResultWithMetadata(meta ToolCallMetadata) *mcp.CallToolResult {
	result := &mcp.CallToolResult{
		Meta: map[string]any{
			InvocationIDMeta: meta.InvocationID,
		},
	}
	if meta.TraceID != "" {
		result.Meta[TraceIDMeta] = meta.TraceID
	}
	return result
}

// NotifyResourceUpdates sends resource update notifications for each URI provided.
func NotifyResourceUpdates(ctx context.Context, notify ResourceUpdateNotifier, uris ...string) {
	if notify == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for _, uri := range uris {
		if strings.TrimSpace(uri) == "" {
			continue
		}
		notify(ctx, uri)
	}
}
