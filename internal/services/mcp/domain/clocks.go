package domain

import (
	"context"
	"fmt"

	"github.com/louisbranch/duskwall/internal/core/clock"
	"github.com/louisbranch/duskwall/internal/services/table/app"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ClockCreateInput represents the MCP tool input for creating a clock.
type ClockCreateInput struct {
	Name     string `json:"name,omitempty" jsonschema:"optional clock name"`
	Segments int    `json:"segments" jsonschema:"number of segments; at least one"`
}

// ClockIDInput represents an MCP tool input naming one clock.
type ClockIDInput struct {
	ClockID string `json:"clock_id" jsonschema:"clock identifier"`
}

// ClockListInput represents the MCP tool input for listing clocks.
type ClockListInput struct{}

// ClockResult represents a clock in MCP tool output.
type ClockResult struct {
	ID        string `json:"id" jsonschema:"clock identifier"`
	Name      string `json:"name,omitempty" jsonschema:"clock name"`
	Segments  int    `json:"segments" jsonschema:"number of segments"`
	Filled    int    `json:"filled" jsonschema:"filled segments"`
	Completed bool   `json:"completed" jsonschema:"whether every segment is filled"`
	Progress  string `json:"progress" jsonschema:"localized progress description"`
	CreatedAt string `json:"created_at" jsonschema:"RFC3339 creation time"`
	UpdatedAt string `json:"updated_at" jsonschema:"RFC3339 last update time"`
}

// ClockListResult represents the MCP tool output for listing clocks.
type ClockListResult struct {
	Clocks []ClockResult `json:"clocks" jsonschema:"clocks in creation order"`
}

// ClockFillInput represents the MCP tool input for filling a clock.
type ClockFillInput struct {
	ClockID string `json:"clock_id" jsonschema:"clock identifier"`
	Amount  int    `json:"amount" jsonschema:"segments to fill; must be positive"`
}

// ClockFillResult represents the MCP tool output for filling a clock.
type ClockFillResult struct {
	Clock     ClockResult `json:"clock" jsonschema:"clock after filling"`
	Applied   int         `json:"applied" jsonschema:"segments actually filled"`
	Overflow  bool        `json:"overflow" jsonschema:"whether part of the amount did not fit"`
	Completed bool        `json:"completed" jsonschema:"whether the clock is complete after filling"`
}

// ClockTickInput represents the MCP tool input for a rolled clock advance.
type ClockTickInput struct {
	ClockID string `json:"clock_id" jsonschema:"clock identifier"`
	Dice    int    `json:"dice" jsonschema:"dice pool size; 0 rolls two dice and keeps the lower"`
}

// ClockTickResult represents the MCP tool output for a rolled clock advance.
type ClockTickResult struct {
	ClockFillResult
	Rolls       []int  `json:"rolls" jsonschema:"die faces in draw order"`
	Value       int    `json:"value" jsonschema:"resolved pool value"`
	Degree      string `json:"degree" jsonschema:"Critical, Full, Partial or Failure"`
	DegreeLabel string `json:"degree_label" jsonschema:"localized degree label"`
	Ticks       int    `json:"ticks" jsonschema:"segments the degree is worth"`
}

// ClockCreateTool defines the MCP tool schema for creating clocks.
func ClockCreateTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "clock_create",
		Description: "Creates an empty progress clock",
	}
}

// ClockGetTool defines the MCP tool schema for reading a clock.
func ClockGetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "clock_get",
		Description: "Returns a clock's progress",
	}
}

// ClockListTool defines the MCP tool schema for listing clocks.
func ClockListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "clock_list",
		Description: "Lists every clock at the table",
	}
}

// ClockFillTool defines the MCP tool schema for filling clocks.
func ClockFillTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "clock_fill",
		Description: "Fills clock segments, stopping when the clock is complete",
	}
}

// ClockTickTool defines the MCP tool schema for rolled clock advances.
func ClockTickTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "clock_tick",
		Description: "Rolls a pool and fills the clock by the degree: 5 critical, 3 full, 2 partial, 1 failure",
	}
}

// ClockResetTool defines the MCP tool schema for resetting clocks.
func ClockResetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "clock_reset",
		Description: "Empties a clock",
	}
}

// ClockCreateHandler creates a clock.
func ClockCreateHandler(table Table, loc Localizer, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[ClockCreateInput, ClockResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ClockCreateInput) (*mcp.CallToolResult, ClockResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, ClockResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		view, err := table.CreateClock(ctx, input.Name, input.Segments)
		if err != nil {
			return nil, ClockResult{}, loc.Fail(err)
		}
		NotifyResourceUpdates(ctx, notify, ClocksResourceURI)
		return CallToolResultWithMetadata(meta), clockResult(view, loc), nil
	}
}

// ClockGetHandler reads one clock.
func ClockGetHandler(table Table, loc Localizer) mcp.ToolHandlerFor[ClockIDInput, ClockResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ClockIDInput) (*mcp.CallToolResult, ClockResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, ClockResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		view, err := table.GetClock(ctx, input.ClockID)
		if err != nil {
			return nil, ClockResult{}, loc.Fail(err)
		}
		return CallToolResultWithMetadata(meta), clockResult(view, loc), nil
	}
}

// ClockListHandler lists every clock.
func ClockListHandler(table Table, loc Localizer) mcp.ToolHandlerFor[ClockListInput, ClockListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ClockListInput) (*mcp.CallToolResult, ClockListResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, ClockListResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		views, err := table.ListClocks(ctx)
		if err != nil {
			return nil, ClockListResult{}, loc.Fail(err)
		}
		result := ClockListResult{Clocks: make([]ClockResult, 0, len(views))}
		for _, view := range views {
			result.Clocks = append(result.Clocks, clockResult(view, loc))
		}
		return CallToolResultWithMetadata(meta), result, nil
	}
}

// ClockFillHandler fills a clock.
func ClockFillHandler(table Table, loc Localizer, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[ClockFillInput, ClockFillResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ClockFillInput) (*mcp.CallToolResult, ClockFillResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, ClockFillResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		view, fill, err := table.FillClock(ctx, input.ClockID, input.Amount)
		if err != nil {
			return nil, ClockFillResult{}, loc.Fail(err)
		}
		NotifyResourceUpdates(ctx, notify, ClocksResourceURI)
		return CallToolResultWithMetadata(meta), clockFillResult(view, fill, loc), nil
	}
}

// ClockTickHandler rolls a pool and advances a clock.
func ClockTickHandler(table Table, loc Localizer, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[ClockTickInput, ClockTickResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ClockTickInput) (*mcp.CallToolResult, ClockTickResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, ClockTickResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		tick, err := table.TickClock(ctx, input.ClockID, input.Dice)
		if err != nil {
			return nil, ClockTickResult{}, loc.Fail(err)
		}
		NotifyResourceUpdates(ctx, notify, ClocksResourceURI, JournalResourceURI)

		degree := tick.Pool.Degree()
		return CallToolResultWithMetadata(meta), ClockTickResult{
			ClockFillResult: clockFillResult(tick.Clock, tick.Fill, loc),
			Rolls:           append([]int(nil), tick.Pool.Rolls...),
			Value:           tick.Pool.Value,
			Degree:          degree.String(),
			DegreeLabel:     loc.Label(degree.LabelKey()),
			Ticks:           clock.TicksFor(degree),
		}, nil
	}
}

// ClockResetHandler empties a clock.
func ClockResetHandler(table Table, loc Localizer, notify ResourceUpdateNotifier) mcp.ToolHandlerFor[ClockIDInput, ClockResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ClockIDInput) (*mcp.CallToolResult, ClockResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, ClockResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		view, err := table.ResetClock(ctx, input.ClockID)
		if err != nil {
			return nil, ClockResult{}, loc.Fail(err)
		}
		NotifyResourceUpdates(ctx, notify, ClocksResourceURI)
		return CallToolResultWithMetadata(meta), clockResult(view, loc), nil
	}
}

func clockResult(view app.ClockView, loc Localizer) ClockResult {
	return ClockResult{
		ID:        view.ID,
		Name:      view.Name,
		Segments:  view.Segments,
		Filled:    view.Filled,
		Completed: view.Completed,
		Progress:  loc.Sprintf("clock.progress", view.Filled, view.Segments),
		CreatedAt: formatTime(view.CreatedAt),
		UpdatedAt: formatTime(view.UpdatedAt),
	}
}

func clockFillResult(view app.ClockView, fill clock.FillResult, loc Localizer) ClockFillResult {
	return ClockFillResult{
		Clock:     clockResult(view, loc),
		Applied:   fill.Applied,
		Overflow:  fill.Overflow,
		Completed: fill.Completed,
	}
}
