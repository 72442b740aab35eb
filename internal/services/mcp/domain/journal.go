package domain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/duskwall/internal/services/table/app"
	"github.com/louisbranch/duskwall/internal/services/table/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// CharactersResourceURI lists every character.
	CharactersResourceURI = "table://characters"
	// ClocksResourceURI lists every clock.
	ClocksResourceURI = "table://clocks"
	// JournalResourceURI lists recent rolls.
	JournalResourceURI = "table://journal"

	characterResourcePrefix = CharactersResourceURI + "/"
	journalResourceLimit    = 50
)

// CharacterResourceURI addresses one character.
func CharacterResourceURI(characterID string) string {
	if strings.TrimSpace(characterID) == "" {
		return ""
	}
	return characterResourcePrefix + characterID
}

// JournalListInput represents the MCP tool input for reading the journal.
type JournalListInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum entries to return; 0 returns every entry"`
}

// JournalEntryResult represents one journaled roll.
type JournalEntryResult struct {
	Seq         int64  `json:"seq" jsonschema:"journal sequence number"`
	Kind        string `json:"kind" jsonschema:"action, resistance or clock_tick"`
	CharacterID string `json:"character_id,omitempty" jsonschema:"character involved"`
	ClockID     string `json:"clock_id,omitempty" jsonschema:"clock involved"`
	Dice        int    `json:"dice" jsonschema:"dice pool size"`
	Rolls       []int  `json:"rolls" jsonschema:"die faces in draw order"`
	Value       int    `json:"value" jsonschema:"resolved pool value"`
	Critical    bool   `json:"critical" jsonschema:"whether the roll was a critical"`
	Degree      string `json:"degree" jsonschema:"degree name"`
	Position    string `json:"position,omitempty" jsonschema:"position of an action roll"`
	Effect      string `json:"effect,omitempty" jsonschema:"effect of an action roll"`
	StressCost  int    `json:"stress_cost,omitempty" jsonschema:"stress paid on a resistance roll"`
	Note        string `json:"note,omitempty" jsonschema:"caller note"`
	TraceID     string `json:"trace_id,omitempty" jsonschema:"trace that produced the roll"`
	CreatedAt   string `json:"created_at" jsonschema:"RFC3339 time of the roll"`
}

// JournalListResult represents the MCP tool output for reading the journal.
type JournalListResult struct {
	Entries []JournalEntryResult `json:"entries" jsonschema:"journal entries, newest first"`
}

// JournalListTool defines the MCP tool schema for reading the roll journal.
func JournalListTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "journal_list",
		Description: "Lists journaled rolls, newest first",
	}
}

// JournalListHandler reads the roll journal.
func JournalListHandler(table Table, loc Localizer) mcp.ToolHandlerFor[JournalListInput, JournalListResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input JournalListInput) (*mcp.CallToolResult, JournalListResult, error) {
		meta, err := NewCallMetadata(ctx)
		if err != nil {
			return nil, JournalListResult{}, fmt.Errorf("generate invocation id: %w", err)
		}
		entries, err := table.Journal(ctx, input.Limit)
		if err != nil {
			return nil, JournalListResult{}, loc.Fail(err)
		}
		return CallToolResultWithMetadata(meta), journalListResult(entries), nil
	}
}

func journalListResult(entries []storage.JournalEntry) JournalListResult {
	result := JournalListResult{Entries: make([]JournalEntryResult, 0, len(entries))}
	for _, entry := range entries {
		rolls := entry.Rolls
		if rolls == nil {
			rolls = []int{}
		}
		result.Entries = append(result.Entries, JournalEntryResult{
			Seq:         entry.Seq,
			Kind:        entry.Kind,
			CharacterID: entry.CharacterID,
			ClockID:     entry.ClockID,
			Dice:        entry.Size,
			Rolls:       rolls,
			Value:       entry.Value,
			Critical:    entry.Critical,
			Degree:      entry.Degree,
			Position:    entry.Position,
			Effect:      entry.Effect,
			StressCost:  entry.StressCost,
			Note:        entry.Note,
			TraceID:     entry.TraceID,
			CreatedAt:   formatTime(entry.CreatedAt),
		})
	}
	return result
}

// CharacterListResource defines the MCP resource for the character roster.
func CharacterListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "character_list",
		Title:       "Characters",
		Description: "Readable listing of every character at the table",
		MIMEType:    "application/json",
		URI:         CharactersResourceURI,
	}
}

// CharacterResourceTemplate defines the MCP resource template for one character.
func CharacterResourceTemplate() *mcp.ResourceTemplate {
	return &mcp.ResourceTemplate{
		Name:        "character",
		Title:       "Character",
		Description: "Readable character state. URI format: table://characters/{character_id}",
		MIMEType:    "application/json",
		URITemplate: characterResourcePrefix + "{character_id}",
	}
}

// ClockListResource defines the MCP resource for the table's clocks.
func ClockListResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "clock_list",
		Title:       "Clocks",
		Description: "Readable listing of every clock at the table",
		MIMEType:    "application/json",
		URI:         ClocksResourceURI,
	}
}

// JournalResource defines the MCP resource for recent rolls.
func JournalResource() *mcp.Resource {
	return &mcp.Resource{
		Name:        "journal",
		Title:       "Roll Journal",
		Description: "Readable listing of the most recent rolls, newest first",
		MIMEType:    "application/json",
		URI:         JournalResourceURI,
	}
}

// CharacterListResourceHandler returns a readable character listing resource.
func CharacterListResourceHandler(table Table, loc Localizer) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if table == nil {
			return nil, fmt.Errorf("table is not configured")
		}
		views, err := table.ListCharacters(ctx)
		if err != nil {
			return nil, fmt.Errorf("character list failed: %w", loc.Fail(err))
		}
		payload := CharacterListResult{Characters: make([]CharacterResult, 0, len(views))}
		for _, view := range views {
			payload.Characters = append(payload.Characters, characterResult(view, loc))
		}
		return jsonResource(resourceURI(req, CharactersResourceURI), payload)
	}
}

// CharacterResourceHandler returns a readable character resource.
func CharacterResourceHandler(table Table, loc Localizer) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if table == nil {
			return nil, fmt.Errorf("table is not configured")
		}
		if req == nil || req.Params == nil || req.Params.URI == "" {
			return nil, fmt.Errorf("character ID is required; use URI format table://characters/{character_id}")
		}
		uri := req.Params.URI
		characterID, err := parseCharacterIDFromURI(uri)
		if err != nil {
			return nil, fmt.Errorf("parse character ID from URI: %w", err)
		}
		view, err := table.GetCharacter(ctx, characterID)
		if err != nil {
			if errors.Is(err, app.ErrNotFound) {
				return nil, mcp.ResourceNotFoundError(uri)
			}
			return nil, fmt.Errorf("character get failed: %w", loc.Fail(err))
		}
		return jsonResource(uri, characterResult(view, loc))
	}
}

// ClockListResourceHandler returns a readable clock listing resource.
func ClockListResourceHandler(table Table, loc Localizer) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if table == nil {
			return nil, fmt.Errorf("table is not configured")
		}
		views, err := table.ListClocks(ctx)
		if err != nil {
			return nil, fmt.Errorf("clock list failed: %w", loc.Fail(err))
		}
		payload := ClockListResult{Clocks: make([]ClockResult, 0, len(views))}
		for _, view := range views {
			payload.Clocks = append(payload.Clocks, clockResult(view, loc))
		}
		return jsonResource(resourceURI(req, ClocksResourceURI), payload)
	}
}

// JournalResourceHandler returns the most recent journaled rolls.
func JournalResourceHandler(table Table, loc Localizer) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		if table == nil {
			return nil, fmt.Errorf("table is not configured")
		}
		entries, err := table.Journal(ctx, journalResourceLimit)
		if err != nil {
			return nil, fmt.Errorf("journal list failed: %w", loc.Fail(err))
		}
		return jsonResource(resourceURI(req, JournalResourceURI), journalListResult(entries))
	}
}

// parseCharacterIDFromURI extracts the id from table://characters/{character_id}.
func parseCharacterIDFromURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, characterResourcePrefix) {
		return "", fmt.Errorf("URI must start with %q", characterResourcePrefix)
	}
	characterID := strings.TrimSpace(strings.TrimPrefix(uri, characterResourcePrefix))
	if characterID == "" || strings.Contains(characterID, "/") {
		return "", fmt.Errorf("URI must be table://characters/{character_id}")
	}
	return characterID, nil
}

func resourceURI(req *mcp.ReadResourceRequest, fallback string) string {
	if req == nil || req.Params == nil || req.Params.URI == "" {
		return fallback
	}
	return req.Params.URI
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}
