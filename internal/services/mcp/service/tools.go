package service

import (
	"fmt"

	"github.com/louisbranch/duskwall/internal/services/mcp/domain"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mcpRegistrationTarget interface {
	AddTool(*mcp.Tool, any) error
	AddResourceTemplate(*mcp.ResourceTemplate, mcp.ResourceHandler)
	AddResource(*mcp.Resource, mcp.ResourceHandler)
}

type toolRegistration struct {
	tool    *mcp.Tool
	handler any
}

func registerRollTools(registrar mcpRegistrationTarget, table domain.Table, loc domain.Localizer, newSeed func() (int64, error)) error {
	return registerTools(registrar, []toolRegistration{
		{tool: domain.ActionRollTool(), handler: domain.ActionRollHandler(table, loc)},
		{tool: domain.ActionOutcomeTool(), handler: domain.ActionOutcomeHandler(loc)},
		{tool: domain.ExplainRollTool(), handler: domain.ExplainRollHandler(loc)},
		{tool: domain.PoolProbabilityTool(), handler: domain.PoolProbabilityHandler(loc)},
		{tool: domain.RulesVersionTool(), handler: domain.RulesVersionHandler()},
		{tool: domain.RollDiceTool(), handler: domain.RollDiceHandler(newSeed, loc)},
	})
}

func registerCharacterTools(registrar mcpRegistrationTarget, table domain.Table, loc domain.Localizer, notify domain.ResourceUpdateNotifier) error {
	return registerTools(registrar, []toolRegistration{
		{tool: domain.CharacterCreateTool(), handler: domain.CharacterCreateHandler(table, loc, notify)},
		{tool: domain.CharacterGetTool(), handler: domain.CharacterGetHandler(table, loc)},
		{tool: domain.CharacterListTool(), handler: domain.CharacterListHandler(table, loc)},
		{tool: domain.StressApplyTool(), handler: domain.StressApplyHandler(table, loc, notify)},
		{tool: domain.StressClearTool(), handler: domain.StressClearHandler(table, loc, notify)},
		{tool: domain.HarmApplyTool(), handler: domain.HarmApplyHandler(table, loc, notify)},
		{tool: domain.HarmHealTool(), handler: domain.HarmHealHandler(table, loc, notify)},
		{tool: domain.ResistanceRollTool(), handler: domain.ResistanceRollHandler(table, loc, notify)},
		{tool: domain.ConsequenceApplyTool(), handler: domain.ConsequenceApplyHandler(table, loc, notify)},
	})
}

func registerClockTools(registrar mcpRegistrationTarget, table domain.Table, loc domain.Localizer, notify domain.ResourceUpdateNotifier) error {
	return registerTools(registrar, []toolRegistration{
		{tool: domain.ClockCreateTool(), handler: domain.ClockCreateHandler(table, loc, notify)},
		{tool: domain.ClockGetTool(), handler: domain.ClockGetHandler(table, loc)},
		{tool: domain.ClockListTool(), handler: domain.ClockListHandler(table, loc)},
		{tool: domain.ClockFillTool(), handler: domain.ClockFillHandler(table, loc, notify)},
		{tool: domain.ClockTickTool(), handler: domain.ClockTickHandler(table, loc, notify)},
		{tool: domain.ClockResetTool(), handler: domain.ClockResetHandler(table, loc, notify)},
	})
}

func registerJournalTools(registrar mcpRegistrationTarget, table domain.Table, loc domain.Localizer) error {
	return registerTool(registrar, domain.JournalListTool(), domain.JournalListHandler(table, loc))
}

func registerTools(registrar mcpRegistrationTarget, registrations []toolRegistration) error {
	for _, registration := range registrations {
		if err := registerTool(registrar, registration.tool, registration.handler); err != nil {
			return err
		}
	}
	return nil
}

func registerTool(registrar mcpRegistrationTarget, tool *mcp.Tool, handler any) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	return registrar.AddTool(tool, handler)
}

// registerTableResources registers readable character and clock resources.
func registerTableResources(registrar mcpRegistrationTarget, table domain.Table, loc domain.Localizer) {
	registrar.AddResource(domain.CharacterListResource(), domain.CharacterListResourceHandler(table, loc))
	registrar.AddResourceTemplate(domain.CharacterResourceTemplate(), domain.CharacterResourceHandler(table, loc))
	registrar.AddResource(domain.ClockListResource(), domain.ClockListResourceHandler(table, loc))
}

// registerJournalResources registers the readable roll journal.
func registerJournalResources(registrar mcpRegistrationTarget, table domain.Table, loc domain.Localizer) {
	registrar.AddResource(domain.JournalResource(), domain.JournalResourceHandler(table, loc))
}
