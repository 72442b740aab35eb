package domain

import (
	"context"

	"github.com/louisbranch/duskwall/internal/core/action"
	"github.com/louisbranch/duskwall/internal/core/character"
	"github.com/louisbranch/duskwall/internal/core/clock"
	"github.com/louisbranch/duskwall/internal/services/table/app"
	"github.com/louisbranch/duskwall/internal/services/table/storage"
)

// Table is the table service surface the MCP tools drive.
type Table interface {
	ActionRoll(ctx context.Context, input app.ActionRollInput) (action.Outcome, error)
	ResistanceRoll(ctx context.Context, input app.ResistanceRollInput) (app.ResistanceOutcome, error)
	ApplyConsequence(ctx context.Context, input app.ConsequenceInput) (action.Applied, error)

	CreateCharacter(ctx context.Context, input app.CharacterInput) (app.CharacterView, error)
	GetCharacter(ctx context.Context, characterID string) (app.CharacterView, error)
	ListCharacters(ctx context.Context) ([]app.CharacterView, error)
	ApplyStress(ctx context.Context, characterID string, amount int) (app.CharacterView, character.StressResult, error)
	ClearStress(ctx context.Context, characterID string, amount int) (app.CharacterView, character.StressResult, error)
	ApplyHarm(ctx context.Context, characterID string, severity int, description string) (app.CharacterView, character.HarmResult, error)
	Heal(ctx context.Context, characterID string) (app.CharacterView, character.HealResult, error)

	CreateClock(ctx context.Context, name string, segments int) (app.ClockView, error)
	GetClock(ctx context.Context, clockID string) (app.ClockView, error)
	ListClocks(ctx context.Context) ([]app.ClockView, error)
	FillClock(ctx context.Context, clockID string, amount int) (app.ClockView, clock.FillResult, error)
	TickClock(ctx context.Context, clockID string, size int) (app.ClockTick, error)
	ResetClock(ctx context.Context, clockID string) (app.ClockView, error)

	Journal(ctx context.Context, limit int) ([]storage.JournalEntry, error)
}

var _ Table = (*app.Service)(nil)
