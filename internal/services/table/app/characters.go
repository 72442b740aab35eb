package app

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/louisbranch/duskwall/internal/core/action"
	"github.com/louisbranch/duskwall/internal/core/character"
	"github.com/louisbranch/duskwall/internal/core/resistance"
	"github.com/louisbranch/duskwall/internal/services/table/storage"
	"go.opentelemetry.io/otel/attribute"
)

const kindCharacter = "character"

// CharacterView is a character as reported to callers.
type CharacterView struct {
	ID            string
	Name          string
	Stress        int
	Traumas       []character.Trauma
	Harm          []character.Harm
	Capacity      character.Capacity
	Incapacitated bool
	Retired       bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func viewCharacter(record storage.CharacterRecord) CharacterView {
	view := CharacterView{
		ID:        record.ID,
		Name:      record.State.Name,
		Stress:    record.State.Stress,
		Traumas:   slices.Clone(record.State.Traumas),
		Harm:      slices.Clone(record.State.Harm),
		Capacity:  record.State.Capacity,
		Retired:   len(record.State.Traumas) >= character.MaxTraumas,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
	for _, harm := range record.State.Harm {
		if harm.Severity == character.HarmFatal {
			view.Incapacitated = true
		}
	}
	return view
}

// CharacterInput describes a new character. A zero Capacity uses the
// default harm track.
type CharacterInput struct {
	Name     string
	Capacity character.Capacity
}

// CreateCharacter stores a new unharmed, unstressed character.
func (s *Service) CreateCharacter(ctx context.Context, input CharacterInput) (view CharacterView, err error) {
	ctx, span := s.start(ctx, "CreateCharacter")
	defer func() { finish(span, err) }()

	var opts []character.Option
	if input.Capacity != (character.Capacity{}) {
		opts = append(opts, character.WithCapacity(input.Capacity))
	}
	state, err := character.NewState(input.Name, opts...)
	if err != nil {
		return CharacterView{}, err
	}
	characterID, err := s.newID()
	if err != nil {
		return CharacterView{}, fmt.Errorf("generate character id: %w", err)
	}
	span.SetAttributes(attribute.String("duskwall.character_id", characterID))

	now := s.now()
	record := storage.CharacterRecord{
		ID:        characterID,
		State:     state.Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateCharacter(ctx, record); err != nil {
		return CharacterView{}, storageError(kindCharacter, characterID, err)
	}
	return viewCharacter(record), nil
}

// GetCharacter returns one character.
func (s *Service) GetCharacter(ctx context.Context, characterID string) (view CharacterView, err error) {
	ctx, span := s.start(ctx, "GetCharacter", attribute.String("duskwall.character_id", characterID))
	defer func() { finish(span, err) }()

	characterID, err = trimID(characterID)
	if err != nil {
		return CharacterView{}, err
	}
	record, err := s.store.GetCharacter(ctx, characterID)
	if err != nil {
		return CharacterView{}, storageError(kindCharacter, characterID, err)
	}
	return viewCharacter(record), nil
}

// ListCharacters returns every character in creation order.
func (s *Service) ListCharacters(ctx context.Context) (views []CharacterView, err error) {
	ctx, span := s.start(ctx, "ListCharacters")
	defer func() { finish(span, err) }()

	records, err := s.store.ListCharacters(ctx)
	if err != nil {
		return nil, err
	}
	views = make([]CharacterView, 0, len(records))
	for _, record := range records {
		views = append(views, viewCharacter(record))
	}
	return views, nil
}

// ApplyStress marks stress on a character, triggering trauma at the cap.
func (s *Service) ApplyStress(ctx context.Context, characterID string, amount int) (view CharacterView, result character.StressResult, err error) {
	ctx, span := s.start(ctx, "ApplyStress",
		attribute.String("duskwall.character_id", characterID),
		attribute.Int("duskwall.amount", amount),
	)
	defer func() { finish(span, err) }()

	view, err = s.mutateCharacter(ctx, characterID, func(state *character.State) error {
		result, err = state.ApplyStress(amount)
		return err
	})
	return view, result, err
}

// ClearStress removes up to amount stress from a character.
func (s *Service) ClearStress(ctx context.Context, characterID string, amount int) (view CharacterView, result character.StressResult, err error) {
	ctx, span := s.start(ctx, "ClearStress",
		attribute.String("duskwall.character_id", characterID),
		attribute.Int("duskwall.amount", amount),
	)
	defer func() { finish(span, err) }()

	view, err = s.mutateCharacter(ctx, characterID, func(state *character.State) error {
		result, err = state.ClearStress(amount)
		return err
	})
	return view, result, err
}

// ApplyHarm places harm of severity on a character's track. A full fatal
// tier returns the attempted result alongside the error.
func (s *Service) ApplyHarm(ctx context.Context, characterID string, severity int, description string) (view CharacterView, result character.HarmResult, err error) {
	ctx, span := s.start(ctx, "ApplyHarm",
		attribute.String("duskwall.character_id", characterID),
		attribute.Int("duskwall.severity", severity),
	)
	defer func() { finish(span, err) }()

	view, err = s.mutateCharacter(ctx, characterID, func(state *character.State) error {
		result, err = state.ApplyHarm(severity, description)
		return err
	})
	return view, result, err
}

// Heal runs one recovery step on a character.
func (s *Service) Heal(ctx context.Context, characterID string) (view CharacterView, result character.HealResult, err error) {
	ctx, span := s.start(ctx, "Heal", attribute.String("duskwall.character_id", characterID))
	defer func() { finish(span, err) }()

	view, err = s.mutateCharacter(ctx, characterID, func(state *character.State) error {
		result, err = state.Heal()
		return err
	})
	return view, result, err
}

// ConsequenceInput names a consequence to carry out. CharacterID is only
// required for harm.
type ConsequenceInput struct {
	CharacterID string
	Consequence action.Consequence
	Situation   action.Situation
	Description string
}

// ApplyConsequence carries out a consequence, landing harm on the named
// character.
func (s *Service) ApplyConsequence(ctx context.Context, input ConsequenceInput) (applied action.Applied, err error) {
	ctx, span := s.start(ctx, "ApplyConsequence",
		attribute.String("duskwall.character_id", input.CharacterID),
		attribute.String("duskwall.consequence", input.Consequence.String()),
	)
	defer func() { finish(span, err) }()

	if input.Consequence.Kind != action.ConsequenceHarm {
		return action.Apply(input.Consequence, input.Situation, nil, input.Description)
	}
	_, err = s.mutateCharacter(ctx, input.CharacterID, func(state *character.State) error {
		applied, err = action.Apply(input.Consequence, input.Situation, state, input.Description)
		return err
	})
	return applied, err
}

// ResistanceRollInput describes a resistance roll. A zero Consequence
// rolls without reducing anything.
type ResistanceRollInput struct {
	CharacterID string
	Dice        int
	Consequence action.Consequence
	Note        string
}

// ResistanceOutcome is a resolved resistance roll.
type ResistanceOutcome struct {
	resistance.Result
	Character CharacterView
	// Remaining is what is left of the resisted consequence.
	Remaining action.Consequence
	// Avoided reports that nothing of the consequence remains.
	Avoided bool
}

// ResistanceRoll rolls resistance for a character and charges the stress
// cost. The character stays locked from load to save so concurrent
// resistance rolls on one character serialize.
func (s *Service) ResistanceRoll(ctx context.Context, input ResistanceRollInput) (outcome ResistanceOutcome, err error) {
	ctx, span := s.start(ctx, "ResistanceRoll",
		attribute.String("duskwall.character_id", input.CharacterID),
		attribute.Int("duskwall.dice", input.Dice),
	)
	defer func() { finish(span, err) }()

	if input.Consequence != (action.Consequence{}) && !input.Consequence.Valid() {
		return ResistanceOutcome{}, fmt.Errorf("resist %v: unknown consequence", input.Consequence)
	}
	view, err := s.mutateCharacter(ctx, input.CharacterID, func(state *character.State) error {
		outcome.Result, err = resistance.Resist(input.Dice, s.source, state)
		return err
	})
	if err != nil {
		return outcome, err
	}
	outcome.Character = view
	if input.Consequence != (action.Consequence{}) {
		remaining, ok := input.Consequence.Resisted()
		outcome.Remaining = remaining
		outcome.Avoided = !ok
	}
	span.SetAttributes(
		attribute.String("duskwall.degree", outcome.Degree.String()),
		attribute.Int("duskwall.stress_cost", outcome.StressCost),
	)
	s.record(ctx, storage.JournalEntry{
		Kind:        storage.KindResistance,
		CharacterID: view.ID,
		Size:        outcome.Pool.Size,
		Rolls:       outcome.Pool.Rolls,
		Value:       outcome.Pool.Value,
		Critical:    outcome.Pool.Critical,
		Degree:      outcome.Degree.String(),
		StressCost:  outcome.StressCost,
		Note:        input.Note,
	})
	return outcome, nil
}

// mutateCharacter loads a character under its lock, runs fn and saves the
// result. Nothing is saved when fn fails.
func (s *Service) mutateCharacter(ctx context.Context, characterID string, fn func(state *character.State) error) (CharacterView, error) {
	characterID, err := trimID(characterID)
	if err != nil {
		return CharacterView{}, err
	}
	unlock := s.lock(kindCharacter + ":" + characterID)
	defer unlock()

	record, err := s.store.GetCharacter(ctx, characterID)
	if err != nil {
		return CharacterView{}, storageError(kindCharacter, characterID, err)
	}
	var opts []character.Option
	if s.selector != nil {
		opts = append(opts, character.WithTraumaSelector(s.selector))
	}
	state, err := character.FromSnapshot(record.State, opts...)
	if err != nil {
		return CharacterView{}, fmt.Errorf("load character %s: %w", characterID, err)
	}
	if err := fn(state); err != nil {
		return viewCharacter(record), err
	}
	record.State = state.Snapshot()
	record.UpdatedAt = s.now()
	if err := s.store.PutCharacter(ctx, record); err != nil {
		return CharacterView{}, storageError(kindCharacter, characterID, err)
	}
	return viewCharacter(record), nil
}
