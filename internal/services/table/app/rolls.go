package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/duskwall/internal/core/action"
	"github.com/louisbranch/duskwall/internal/core/clock"
	"github.com/louisbranch/duskwall/internal/core/dice"
	"github.com/louisbranch/duskwall/internal/services/table/storage"
	"go.opentelemetry.io/otel/attribute"
)

const kindClock = "clock"

// ActionRollInput describes an action roll. CharacterID is optional; when
// set the character must exist.
type ActionRollInput struct {
	CharacterID string
	Dice        int
	Position    action.Position
	Effect      action.Effect
	Note        string
}

// ActionRoll resolves and journals an action roll.
func (s *Service) ActionRoll(ctx context.Context, input ActionRollInput) (outcome action.Outcome, err error) {
	ctx, span := s.start(ctx, "ActionRoll",
		attribute.String("duskwall.character_id", input.CharacterID),
		attribute.Int("duskwall.dice", input.Dice),
		attribute.String("duskwall.position", input.Position.String()),
		attribute.String("duskwall.effect", input.Effect.String()),
	)
	defer func() { finish(span, err) }()

	characterID := strings.TrimSpace(input.CharacterID)
	if characterID != "" {
		if _, err := s.store.GetCharacter(ctx, characterID); err != nil {
			return action.Outcome{}, storageError(kindCharacter, characterID, err)
		}
	}
	outcome, err = action.Resolve(input.Dice, input.Position, input.Effect, s.source)
	if err != nil {
		return action.Outcome{}, err
	}
	span.SetAttributes(attribute.String("duskwall.degree", outcome.Degree.String()))
	s.record(ctx, storage.JournalEntry{
		Kind:        storage.KindAction,
		CharacterID: characterID,
		Size:        outcome.Pool.Size,
		Rolls:       outcome.Pool.Rolls,
		Value:       outcome.Pool.Value,
		Critical:    outcome.Pool.Critical,
		Degree:      outcome.Degree.String(),
		Position:    outcome.Position.String(),
		Effect:      outcome.Effect.String(),
		Note:        input.Note,
	})
	return outcome, nil
}

// ClockView is a clock as reported to callers.
type ClockView struct {
	ID        string
	Name      string
	Segments  int
	Filled    int
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func viewClock(record storage.ClockRecord) ClockView {
	return ClockView{
		ID:        record.ID,
		Name:      record.State.Name,
		Segments:  record.State.Segments,
		Filled:    record.State.Filled,
		Completed: record.State.Filled >= record.State.Segments,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

// CreateClock stores a new empty clock.
func (s *Service) CreateClock(ctx context.Context, name string, segments int) (view ClockView, err error) {
	ctx, span := s.start(ctx, "CreateClock", attribute.Int("duskwall.segments", segments))
	defer func() { finish(span, err) }()

	c, err := clock.NewNamed(name, segments)
	if err != nil {
		return ClockView{}, err
	}
	clockID, err := s.newID()
	if err != nil {
		return ClockView{}, fmt.Errorf("generate clock id: %w", err)
	}
	span.SetAttributes(attribute.String("duskwall.clock_id", clockID))

	now := s.now()
	record := storage.ClockRecord{
		ID:        clockID,
		State:     c.Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateClock(ctx, record); err != nil {
		return ClockView{}, storageError(kindClock, clockID, err)
	}
	return viewClock(record), nil
}

// GetClock returns one clock.
func (s *Service) GetClock(ctx context.Context, clockID string) (view ClockView, err error) {
	ctx, span := s.start(ctx, "GetClock", attribute.String("duskwall.clock_id", clockID))
	defer func() { finish(span, err) }()

	clockID, err = trimID(clockID)
	if err != nil {
		return ClockView{}, err
	}
	record, err := s.store.GetClock(ctx, clockID)
	if err != nil {
		return ClockView{}, storageError(kindClock, clockID, err)
	}
	return viewClock(record), nil
}

// ListClocks returns every clock in creation order.
func (s *Service) ListClocks(ctx context.Context) (views []ClockView, err error) {
	ctx, span := s.start(ctx, "ListClocks")
	defer func() { finish(span, err) }()

	records, err := s.store.ListClocks(ctx)
	if err != nil {
		return nil, err
	}
	views = make([]ClockView, 0, len(records))
	for _, record := range records {
		views = append(views, viewClock(record))
	}
	return views, nil
}

// FillClock fills amount segments, saturating at the clock's size.
func (s *Service) FillClock(ctx context.Context, clockID string, amount int) (view ClockView, result clock.FillResult, err error) {
	ctx, span := s.start(ctx, "FillClock",
		attribute.String("duskwall.clock_id", clockID),
		attribute.Int("duskwall.amount", amount),
	)
	defer func() { finish(span, err) }()

	view, err = s.mutateClock(ctx, clockID, func(c *clock.Clock) error {
		result, err = c.Fill(amount)
		return err
	})
	return view, result, err
}

// ClockTick is a rolled clock advance.
type ClockTick struct {
	Clock ClockView
	Fill  clock.FillResult
	Pool  dice.Pool
}

// TickClock rolls size dice and fills the clock by the degree's ticks.
func (s *Service) TickClock(ctx context.Context, clockID string, size int) (tick ClockTick, err error) {
	ctx, span := s.start(ctx, "TickClock",
		attribute.String("duskwall.clock_id", clockID),
		attribute.Int("duskwall.dice", size),
	)
	defer func() { finish(span, err) }()

	tick.Clock, err = s.mutateClock(ctx, clockID, func(c *clock.Clock) error {
		tick.Fill, tick.Pool, err = c.Tick(size, s.source)
		return err
	})
	if err != nil {
		return tick, err
	}
	degree := tick.Pool.Degree()
	span.SetAttributes(attribute.String("duskwall.degree", degree.String()))
	s.record(ctx, storage.JournalEntry{
		Kind:     storage.KindClockTick,
		ClockID:  tick.Clock.ID,
		Size:     tick.Pool.Size,
		Rolls:    tick.Pool.Rolls,
		Value:    tick.Pool.Value,
		Critical: tick.Pool.Critical,
		Degree:   degree.String(),
	})
	return tick, nil
}

// ResetClock empties a clock.
func (s *Service) ResetClock(ctx context.Context, clockID string) (view ClockView, err error) {
	ctx, span := s.start(ctx, "ResetClock", attribute.String("duskwall.clock_id", clockID))
	defer func() { finish(span, err) }()

	return s.mutateClock(ctx, clockID, func(c *clock.Clock) error {
		c.Reset()
		return nil
	})
}

func (s *Service) mutateClock(ctx context.Context, clockID string, fn func(c *clock.Clock) error) (ClockView, error) {
	clockID, err := trimID(clockID)
	if err != nil {
		return ClockView{}, err
	}
	unlock := s.lock(kindClock + ":" + clockID)
	defer unlock()

	record, err := s.store.GetClock(ctx, clockID)
	if err != nil {
		return ClockView{}, storageError(kindClock, clockID, err)
	}
	c, err := clock.FromSnapshot(record.State)
	if err != nil {
		return ClockView{}, fmt.Errorf("load clock %s: %w", clockID, err)
	}
	if err := fn(c); err != nil {
		return viewClock(record), err
	}
	record.State = c.Snapshot()
	record.UpdatedAt = s.now()
	if err := s.store.PutClock(ctx, record); err != nil {
		return ClockView{}, storageError(kindClock, clockID, err)
	}
	return viewClock(record), nil
}
