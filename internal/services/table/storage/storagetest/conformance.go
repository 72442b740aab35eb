// Package storagetest provides a behavioral suite every table store
// implementation must pass.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/louisbranch/duskwall/internal/core/character"
	"github.com/louisbranch/duskwall/internal/core/clock"
	"github.com/louisbranch/duskwall/internal/services/table/storage"
)

// OpenFunc returns a fresh, empty store. Implementations register their own
// cleanup.
type OpenFunc func(t *testing.T) storage.Store

// RunStoreConformance exercises the full storage.Store contract.
func RunStoreConformance(t *testing.T, open OpenFunc) {
	t.Helper()

	t.Run("character round trip", func(t *testing.T) {
		t.Parallel()
		store := open(t)
		ctx := context.Background()
		now := time.Date(2026, time.March, 3, 20, 0, 0, 0, time.UTC)
		input := storage.CharacterRecord{
			ID: "char-1",
			State: character.Snapshot{
				Name:    "Silver",
				Stress:  4,
				Traumas: []character.Trauma{character.TraumaHaunted, character.TraumaCold},
				Harm: []character.Harm{
					{Severity: character.HarmModerate, Description: "Broken wrist"},
					{Severity: character.HarmLesser, Description: "Winded"},
				},
				Capacity: character.DefaultCapacity,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.CreateCharacter(ctx, input); err != nil {
			t.Fatalf("create character: %v", err)
		}
		got, err := store.GetCharacter(ctx, "char-1")
		if err != nil {
			t.Fatalf("get character: %v", err)
		}
		assertCharacter(t, got, input)
	})

	t.Run("character duplicate", func(t *testing.T) {
		t.Parallel()
		store := open(t)
		ctx := context.Background()
		record := newCharacter("char-1", "Silver", time.Now().UTC())
		if err := store.CreateCharacter(ctx, record); err != nil {
			t.Fatalf("create character: %v", err)
		}
		err := store.CreateCharacter(ctx, record)
		if !errors.Is(err, storage.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("character missing", func(t *testing.T) {
		t.Parallel()
		store := open(t)
		if _, err := store.GetCharacter(context.Background(), "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on get, got %v", err)
		}
		err := store.PutCharacter(context.Background(), newCharacter("nope", "Ghost", time.Now().UTC()))
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on put, got %v", err)
		}
	})

	t.Run("character put replaces tracks", func(t *testing.T) {
		t.Parallel()
		store := open(t)
		ctx := context.Background()
		created := time.Date(2026, time.March, 3, 20, 0, 0, 0, time.UTC)
		record := newCharacter("char-1", "Silver", created)
		record.State.Harm = []character.Harm{{Severity: character.HarmSevere, Description: "Stabbed"}}
		if err := store.CreateCharacter(ctx, record); err != nil {
			t.Fatalf("create character: %v", err)
		}

		record.State.Stress = 2
		record.State.Traumas = []character.Trauma{character.TraumaVicious}
		record.State.Harm = []character.Harm{{Severity: character.HarmModerate, Description: "Stabbed"}}
		record.UpdatedAt = created.Add(time.Hour)
		if err := store.PutCharacter(ctx, record); err != nil {
			t.Fatalf("put character: %v", err)
		}
		got, err := store.GetCharacter(ctx, "char-1")
		if err != nil {
			t.Fatalf("get character: %v", err)
		}
		assertCharacter(t, got, record)
		if !got.CreatedAt.Equal(created) {
			t.Fatalf("created_at = %v, want %v", got.CreatedAt, created)
		}
	})

	t.Run("character list ordered", func(t *testing.T) {
		t.Parallel()
		store := open(t)
		ctx := context.Background()
		base := time.Date(2026, time.March, 3, 20, 0, 0, 0, time.UTC)
		for i, name := range []string{"Silver", "Arcy", "Nyryx"} {
			record := newCharacter(fmt.Sprintf("char-%d", i), name, base.Add(time.Duration(i)*time.Minute))
			if err := store.CreateCharacter(ctx, record); err != nil {
				t.Fatalf("create %s: %v", name, err)
			}
		}
		got, err := store.ListCharacters(ctx)
		if err != nil {
			t.Fatalf("list characters: %v", err)
		}
		var names []string
		for _, record := range got {
			names = append(names, record.State.Name)
		}
		if want := []string{"Silver", "Arcy", "Nyryx"}; !slices.Equal(names, want) {
			t.Fatalf("names = %v, want %v", names, want)
		}
	})

	t.Run("clock round trip", func(t *testing.T) {
		t.Parallel()
		store := open(t)
		ctx := context.Background()
		now := time.Date(2026, time.March, 3, 21, 0, 0, 0, time.UTC)
		record := storage.ClockRecord{
			ID:        "clock-1",
			State:     clock.Snapshot{Name: "Alarm", Segments: 6, Filled: 2},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := store.CreateClock(ctx, record); err != nil {
			t.Fatalf("create clock: %v", err)
		}
		if err := store.CreateClock(ctx, record); !errors.Is(err, storage.ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}

		record.State.Filled = 6
		record.UpdatedAt = now.Add(time.Minute)
		if err := store.PutClock(ctx, record); err != nil {
			t.Fatalf("put clock: %v", err)
		}
		got, err := store.GetClock(ctx, "clock-1")
		if err != nil {
			t.Fatalf("get clock: %v", err)
		}
		if got.State != record.State {
			t.Fatalf("clock state = %+v, want %+v", got.State, record.State)
		}
		if !got.UpdatedAt.Equal(record.UpdatedAt) {
			t.Fatalf("updated_at = %v, want %v", got.UpdatedAt, record.UpdatedAt)
		}

		clocks, err := store.ListClocks(ctx)
		if err != nil {
			t.Fatalf("list clocks: %v", err)
		}
		if len(clocks) != 1 {
			t.Fatalf("clocks = %d, want 1", len(clocks))
		}
	})

	t.Run("clock missing", func(t *testing.T) {
		t.Parallel()
		store := open(t)
		if _, err := store.GetClock(context.Background(), "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		err := store.PutClock(context.Background(), storage.ClockRecord{ID: "nope", State: clock.Snapshot{Segments: 4}})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on put, got %v", err)
		}
	})

	t.Run("journal newest first", func(t *testing.T) {
		t.Parallel()
		store := open(t)
		ctx := context.Background()
		now := time.Date(2026, time.March, 3, 22, 0, 0, 0, time.UTC)
		var seqs []int64
		for i := 1; i <= 3; i++ {
			entry, err := store.AppendJournal(ctx, storage.JournalEntry{
				Kind:        storage.KindAction,
				CharacterID: "char-1",
				Size:        i,
				Rolls:       []int{i, 6},
				Value:       6,
				Degree:      "Full",
				Position:    "Risky",
				Effect:      "Standard",
				TraceID:     "trace",
				CreatedAt:   now.Add(time.Duration(i) * time.Second),
			})
			if err != nil {
				t.Fatalf("append entry %d: %v", i, err)
			}
			seqs = append(seqs, entry.Seq)
		}
		if !(seqs[0] < seqs[1] && seqs[1] < seqs[2]) {
			t.Fatalf("seqs not increasing: %v", seqs)
		}

		got, err := store.ListJournal(ctx, 2)
		if err != nil {
			t.Fatalf("list journal: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("entries = %d, want 2", len(got))
		}
		if got[0].Seq != seqs[2] || got[1].Seq != seqs[1] {
			t.Fatalf("order = [%d %d], want [%d %d]", got[0].Seq, got[1].Seq, seqs[2], seqs[1])
		}
		if !slices.Equal(got[0].Rolls, []int{3, 6}) {
			t.Fatalf("rolls = %v, want [3 6]", got[0].Rolls)
		}
		if got[0].TraceID != "trace" {
			t.Fatalf("trace id = %q, want trace", got[0].TraceID)
		}

		all, err := store.ListJournal(ctx, 0)
		if err != nil {
			t.Fatalf("list journal: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("entries = %d, want 3", len(all))
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		store := open(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, err := store.GetCharacter(ctx, "char-1"); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if _, err := store.ListJournal(ctx, 1); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}

func newCharacter(id, name string, at time.Time) storage.CharacterRecord {
	return storage.CharacterRecord{
		ID:        id,
		State:     character.Snapshot{Name: name, Capacity: character.DefaultCapacity},
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func assertCharacter(t *testing.T, got, want storage.CharacterRecord) {
	t.Helper()
	if got.ID != want.ID {
		t.Fatalf("id = %q, want %q", got.ID, want.ID)
	}
	if got.State.Name != want.State.Name {
		t.Fatalf("name = %q, want %q", got.State.Name, want.State.Name)
	}
	if got.State.Stress != want.State.Stress {
		t.Fatalf("stress = %d, want %d", got.State.Stress, want.State.Stress)
	}
	if !slices.Equal(got.State.Traumas, want.State.Traumas) {
		t.Fatalf("traumas = %v, want %v", got.State.Traumas, want.State.Traumas)
	}
	if !slices.Equal(got.State.Harm, want.State.Harm) {
		t.Fatalf("harm = %v, want %v", got.State.Harm, want.State.Harm)
	}
	if got.State.Capacity != want.State.Capacity {
		t.Fatalf("capacity = %+v, want %+v", got.State.Capacity, want.State.Capacity)
	}
	if !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Fatalf("updated_at = %v, want %v", got.UpdatedAt, want.UpdatedAt)
	}
}
