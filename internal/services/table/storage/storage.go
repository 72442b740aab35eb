// Package storage defines persistence contracts for table state:
// characters, clocks and the roll journal.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/duskwall/internal/core/character"
	"github.com/louisbranch/duskwall/internal/core/clock"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a record with the same id already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// CharacterRecord stores one character's state.
type CharacterRecord struct {
	ID        string
	State     character.Snapshot
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ClockRecord stores one progress clock.
type ClockRecord struct {
	ID        string
	State     clock.Snapshot
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Journal entry kinds.
const (
	KindAction     = "action"
	KindResistance = "resistance"
	KindClockTick  = "clock_tick"
)

// JournalEntry records one roll.
type JournalEntry struct {
	Seq         int64
	Kind        string
	CharacterID string
	ClockID     string
	Size        int
	Rolls       []int
	Value       int
	Critical    bool
	Degree      string
	Position    string
	Effect      string
	StressCost  int
	Note        string
	TraceID     string
	SpanID      string
	CreatedAt   time.Time
}

// CharacterStore persists characters.
type CharacterStore interface {
	CreateCharacter(ctx context.Context, record CharacterRecord) error
	PutCharacter(ctx context.Context, record CharacterRecord) error
	GetCharacter(ctx context.Context, id string) (CharacterRecord, error)
	ListCharacters(ctx context.Context) ([]CharacterRecord, error)
}

// ClockStore persists progress clocks.
type ClockStore interface {
	CreateClock(ctx context.Context, record ClockRecord) error
	PutClock(ctx context.Context, record ClockRecord) error
	GetClock(ctx context.Context, id string) (ClockRecord, error)
	ListClocks(ctx context.Context) ([]ClockRecord, error)
}

// JournalStore appends and lists roll entries.
type JournalStore interface {
	// AppendJournal stores entry and returns it with Seq assigned.
	AppendJournal(ctx context.Context, entry JournalEntry) (JournalEntry, error)
	// ListJournal returns up to limit entries, newest first.
	ListJournal(ctx context.Context, limit int) ([]JournalEntry, error)
}

// Store is the full table persistence surface.
type Store interface {
	CharacterStore
	ClockStore
	JournalStore
	Close() error
}
