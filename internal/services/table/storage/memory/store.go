// Package memory provides an in-process table store for tests and
// scripted scenarios.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/duskwall/internal/services/table/storage"
)

// Store keeps table state in maps guarded by a mutex.
type Store struct {
	mu         sync.RWMutex
	characters map[string]storage.CharacterRecord
	clocks     map[string]storage.ClockRecord
	journal    []storage.JournalEntry
	nextSeq    int64
}

// New returns an empty store.
func New() *Store {
	return &Store{
		characters: map[string]storage.CharacterRecord{},
		clocks:     map[string]storage.ClockRecord{},
	}
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// CreateCharacter inserts a new character.
func (s *Store) CreateCharacter(ctx context.Context, record storage.CharacterRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := strings.TrimSpace(record.ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.characters[id]; ok {
		return storage.ErrAlreadyExists
	}
	record.ID = id
	s.characters[id] = cloneCharacter(record)
	return nil
}

// PutCharacter replaces an existing character.
func (s *Store) PutCharacter(ctx context.Context, record storage.CharacterRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.characters[record.ID]
	if !ok {
		return storage.ErrNotFound
	}
	record.CreatedAt = existing.CreatedAt
	s.characters[record.ID] = cloneCharacter(record)
	return nil
}

// GetCharacter returns one character by id.
func (s *Store) GetCharacter(ctx context.Context, id string) (storage.CharacterRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.CharacterRecord{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.characters[strings.TrimSpace(id)]
	if !ok {
		return storage.CharacterRecord{}, storage.ErrNotFound
	}
	return cloneCharacter(record), nil
}

// ListCharacters returns every character ordered by creation time.
func (s *Store) ListCharacters(ctx context.Context) ([]storage.CharacterRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.CharacterRecord, 0, len(s.characters))
	for _, record := range s.characters {
		out = append(out, cloneCharacter(record))
	}
	sort.Slice(out, func(i, j int) bool {
		return lessByCreated(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

// CreateClock inserts a new clock.
func (s *Store) CreateClock(ctx context.Context, record storage.ClockRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	id := strings.TrimSpace(record.ID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clocks[id]; ok {
		return storage.ErrAlreadyExists
	}
	record.ID = id
	s.clocks[id] = record
	return nil
}

// PutClock replaces an existing clock.
func (s *Store) PutClock(ctx context.Context, record storage.ClockRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.clocks[record.ID]
	if !ok {
		return storage.ErrNotFound
	}
	record.CreatedAt = existing.CreatedAt
	s.clocks[record.ID] = record
	return nil
}

// GetClock returns one clock by id.
func (s *Store) GetClock(ctx context.Context, id string) (storage.ClockRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.ClockRecord{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.clocks[strings.TrimSpace(id)]
	if !ok {
		return storage.ClockRecord{}, storage.ErrNotFound
	}
	return record, nil
}

// ListClocks returns every clock ordered by creation time.
func (s *Store) ListClocks(ctx context.Context) ([]storage.ClockRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]storage.ClockRecord, 0, len(s.clocks))
	for _, record := range s.clocks {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		return lessByCreated(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

// AppendJournal stores entry with the next sequence number.
func (s *Store) AppendJournal(ctx context.Context, entry storage.JournalEntry) (storage.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return storage.JournalEntry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	entry.Seq = s.nextSeq
	entry.Rolls = slices.Clone(entry.Rolls)
	s.journal = append(s.journal, entry)
	return entry, nil
}

// ListJournal returns up to limit entries, newest first. A non-positive
// limit returns every entry.
func (s *Store) ListJournal(ctx context.Context, limit int) ([]storage.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.journal)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]storage.JournalEntry, 0, n)
	for i := len(s.journal) - 1; i >= 0 && len(out) < n; i-- {
		entry := s.journal[i]
		entry.Rolls = slices.Clone(entry.Rolls)
		out = append(out, entry)
	}
	return out, nil
}

func cloneCharacter(record storage.CharacterRecord) storage.CharacterRecord {
	record.State.Traumas = slices.Clone(record.State.Traumas)
	record.State.Harm = slices.Clone(record.State.Harm)
	return record
}

func lessByCreated(a, b time.Time, idA, idB string) bool {
	if a.Equal(b) {
		return idA < idB
	}
	return a.Before(b)
}

var _ storage.Store = (*Store)(nil)
