// Package sqlite provides a SQLite-backed table storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/duskwall/internal/core/character"
	sqlitemigrate "github.com/louisbranch/duskwall/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/duskwall/internal/services/table/storage"
	"github.com/louisbranch/duskwall/internal/services/table/storage/sqlite/migrations"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists table state in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite table store and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	sqlDB, err := sqlitemigrate.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := sqlitemigrate.ApplyMigrations(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateCharacter inserts one character with its traumas and harm.
func (s *Store) CreateCharacter(ctx context.Context, record storage.CharacterRecord) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return fmt.Errorf("character id is required")
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		capacity := record.State.Capacity
		_, err := tx.ExecContext(ctx, `
INSERT INTO characters (id, name, stress, cap_lesser, cap_moderate, cap_severe, cap_fatal, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id,
			record.State.Name,
			record.State.Stress,
			capacity.Lesser,
			capacity.Moderate,
			capacity.Severe,
			capacity.Fatal,
			toMillis(record.CreatedAt),
			toMillis(record.UpdatedAt),
		)
		if err != nil {
			if isUniqueViolation(err) {
				return storage.ErrAlreadyExists
			}
			return fmt.Errorf("insert character: %w", err)
		}
		return writeCharacterTracks(ctx, tx, id, record.State)
	})
}

// PutCharacter replaces one existing character's state.
func (s *Store) PutCharacter(ctx context.Context, record storage.CharacterRecord) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	id := strings.TrimSpace(record.ID)
	return s.inTx(ctx, func(tx *sql.Tx) error {
		capacity := record.State.Capacity
		res, err := tx.ExecContext(ctx, `
UPDATE characters
SET name = ?, stress = ?, cap_lesser = ?, cap_moderate = ?, cap_severe = ?, cap_fatal = ?, updated_at = ?
WHERE id = ?`,
			record.State.Name,
			record.State.Stress,
			capacity.Lesser,
			capacity.Moderate,
			capacity.Severe,
			capacity.Fatal,
			toMillis(record.UpdatedAt),
			id,
		)
		if err != nil {
			return fmt.Errorf("update character: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update character rows affected: %w", err)
		}
		if affected == 0 {
			return storage.ErrNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM character_traumas WHERE character_id = ?`, id); err != nil {
			return fmt.Errorf("clear traumas: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM character_harm WHERE character_id = ?`, id); err != nil {
			return fmt.Errorf("clear harm: %w", err)
		}
		return writeCharacterTracks(ctx, tx, id, record.State)
	})
}

// GetCharacter loads one character by id.
func (s *Store) GetCharacter(ctx context.Context, id string) (storage.CharacterRecord, error) {
	if err := s.check(ctx); err != nil {
		return storage.CharacterRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, stress, cap_lesser, cap_moderate, cap_severe, cap_fatal, created_at, updated_at
FROM characters
WHERE id = ?`, strings.TrimSpace(id))
	record, err := scanCharacter(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.CharacterRecord{}, storage.ErrNotFound
		}
		return storage.CharacterRecord{}, fmt.Errorf("get character: %w", err)
	}
	if err := s.loadCharacterTracks(ctx, &record); err != nil {
		return storage.CharacterRecord{}, err
	}
	return record, nil
}

// ListCharacters returns every character ordered by creation time.
func (s *Store) ListCharacters(ctx context.Context) ([]storage.CharacterRecord, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, stress, cap_lesser, cap_moderate, cap_severe, cap_fatal, created_at, updated_at
FROM characters
ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	var records []storage.CharacterRecord
	for rows.Next() {
		record, err := scanCharacter(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan character: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate characters: %w", err)
	}
	_ = rows.Close()
	for i := range records {
		if err := s.loadCharacterTracks(ctx, &records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// CreateClock inserts one clock.
func (s *Store) CreateClock(ctx context.Context, record storage.ClockRecord) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return fmt.Errorf("clock id is required")
	}
	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO clocks (id, name, segments, filled, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		id,
		record.State.Name,
		record.State.Segments,
		record.State.Filled,
		toMillis(record.CreatedAt),
		toMillis(record.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("insert clock: %w", err)
	}
	return nil
}

// PutClock replaces one existing clock's state.
func (s *Store) PutClock(ctx context.Context, record storage.ClockRecord) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `
UPDATE clocks SET name = ?, segments = ?, filled = ?, updated_at = ?
WHERE id = ?`,
		record.State.Name,
		record.State.Segments,
		record.State.Filled,
		toMillis(record.UpdatedAt),
		strings.TrimSpace(record.ID),
	)
	if err != nil {
		return fmt.Errorf("update clock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update clock rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// GetClock loads one clock by id.
func (s *Store) GetClock(ctx context.Context, id string) (storage.ClockRecord, error) {
	if err := s.check(ctx); err != nil {
		return storage.ClockRecord{}, err
	}
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, segments, filled, created_at, updated_at
FROM clocks
WHERE id = ?`, strings.TrimSpace(id))
	record, err := scanClock(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ClockRecord{}, storage.ErrNotFound
		}
		return storage.ClockRecord{}, fmt.Errorf("get clock: %w", err)
	}
	return record, nil
}

// ListClocks returns every clock ordered by creation time.
func (s *Store) ListClocks(ctx context.Context) ([]storage.ClockRecord, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, name, segments, filled, created_at, updated_at
FROM clocks
ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list clocks: %w", err)
	}
	defer rows.Close()

	var records []storage.ClockRecord
	for rows.Next() {
		record, err := scanClock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan clock: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clocks: %w", err)
	}
	return records, nil
}

// AppendJournal inserts one journal entry and returns it with its sequence.
func (s *Store) AppendJournal(ctx context.Context, entry storage.JournalEntry) (storage.JournalEntry, error) {
	if err := s.check(ctx); err != nil {
		return storage.JournalEntry{}, err
	}
	rolls, err := json.Marshal(entry.Rolls)
	if err != nil {
		return storage.JournalEntry{}, fmt.Errorf("encode rolls: %w", err)
	}
	res, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO journal (
    kind, character_id, clock_id, size, rolls, value, critical, degree,
    position, effect, stress_cost, note, trace_id, span_id, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Kind,
		entry.CharacterID,
		entry.ClockID,
		entry.Size,
		string(rolls),
		entry.Value,
		entry.Critical,
		entry.Degree,
		entry.Position,
		entry.Effect,
		entry.StressCost,
		entry.Note,
		entry.TraceID,
		entry.SpanID,
		toMillis(entry.CreatedAt),
	)
	if err != nil {
		return storage.JournalEntry{}, fmt.Errorf("insert journal entry: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return storage.JournalEntry{}, fmt.Errorf("journal entry id: %w", err)
	}
	entry.Seq = seq
	return entry, nil
}

// ListJournal returns up to limit entries, newest first. A non-positive
// limit returns every entry.
func (s *Store) ListJournal(ctx context.Context, limit int) ([]storage.JournalEntry, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT seq, kind, character_id, clock_id, size, rolls, value, critical, degree,
       position, effect, stress_cost, note, trace_id, span_id, created_at
FROM journal
ORDER BY seq DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	defer rows.Close()

	var entries []storage.JournalEntry
	for rows.Next() {
		var (
			entry     storage.JournalEntry
			rolls     string
			createdAt int64
		)
		if err := rows.Scan(
			&entry.Seq,
			&entry.Kind,
			&entry.CharacterID,
			&entry.ClockID,
			&entry.Size,
			&rolls,
			&entry.Value,
			&entry.Critical,
			&entry.Degree,
			&entry.Position,
			&entry.Effect,
			&entry.StressCost,
			&entry.Note,
			&entry.TraceID,
			&entry.SpanID,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		if err := json.Unmarshal([]byte(rolls), &entry.Rolls); err != nil {
			return nil, fmt.Errorf("decode rolls for entry %d: %w", entry.Seq, err)
		}
		entry.CreatedAt = fromMillis(createdAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal: %w", err)
	}
	return entries, nil
}

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (s *Store) loadCharacterTracks(ctx context.Context, record *storage.CharacterRecord) error {
	traumaRows, err := s.sqlDB.QueryContext(ctx, `
SELECT trauma FROM character_traumas WHERE character_id = ? ORDER BY position ASC`, record.ID)
	if err != nil {
		return fmt.Errorf("list traumas: %w", err)
	}
	defer traumaRows.Close()
	for traumaRows.Next() {
		var name string
		if err := traumaRows.Scan(&name); err != nil {
			return fmt.Errorf("scan trauma: %w", err)
		}
		trauma, err := character.ParseTrauma(name)
		if err != nil {
			return fmt.Errorf("parse trauma %q: %w", name, err)
		}
		record.State.Traumas = append(record.State.Traumas, trauma)
	}
	if err := traumaRows.Err(); err != nil {
		return fmt.Errorf("iterate traumas: %w", err)
	}

	harmRows, err := s.sqlDB.QueryContext(ctx, `
SELECT severity, description FROM character_harm WHERE character_id = ? ORDER BY position ASC`, record.ID)
	if err != nil {
		return fmt.Errorf("list harm: %w", err)
	}
	defer harmRows.Close()
	for harmRows.Next() {
		var harm character.Harm
		if err := harmRows.Scan(&harm.Severity, &harm.Description); err != nil {
			return fmt.Errorf("scan harm: %w", err)
		}
		record.State.Harm = append(record.State.Harm, harm)
	}
	if err := harmRows.Err(); err != nil {
		return fmt.Errorf("iterate harm: %w", err)
	}
	return nil
}

func writeCharacterTracks(ctx context.Context, tx *sql.Tx, id string, state character.Snapshot) error {
	for i, trauma := range state.Traumas {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO character_traumas (character_id, position, trauma) VALUES (?, ?, ?)`,
			id, i, trauma.String(),
		); err != nil {
			return fmt.Errorf("insert trauma: %w", err)
		}
	}
	for i, harm := range state.Harm {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO character_harm (character_id, position, severity, description) VALUES (?, ?, ?, ?)`,
			id, i, harm.Severity, harm.Description,
		); err != nil {
			return fmt.Errorf("insert harm: %w", err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row rowScanner) (storage.CharacterRecord, error) {
	var (
		record    storage.CharacterRecord
		createdAt int64
		updatedAt int64
	)
	capacity := &record.State.Capacity
	if err := row.Scan(
		&record.ID,
		&record.State.Name,
		&record.State.Stress,
		&capacity.Lesser,
		&capacity.Moderate,
		&capacity.Severe,
		&capacity.Fatal,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.CharacterRecord{}, err
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

func scanClock(row rowScanner) (storage.ClockRecord, error) {
	var (
		record    storage.ClockRecord
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(
		&record.ID,
		&record.State.Name,
		&record.State.Segments,
		&record.State.Filled,
		&createdAt,
		&updatedAt,
	); err != nil {
		return storage.ClockRecord{}, err
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var _ storage.Store = (*Store)(nil)
