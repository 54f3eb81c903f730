package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/modwiki"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ modwiki.Store = (*ModStore)(nil)

const modColumns = "id, name, category, description, source_url, wiki_url, author, tags, last_seen"

// ModStore implements modwiki.Store using SQLite. Each ReplaceAll runs in
// a single transaction, so readers observe either the previous generation
// or the new one.
type ModStore struct {
	db *DB
}

// NewModStore creates a new ModStore.
func NewModStore(db *DB) *ModStore {
	return &ModStore{db: db}
}

// ReplaceAll atomically replaces every stored record with records.
func (s *ModStore) ReplaceAll(ctx context.Context, records []*modwiki.ModRecord, at time.Time) (err error) {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return modwiki.Errorf(modwiki.ESTORE, "failed to begin transaction: %v", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM mods"); err != nil {
		return modwiki.Errorf(modwiki.ESTORE, "failed to clear mods: %v", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO mods ("+modColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return modwiki.Errorf(modwiki.ESTORE, "failed to prepare insert: %v", err)
	}
	defer stmt.Close()

	for _, r := range records {
		var tags string
		tags, err = encodeTags(r.Tags)
		if err != nil {
			return modwiki.Errorf(modwiki.ESTORE, "failed to encode tags for %q: %v", r.ID, err)
		}
		if _, err = stmt.ExecContext(ctx, r.ID, r.Name, r.Category, r.Description,
			r.SourceURL, r.WikiURL, r.Author, tags, formatTime(r.LastSeen)); err != nil {
			return modwiki.Errorf(modwiki.ESTORE, "failed to insert mod %q: %v", r.ID, err)
		}
	}

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO generation (slot, id, updated_at, count) VALUES (1, ?, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET id = excluded.id, updated_at = excluded.updated_at, count = excluded.count
	`, uuid.New().String(), formatTime(at), len(records)); err != nil {
		return modwiki.Errorf(modwiki.ESTORE, "failed to record generation: %v", err)
	}

	if err = tx.Commit(); err != nil {
		return modwiki.Errorf(modwiki.ESTORE, "failed to commit: %v", err)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *ModStore) Get(ctx context.Context, id string) (*modwiki.ModRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+modColumns+" FROM mods WHERE id = ?", id)
	record, err := scanMod(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, modwiki.Errorf(modwiki.ENOTFOUND, "mod %q not found", id)
	}
	if err != nil {
		return nil, modwiki.Errorf(modwiki.ESTORE, "failed to read mod %q: %v", id, err)
	}
	return record, nil
}

// List returns all records ordered by ID.
func (s *ModStore) List(ctx context.Context) ([]*modwiki.ModRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+modColumns+" FROM mods ORDER BY id")
	if err != nil {
		return nil, modwiki.Errorf(modwiki.ESTORE, "failed to list mods: %v", err)
	}
	defer rows.Close()

	var records []*modwiki.ModRecord
	for rows.Next() {
		record, err := scanMod(rows)
		if err != nil {
			return nil, modwiki.Errorf(modwiki.ESTORE, "failed to read mod: %v", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, modwiki.Errorf(modwiki.ESTORE, "failed to list mods: %v", err)
	}
	return records, nil
}

// Freshness returns the current generation.
func (s *ModStore) Freshness(ctx context.Context) (*modwiki.Generation, error) {
	var gen modwiki.Generation
	var updatedAt string

	err := s.db.QueryRowContext(ctx, "SELECT id, updated_at, count FROM generation WHERE slot = 1").
		Scan(&gen.ID, &updatedAt, &gen.Count)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, modwiki.Errorf(modwiki.ENOTFOUND, "mod cache is empty")
	}
	if err != nil {
		return nil, modwiki.Errorf(modwiki.ESTORE, "failed to read generation: %v", err)
	}

	if gen.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, modwiki.Errorf(modwiki.ESTORE, "%v", err)
	}
	return &gen, nil
}

// Close closes the underlying database.
func (s *ModStore) Close() error {
	return s.db.Close()
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanMod(row scanner) (*modwiki.ModRecord, error) {
	var r modwiki.ModRecord
	var tags, lastSeen string

	if err := row.Scan(&r.ID, &r.Name, &r.Category, &r.Description,
		&r.SourceURL, &r.WikiURL, &r.Author, &tags, &lastSeen); err != nil {
		return nil, err
	}

	var err error
	if r.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	if r.LastSeen, err = parseTime(lastSeen, "last_seen"); err != nil {
		return nil, err
	}
	return &r, nil
}
