package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/statemig/internal/blockstate"
	"github.com/roach88/statemig/internal/schema"
)

// ErrNotFound is returned by Get when no row has the requested id.
var ErrNotFound = errors.New("block state not found")

// Record is a stored block state.
type Record struct {
	ID      int64
	State   blockstate.State
	Hash    string
	Version schema.Version
}

// Run summarizes one UpgradeAll call.
type Run struct {
	ID            string
	TargetVersion schema.Version
	SchemaCount   int
	Scanned       int
	Changed       int
}

type scanner interface {
	Scan(dest ...any) error
}

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id int64) (Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, state, state_hash, version
		FROM block_states
		WHERE id = ?
	`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("get block state %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("get block state %d: %w", id, err)
	}
	return rec, nil
}

// List returns all records ordered by id.
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	return s.queryRecords(ctx, s.db, `
		SELECT id, state, state_hash, version
		FROM block_states
		ORDER BY id ASC
	`)
}

// Stale returns records written before version v, ordered by id.
func (s *Store) Stale(ctx context.Context, v schema.Version) ([]Record, error) {
	return s.queryRecords(ctx, s.db, `
		SELECT id, state, state_hash, version
		FROM block_states
		WHERE version < ?
		ORDER BY id ASC
	`, int64(v.ID()))
}

// Runs returns all recorded upgrade runs, oldest first.
// UUIDv7 ids sort by creation time.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, target_version, schema_count, scanned, changed
		FROM upgrade_runs
		ORDER BY id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query upgrade runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		var target int64
		if err := rows.Scan(&r.ID, &target, &r.SchemaCount, &r.Scanned, &r.Changed); err != nil {
			return nil, fmt.Errorf("scan upgrade run: %w", err)
		}
		r.TargetVersion = schema.VersionFromID(uint32(target))
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate upgrade runs: %w", err)
	}
	return runs, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) queryRecords(ctx context.Context, q querier, query string, args ...any) ([]Record, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query block states: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate block states: %w", err)
	}
	return records, nil
}

func scanRecord(row scanner) (Record, error) {
	var rec Record
	var state string
	var version int64
	if err := row.Scan(&rec.ID, &state, &rec.Hash, &version); err != nil {
		return Record{}, err
	}

	st, err := blockstate.Parse([]byte(state))
	if err != nil {
		return Record{}, fmt.Errorf("decode block state %d: %w", rec.ID, err)
	}
	rec.State = st
	rec.Version = schema.VersionFromID(uint32(version))
	return rec, nil
}
