package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/statemig/internal/blockstate"
	"github.com/roach88/statemig/internal/metrics"
	"github.com/roach88/statemig/internal/upgrade"
)

// UpgradeAll upgrades every row written before u's latest version and stamps
// it with that version. All rows and the run record are committed in one
// transaction; on error nothing is written.
//
// m may be nil.
func (s *Store) UpgradeAll(ctx context.Context, u *upgrade.Upgrader, m *metrics.Metrics) (Run, error) {
	start := time.Now()
	latest := u.LatestVersion()

	runID, err := s.runIDs.Generate()
	if err != nil {
		return Run{}, fmt.Errorf("generate run id: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin upgrade: %w", err)
	}
	defer tx.Rollback()

	stale, err := s.queryRecords(ctx, tx, `
		SELECT id, state, state_hash, version
		FROM block_states
		WHERE version < ?
		ORDER BY id ASC
	`, int64(latest.ID()))
	if err != nil {
		return Run{}, err
	}

	run := Run{
		ID:            runID,
		TargetVersion: latest,
		SchemaCount:   len(u.Schemas()),
		Scanned:       len(stale),
	}

	for _, rec := range stale {
		upgraded := u.Upgrade(rec.State, rec.Version)
		hash := blockstate.Hash(upgraded)
		changed := hash != rec.Hash
		if changed {
			run.Changed++
		}
		m.StateUpgraded(changed)

		if err := updateRecord(ctx, tx, rec.ID, upgraded, hash, int64(latest.ID())); err != nil {
			return Run{}, err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO upgrade_runs (id, target_version, schema_count, scanned, changed)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, int64(latest.ID()), run.SchemaCount, run.Scanned, run.Changed); err != nil {
		return Run{}, fmt.Errorf("record upgrade run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit upgrade: %w", err)
	}
	m.ObserveBatch(start)
	return run, nil
}

func updateRecord(ctx context.Context, tx *sql.Tx, id int64, state blockstate.State, hash string, version int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE block_states
		SET name = ?, state = ?, state_hash = ?, version = ?
		WHERE id = ?
	`, state.Name, string(blockstate.Encode(state)), hash, version, id)
	if err != nil {
		return fmt.Errorf("update block state %d: %w", id, err)
	}
	return nil
}
