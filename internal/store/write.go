package store

import (
	"context"
	"fmt"

	"github.com/roach88/statemig/internal/blockstate"
	"github.com/roach88/statemig/internal/schema"
)

// Put inserts a block state written at version v and returns its row id.
// The state is stored exactly as given; a state holding invalid UTF-8 is
// rejected with blockstate.ErrInvalidUTF8.
func (s *Store) Put(ctx context.Context, state blockstate.State, v schema.Version) (int64, error) {
	if err := blockstate.Check(state); err != nil {
		return 0, fmt.Errorf("put block state: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO block_states (name, state, state_hash, version)
		VALUES (?, ?, ?, ?)
	`,
		state.Name,
		string(blockstate.Encode(state)),
		blockstate.Hash(state),
		int64(v.ID()),
	)
	if err != nil {
		return 0, fmt.Errorf("put block state: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("put block state: %w", err)
	}
	return id, nil
}
