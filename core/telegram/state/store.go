package state

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/m3rciful/nbrbbot/core/logger"
)

// Store maps user ids to conversation states on top of a Backend.
type Store struct {
	backend Backend
}

// NewStore wraps backend into a Store.
func NewStore(backend Backend) (*Store, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	return &Store{backend: backend}, nil
}

// Set stores st for the user, replacing any previous state.
// Setting StateIdle is the same as Clear.
func (s *Store) Set(ctx context.Context, userID int64, st State) error {
	if st == StateIdle || st == "" {
		return s.Clear(ctx, userID)
	}
	if err := s.backend.Save(ctx, userID, st); err != nil {
		return fmt.Errorf("state set: %w", err)
	}
	logger.Debug(ctx, "tg", "state.set",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("state", string(st)),
	)
	return nil
}

// Take returns the user's state and removes it; StateIdle when none is stored.
func (s *Store) Take(ctx context.Context, userID int64) (State, error) {
	st, ok, err := s.backend.Take(ctx, userID)
	if err != nil {
		return StateIdle, fmt.Errorf("state take: %w", err)
	}
	if !ok {
		return StateIdle, nil
	}
	logger.Debug(ctx, "tg", "state.take",
		slog.String("status", "ok"),
		slog.Int64("user_id", userID),
		slog.String("state", string(st)),
	)
	return st, nil
}

// Get returns the user's state without consuming it.
func (s *Store) Get(ctx context.Context, userID int64) (State, error) {
	st, ok, err := s.backend.Load(ctx, userID)
	if err != nil {
		return StateIdle, fmt.Errorf("state get: %w", err)
	}
	if !ok {
		return StateIdle, nil
	}
	return st, nil
}

// Clear drops the user's state. Clearing an idle user is a no-op.
func (s *Store) Clear(ctx context.Context, userID int64) error {
	if err := s.backend.Delete(ctx, userID); err != nil {
		return fmt.Errorf("state clear: %w", err)
	}
	return nil
}
