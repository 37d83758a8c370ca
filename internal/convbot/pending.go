package convbot

import (
	"context"
	"log/slog"
	"strings"

	"github.com/m3rciful/nbrbbot/core/logger"
	"github.com/m3rciful/nbrbbot/core/telegram/state"
	"github.com/m3rciful/nbrbbot/internal/currency"
)

const awaitingAmountPrefix = "awaiting_amount:"

// PendingStore records which conversion a user is about to enter an amount for.
type PendingStore struct {
	store *state.Store
}

// NewPendingStore wraps a generic state store.
func NewPendingStore(store *state.Store) *PendingStore {
	return &PendingStore{store: store}
}

// SetPending marks the user as awaiting an amount for pair, replacing any earlier pair.
func (p *PendingStore) SetPending(ctx context.Context, userID int64, pair currency.Pair) error {
	return p.store.Set(ctx, userID, awaitingState(pair))
}

// TakePending consumes the user's pending pair. ok is false when the user is idle.
func (p *PendingStore) TakePending(ctx context.Context, userID int64) (currency.Pair, bool, error) {
	st, err := p.store.Take(ctx, userID)
	if err != nil {
		return currency.Pair{}, false, err
	}
	pair, ok := pairFrom(ctx, st)
	return pair, ok, nil
}

// PeekPending reports the user's pending pair without consuming it.
func (p *PendingStore) PeekPending(ctx context.Context, userID int64) (currency.Pair, bool, error) {
	st, err := p.store.Get(ctx, userID)
	if err != nil {
		return currency.Pair{}, false, err
	}
	pair, ok := pairFrom(ctx, st)
	return pair, ok, nil
}

// Clear returns the user to idle.
func (p *PendingStore) Clear(ctx context.Context, userID int64) error {
	return p.store.Clear(ctx, userID)
}

// pairFrom decodes an awaiting-amount state. Idle and unrecognised states yield ok=false.
func pairFrom(ctx context.Context, st state.State) (currency.Pair, bool) {
	if st == state.StateIdle {
		return currency.Pair{}, false
	}
	raw, found := strings.CutPrefix(string(st), awaitingAmountPrefix)
	if !found {
		logger.Warn(ctx, "convbot", "state.unknown", slog.String("state", string(st)))
		return currency.Pair{}, false
	}
	pair, err := currency.ParsePair(raw)
	if err != nil {
		logger.Warn(ctx, "convbot", "state.unknown",
			slog.String("state", string(st)),
			slog.String("err", err.Error()),
		)
		return currency.Pair{}, false
	}
	return pair, true
}

func awaitingState(pair currency.Pair) state.State {
	return state.State(awaitingAmountPrefix + pair.String())
}
