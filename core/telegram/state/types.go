package state

import (
	"context"
	"errors"
)

// State identifies a conversation step for one user.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// ErrNilBackend is returned by NewStore when no backend is supplied.
var ErrNilBackend = errors.New("state: nil backend")

// Backend persists user states. Take must read and remove a state atomically.
type Backend interface {
	Load(ctx context.Context, userID int64) (State, bool, error)
	Save(ctx context.Context, userID int64, st State) error
	Delete(ctx context.Context, userID int64) error
	Take(ctx context.Context, userID int64) (State, bool, error)
}
