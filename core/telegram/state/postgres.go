package state

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

const (
	queryLoad   = `SELECT state FROM pending_states WHERE user_id = $1`
	queryDelete = `DELETE FROM pending_states WHERE user_id = $1`
	queryTake   = `DELETE FROM pending_states WHERE user_id = $1 RETURNING state`
	querySave   = `INSERT INTO pending_states (user_id, state, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (user_id) DO UPDATE SET state = EXCLUDED.state, updated_at = EXCLUDED.updated_at`
)

type postgresBackend struct {
	db *sqlx.DB
}

// NewPostgresBackend stores states in the pending_states table.
func NewPostgresBackend(db *sqlx.DB) Backend {
	return &postgresBackend{db: db}
}

func (p *postgresBackend) Load(ctx context.Context, userID int64) (State, bool, error) {
	return p.scanOne(ctx, queryLoad, userID)
}

func (p *postgresBackend) Save(ctx context.Context, userID int64, st State) error {
	_, err := p.db.ExecContext(ctx, querySave, userID, string(st))
	return err
}

func (p *postgresBackend) Delete(ctx context.Context, userID int64) error {
	_, err := p.db.ExecContext(ctx, queryDelete, userID)
	return err
}

func (p *postgresBackend) Take(ctx context.Context, userID int64) (State, bool, error) {
	return p.scanOne(ctx, queryTake, userID)
}

func (p *postgresBackend) scanOne(ctx context.Context, query string, userID int64) (State, bool, error) {
	var raw string
	err := p.db.GetContext(ctx, &raw, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return StateIdle, false, nil
	}
	if err != nil {
		return StateIdle, false, err
	}
	return State(raw), true, nil
}
