package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/wanderquest/questbot/internal/flow"
)

// Postgres stores sessions as jsonb rows, one per user. Do takes a row
// lock so concurrent updates for the same user serialize across bot
// instances, not just within one process.
type Postgres struct {
	db *sqlx.DB
}

var _ Store = (*Postgres)(nil)

// NewPostgres wraps an open connection pool. The sessions table is
// created by migrations, not here.
func NewPostgres(db *sqlx.DB) *Postgres {
	return &Postgres{db: db}
}

// Get returns the stored session or the default one when the row is
// missing.
func (p *Postgres) Get(ctx context.Context, userID int64) (flow.Session, error) {
	var raw []byte
	err := p.db.GetContext(ctx, &raw, `SELECT data FROM sessions WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return flow.NewSession(), nil
	}
	if err != nil {
		return flow.Session{}, fmt.Errorf("session: get %d: %w", userID, err)
	}

	var sess flow.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return flow.Session{}, fmt.Errorf("session: decode %d: %w", userID, err)
	}
	return sess, nil
}

// Do locks the user's row for the duration of fn and writes the result
// back in the same transaction.
func (p *Postgres) Do(ctx context.Context, userID int64, fn func(*flow.Session) error) error {
	tx, err := p.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("session: begin %d: %w", userID, err)
	}
	defer func() { _ = tx.Rollback() }()

	sess := flow.NewSession()
	var raw []byte
	err = tx.GetContext(ctx, &raw, `SELECT data FROM sessions WHERE user_id = $1 FOR UPDATE`, userID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// first contact, start from the default session
	case err != nil:
		return fmt.Errorf("session: lock %d: %w", userID, err)
	default:
		if err := json.Unmarshal(raw, &sess); err != nil {
			return fmt.Errorf("session: decode %d: %w", userID, err)
		}
	}

	if err := fn(&sess); err != nil {
		return err
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encode %d: %w", userID, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (user_id, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		userID, data)
	if err != nil {
		return fmt.Errorf("session: save %d: %w", userID, err)
	}
	return tx.Commit()
}

// Update applies fn under the user's row lock and always commits.
func (p *Postgres) Update(ctx context.Context, userID int64, fn func(*flow.Session)) error {
	return p.Do(ctx, userID, func(s *flow.Session) error {
		fn(s)
		return nil
	})
}

// Reset drops the user's row.
func (p *Postgres) Reset(ctx context.Context, userID int64) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("session: reset %d: %w", userID, err)
	}
	return nil
}
