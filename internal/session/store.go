// Package session persists per-user conversation state. The default
// backend is in-memory; a postgres backend survives restarts and lets
// several bot instances share sessions.
package session

import (
	"context"

	"github.com/wanderquest/questbot/internal/flow"
)

// Store holds one flow.Session per Telegram user.
//
// Do runs fn under the user's exclusive lock: concurrent updates for the
// same user serialize, different users proceed in parallel. fn receives
// the current session and may rewrite it in place; returning an error
// discards the rewrite.
// Update is Do without a failure path, for callers that always commit.
type Store interface {
	Get(ctx context.Context, userID int64) (flow.Session, error)
	Update(ctx context.Context, userID int64, fn func(*flow.Session)) error
	Do(ctx context.Context, userID int64, fn func(*flow.Session) error) error
	Reset(ctx context.Context, userID int64) error
}
