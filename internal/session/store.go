package session

import "context"

// Store keeps sessions by id. Update runs fn against the current session (a
// fresh one if id is unknown) and saves the result unless fn fails; concurrent
// updates of the same id never interleave. fn may run more than once when a
// store retries a conflicting write, so it must only touch the session.
type Store interface {
	Load(ctx context.Context, id string) (Session, error)
	Update(ctx context.Context, id string, fn func(*Session) error) (Session, error)
}
