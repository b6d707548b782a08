package duel

import "context"

// Store persists sessions for the manager. Implementations are dumb
// key-value layers; command atomicity comes from the manager's per-session
// lock, never from the store.
type Store interface {
	// Save writes the session under its id.
	Save(ctx context.Context, s *Session) error
	// Load returns the session or (nil, nil) when the id is unknown.
	Load(ctx context.Context, id string) (*Session, error)
	// Delete removes the session; deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
	// List returns a snapshot of all live sessions for the lobby view.
	List(ctx context.Context) ([]*Session, error)
}
