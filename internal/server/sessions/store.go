// Package sessions holds server-authoritative login sessions. The client
// only ever sees the opaque token; identity data stays on the server, so a
// tampered cookie can never grant admin rights.
package sessions

import "context"

// Snapshot is the identity captured at login time. It is deliberately NOT
// refreshed on profile edits; it can go stale until the next login. The
// admin flag here is informational only; the admin guard re-checks the
// credential store on every use.
type Snapshot struct {
	UserID   string `json:"user_id"`
	Handle   string `json:"handle"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

// Store creates, resolves and destroys sessions keyed by an opaque token
// with at least 128 bits of entropy. Implementations expire sessions after
// the TTL they were constructed with.
type Store interface {
	// Create stores snap under a fresh random token and returns the token.
	Create(ctx context.Context, snap Snapshot) (string, error)

	// Get returns the snapshot for a live session, or
	// common.ErrorNoSession for unknown or expired tokens.
	Get(ctx context.Context, token string) (*Snapshot, error)

	// Delete destroys the session. Deleting an unknown token is not an
	// error.
	Delete(ctx context.Context, token string) error

	// Close releases any background resources held by the store.
	Close() error
}

// tokenBytes gives 256-bit tokens, comfortably above the 128-bit floor.
const tokenBytes = 32
