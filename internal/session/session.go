// Package session binds chat session ids to the company they were opened for.
package session

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// ErrSessionMismatch is returned when a session id is replayed for another company
var ErrSessionMismatch = errors.New("session belongs to a different company")

// Prefix marks server-issued session ids
const Prefix = "session_"

// NewID issues a fresh session id
func NewID() string {
	return Prefix + uuid.NewString()
}

// Store remembers which company a session was opened for. Bind records the
// binding on first use and refreshes its lifetime on later uses.
type Store interface {
	Bind(ctx context.Context, sessionID, companyID string) error
	Ping(ctx context.Context) error
}

// Valid reports whether a client-supplied session id is acceptable
func Valid(sessionID string) bool {
	if sessionID == "" || len(sessionID) > 100 {
		return false
	}
	return !strings.ContainsFunc(sessionID, func(r rune) bool {
		return r < 0x21 || r == 0x7f
	})
}
