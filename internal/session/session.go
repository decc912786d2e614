package session

import (
	"context"
	"errors"

	"github.com/planloop/content-planner/internal/domain"
	"github.com/planloop/content-planner/internal/repositories/content"
)

var ErrNoActiveScope = errors.New("no active session scope")

// Coordinator owns the session state machine and decides which metadata
// backend is active. Transitions are explicit: sign-in, sign-out and guest
// entry; nothing happens implicitly. Entering a session replaces the
// displayed collection wholesale, leaving one never merges scopes.
type Coordinator interface {
	// SignIn runs the provider flow and, on success, switches to the
	// remote backend scoped to the resolved user. Failures are reported
	// with guidance and leave the coordinator unauthenticated.
	SignIn(ctx context.Context) error
	// SignOut clears the displayed collection and returns to the
	// unauthenticated state.
	SignOut(ctx context.Context) error
	// EnterGuest selects the local backend under the synthetic guest
	// scope. No network identity is involved.
	EnterGuest(ctx context.Context) error
	// Watch subscribes to the identity provider's state changes so a
	// persisted session is adopted on startup.
	Watch()
	// Current returns a snapshot of the session state.
	Current() domain.Session
	// ActiveStore returns the active metadata backend and its scope,
	// ErrNoActiveScope before any session has been entered.
	ActiveStore() (content.Repository, domain.Scope, error)
}
