package sessionimpl

import (
	"context"
	"fmt"
	"sync"

	"github.com/planloop/content-planner/internal/auth"
	"github.com/planloop/content-planner/internal/collection"
	"github.com/planloop/content-planner/internal/domain"
	"github.com/planloop/content-planner/internal/notifier"
	"github.com/planloop/content-planner/internal/repositories/content"
	"github.com/planloop/content-planner/internal/session"
	"github.com/planloop/content-planner/pkg/config"
	"github.com/planloop/content-planner/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Provider   auth.Provider
	Local      content.Repository `name:"local"`
	Remote     content.Repository `name:"remote"`
	Collection *collection.Collection
	Notifier   notifier.Notifier
	Logger     logger.Logger
	Config     *config.Config
}

type SessionImpl struct {
	provider   auth.Provider
	local      content.Repository
	remote     content.Repository
	collection *collection.Collection
	notifier   notifier.Notifier
	logger     logger.Logger
	guestID    string

	mu       sync.Mutex
	state    domain.SessionState
	identity *domain.Identity
	scope    domain.Scope
	active   content.Repository
}

func New(opts Opts) *SessionImpl {
	return &SessionImpl{
		provider:   opts.Provider,
		local:      opts.Local,
		remote:     opts.Remote,
		collection: opts.Collection,
		notifier:   opts.Notifier,
		logger:     opts.Logger,
		guestID:    opts.Config.Session.GuestID,
		state:      domain.StateUnauthenticated,
	}
}

var _ session.Coordinator = (*SessionImpl)(nil)

func (s *SessionImpl) SignIn(ctx context.Context) error {
	s.mu.Lock()
	if s.state == domain.StateAuthenticating {
		s.mu.Unlock()
		return fmt.Errorf("sign-in already in progress")
	}
	s.state = domain.StateAuthenticating
	s.mu.Unlock()

	identity, err := s.provider.SignIn(ctx)
	if err != nil {
		s.mu.Lock()
		s.state = domain.StateUnauthenticated
		s.mu.Unlock()

		kind := auth.KindOf(err)
		guidance := (&auth.AuthError{Kind: kind}).Guidance()
		s.logger.Error("Sign-in failed", "kind", kind, "error", err)
		s.notifier.Notify(ctx, "Sign-in failed: "+guidance)
		return err
	}

	s.adopt(ctx, identity)
	return nil
}

func (s *SessionImpl) SignOut(ctx context.Context) error {
	if err := s.provider.SignOut(ctx); err != nil {
		s.logger.Error("Provider sign-out failed", "error", err)
		s.notifier.Notify(ctx, "Sign-out failed, your session may still be active elsewhere.")
		return err
	}

	s.collection.Clear()

	s.mu.Lock()
	s.state = domain.StateUnauthenticated
	s.identity = nil
	s.scope = ""
	s.active = nil
	s.mu.Unlock()

	s.logger.Info("Signed out, displayed collection cleared")
	return nil
}

func (s *SessionImpl) EnterGuest(ctx context.Context) error {
	scope := domain.GuestScope(s.guestID)
	s.load(ctx, s.local, scope)

	s.mu.Lock()
	s.state = domain.StateUnauthenticated
	s.identity = nil
	s.scope = scope
	s.active = s.local
	s.mu.Unlock()

	s.logger.Info("Entered guest mode", "scope", scope)
	return nil
}

func (s *SessionImpl) Watch() {
	s.provider.OnStateChange(func(identity *domain.Identity) {
		if identity != nil {
			s.logger.Info("Restored session from provider", "user", identity.UserID)
			s.adopt(context.Background(), identity)
			return
		}

		s.mu.Lock()
		wasAuthenticated := s.state == domain.StateAuthenticated
		s.mu.Unlock()
		if wasAuthenticated {
			if err := s.SignOut(context.Background()); err != nil {
				s.logger.Error("Sign-out on provider state change failed", "error", err)
			}
		}
	})
}

func (s *SessionImpl) Current() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	var identity *domain.Identity
	if s.identity != nil {
		copied := *s.identity
		identity = &copied
	}
	return domain.Session{
		State:    s.state,
		Identity: identity,
		Scope:    s.scope,
	}
}

func (s *SessionImpl) ActiveStore() (content.Repository, domain.Scope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil, "", session.ErrNoActiveScope
	}
	return s.active, s.scope, nil
}

// adopt switches to the remote backend for the identity's scope and
// replaces the displayed collection with whatever that scope holds.
func (s *SessionImpl) adopt(ctx context.Context, identity *domain.Identity) {
	scope := domain.UserScope(identity.UserID)
	s.load(ctx, s.remote, scope)

	s.mu.Lock()
	s.state = domain.StateAuthenticated
	s.identity = identity
	s.scope = scope
	s.active = s.remote
	s.mu.Unlock()

	s.logger.Info("Session authenticated", "user", identity.UserID, "scope", scope)
}

// load pulls the scope's collection into the displayed set. A failed load
// degrades to an empty view and is reported apart from "no records yet".
func (s *SessionImpl) load(ctx context.Context, repo content.Repository, scope domain.Scope) {
	records, outcome, err := repo.LoadAll(ctx, scope)
	if outcome == content.LoadFailed {
		s.logger.Error("Collection load failed, showing empty set", "scope", scope, "error", err)
		s.notifier.Notify(ctx, "Your saved cards could not be loaded right now. Showing an empty board.")
	}
	s.collection.Replace(records)
}
