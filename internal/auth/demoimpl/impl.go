package demoimpl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/planloop/content-planner/internal/auth"
	"github.com/planloop/content-planner/internal/domain"
	"github.com/planloop/content-planner/pkg/logger"
	"go.uber.org/fx"
)

// sessionKey is where the restored-session snapshot lives in the local db,
// mirroring how the hosted provider keeps a session token client-side.
const sessionKey = "auth:session"

// signInDelay simulates the popup round-trip of the real provider.
const signInDelay = 800 * time.Millisecond

var demoIdentity = domain.Identity{
	UserID:      "user-demo-12345",
	DisplayName: "Demo User",
	PhotoURL:    "https://example.com/avatar/default-user.png",
}

type Opts struct {
	fx.In

	DB     *badger.DB
	Logger logger.Logger
}

// DemoProvider is a development stand-in for the hosted identity provider.
// It resolves a fixed identity after a short delay and persists the session
// locally so state-change listeners see it again after a restart.
type DemoProvider struct {
	db     *badger.DB
	logger logger.Logger

	mu        sync.Mutex
	current   *domain.Identity
	listeners []func(*domain.Identity)
}

func New(opts Opts) *DemoProvider {
	return &DemoProvider{
		db:     opts.DB,
		logger: opts.Logger,
	}
}

var _ auth.Provider = (*DemoProvider)(nil)

func (p *DemoProvider) SignIn(ctx context.Context) (*domain.Identity, error) {
	select {
	case <-ctx.Done():
		return nil, &auth.AuthError{Kind: auth.KindPopupBlocked, Err: ctx.Err()}
	case <-time.After(signInDelay):
	}

	identity := demoIdentity

	data, err := json.Marshal(&identity)
	if err != nil {
		return nil, &auth.AuthError{Kind: auth.KindUnknown, Err: err}
	}
	err = p.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(sessionKey), data)
	})
	if err != nil {
		return nil, &auth.AuthError{Kind: auth.KindUnknown, Err: fmt.Errorf("persist session: %w", err)}
	}

	p.mu.Lock()
	p.current = &identity
	listeners := append([]func(*domain.Identity){}, p.listeners...)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(&identity)
	}

	return &identity, nil
}

func (p *DemoProvider) SignOut(ctx context.Context) error {
	err := p.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(sessionKey))
	})
	if err != nil {
		return fmt.Errorf("drop session: %w", err)
	}

	p.mu.Lock()
	p.current = nil
	listeners := append([]func(*domain.Identity){}, p.listeners...)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(nil)
	}

	return nil
}

func (p *DemoProvider) OnStateChange(fn func(*domain.Identity)) {
	p.mu.Lock()
	p.listeners = append(p.listeners, fn)
	if p.current == nil {
		p.current = p.restore()
	}
	current := p.current
	p.mu.Unlock()

	fn(current)
}

// restore reads the persisted session, nil when none exists.
func (p *DemoProvider) restore() *domain.Identity {
	var identity domain.Identity
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &identity)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			p.logger.Warn("Failed to restore saved session", "error", err)
		}
		return nil
	}
	return &identity
}
