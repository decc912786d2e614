package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/planloop/content-planner/internal/domain"
)

// FailureKind classifies sign-in failures so they can be surfaced with
// actionable guidance instead of a raw provider error.
type FailureKind string

const (
	KindDomainNotAuthorized FailureKind = "domain-not-authorized"
	KindProviderDisabled    FailureKind = "provider-disabled"
	KindPopupBlocked        FailureKind = "popup-blocked"
	KindInvalidCredentials  FailureKind = "invalid-credentials"
	KindUnknown             FailureKind = "unknown"
)

// AuthError is a sign-in failure with a classified kind.
type AuthError struct {
	Kind FailureKind
	Err  error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth failure (%s): %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("auth failure (%s)", e.Kind)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Guidance returns the human-readable explanation shown to the user.
func (e *AuthError) Guidance() string {
	switch e.Kind {
	case KindDomainNotAuthorized:
		return "This domain is not authorized for sign-in. Add it to the provider's allowed domains."
	case KindProviderDisabled:
		return "The sign-in provider is disabled. Enable it in the provider console."
	case KindPopupBlocked:
		return "The sign-in window was blocked. Allow popups for this site and try again."
	case KindInvalidCredentials:
		return "Sign-in was rejected. Check your credentials and try again."
	default:
		return "Sign-in failed. Please try again."
	}
}

// KindOf extracts the failure kind from an error chain, KindUnknown when the
// error is not a classified auth failure.
func KindOf(err error) FailureKind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

//go:generate go run go.uber.org/mock/mockgen -source=auth.go -destination=mocks/mock.go -package=mocks

// Provider is the identity provider collaborator, typically a hosted
// OAuth popup flow. The coordinator only depends on this contract.
type Provider interface {
	// SignIn resolves the user's identity, or fails with an *AuthError.
	SignIn(ctx context.Context) (*domain.Identity, error)
	// SignOut drops the provider-side session.
	SignOut(ctx context.Context) error
	// OnStateChange registers a callback delivering the current identity,
	// or nil when signed out. The callback is invoked once on registration
	// with the restored state.
	OnStateChange(fn func(*domain.Identity))
}
