package notifier

import "context"

//go:generate go run go.uber.org/mock/mockgen -source=notifier.go -destination=mocks/mock.go -package=mocks

// Notifier delivers transient, non-blocking notifications for failures that
// must reach the user without interrupting the session: storage failures,
// sign-in problems, a degraded remote load. Notifications are fire-and-
// forget; a failing notifier is logged, never propagated.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Noop discards every notification. Used in tests and in deployments
// without a configured channel.
type Noop struct{}

func (Noop) Notify(ctx context.Context, message string) {}

func NewNoop() Notifier { return Noop{} }
