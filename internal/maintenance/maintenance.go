// Package maintenance removes orphaned media blobs. A blob becomes an
// orphan when its owning record was deleted from one backend while the
// other backend was unreachable.
package maintenance

import "context"

type Client interface {
	// Schedule starts the background sweep and returns immediately.
	Schedule(ctx context.Context) error
	// SweepOnce runs a single sweep pass.
	SweepOnce(ctx context.Context) error
}
