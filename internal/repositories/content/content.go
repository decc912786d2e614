package content

import (
	"context"
	"errors"

	"github.com/planloop/content-planner/internal/domain"
)

var ErrCannotSave = errors.New("error saving content collection")

// LoadOutcome distinguishes "no records stored yet" from "the load failed
// and an empty collection is being substituted". Keeping the two apart lets
// callers report a failed load without blocking on it.
type LoadOutcome int

const (
	LoadOK LoadOutcome = iota
	LoadEmpty
	LoadFailed
)

func (o LoadOutcome) String() string {
	switch o {
	case LoadOK:
		return "ok"
	case LoadEmpty:
		return "empty"
	default:
		return "failed"
	}
}

//go:generate go run go.uber.org/mock/mockgen -source=content.go -destination=mocks/mock.go -package=mocks

// Repository stores the ordered record collection of one scope. Both the
// local and the remote backend satisfy this contract; the session
// coordinator picks which one is active.
type Repository interface {
	// LoadAll returns the collection in the order it was saved. A failed
	// load yields an empty slice, LoadFailed and the cause; callers treat
	// that as a degraded empty view, never as a blocking error.
	LoadAll(ctx context.Context, scope domain.Scope) ([]domain.ContentRecord, LoadOutcome, error)
	// SaveAll replaces the whole stored collection for the scope.
	SaveAll(ctx context.Context, scope domain.Scope, records []domain.ContentRecord) error
}
