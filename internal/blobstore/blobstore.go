package blobstore

import (
	"context"
	"errors"

	"github.com/planloop/content-planner/internal/domain"
)

var ErrNotFound = errors.New("blob entry not found")

//go:generate go run go.uber.org/mock/mockgen -source=blobstore.go -destination=mocks/mock.go -package=mocks

// Store is the key-indexed local store for large binary media, kept apart
// from the text metadata because the metadata backends have size ceilings
// unsuitable for binary payloads.
type Store interface {
	// Put writes one media slot of the entry keyed by id. It is a partial
	// update: writing a video never erases a stored thumbnail for the same
	// id, and vice versa. The entry is created on first write.
	Put(ctx context.Context, id string, kind domain.BlobKind, name string, data []byte) error
	// Get returns the entry for id, ErrNotFound when absent.
	Get(ctx context.Context, id string) (*domain.BlobEntry, error)
	// Delete removes the entry for id. Deleting an absent entry is not an
	// error.
	Delete(ctx context.Context, id string) error
	// Keys lists the ids of all stored entries.
	Keys(ctx context.Context) ([]string, error)
}
