package blobstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/planloop/content-planner/internal/domain"
	"github.com/planloop/content-planner/pkg/logger"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()

	opts := badger.DefaultOptions(t.TempDir())
	opts.Logger = nil

	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	return NewBadgerStore(db, logger.NewNop())
}

func TestPut_PartialUpdatePreservesOtherSlot(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Put(ctx, "rec-1", domain.BlobVideo, "clip.mp4", []byte("video-bytes")))
	require.NoError(t, store.Put(ctx, "rec-1", domain.BlobThumbnail, "cover.jpg", []byte("thumb-bytes")))

	entry, err := store.Get(ctx, "rec-1")
	require.NoError(t, err)
	require.Equal(t, []byte("video-bytes"), entry.Video)
	require.Equal(t, "clip.mp4", entry.VideoName)
	require.Equal(t, []byte("thumb-bytes"), entry.Thumbnail)
	require.Equal(t, "cover.jpg", entry.ThumbnailName)
}

func TestPut_UpdatesTimestamp(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Put(ctx, "rec-1", domain.BlobVideo, "clip.mp4", []byte("v1")))
	first, err := store.Get(ctx, "rec-1")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	require.NoError(t, store.Put(ctx, "rec-1", domain.BlobVideo, "clip.mp4", []byte("v2")))
	second, err := store.Get(ctx, "rec-1")
	require.NoError(t, err)

	require.True(t, second.UpdatedAt.After(first.UpdatedAt))
}

func TestPut_RejectsEmptyID(t *testing.T) {
	store := newTestStore(t)
	err := store.Put(context.Background(), "", domain.BlobVideo, "clip.mp4", []byte("x"))
	require.Error(t, err)
}

func TestGet_AbsentEntry(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_RemovesEntry(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Put(ctx, "rec-1", domain.BlobVideo, "clip.mp4", []byte("v")))
	require.NoError(t, store.Delete(ctx, "rec-1"))

	_, err := store.Get(ctx, "rec-1")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting again is not an error.
	require.NoError(t, store.Delete(ctx, "rec-1"))
}

func TestPut_ConcurrentSlotsDoNotLoseUpdates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	for i := 0; i < 20; i++ {
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			require.NoError(t, store.Put(ctx, "rec-1", domain.BlobVideo, "clip.mp4", []byte("video")))
		}()
		go func() {
			defer wg.Done()
			require.NoError(t, store.Put(ctx, "rec-1", domain.BlobThumbnail, "cover.jpg", []byte("thumb")))
		}()
		wg.Wait()

		entry, err := store.Get(ctx, "rec-1")
		require.NoError(t, err)
		require.True(t, entry.HasVideo(), "video slot lost on iteration %d", i)
		require.True(t, entry.HasThumbnail(), "thumbnail slot lost on iteration %d", i)
	}
}

func TestKeys_ListsStoredIDs(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Put(ctx, "rec-a", domain.BlobVideo, "a.mp4", []byte("a")))
	require.NoError(t, store.Put(ctx, "rec-b", domain.BlobThumbnail, "b.jpg", []byte("b")))

	ids, err := store.Keys(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"rec-a", "rec-b"}, ids)
}
