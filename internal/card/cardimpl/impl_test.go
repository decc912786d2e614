package cardimpl

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/planloop/content-planner/internal/blobstore"
	blobmocks "github.com/planloop/content-planner/internal/blobstore/mocks"
	"github.com/planloop/content-planner/internal/card"
	"github.com/planloop/content-planner/internal/collection"
	"github.com/planloop/content-planner/internal/domain"
	genmocks "github.com/planloop/content-planner/internal/generator/mocks"
	"github.com/planloop/content-planner/internal/notifier"
	"github.com/planloop/content-planner/internal/repositories/content"
	"github.com/planloop/content-planner/pkg/config"
	apperrors "github.com/planloop/content-planner/pkg/errors"
	"github.com/planloop/content-planner/pkg/logger"
)

const testDebounce = 30 * time.Millisecond

// debounceSettle is long enough for a testDebounce timer to have fired.
const debounceSettle = 150 * time.Millisecond

type staticScope struct {
	repo  content.Repository
	scope domain.Scope
}

func (s staticScope) ActiveStore() (content.Repository, domain.Scope, error) {
	return s.repo, s.scope, nil
}

type fixture struct {
	impl      *CardImpl
	repo      *content.LocalRepository
	blobs     blobstore.Store
	coll      *collection.Collection
	generator *genmocks.MockClient
	scope     domain.Scope
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	opts := badger.DefaultOptions(t.TempDir())
	opts.Logger = nil
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	ctrl := gomock.NewController(t)
	log := logger.NewNop()

	f := &fixture{
		repo:      content.NewLocalRepository(db, log),
		blobs:     blobstore.NewBadgerStore(db, log),
		coll:      collection.New(),
		generator: genmocks.NewMockClient(ctrl),
		scope:     domain.GuestScope("testguest"),
	}

	cfg := &config.Config{}
	cfg.Card.SaveDebounce = testDebounce

	f.impl = New(Opts{
		Scope:      staticScope{repo: f.repo, scope: f.scope},
		Blobs:      f.blobs,
		Generator:  f.generator,
		Collection: f.coll,
		Notifier:   notifier.NewNoop(),
		Logger:     log,
		Config:     cfg,
	})
	return f
}

func (f *fixture) persisted(t *testing.T) []domain.ContentRecord {
	t.Helper()
	records, _, err := f.repo.LoadAll(context.Background(), f.scope)
	require.NoError(t, err)
	return records
}

func TestCreateRecord_PersistsImmediately(t *testing.T) {
	f := newFixture(t)

	record, err := f.impl.CreateRecord(context.Background())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(record.ID, "rec-"))
	require.Equal(t, domain.Today(), record.ScheduledDate)

	persisted := f.persisted(t)
	require.Len(t, persisted, 1)
	require.Equal(t, record.ID, persisted[0].ID)
}

func TestOnFieldChanged_DebouncesTheSave(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.impl.CreateRecord(ctx)
	require.NoError(t, err)

	require.NoError(t, f.impl.OnFieldChanged(ctx, record.ID, card.FieldCaption, "draft caption"))

	// Before the debounce fires the stored caption is still empty.
	require.Equal(t, "", f.persisted(t)[0].Caption)

	time.Sleep(debounceSettle)
	require.Equal(t, "draft caption", f.persisted(t)[0].Caption)
}

func TestOnFieldChanged_SaveSnapshotsAtFireTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.impl.CreateRecord(ctx)
	require.NoError(t, err)

	// Two sibling-field edits inside the same debounce window must both
	// survive the single save.
	require.NoError(t, f.impl.OnFieldChanged(ctx, record.ID, card.FieldCaption, "the caption"))
	require.NoError(t, f.impl.OnFieldChanged(ctx, record.ID, card.FieldTopicContext, "the topic"))

	time.Sleep(debounceSettle)

	persisted := f.persisted(t)[0]
	require.Equal(t, "the caption", persisted.Caption)
	require.Equal(t, "the topic", persisted.TopicContext)
}

func TestOnFieldChanged_UnknownRecord(t *testing.T) {
	f := newFixture(t)

	err := f.impl.OnFieldChanged(context.Background(), "rec-missing", card.FieldCaption, "x")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestOnHashtagsChanged_OverflowWarnsButPersistsAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.impl.CreateRecord(ctx)
	require.NoError(t, err)

	tags := []string{"#a", "#b", "#c", "#d", "#e", "#f"}
	overflow, err := f.impl.OnHashtagsChanged(ctx, record.ID, tags)
	require.NoError(t, err)
	require.True(t, overflow)

	time.Sleep(debounceSettle)
	require.Equal(t, tags, f.persisted(t)[0].Hashtags)

	overflow, err = f.impl.OnHashtagsChanged(ctx, record.ID, tags[:3])
	require.NoError(t, err)
	require.False(t, overflow)
}

func TestOnMediaAttached_SavesImmediately(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.impl.CreateRecord(ctx)
	require.NoError(t, err)

	require.NoError(t, f.impl.OnMediaAttached(ctx, record.ID, domain.BlobVideo, "clip.mp4", []byte("video-bytes")))

	// No debounce wait: the reference is already persisted.
	require.Equal(t, "clip.mp4", f.persisted(t)[0].VideoBlobRef)

	entry, err := f.blobs.Get(ctx, record.ID)
	require.NoError(t, err)
	require.True(t, entry.HasVideo())
}

func TestOnMediaAttached_StorageFailureKeepsTextFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	record, err := f.impl.CreateRecord(ctx)
	require.NoError(t, err)
	require.NoError(t, f.impl.OnFieldChanged(ctx, record.ID, card.FieldCaption, "typed text"))

	failing := blobmocks.NewMockStore(ctrl)
	failing.EXPECT().
		Put(ctx, record.ID, domain.BlobVideo, "clip.mp4", gomock.Any()).
		Return(apperrors.ErrStorageFailure)
	f.impl.blobs = failing

	err = f.impl.OnMediaAttached(ctx, record.ID, domain.BlobVideo, "clip.mp4", []byte("x"))
	require.ErrorIs(t, err, apperrors.ErrStorageFailure)

	got, ok := f.coll.Get(record.ID)
	require.True(t, ok)
	require.Equal(t, "typed text", got.Caption)
	require.Empty(t, got.VideoBlobRef)
}

func TestOnGenerateRequested_WritesResultBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.impl.CreateRecord(ctx)
	require.NoError(t, err)
	require.NoError(t, f.impl.OnFieldChanged(ctx, record.ID, card.FieldTopicContext, "react hooks deep dive"))

	f.generator.EXPECT().
		Generate(ctx, "react hooks deep dive").
		Return(&domain.GeneratedContent{Caption: "generated caption", Hashtags: []string{"#react", "#hooks"}}, nil)

	result, err := f.impl.OnGenerateRequested(ctx, record.ID)
	require.NoError(t, err)
	require.Equal(t, "generated caption", result.Caption)

	persisted := f.persisted(t)[0]
	require.Equal(t, "generated caption", persisted.Caption)
	require.Equal(t, []string{"#react", "#hooks"}, persisted.Hashtags)
}

func TestOnGenerateRequested_InvalidTopicSurfaces(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.impl.CreateRecord(ctx)
	require.NoError(t, err)

	f.generator.EXPECT().
		Generate(ctx, "").
		Return(nil, apperrors.ErrInvalidInput)

	_, err = f.impl.OnGenerateRequested(ctx, record.ID)
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestOnDeleteRequested_RemovesMetadataAndBlob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.impl.CreateRecord(ctx)
	require.NoError(t, err)
	require.NoError(t, f.impl.OnMediaAttached(ctx, record.ID, domain.BlobVideo, "clip.mp4", []byte("v")))

	require.NoError(t, f.impl.OnDeleteRequested(ctx, record.ID))

	require.Empty(t, f.persisted(t))
	_, err = f.blobs.Get(ctx, record.ID)
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestOnDeleteRequested_BlobFailureStillRemovesMetadata(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)

	record, err := f.impl.CreateRecord(ctx)
	require.NoError(t, err)

	failing := blobmocks.NewMockStore(ctrl)
	failing.EXPECT().
		Delete(ctx, record.ID).
		Return(errors.New("device gone"))
	f.impl.blobs = failing

	err = f.impl.OnDeleteRequested(ctx, record.ID)
	require.Error(t, err)

	// The metadata removal was still attempted and persisted.
	require.Empty(t, f.persisted(t))
}

func TestFlush_PersistsPendingEdits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	record, err := f.impl.CreateRecord(ctx)
	require.NoError(t, err)

	require.NoError(t, f.impl.OnFieldChanged(ctx, record.ID, card.FieldCaption, "about to shut down"))
	require.NoError(t, f.impl.Flush(ctx))

	require.Equal(t, "about to shut down", f.persisted(t)[0].Caption)
}
