package content

import (
	"context"
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/planloop/content-planner/internal/domain"
	"github.com/planloop/content-planner/pkg/logger"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) (*LocalRepository, *badger.DB) {
	t.Helper()

	opts := badger.DefaultOptions(t.TempDir())
	opts.Logger = nil

	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	return NewLocalRepository(db, logger.NewNop()), db
}

func someRecords(ids ...string) []domain.ContentRecord {
	records := make([]domain.ContentRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, domain.ContentRecord{
			ID:            id,
			ScheduledDate: "2026-08-31",
			Caption:       "caption for " + id,
			Hashtags:      []string{"#one", "#two"},
		})
	}
	return records
}

func TestLocal_RoundTripPreservesOrder(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	scope := domain.GuestScope("local")

	records := someRecords("rec-c", "rec-a", "rec-b")
	require.NoError(t, repo.SaveAll(ctx, scope, records))

	loaded, outcome, err := repo.LoadAll(ctx, scope)
	require.NoError(t, err)
	require.Equal(t, LoadOK, outcome)
	require.Equal(t, records, loaded)
}

func TestLocal_EmptyScope(t *testing.T) {
	repo, _ := newTestRepo(t)

	loaded, outcome, err := repo.LoadAll(context.Background(), domain.GuestScope("fresh"))
	require.NoError(t, err)
	require.Equal(t, LoadEmpty, outcome)
	require.Empty(t, loaded)
}

func TestLocal_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	require.NoError(t, repo.SaveAll(ctx, domain.UserScope("alice"), someRecords("rec-alice")))
	require.NoError(t, repo.SaveAll(ctx, domain.UserScope("bob"), someRecords("rec-bob")))

	loaded, _, err := repo.LoadAll(ctx, domain.UserScope("alice"))
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, "rec-alice", loaded[0].ID)
}

func TestLocal_SaveAllReplacesCollection(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	scope := domain.GuestScope("local")

	require.NoError(t, repo.SaveAll(ctx, scope, someRecords("rec-1", "rec-2")))
	require.NoError(t, repo.SaveAll(ctx, scope, someRecords("rec-2")))

	loaded, _, err := repo.LoadAll(ctx, scope)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	require.Equal(t, "rec-2", loaded[0].ID)
}

func TestLocal_HashtagOverflowIsPersisted(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)
	scope := domain.GuestScope("local")

	record := domain.ContentRecord{
		ID:       "rec-1",
		Hashtags: []string{"#a", "#b", "#c", "#d", "#e", "#f", "#g"},
	}
	require.True(t, record.HashtagOverflow())
	require.NoError(t, repo.SaveAll(ctx, scope, []domain.ContentRecord{record}))

	loaded, _, err := repo.LoadAll(ctx, scope)
	require.NoError(t, err)
	require.Len(t, loaded[0].Hashtags, 7)
}

func TestLocal_CorruptDataIsClearedAndReported(t *testing.T) {
	ctx := context.Background()
	repo, db := newTestRepo(t)
	scope := domain.GuestScope("local")

	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(contentPrefix+string(scope)), []byte("{not json"))
	}))

	loaded, outcome, err := repo.LoadAll(ctx, scope)
	require.Error(t, err)
	require.Equal(t, LoadFailed, outcome)
	require.Empty(t, loaded)

	// The poisoned key is gone, so the next load starts clean.
	loaded, outcome, err = repo.LoadAll(ctx, scope)
	require.NoError(t, err)
	require.Equal(t, LoadEmpty, outcome)
	require.Empty(t, loaded)
}

func TestLocal_ScopesListing(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepo(t)

	require.NoError(t, repo.SaveAll(ctx, domain.GuestScope("local"), someRecords("rec-1")))
	require.NoError(t, repo.SaveAll(ctx, domain.UserScope("alice"), someRecords("rec-2")))

	scopes, err := repo.Scopes(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []domain.Scope{domain.GuestScope("local"), domain.UserScope("alice")}, scopes)
}
