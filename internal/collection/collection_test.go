package collection

import (
	"testing"

	"github.com/planloop/content-planner/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestSnapshotIsACopy(t *testing.T) {
	c := New()
	c.Append(domain.ContentRecord{ID: "rec-1", Caption: "original"})

	snap := c.Snapshot()
	snap[0].Caption = "mutated"

	got, ok := c.Get("rec-1")
	require.True(t, ok)
	require.Equal(t, "original", got.Caption)
}

func TestUpdateMutatesInPlace(t *testing.T) {
	c := New()
	c.Append(domain.ContentRecord{ID: "rec-1"})

	ok := c.Update("rec-1", func(r *domain.ContentRecord) {
		r.Caption = "edited"
	})
	require.True(t, ok)

	got, _ := c.Get("rec-1")
	require.Equal(t, "edited", got.Caption)

	require.False(t, c.Update("rec-missing", func(r *domain.ContentRecord) {}))
}

func TestRemoveKeepsOrder(t *testing.T) {
	c := New()
	c.Append(domain.ContentRecord{ID: "rec-1"})
	c.Append(domain.ContentRecord{ID: "rec-2"})
	c.Append(domain.ContentRecord{ID: "rec-3"})

	require.True(t, c.Remove("rec-2"))
	require.False(t, c.Remove("rec-2"))

	snap := c.Snapshot()
	require.Len(t, snap, 2)
	require.Equal(t, "rec-1", snap[0].ID)
	require.Equal(t, "rec-3", snap[1].ID)
}

func TestReplaceAndClear(t *testing.T) {
	c := New()
	c.Append(domain.ContentRecord{ID: "rec-old"})

	c.Replace([]domain.ContentRecord{{ID: "rec-new"}})
	require.Equal(t, 1, c.Len())
	_, ok := c.Get("rec-old")
	require.False(t, ok)

	c.Clear()
	require.Equal(t, 0, c.Len())
}
