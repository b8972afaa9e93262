package feedlist

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(id string) Item {
	return Item{ID: id, Title: "case " + id, CreatedAt: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)}
}

func page(hasMore bool, cursor string, ids ...string) Page {
	p := Page{HasMore: hasMore, NextCursor: cursor}
	for _, id := range ids {
		p.Items = append(p.Items, item(id))
	}
	return p
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestInitialThenLoadMoreAccumulates(t *testing.T) {
	c := New()

	req, ok := c.StartInitial()
	require.True(t, ok)
	assert.Equal(t, KindInitial, req.Kind)
	assert.Empty(t, req.Cursor)

	// Only one initial load.
	_, ok = c.StartInitial()
	assert.False(t, ok)

	c.Apply(req, page(true, "cur1", "a", "b"))
	assert.Equal(t, []string{"a", "b"}, ids(c.Items()))
	assert.True(t, c.HasMore())

	more, ok := c.StartLoadMore()
	require.True(t, ok)
	assert.Equal(t, "cur1", more.Cursor)

	c.Apply(more, page(false, "", "b", "c"))
	assert.Equal(t, []string{"a", "b", "c"}, ids(c.Items()), "duplicate ids are dropped")
	assert.False(t, c.HasMore())

	_, ok = c.StartLoadMore()
	assert.False(t, ok, "loadMore past the last page is a no-op")
}

func TestLoadMoreIsNoOpWhileInFlight(t *testing.T) {
	c := New()
	req, _ := c.StartInitial()
	c.Apply(req, page(true, "cur1", "a"))

	_, ok := c.StartLoadMore()
	require.True(t, ok)
	_, ok = c.StartLoadMore()
	assert.False(t, ok, "second loadMore while one is in flight")
}

func TestRefreshDiscardsStaleLoadMore(t *testing.T) {
	c := New()
	req, _ := c.StartInitial()
	c.Apply(req, page(true, "cur1", "a", "b"))

	// A loadMore goes out, then the user pulls to refresh before it lands.
	stale, ok := c.StartLoadMore()
	require.True(t, ok)
	refresh, ok := c.StartRefresh()
	require.True(t, ok)
	assert.Empty(t, c.Items(), "refresh clears the accumulation")

	// Responses arrive out of order: refresh first, then the stale page.
	c.Apply(refresh, page(true, "cur2", "x", "y"))
	c.Apply(stale, page(true, "cur9", "c", "d"))

	assert.Equal(t, []string{"x", "y"}, ids(c.Items()), "stale loadMore must not repopulate the list")
	assert.Equal(t, "cur2", c.nextCursor, "stale cursor must not win")
}

func TestStaleLoadMoreArrivingBeforeRefreshResponse(t *testing.T) {
	c := New()
	req, _ := c.StartInitial()
	c.Apply(req, page(true, "cur1", "a"))

	stale, _ := c.StartLoadMore()
	refresh, _ := c.StartRefresh()

	c.Apply(stale, page(true, "cur9", "b", "c"))
	assert.Empty(t, c.Items(), "stale page before refresh lands is still discarded")

	c.Apply(refresh, page(false, "", "a"))
	assert.Equal(t, []string{"a"}, ids(c.Items()), "list equals exactly page 1 after refresh")
	assert.False(t, c.InFlight())
}

func TestSecondRefreshBlockedWhilePending(t *testing.T) {
	c := New()
	req, _ := c.StartInitial()
	c.Apply(req, page(true, "cur1", "a"))

	refresh, ok := c.StartRefresh()
	require.True(t, ok)
	_, ok = c.StartRefresh()
	assert.False(t, ok, "second refresh while one is pending")

	c.Apply(refresh, page(false, "", "a"))
	_, ok = c.StartRefresh()
	assert.True(t, ok, "refresh allowed again once the previous one landed")
}

func TestFailSetsErrorAndUnblocks(t *testing.T) {
	c := New()
	req, _ := c.StartInitial()

	boom := errors.New("network down")
	c.Fail(req, boom)
	assert.ErrorIs(t, c.Err(), boom)
	assert.False(t, c.InFlight())

	// Retry affordance: a refresh clears the slate.
	refresh, ok := c.StartRefresh()
	require.True(t, ok)
	c.Apply(refresh, page(false, "", "a"))
	assert.NoError(t, c.Err())
	assert.Equal(t, []string{"a"}, ids(c.Items()))
}

func TestStaleFailureIgnored(t *testing.T) {
	c := New()
	req, _ := c.StartInitial()
	c.Apply(req, page(true, "cur1", "a"))

	stale, _ := c.StartLoadMore()
	refresh, _ := c.StartRefresh()

	c.Fail(stale, errors.New("too late"))
	assert.NoError(t, c.Err(), "stale failure must not surface after refresh")

	c.Apply(refresh, page(false, "", "a"))
	assert.Equal(t, []string{"a"}, ids(c.Items()))
}

func TestDragClampAndRelease(t *testing.T) {
	c := New()
	req, _ := c.StartInitial()
	c.Apply(req, page(false, "", "a"))

	c.Drag(500)
	assert.Equal(t, MaxDragOffset, c.DragOffset())
	c.Drag(-10)
	assert.Equal(t, 0, c.DragOffset())

	// Short pull snaps back without refreshing.
	c.Drag(ReleaseThreshold - 1)
	_, ok := c.Release(true)
	assert.False(t, ok)
	assert.Equal(t, 0, c.DragOffset())

	// Full pull away from the top does not refresh.
	c.Drag(MaxDragOffset)
	_, ok = c.Release(false)
	assert.False(t, ok)

	// Full pull at the top does.
	c.Drag(MaxDragOffset)
	refresh, ok := c.Release(true)
	require.True(t, ok)
	assert.Equal(t, KindRefresh, refresh.Kind)
	assert.Empty(t, c.Items())
}
