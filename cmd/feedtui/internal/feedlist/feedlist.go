// Package feedlist holds the pure pagination state machine behind the feed
// browser: ordered, deduplicated accumulation of fetched pages, infinite
// scroll, and pull-to-refresh. It issues request descriptors and consumes
// responses; transport is the caller's problem, which keeps the whole
// machine synchronously testable.
package feedlist

import "time"

// Item is one case row in the accumulated list.
type Item struct {
	ID        string
	Title     string
	Status    string
	Stage     string
	Raised    int64
	Goal      int64
	Currency  string
	CreatedAt time.Time
}

// Page is one fetched page of items.
type Page struct {
	Items      []Item
	HasMore    bool
	NextCursor string
}

// RequestKind distinguishes why a request was issued.
type RequestKind int

const (
	KindInitial RequestKind = iota
	KindLoadMore
	KindRefresh
)

// Request describes a fetch the caller should perform. Epoch ties the
// eventual response back to the controller state that issued it.
type Request struct {
	Kind   RequestKind
	Cursor string // empty means page 1
	Epoch  int
}

const (
	// MaxDragOffset clamps the pull-to-refresh gesture.
	MaxDragOffset = 120
	// ReleaseThreshold is the minimum drag offset that triggers a refresh
	// on release.
	ReleaseThreshold = 60
)

// Controller accumulates pages of items. It runs on a single event loop:
// methods are never called concurrently, so staleness is handled by the
// epoch counter rather than locks. A response is discarded when its epoch
// predates the most recent refresh; the in-flight call itself is never
// aborted.
type Controller struct {
	items      []Item
	seen       map[string]struct{}
	nextCursor string
	hasMore    bool
	loaded     bool

	inFlight       bool
	refreshPending bool
	epoch          int

	dragOffset int
	err        error
}

// New creates an empty controller.
func New() *Controller {
	return &Controller{seen: make(map[string]struct{}), hasMore: true}
}

// Items returns the accumulated list in arrival order.
func (c *Controller) Items() []Item { return c.items }

// HasMore reports whether older pages remain.
func (c *Controller) HasMore() bool { return c.hasMore }

// InFlight reports whether any request is outstanding.
func (c *Controller) InFlight() bool { return c.inFlight }

// Refreshing reports whether a refresh is outstanding.
func (c *Controller) Refreshing() bool { return c.refreshPending }

// Err returns the error from the most recent failed request, cleared by the
// next successful one.
func (c *Controller) Err() error { return c.err }

// DragOffset returns the current pull-to-refresh drag offset.
func (c *Controller) DragOffset() int { return c.dragOffset }

// StartInitial issues the first page request. It reports false once the
// initial load has already been issued; use StartRefresh to start over.
func (c *Controller) StartInitial() (Request, bool) {
	if c.loaded || c.inFlight {
		return Request{}, false
	}
	c.loaded = true
	c.inFlight = true
	return Request{Kind: KindInitial, Epoch: c.epoch}, true
}

// StartLoadMore issues the next page request. It is a no-op while a request
// is in flight or when no more pages remain.
func (c *Controller) StartLoadMore() (Request, bool) {
	if c.inFlight || !c.hasMore || !c.loaded {
		return Request{}, false
	}
	c.inFlight = true
	return Request{Kind: KindLoadMore, Cursor: c.nextCursor, Epoch: c.epoch}, true
}

// StartRefresh clears the accumulation and re-issues page 1 under a new
// epoch. Any response issued under an older epoch will be discarded on
// arrival. A second refresh may not start while one is pending.
func (c *Controller) StartRefresh() (Request, bool) {
	if c.refreshPending {
		return Request{}, false
	}
	c.epoch++
	c.items = nil
	c.seen = make(map[string]struct{})
	c.nextCursor = ""
	c.hasMore = true
	c.loaded = true
	c.inFlight = true
	c.refreshPending = true
	return Request{Kind: KindRefresh, Epoch: c.epoch}, true
}

// Apply folds a fetched page into the accumulation. Pages from a stale
// epoch are discarded: a loadMore that was in flight when a refresh began
// must not repopulate the cleared list.
func (c *Controller) Apply(req Request, page Page) {
	if req.Epoch != c.epoch {
		return
	}
	c.inFlight = false
	if req.Kind == KindRefresh {
		c.refreshPending = false
	}
	c.err = nil
	for _, item := range page.Items {
		if _, ok := c.seen[item.ID]; ok {
			continue
		}
		c.seen[item.ID] = struct{}{}
		c.items = append(c.items, item)
	}
	c.hasMore = page.HasMore
	c.nextCursor = page.NextCursor
}

// Fail records a request failure. Stale-epoch failures are ignored like
// stale successes.
func (c *Controller) Fail(req Request, err error) {
	if req.Epoch != c.epoch {
		return
	}
	c.inFlight = false
	if req.Kind == KindRefresh {
		c.refreshPending = false
	}
	c.err = err
}

// Drag updates the pull-to-refresh offset, clamped to [0, MaxDragOffset].
func (c *Controller) Drag(offset int) {
	if offset < 0 {
		offset = 0
	}
	if offset > MaxDragOffset {
		offset = MaxDragOffset
	}
	c.dragOffset = offset
}

// Release ends the drag gesture. When released past the threshold while
// scrolled to the top it triggers a refresh; anywhere else it just snaps
// back.
func (c *Controller) Release(atTop bool) (Request, bool) {
	offset := c.dragOffset
	c.dragOffset = 0
	if !atTop || offset < ReleaseThreshold {
		return Request{}, false
	}
	return c.StartRefresh()
}
