package app

import (
	"rescuefeed/cmd/feedtui/internal/feedlist"
)

const pageSize = 20

// Model is the root bubbletea model for the feed browser.
// Exported so tests can construct and drive it directly.
type Model struct {
	list    *feedlist.Controller
	fetcher PageFetcher

	width  int
	height int

	cursor   int  // selected row
	dragging bool // pull-to-refresh gesture armed
}

// New creates a fresh Model. fetcher may be nil only in tests that never
// issue requests.
func New(fetcher PageFetcher) Model {
	return Model{
		list:    feedlist.New(),
		fetcher: fetcher,
	}
}

// Items exposes the accumulated rows for tests.
func (m Model) Items() []feedlist.Item { return m.list.Items() }

// Selected exposes the cursor row for tests.
func (m Model) Selected() int { return m.cursor }
