package app

import (
	"errors"

	"rescuefeed/cmd/feedtui/internal/feedlist"
)

var errNoFetcher = errors.New("no page fetcher configured")

// --- Tea messages ---

type pageMsg struct {
	req  feedlist.Request
	page feedlist.Page
	err  error
}
