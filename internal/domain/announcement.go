package domain

import "time"

// Announcement is a curated system message shown on the global feed.
type Announcement struct {
	ID          string
	Title       string
	Body        string
	PublishedAt time.Time
}
