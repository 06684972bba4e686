package model

import "time"

// Bookmark marks a page as explicitly saved by the user.
// A page has at most one bookmark; the URL is the key.
type Bookmark struct {
	// URL is the canonicalized URL of the bookmarked page.
	URL string `json:"url"`

	// Time is when the bookmark was created, in Unix milliseconds.
	Time int64 `json:"time"`
}

// NewBookmark creates a Bookmark for url at time t.
func NewBookmark(url string, t time.Time) Bookmark {
	return Bookmark{
		URL:  url,
		Time: t.UnixMilli(),
	}
}

// Timestamp returns the bookmark time as a time.Time.
func (b Bookmark) Timestamp() time.Time {
	return time.UnixMilli(b.Time)
}
