package models

import (
	"time"
)

// FeedEntry is a denormalized projection of one content entry plus
// its author's display attributes. Never persisted outside a
// CachedFeed document.
type FeedEntry struct {
	AuthorID      string    `json:"authorId"`
	AuthorName    string    `json:"authorName"`
	ProfilePicURL string    `json:"profilePicUrl,omitempty"`
	Text          string    `json:"text,omitempty"`
	Likes         int       `json:"likes"`
	Track         Track     `json:"track"`
	PostedAt      time.Time `json:"postedAt"`
}

// CachedFeed is the materialized feed document for one viewer,
// JSON-serialized into the cache. It is replaced or deleted whole,
// never mutated incrementally.
type CachedFeed struct {
	ViewerID   string      `json:"viewerId"`
	Expiration time.Time   `json:"expiration"`
	Feed       []FeedEntry `json:"feed"`
}

// Fresh reports whether the cached document is still within its TTL.
func (c *CachedFeed) Fresh(now time.Time) bool {
	return c != nil && c.Expiration.After(now)
}
