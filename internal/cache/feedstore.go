package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/moodz/moodzapi/internal/models"
)

// FeedStore persists CachedFeed documents in Redis, one JSON value
// per viewer. With the cache disabled every read is a miss and every
// write a no-op, so the feed service degrades to recomputation.
type FeedStore struct {
	cache *Cache
}

// NewFeedStore creates a new feed store
func NewFeedStore(c *Cache) *FeedStore {
	return &FeedStore{cache: c}
}

func feedKey(viewerID string) string {
	return "feed:" + viewerID
}

// GetFeed retrieves the viewer's cached feed document, nil on a miss
func (f *FeedStore) GetFeed(ctx context.Context, viewerID string) (*models.CachedFeed, error) {
	raw, err := f.cache.Get(ctx, feedKey(viewerID))
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, ErrCacheDisabled) {
			return nil, nil
		}
		return nil, err
	}

	var cached models.CachedFeed
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

// PutFeed stores the document, replacing any prior one for the viewer
func (f *FeedStore) PutFeed(ctx context.Context, cached *models.CachedFeed, ttl time.Duration) error {
	data, err := json.Marshal(cached)
	if err != nil {
		return err
	}
	if err := f.cache.Set(ctx, feedKey(cached.ViewerID), data, ttl); err != nil {
		if errors.Is(err, ErrCacheDisabled) {
			return nil
		}
		return err
	}
	return nil
}

// DeleteFeed removes the viewer's cached document if present
func (f *FeedStore) DeleteFeed(ctx context.Context, viewerID string) error {
	if err := f.cache.Delete(ctx, feedKey(viewerID)); err != nil {
		if errors.Is(err, ErrCacheDisabled) {
			return nil
		}
		return err
	}
	return nil
}
