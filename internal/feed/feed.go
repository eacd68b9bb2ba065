// Package feed materializes per-viewer activity feeds and manages
// their TTL-bounded cache. The cache is derived, disposable state:
// every feed here is re-derivable from the user record store alone,
// so cache documents are only ever replaced whole or deleted.
package feed

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/moodz/moodzapi/internal/models"
	"github.com/moodz/moodzapi/pkg/config"
	"github.com/moodz/moodzapi/pkg/logging"
)

// Source reads graph and content state from the user record store.
type Source interface {
	// GetUser returns nil, nil when the user does not exist.
	GetUser(ctx context.Context, id string) (*models.User, error)

	// FollowingIDs lists the ids the viewer follows.
	FollowingIDs(ctx context.Context, viewerID string) ([]string, error)

	// FollowerIDs lists the ids following the given user.
	FollowerIDs(ctx context.Context, userID string) ([]string, error)

	// UsersByIDs resolves author display attributes.
	UsersByIDs(ctx context.Context, ids []string) ([]*models.User, error)

	// EntriesByUserIDs returns all content entries of the given users.
	EntriesByUserIDs(ctx context.Context, ids []string) ([]*models.Entry, error)
}

// CacheStore holds materialized feed documents keyed by viewer id.
type CacheStore interface {
	// GetFeed returns nil, nil when no document is cached.
	GetFeed(ctx context.Context, viewerID string) (*models.CachedFeed, error)

	// PutFeed stores the document, replacing any prior one.
	PutFeed(ctx context.Context, cached *models.CachedFeed, ttl time.Duration) error

	// DeleteFeed removes the document; absence is not an error.
	DeleteFeed(ctx context.Context, viewerID string) error
}

// Service computes viewer feeds and serves them through the cache.
type Service struct {
	source Source
	cache  CacheStore
	limit  int
	ttl    time.Duration
	fanout bool
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new feed service
func NewService(source Source, cache CacheStore, cfg *config.FeedConfig) *Service {
	return &Service{
		source: source,
		cache:  cache,
		limit:  cfg.Limit,
		ttl:    cfg.CacheTTL,
		fanout: cfg.InvalidateFanout,
		logger: logging.GetLogger().With(zap.String("component", "feed")),
		now:    time.Now,
	}
}

// GetFeed returns the viewer's feed, serving a cached document while
// it is fresh and recomputing otherwise. Two concurrent misses may
// both recompute; the second cache write simply wins.
func (s *Service) GetFeed(ctx context.Context, viewerID string, limit int) ([]models.FeedEntry, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}

	cached, err := s.cache.GetFeed(ctx, viewerID)
	if err != nil {
		// Degraded cache never fails a read; recompute instead.
		s.logger.Warn("feed cache read failed",
			zap.String("viewer", viewerID),
			zap.Error(err))
	} else if cached.Fresh(s.now()) {
		return truncate(cached.Feed, limit), nil
	}

	return s.ComputeFeed(ctx, viewerID, limit)
}

// ComputeFeed materializes a fresh feed for the viewer from current
// store state and upserts it into the cache. The viewer always sees
// their own entries alongside those of everyone they follow.
func (s *Service) ComputeFeed(ctx context.Context, viewerID string, limit int) ([]models.FeedEntry, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}

	viewer, err := s.source.GetUser(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, ErrUnknownViewer
	}

	following, err := s.source.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	sourceIDs := append(following, viewerID)

	authors, err := s.source.UsersByIDs(ctx, sourceIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.User, len(authors))
	for _, a := range authors {
		byID[a.ID] = a
	}

	entries, err := s.source.EntriesByUserIDs(ctx, sourceIDs)
	if err != nil {
		return nil, err
	}

	flat := make([]models.FeedEntry, 0, len(entries))
	for _, e := range entries {
		if e.PostedAt == nil {
			// Untimed entries cannot be placed chronologically.
			continue
		}
		author, ok := byID[e.UserID]
		if !ok {
			continue
		}
		flat = append(flat, models.FeedEntry{
			AuthorID:      author.ID,
			AuthorName:    author.Name,
			ProfilePicURL: author.ProfilePicURL,
			Text:          e.Text,
			Likes:         e.Likes,
			Track:         e.Track,
			PostedAt:      *e.PostedAt,
		})
	}

	sort.SliceStable(flat, func(i, j int) bool {
		return flat[i].PostedAt.After(flat[j].PostedAt)
	})
	flat = truncate(flat, limit)

	cached := &models.CachedFeed{
		ViewerID:   viewerID,
		Expiration: s.now().Add(s.ttl),
		Feed:       flat,
	}
	if err := s.cache.PutFeed(ctx, cached, s.ttl); err != nil {
		// The computed feed is still correct; TTL just won't help
		// the next reader.
		s.logger.Warn("feed cache write failed",
			zap.String("viewer", viewerID),
			zap.Error(err))
	}

	return flat, nil
}

// Invalidate discards the viewer's cached feed. Failures degrade to
// TTL-bounded staleness and are never surfaced to the caller.
func (s *Service) Invalidate(ctx context.Context, viewerID string) {
	if err := s.cache.DeleteFeed(ctx, viewerID); err != nil {
		s.logger.Warn("feed invalidation failed",
			zap.String("viewer", viewerID),
			zap.Error(err))
	}
}

// InvalidateForAuthor discards caches affected by a content change:
// the author's own feed and, when fan-out is enabled, the feed of
// every follower.
func (s *Service) InvalidateForAuthor(ctx context.Context, authorID string) {
	s.Invalidate(ctx, authorID)
	if !s.fanout {
		return
	}

	followers, err := s.source.FollowerIDs(ctx, authorID)
	if err != nil {
		s.logger.Warn("follower fan-out lookup failed",
			zap.String("author", authorID),
			zap.Error(err))
		return
	}
	for _, id := range followers {
		s.Invalidate(ctx, id)
	}
}

func truncate(entries []models.FeedEntry, limit int) []models.FeedEntry {
	if len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
