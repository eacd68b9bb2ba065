package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/moodz/moodzapi/internal/models"
	"github.com/moodz/moodzapi/pkg/config"
)

type memSource struct {
	users     map[string]*models.User
	following map[string][]string
	followers map[string][]string
	entries   map[string][]*models.Entry

	entryCalls int
}

func newMemSource() *memSource {
	return &memSource{
		users:     make(map[string]*models.User),
		following: make(map[string][]string),
		followers: make(map[string][]string),
		entries:   make(map[string][]*models.Entry),
	}
}

func (s *memSource) GetUser(_ context.Context, id string) (*models.User, error) {
	return s.users[id], nil
}

func (s *memSource) FollowingIDs(_ context.Context, viewerID string) ([]string, error) {
	return s.following[viewerID], nil
}

func (s *memSource) FollowerIDs(_ context.Context, userID string) ([]string, error) {
	return s.followers[userID], nil
}

func (s *memSource) UsersByIDs(_ context.Context, ids []string) ([]*models.User, error) {
	var users []*models.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *memSource) EntriesByUserIDs(_ context.Context, ids []string) ([]*models.Entry, error) {
	s.entryCalls++
	var all []*models.Entry
	for _, id := range ids {
		all = append(all, s.entries[id]...)
	}
	return all, nil
}

func (s *memSource) addUser(id string) {
	s.users[id] = &models.User{ID: id, Name: "user " + id, ProfilePicURL: "https://pics/" + id}
}

func (s *memSource) addEntry(userID, text string, at *time.Time) {
	s.entries[userID] = append(s.entries[userID], &models.Entry{
		UserID:   userID,
		Text:     text,
		PostedAt: at,
	})
}

type memCache struct {
	docs    map[string]*models.CachedFeed
	puts    int
	deletes []string
	failAll bool
}

func newMemCache() *memCache {
	return &memCache{docs: make(map[string]*models.CachedFeed)}
}

func (c *memCache) GetFeed(_ context.Context, viewerID string) (*models.CachedFeed, error) {
	if c.failAll {
		return nil, errors.New("cache down")
	}
	return c.docs[viewerID], nil
}

func (c *memCache) PutFeed(_ context.Context, cached *models.CachedFeed, _ time.Duration) error {
	if c.failAll {
		return errors.New("cache down")
	}
	c.puts++
	c.docs[cached.ViewerID] = cached
	return nil
}

func (c *memCache) DeleteFeed(_ context.Context, viewerID string) error {
	if c.failAll {
		return errors.New("cache down")
	}
	c.deletes = append(c.deletes, viewerID)
	delete(c.docs, viewerID)
	return nil
}

func ts(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad timestamp %q: %v", value, err)
	}
	return &parsed
}

func newTestService(source *memSource, cache *memCache) *Service {
	return NewService(source, cache, &config.FeedConfig{
		Limit:            50,
		CacheTTL:         5 * time.Minute,
		InvalidateFanout: true,
	})
}

func TestComputeFeed_Ordering(t *testing.T) {
	source := newMemSource()
	source.addUser("viewer")
	source.addUser("author")
	source.following["viewer"] = []string{"author"}

	source.addEntry("author", "t1", ts(t, "2024-03-01T10:00:00Z"))
	source.addEntry("author", "t3", ts(t, "2024-03-03T10:00:00Z"))
	source.addEntry("author", "t2", ts(t, "2024-03-02T10:00:00Z"))

	svc := newTestService(source, newMemCache())
	feed, err := svc.ComputeFeed(context.Background(), "viewer", 10)
	if err != nil {
		t.Fatalf("ComputeFeed() error: %v", err)
	}

	want := []string{"t3", "t2", "t1"}
	if len(feed) != len(want) {
		t.Fatalf("feed length = %d, want %d", len(feed), len(want))
	}
	for i, text := range want {
		if feed[i].Text != text {
			t.Errorf("feed[%d].Text = %q, want %q", i, feed[i].Text, text)
		}
	}
	for i := 1; i < len(feed); i++ {
		if feed[i].PostedAt.After(feed[i-1].PostedAt) {
			t.Errorf("feed not non-increasing at %d", i)
		}
	}
}

func TestComputeFeed_SkipsUntimedEntries(t *testing.T) {
	source := newMemSource()
	source.addUser("viewer")
	source.addEntry("viewer", "timed", ts(t, "2024-03-01T10:00:00Z"))
	source.addEntry("viewer", "untimed", nil)

	svc := newTestService(source, newMemCache())
	feed, err := svc.ComputeFeed(context.Background(), "viewer", 10)
	if err != nil {
		t.Fatalf("ComputeFeed() error: %v", err)
	}

	if len(feed) != 1 || feed[0].Text != "timed" {
		t.Errorf("expected only the timed entry, got %+v", feed)
	}
}

func TestComputeFeed_IncludesViewerAndTruncates(t *testing.T) {
	source := newMemSource()
	source.addUser("viewer")
	source.addUser("author")
	source.following["viewer"] = []string{"author"}

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		source.addEntry("author", "a", &at)
	}
	own := base.Add(10 * time.Hour)
	source.addEntry("viewer", "mine", &own)

	svc := newTestService(source, newMemCache())
	feed, err := svc.ComputeFeed(context.Background(), "viewer", 3)
	if err != nil {
		t.Fatalf("ComputeFeed() error: %v", err)
	}

	if len(feed) != 3 {
		t.Fatalf("feed length = %d, want 3", len(feed))
	}
	if feed[0].Text != "mine" {
		t.Errorf("viewer's newest entry must lead the feed, got %q", feed[0].Text)
	}
}

func TestComputeFeed_DenormalizesAuthor(t *testing.T) {
	source := newMemSource()
	source.addUser("viewer")
	source.addEntry("viewer", "hello", ts(t, "2024-03-01T10:00:00Z"))

	svc := newTestService(source, newMemCache())
	feed, err := svc.ComputeFeed(context.Background(), "viewer", 10)
	if err != nil {
		t.Fatalf("ComputeFeed() error: %v", err)
	}

	entry := feed[0]
	if entry.AuthorID != "viewer" || entry.AuthorName != "user viewer" {
		t.Errorf("author attributes not denormalized: %+v", entry)
	}
	if entry.ProfilePicURL != "https://pics/viewer" {
		t.Errorf("profile pic not denormalized: %q", entry.ProfilePicURL)
	}
}

func TestGetFeed_CacheHit(t *testing.T) {
	source := newMemSource()
	source.addUser("viewer")
	cache := newMemCache()
	svc := newTestService(source, cache)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	cache.docs["viewer"] = &models.CachedFeed{
		ViewerID:   "viewer",
		Expiration: now.Add(time.Minute),
		Feed:       []models.FeedEntry{{AuthorID: "cached", PostedAt: now}},
	}

	feed, err := svc.GetFeed(context.Background(), "viewer", 10)
	if err != nil {
		t.Fatalf("GetFeed() error: %v", err)
	}
	if len(feed) != 1 || feed[0].AuthorID != "cached" {
		t.Errorf("expected cached document, got %+v", feed)
	}
	if source.entryCalls != 0 {
		t.Error("cache hit must not recompute the join")
	}
}

func TestGetFeed_TTLExpiry(t *testing.T) {
	source := newMemSource()
	source.addUser("viewer")
	source.addEntry("viewer", "fresh", ts(t, "2024-03-01T10:00:00Z"))
	cache := newMemCache()
	svc := newTestService(source, cache)

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	// Expired document must never be served as a hit.
	cache.docs["viewer"] = &models.CachedFeed{
		ViewerID:   "viewer",
		Expiration: now.Add(-time.Second),
		Feed:       []models.FeedEntry{{AuthorID: "stale", PostedAt: now}},
	}

	feed, err := svc.GetFeed(context.Background(), "viewer", 10)
	if err != nil {
		t.Fatalf("GetFeed() error: %v", err)
	}
	if len(feed) != 1 || feed[0].Text != "fresh" {
		t.Errorf("expected recomputed feed, got %+v", feed)
	}
	if source.entryCalls != 1 {
		t.Errorf("expected one recomputation, got %d", source.entryCalls)
	}

	// The stale document was overwritten with a fresh expiration.
	replaced := cache.docs["viewer"]
	if replaced == nil || !replaced.Expiration.After(now) {
		t.Error("expired cache document was not replaced")
	}
}

func TestGetFeed_CacheFailureDegradesToRecompute(t *testing.T) {
	source := newMemSource()
	source.addUser("viewer")
	source.addEntry("viewer", "hello", ts(t, "2024-03-01T10:00:00Z"))
	cache := newMemCache()
	cache.failAll = true

	svc := newTestService(source, cache)
	feed, err := svc.GetFeed(context.Background(), "viewer", 10)
	if err != nil {
		t.Fatalf("GetFeed() with broken cache must still serve: %v", err)
	}
	if len(feed) != 1 {
		t.Errorf("expected recomputed feed, got %+v", feed)
	}
}

func TestGetFeed_UnknownViewer(t *testing.T) {
	svc := newTestService(newMemSource(), newMemCache())
	_, err := svc.GetFeed(context.Background(), "ghost", 10)
	if !errors.Is(err, ErrUnknownViewer) {
		t.Errorf("GetFeed() error = %v, want ErrUnknownViewer", err)
	}
}

func TestInvalidateForAuthor_FanOut(t *testing.T) {
	source := newMemSource()
	source.addUser("author")
	source.followers["author"] = []string{"f1", "f2"}
	cache := newMemCache()
	svc := newTestService(source, cache)

	svc.InvalidateForAuthor(context.Background(), "author")

	want := map[string]bool{"author": true, "f1": true, "f2": true}
	if len(cache.deletes) != len(want) {
		t.Fatalf("deletes = %v, want author plus both followers", cache.deletes)
	}
	for _, id := range cache.deletes {
		if !want[id] {
			t.Errorf("unexpected invalidation of %q", id)
		}
	}
}

func TestInvalidateForAuthor_NoFanOutWhenDisabled(t *testing.T) {
	source := newMemSource()
	source.addUser("author")
	source.followers["author"] = []string{"f1"}
	cache := newMemCache()

	svc := NewService(source, cache, &config.FeedConfig{
		Limit:            50,
		CacheTTL:         5 * time.Minute,
		InvalidateFanout: false,
	})
	svc.InvalidateForAuthor(context.Background(), "author")

	if len(cache.deletes) != 1 || cache.deletes[0] != "author" {
		t.Errorf("deletes = %v, want only the author", cache.deletes)
	}
}
