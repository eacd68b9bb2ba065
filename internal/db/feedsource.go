package db

import (
	"context"

	"github.com/moodz/moodzapi/internal/models"
)

// FeedSource adapts the user and entry repositories to the read
// surface the feed materializer joins over.
type FeedSource struct {
	users   *UserRepository
	entries *EntryRepository
}

// NewFeedSource creates a new feed source
func NewFeedSource(users *UserRepository, entries *EntryRepository) *FeedSource {
	return &FeedSource{users: users, entries: entries}
}

// GetUser retrieves a user by id, nil when absent
func (s *FeedSource) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// FollowingIDs lists the ids the viewer follows
func (s *FeedSource) FollowingIDs(ctx context.Context, viewerID string) ([]string, error) {
	return s.users.FollowingIDs(ctx, viewerID)
}

// FollowerIDs lists the ids following the given user
func (s *FeedSource) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return s.users.FollowerIDs(ctx, userID)
}

// UsersByIDs resolves multiple users at once
func (s *FeedSource) UsersByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	return s.users.GetByIDs(ctx, ids)
}

// EntriesByUserIDs returns all entries posted by the given users
func (s *FeedSource) EntriesByUserIDs(ctx context.Context, ids []string) ([]*models.Entry, error) {
	return s.entries.GetByUserIDs(ctx, ids)
}
