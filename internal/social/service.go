// Package social is the facade the transport layer calls into. It
// wires the graph mutator, the feed service, and the content store
// behind the operation surface exposed to collaborators.
package social

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/moodz/moodzapi/internal/feed"
	"github.com/moodz/moodzapi/internal/graph"
	"github.com/moodz/moodzapi/internal/models"
	"github.com/moodz/moodzapi/pkg/logging"
)

var emailRe = regexp.MustCompile(`\A(?:[a-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(?:\.[a-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*@(?:[a-z0-9](?:[a-z0-9-]*[a-z0-9])?\.)+[a-z0-9](?:[a-z0-9-]*[a-z0-9])?)\z`)

// UserStore is the user-record surface the facade needs.
type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) (bool, error)
	FollowerIDs(ctx context.Context, id string) ([]string, error)
	FollowingIDs(ctx context.Context, id string) ([]string, error)
	PendingRequests(ctx context.Context, id string) ([]*models.FollowRequest, error)
}

// EntryStore is the content-entry surface the facade needs.
type EntryStore interface {
	GetByUserID(ctx context.Context, userID string) ([]*models.Entry, error)
	Create(ctx context.Context, entry *models.Entry) error
	DeleteByPostedAt(ctx context.Context, userID string, postedAt time.Time) (bool, error)
}

// Service exposes the social-graph and feed operations.
type Service struct {
	mutator *graph.Mutator
	feed    *feed.Service
	users   UserStore
	entries EntryStore
	logger  *zap.Logger
}

// NewService creates a new social service
func NewService(mutator *graph.Mutator, feedSvc *feed.Service, users UserStore, entries EntryStore) *Service {
	return &Service{
		mutator: mutator,
		feed:    feedSvc,
		users:   users,
		entries: entries,
		logger:  logging.GetLogger().With(zap.String("component", "social")),
	}
}

// Follow follows a public user or files a request against a private
// one. False means state is unchanged, whether because a precondition
// failed or because the transaction aborted.
func (s *Service) Follow(ctx context.Context, fromID, toID string) bool {
	ok, err := s.mutator.Follow(ctx, fromID, toID)
	return ok && err == nil
}

// Unfollow removes an existing follow edge.
func (s *Service) Unfollow(ctx context.Context, fromID, toID string) bool {
	ok, err := s.mutator.Unfollow(ctx, fromID, toID)
	return ok && err == nil
}

// AcceptFollowRequest accepts the pending request from fromID to toID.
func (s *Service) AcceptFollowRequest(ctx context.Context, fromID, toID string) bool {
	ok, err := s.mutator.AcceptFollowRequest(ctx, fromID, toID)
	return ok && err == nil
}

// DeclineOrCancelFollowRequest removes the pending request from
// fromID to toID, serving both the recipient's decline and the
// requester's cancel.
func (s *Service) DeclineOrCancelFollowRequest(ctx context.Context, fromID, toID string) bool {
	ok, err := s.mutator.DeclineFollowRequest(ctx, fromID, toID)
	return ok && err == nil
}

// GetFeed returns the viewer's feed, cached or freshly materialized.
func (s *Service) GetFeed(ctx context.Context, viewerID string, limit int) ([]models.FeedEntry, error) {
	return s.feed.GetFeed(ctx, viewerID, limit)
}

// AddContentEntry stores a new entry for the user and invalidates
// the affected feed caches.
func (s *Service) AddContentEntry(ctx context.Context, userID string, entry *models.Entry) bool {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil || user == nil {
		return false
	}

	entry.UserID = userID
	if err := s.entries.Create(ctx, entry); err != nil {
		s.logger.Error("failed to add entry",
			zap.String("user", userID),
			zap.Error(err))
		return false
	}

	s.feed.InvalidateForAuthor(ctx, userID)
	return true
}

// RemoveContentEntry deletes the user's entry with the given
// timestamp and invalidates the affected feed caches.
func (s *Service) RemoveContentEntry(ctx context.Context, userID string, postedAt time.Time) bool {
	removed, err := s.entries.DeleteByPostedAt(ctx, userID, postedAt)
	if err != nil {
		s.logger.Error("failed to remove entry",
			zap.String("user", userID),
			zap.Error(err))
		return false
	}
	if !removed {
		return false
	}

	s.feed.InvalidateForAuthor(ctx, userID)
	return true
}

// GetEntries returns a user's own content entries.
func (s *Service) GetEntries(ctx context.Context, userID string) ([]*models.Entry, error) {
	return s.entries.GetByUserID(ctx, userID)
}

// GetUser retrieves a user by id, nil when absent.
func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers retrieves all users.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.users.List(ctx)
}

// CreateUser creates a new user with a generated id.
func (s *Service) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if !emailRe.MatchString(user.Email) {
		return nil, ErrInvalidEmail
	}
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now().UTC()
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser replaces an existing user record.
func (s *Service) UpdateUser(ctx context.Context, user *models.User) error {
	if user.Email != "" && !emailRe.MatchString(user.Email) {
		return ErrInvalidEmail
	}
	existing, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrUserNotFound
	}
	return s.users.Update(ctx, user)
}

// DeleteUser removes a user record.
func (s *Service) DeleteUser(ctx context.Context, id string) (bool, error) {
	return s.users.Delete(ctx, id)
}

// Followers lists the ids following the given user.
func (s *Service) Followers(ctx context.Context, id string) ([]string, error) {
	return s.users.FollowerIDs(ctx, id)
}

// Following lists the ids the given user follows.
func (s *Service) Following(ctx context.Context, id string) ([]string, error) {
	return s.users.FollowingIDs(ctx, id)
}

// PendingRequests lists the user's pending follow requests, both
// directions, oldest first.
func (s *Service) PendingRequests(ctx context.Context, id string) ([]*models.FollowRequest, error) {
	return s.users.PendingRequests(ctx, id)
}
