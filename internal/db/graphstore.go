package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/moodz/moodzapi/internal/graph"
	"github.com/moodz/moodzapi/internal/models"
)

// GraphStore implements graph.Store on top of GORM. Counter writes
// verify RowsAffected so a missing user row aborts the enclosing
// transaction instead of silently committing half an operation.
type GraphStore struct {
	db *gorm.DB
}

// NewGraphStore creates a new graph store
func NewGraphStore(db *gorm.DB) *GraphStore {
	return &GraphStore{db: db}
}

// GetUser retrieves a user by ID, nil when absent
func (s *GraphStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// EdgeExists reports whether the follow edge row is present
func (s *GraphStore) EdgeExists(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// RequestExists reports whether a pending request row is present
func (s *GraphStore) RequestExists(ctx context.Context, fromID, toID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.FollowRequest{}).
		Where("from_user_id = ? AND to_user_id = ? AND status = ?", fromID, toID, models.StatusPending).
		Count(&count).Error
	return count > 0, err
}

// CreateEdge inserts the follow edge row
func (s *GraphStore) CreateEdge(ctx context.Context, followerID, followingID string, at time.Time) error {
	return s.db.WithContext(ctx).Create(&models.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   at,
	}).Error
}

// DeleteEdge removes the follow edge row
func (s *GraphStore) DeleteEdge(ctx context.Context, followerID, followingID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CreateRequest inserts a pending follow request row
func (s *GraphStore) CreateRequest(ctx context.Context, fromID, toID string, at time.Time) error {
	return s.db.WithContext(ctx).Create(&models.FollowRequest{
		FromUserID: fromID,
		ToUserID:   toID,
		Status:     models.StatusPending,
		CreatedAt:  at,
	}).Error
}

// DeleteRequest removes the pending request row
func (s *GraphStore) DeleteRequest(ctx context.Context, fromID, toID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("from_user_id = ? AND to_user_id = ? AND status = ?", fromID, toID, models.StatusPending).
		Delete(&models.FollowRequest{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// BumpFollowing adjusts a user's following counter
func (s *GraphStore) BumpFollowing(ctx context.Context, userID string, delta int64) error {
	return s.bumpCounter(ctx, userID, "following_count", delta)
}

// BumpFollowers adjusts a user's followers counter
func (s *GraphStore) BumpFollowers(ctx context.Context, userID string, delta int64) error {
	return s.bumpCounter(ctx, userID, "followers_count", delta)
}

func (s *GraphStore) bumpCounter(ctx context.Context, userID, column string, delta int64) error {
	res := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %s not found for %s update", userID, column)
	}
	return nil
}

// Transaction runs fn inside a database transaction
func (s *GraphStore) Transaction(ctx context.Context, fn func(tx graph.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GraphStore{db: tx})
	})
}
