package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/moodz/moodzapi/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UserRepository provides user-related database operations
type UserRepository struct {
	*Repository
}

// NewUserRepository creates a new user repository
func NewUserRepository(repo *Repository) *UserRepository {
	return &UserRepository{Repository: repo}
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByIDs retrieves multiple users by id
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.User, error) {
	var users []*models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// List retrieves all users
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	if err := r.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete removes a user by ID
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FollowerIDs retrieves the ids of everyone following the given user
func (r *UserRepository) FollowerIDs(ctx context.Context, id string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("following_id = ?", id).
		Pluck("follower_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// FollowingIDs retrieves the ids of everyone the given user follows
func (r *UserRepository) FollowingIDs(ctx context.Context, id string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", id).
		Pluck("following_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// PendingRequests retrieves the pending follow requests involving the
// given user, in either direction, oldest first
func (r *UserRepository) PendingRequests(ctx context.Context, id string) ([]*models.FollowRequest, error) {
	var requests []*models.FollowRequest
	if err := r.db.WithContext(ctx).
		Where("status = ? AND (from_user_id = ? OR to_user_id = ?)", models.StatusPending, id, id).
		Order("created_at").
		Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// EntryRepository provides content-entry database operations
type EntryRepository struct {
	*Repository
}

// NewEntryRepository creates a new entry repository
func NewEntryRepository(repo *Repository) *EntryRepository {
	return &EntryRepository{Repository: repo}
}

// GetByUserID retrieves all entries posted by a user
func (r *EntryRepository) GetByUserID(ctx context.Context, userID string) ([]*models.Entry, error) {
	var entries []*models.Entry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("posted_at DESC NULLS LAST").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// GetByUserIDs retrieves all entries posted by any of the given users
func (r *EntryRepository) GetByUserIDs(ctx context.Context, userIDs []string) ([]*models.Entry, error) {
	var entries []*models.Entry
	if err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Create creates a new entry
func (r *EntryRepository) Create(ctx context.Context, entry *models.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// DeleteByPostedAt removes a user's entry matching the given timestamp.
// Returns false when no entry matched.
func (r *EntryRepository) DeleteByPostedAt(ctx context.Context, userID string, postedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND posted_at = ?", userID, postedAt).
		Delete(&models.Entry{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
