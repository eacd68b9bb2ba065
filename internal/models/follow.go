package models

import (
	"time"
)

// Follow represents a directed follow edge. The row is the single
// source of truth for the relationship; followers_count and
// following_count on the two endpoint users are written in the same
// transaction as the edge.
type Follow struct {
	FollowerID  string    `gorm:"type:varchar(36);primaryKey;column:follower_id"`
	FollowingID string    `gorm:"type:varchar(36);primaryKey;column:following_id"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`

	// Relationships
	Follower  *User `gorm:"foreignKey:FollowerID;references:ID"`
	Following *User `gorm:"foreignKey:FollowingID;references:ID"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "moodz_follows"
}

// RequestStatus is the state of a follow request.
type RequestStatus int16

// Only Pending rows are ever stored; accepted or declined requests
// are deleted. The blocked variants are reserved for a blocking
// feature and are not produced by any mutation.
const (
	StatusPending RequestStatus = iota
	StatusSuccess
	StatusFromBlocked
	StatusToBlocked
	StatusBothBlocked
)

// FollowRequest represents a pending follow request against a
// private account. Visible to both endpoints.
type FollowRequest struct {
	FromUserID string        `gorm:"type:varchar(36);primaryKey;column:from_user_id" json:"fromUserId"`
	ToUserID   string        `gorm:"type:varchar(36);primaryKey;column:to_user_id" json:"toUserId"`
	Status     RequestStatus `gorm:"type:smallint;not null;default:0;column:status" json:"status"`
	CreatedAt  time.Time     `gorm:"not null;column:created_at" json:"createdAt"`
}

// TableName specifies the table name for FollowRequest
func (FollowRequest) TableName() string {
	return "moodz_follow_requests"
}
