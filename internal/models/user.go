package models

import (
	"time"
)

// User represents a Moodz account
type User struct {
	ID        string    `gorm:"type:varchar(36);primaryKey;column:id" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null;uniqueIndex:users_ux1;column:email" json:"email"`
	Name      string    `gorm:"type:varchar(100);not null;column:name" json:"name"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"createdAt"`

	// Profile fields
	ProfilePicURL string `gorm:"type:varchar(1024);not null;default:'';column:profile_pic_url" json:"profilePicUrl"`

	// Settings
	IsPrivate bool `gorm:"not null;default:false;column:is_private" json:"isPrivate"`

	// Social stats, maintained transactionally with the follows table
	FollowersCount int64 `gorm:"not null;default:0;column:followers_count" json:"followersCount"`
	FollowingCount int64 `gorm:"not null;default:0;column:following_count" json:"followingCount"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "moodz_users"
}

// Track is an external music-catalog reference embedded in an entry.
// Resolution against the catalog happens outside this service.
type Track struct {
	Name          string `gorm:"type:varchar(255);column:track_name" json:"name"`
	URI           string `gorm:"type:varchar(255);column:track_uri" json:"uri"`
	Href          string `gorm:"type:varchar(1024);column:track_href" json:"href"`
	ID            string `gorm:"type:varchar(64);column:track_id" json:"id"`
	PreviewURL    string `gorm:"type:varchar(1024);column:track_preview_url" json:"previewUrl,omitempty"`
	AlbumImageURL string `gorm:"type:varchar(1024);column:track_album_image_url" json:"albumImageUrl,omitempty"`
}

// Entry represents one content entry posted by a user.
// PostedAt may be null for entries that were never timestamped;
// such entries are not eligible for feeds.
type Entry struct {
	ID       int64      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	UserID   string     `gorm:"type:varchar(36);not null;index:entries_ix1;column:user_id" json:"userId"`
	Text     string     `gorm:"type:text;column:text" json:"text"`
	Likes    int        `gorm:"not null;default:0;column:likes" json:"likes"`
	Track    Track      `gorm:"embedded" json:"track"`
	PostedAt *time.Time `gorm:"column:posted_at" json:"postedAt"`
}

// TableName specifies the table name for Entry
func (Entry) TableName() string {
	return "moodz_entries"
}
