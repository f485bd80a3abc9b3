package domain

import "time"

// Link represents a shortened URL owned by a single user.
//
// ShortCode is generated once and never changes. ClickCount only grows, and
// only through the atomic resolve-and-increment in the repository layer.
type Link struct {
	ID          int64      `gorm:"primaryKey;column:id" json:"id"`
	UserID      int64      `gorm:"column:user_id;not null;index" json:"user_id"`
	OriginalURL string     `gorm:"column:original_url;not null" json:"original_url"`
	ShortCode   string     `gorm:"column:short_code;uniqueIndex;size:16;not null" json:"short_code"`
	CustomAlias *string    `gorm:"column:custom_alias;uniqueIndex" json:"custom_alias,omitempty"`
	ClickCount  int64      `gorm:"column:click_count;not null;default:0" json:"click_count"`
	ExpiresAt   *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName returns the table name used by GORM.
func (Link) TableName() string {
	return "links"
}

// Expired reports whether the link can no longer be resolved.
func (l *Link) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}
