package domain

import "time"

// User represents a registered account that owns shortened links.
type User struct {
	ID           int64      `gorm:"primaryKey;column:id" json:"id"`
	Username     string     `gorm:"column:username;not null" json:"username"`
	Email        string     `gorm:"column:email;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	LastLogout   *time.Time `gorm:"column:last_logout" json:"last_logout,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	// Relationships
	Links []Link `gorm:"foreignKey:UserID" json:"links,omitempty"`
}

// TableName returns the table name used by GORM.
func (User) TableName() string {
	return "users"
}
