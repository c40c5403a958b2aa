package models

import (
	"time"

	"gorm.io/gorm"
)

// ClientSession represents client_sessions table.
// ID is the SHA-256 hash of the client session id carried in the cookie.
type ClientSession struct {
	ID        string     `gorm:"primaryKey;size:64" json:"-"`
	Token     string     `gorm:"type:text" json:"-"`
	Role      string     `gorm:"size:20" json:"role"`
	Username  string     `gorm:"size:100" json:"username"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ClientSession) TableName() string {
	return "client_sessions"
}

// IsExpired reports whether the upstream token has expired at now
func (s *ClientSession) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// AutoMigrate creates or updates the tables owned by this service
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&ClientSession{})
}
