package models

import "time"

// RevokedToken blacklists a refresh token by its jti claim. Rows past
// ExpiresAt are inert and can be pruned at leisure.
type RevokedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	JTI       string    `gorm:"column:jti;uniqueIndex;size:64" json:"jti"`
	UserID    uint      `gorm:"index" json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (RevokedToken) TableName() string { return "revoked_tokens" }
