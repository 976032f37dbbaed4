package models

import (
	"time"

	"gorm.io/datatypes"
)

// Audit actions.
const (
	ActionCreate       = "CREATE"
	ActionUpdate       = "UPDATE"
	ActionDelete       = "DELETE"
	ActionList         = "LIST"
	ActionLogin        = "LOGIN"
	ActionLogout       = "LOGOUT"
	ActionLoginFailed  = "LOGIN_FAILED"
	ActionTokenRefresh = "TOKEN_REFRESH"
)

// LogEntry is an append-only audit record of a mutating action. Writes are
// best-effort and must never fail the operation they describe.
type LogEntry struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    *uint             `gorm:"index" json:"user_id"`
	Action    string            `gorm:"size:20" json:"action"`
	ModelName string            `gorm:"size:100" json:"model_name"`
	ObjectID  *uint             `json:"object_id"`
	Details   datatypes.JSONMap `json:"details"`
	Timestamp time.Time         `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (LogEntry) TableName() string { return "log_entries" }
