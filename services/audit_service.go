package services

import (
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/JuCalll/menu-clinica/models"
)

// AuditService appends LogEntry rows for every mutating action. Writes are
// fire-and-forget: a failed audit insert is logged and swallowed so it can
// never abort or roll back the operation it describes.
type AuditService struct {
	DB  *gorm.DB
	Log *zap.Logger
}

func NewAuditService(db *gorm.DB, log *zap.Logger) *AuditService {
	return &AuditService{DB: db, Log: log}
}

// Record writes one audit entry. actorID may be nil (failed logins,
// unauthenticated events).
func (s *AuditService) Record(actorID *uint, action, modelName string, objectID *uint, details map[string]interface{}) {
	if s == nil || s.DB == nil {
		return
	}
	entry := models.LogEntry{
		UserID:    actorID,
		Action:    action,
		ModelName: modelName,
		ObjectID:  objectID,
		Details:   datatypes.JSONMap(details),
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		if s.Log != nil {
			s.Log.Warn("audit write failed",
				zap.String("action", action),
				zap.String("model", modelName),
				zap.Error(err))
		}
	}
}

// Entries returns the newest audit rows, most recent first.
func (s *AuditService) Entries(limit int) ([]models.LogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []models.LogEntry
	err := s.DB.Order("timestamp DESC").Limit(limit).Find(&out).Error
	return out, err
}
