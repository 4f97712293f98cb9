package repository

import (
	"context"

	"gorm.io/gorm"

	"zonetrack/internal/apperr"
	"zonetrack/internal/models"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Record(ctx context.Context, entry *models.AuditLog) error {
	return apperr.Store("insert audit log", r.db.WithContext(ctx).Create(entry).Error)
}

// Recent returns the newest entries, optionally narrowed to one client.
func (r *AuditRepository) Recent(ctx context.Context, clientID string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}
	q := r.db.WithContext(ctx).Order("id desc").Limit(limit)
	if clientID != "" {
		q = q.Where("client_id = ?", clientID)
	}
	var logs []models.AuditLog
	if err := q.Find(&logs).Error; err != nil {
		return nil, apperr.Store("list audit logs", err)
	}
	return logs, nil
}
