package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"zonetrack/internal/apperr"
	"zonetrack/internal/models"
)

// PendingRepository is the repair queue for secondary writes that could not
// be applied inline.
type PendingRepository struct {
	db *gorm.DB
}

func NewPendingRepository(db *gorm.DB) *PendingRepository {
	return &PendingRepository{db: db}
}

func (r *PendingRepository) Enqueue(ctx context.Context, pw *models.PendingWrite) error {
	now := time.Now()
	pw.CreatedAt, pw.UpdatedAt = now, now
	return apperr.Store("enqueue pending write", r.db.WithContext(ctx).Create(pw).Error)
}

// Open lists unresolved writes oldest first.
func (r *PendingRepository) Open(ctx context.Context, limit int) ([]models.PendingWrite, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []models.PendingWrite
	err := r.db.WithContext(ctx).
		Where("resolved_at IS NULL").
		Order("id asc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, apperr.Store("list pending writes", err)
	}
	return out, nil
}

func (r *PendingRepository) MarkResolved(ctx context.Context, id int64) error {
	now := time.Now()
	err := r.db.WithContext(ctx).Model(&models.PendingWrite{}).
		Where("id = ?", id).
		Updates(map[string]any{"resolved_at": now, "updated_at": now, "last_error": ""}).Error
	return apperr.Store("resolve pending write", err)
}

func (r *PendingRepository) MarkFailed(ctx context.Context, id int64, cause error) error {
	err := r.db.WithContext(ctx).Model(&models.PendingWrite{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": cause.Error(),
			"updated_at": time.Now(),
		}).Error
	return apperr.Store("fail pending write", err)
}
