package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"zonetrack/internal/apperr"
	"zonetrack/internal/models"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	s.CreatedAt = time.Now()
	return apperr.Store("insert session", r.db.WithContext(ctx).Create(s).Error)
}

// Active returns the session for jti if it is neither revoked nor expired.
func (r *SessionRepository) Active(ctx context.Context, jti string) (*models.Session, error) {
	var s models.Session
	if err := r.db.WithContext(ctx).First(&s, "jti = ?", jti).Error; err != nil {
		return nil, notFoundOr(err, "session not found")
	}
	if s.RevokedAt != nil || time.Now().After(s.ExpiresAt) {
		return nil, apperr.Unauthorized("session expired/revoked")
	}
	return &s, nil
}

func (r *SessionRepository) Revoke(ctx context.Context, jti string) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&models.Session{}).
		Where("jti = ? AND revoked_at IS NULL", jti).
		Update("revoked_at", now)
	if res.Error != nil {
		return apperr.Store("revoke session", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("session not found")
	}
	return nil
}
