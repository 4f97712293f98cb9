package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"zonetrack/internal/apperr"
	"zonetrack/internal/models"
)

// UserRepository owns the standalone users table.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.Jobs == nil {
		u.Jobs = []string{}
	}
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return apperr.Store("insert user", err)
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "user %s not found", id)
	}
	return &u, nil
}

// GetByEmail matches case-insensitively. With duplicates the oldest wins.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("created_at asc").
		First(&u).Error
	if err != nil {
		return nil, notFoundOr(err, "user not found")
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&users).Error; err != nil {
		return nil, apperr.Store("list users", err)
	}
	return users, nil
}

// Update rewrites every column of an existing row.
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Model(u).Select("*").Omit("created_at").Updates(u)
	if res.Error != nil {
		return apperr.Store("update user", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user %s not found", u.ID)
	}
	return nil
}

// Upsert inserts or overwrites the row. Used when replaying repairs.
func (r *UserRepository) Upsert(ctx context.Context, u *models.User) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(u).Error
	return apperr.Store("upsert user", err)
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return apperr.Store("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user %s not found", id)
	}
	return nil
}

// AddJob appends jobID to the user's job list unless it is already there.
func (r *UserRepository) AddJob(ctx context.Context, userID, jobID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&u, "id = ?", userID).Error; err != nil {
			return notFoundOr(err, "user %s not found", userID)
		}
		if u.HasJob(jobID) {
			return nil
		}
		u.Jobs = append(u.Jobs, jobID)
		u.UpdatedAt = time.Now()
		res := tx.Model(&u).Select("jobs", "updated_at").Updates(&u)
		if res.Error != nil {
			return apperr.Store("assign job", res.Error)
		}
		return nil
	})
}
