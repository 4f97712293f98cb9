package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"zonetrack/internal/apperr"
	"zonetrack/internal/models"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, c *models.Client) error {
	c.Normalize()
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return apperr.Store("insert client", err)
	}
	return nil
}

func (r *ClientRepository) Get(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "client %s not found", id)
	}
	c.Normalize()
	return &c, nil
}

func (r *ClientRepository) List(ctx context.Context) ([]models.Client, error) {
	var cs []models.Client
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&cs).Error; err != nil {
		return nil, apperr.Store("list clients", err)
	}
	for i := range cs {
		cs[i].Normalize()
	}
	return cs, nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Client{}, "id = ?", id)
	if res.Error != nil {
		return apperr.Store("delete client", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("client %s not found", id)
	}
	return nil
}

// Mutate applies fn to one client document under a row lock and writes the
// whole document back in the same transaction. The client is the unit of
// atomicity: every nested change goes through here. fn returning an error
// rolls the transaction back and leaves the stored document untouched.
func (r *ClientRepository) Mutate(ctx context.Context, id string, fn func(*models.Client) error) (*models.Client, error) {
	var c models.Client
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "client %s not found", id)
		}
		c.Normalize()
		if err := fn(&c); err != nil {
			return err
		}
		c.Normalize()
		c.UpdatedAt = time.Now()
		res := tx.Model(&c).Select("*").Omit("created_at").Updates(&c)
		if res.Error != nil {
			return apperr.Store("update client", res.Error)
		}
		// deleted between the locked read and the write
		if res.RowsAffected != 1 {
			return apperr.NotFound("client %s not found", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func notFoundOr(err error, format string, args ...any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(format, args...)
	}
	return apperr.Store("query", err)
}
