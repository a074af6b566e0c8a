package repository

import (
	"context"

	"github.com/Tomlord1122/planner-backend/internal/domain"

	"gorm.io/gorm"
)

type GroceryRepository interface {
	Create(ctx context.Context, item *domain.GroceryItem) error
	FindByID(ctx context.Context, id, userID uint) (*domain.GroceryItem, error)
	List(ctx context.Context, userID uint) ([]domain.GroceryItem, error)
	Update(ctx context.Context, item *domain.GroceryItem) error
	Reorder(ctx context.Context, ids []uint, userID uint) error
	Delete(ctx context.Context, id, userID uint) (int64, error)
	DeleteDone(ctx context.Context, userID uint) (int64, error)
}

type gormGroceryRepository struct {
	db *gorm.DB
}

func NewGormGroceryRepository(db *gorm.DB) GroceryRepository {
	return &gormGroceryRepository{db: db}
}

func (r *gormGroceryRepository) Create(ctx context.Context, item *domain.GroceryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *gormGroceryRepository) FindByID(ctx context.Context, id, userID uint) (*domain.GroceryItem, error) {
	var item domain.GroceryItem
	if err := r.db.WithContext(ctx).Scopes(visibleTo(userID)).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns open items first, each part in manual order.
func (r *gormGroceryRepository) List(ctx context.Context, userID uint) ([]domain.GroceryItem, error) {
	var items []domain.GroceryItem
	err := r.db.WithContext(ctx).
		Scopes(visibleTo(userID)).
		Order("done ASC").
		Order("sort_order ASC").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *gormGroceryRepository) Update(ctx context.Context, item *domain.GroceryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *gormGroceryRepository) Reorder(ctx context.Context, ids []uint, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			result := tx.Model(&domain.GroceryItem{}).
				Scopes(visibleTo(userID)).
				Where("id = ?", id).
				Update("sort_order", i)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}

func (r *gormGroceryRepository) Delete(ctx context.Context, id, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Scopes(visibleTo(userID)).Delete(&domain.GroceryItem{}, id)
	return result.RowsAffected, result.Error
}

func (r *gormGroceryRepository) DeleteDone(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Scopes(visibleTo(userID)).Where("done = ?", true).Delete(&domain.GroceryItem{})
	return result.RowsAffected, result.Error
}
