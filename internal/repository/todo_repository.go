package repository

import (
	"context"
	"time"

	"github.com/Tomlord1122/planner-backend/internal/domain"

	"gorm.io/gorm"
)

// TodoRepository defines the interface for todo data operations
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	FindByID(ctx context.Context, id, userID uint) (*domain.Todo, error)
	FindByIDs(ctx context.Context, ids []uint, userID uint) ([]domain.Todo, error)
	FindByDate(ctx context.Context, date *time.Time, userID uint) ([]domain.Todo, error)
	FindUpcoming(ctx context.Context, from time.Time, userID uint, assignment domain.Assignment, search string) ([]domain.Todo, error)
	FindDated(ctx context.Context, userID uint) ([]domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	SetDone(ctx context.Context, id uint, done bool, userID uint) (int64, error)
	Reorder(ctx context.Context, ids []uint, userID uint) error
	UpdateDate(ctx context.Context, ids []uint, date *time.Time, userID uint) (int64, error)
	Delete(ctx context.Context, id, userID uint) (int64, error)
	DeleteMany(ctx context.Context, ids []uint, userID uint) (int64, error)
}

// gormTodoRepository implements TodoRepository using GORM
type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM todo repository
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

func (r *gormTodoRepository) FindByID(ctx context.Context, id, userID uint) (*domain.Todo, error) {
	var todo domain.Todo
	result := r.db.WithContext(ctx).Scopes(visibleTo(userID)).First(&todo, id)
	if result.Error != nil {
		// Handle potential errors, like gorm.ErrRecordNotFound
		return nil, result.Error
	}
	return &todo, nil
}

func (r *gormTodoRepository) FindByIDs(ctx context.Context, ids []uint, userID uint) ([]domain.Todo, error) {
	var todos []domain.Todo
	if len(ids) == 0 {
		return todos, nil
	}
	result := r.db.WithContext(ctx).Scopes(visibleTo(userID)).Where("id IN ?", ids).Order("id ASC").Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

// FindByDate returns one day's todos (or the undated ones when date is nil),
// open before done, then by time, then by manual order.
func (r *gormTodoRepository) FindByDate(ctx context.Context, date *time.Time, userID uint) ([]domain.Todo, error) {
	var todos []domain.Todo
	q := r.db.WithContext(ctx).Scopes(visibleTo(userID))
	if date == nil {
		q = q.Where(`"date" IS NULL`)
	} else {
		q = q.Where(`"date" = ?`, *date)
	}
	result := q.Order("done ASC").Order(`"time" ASC`).Order("sort_order ASC").Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

func (r *gormTodoRepository) FindUpcoming(ctx context.Context, from time.Time, userID uint, assignment domain.Assignment, search string) ([]domain.Todo, error) {
	var todos []domain.Todo
	result := r.db.WithContext(ctx).
		Scopes(undatedOrFrom(from), assignedTo(userID, assignment), nameContains(search)).
		Order(`"date" ASC`).
		Order(`"time" ASC`).
		Order("done ASC").
		Order("sort_order ASC").
		Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

func (r *gormTodoRepository) FindDated(ctx context.Context, userID uint) ([]domain.Todo, error) {
	var todos []domain.Todo
	result := r.db.WithContext(ctx).
		Scopes(visibleTo(userID)).
		Where(`"date" IS NOT NULL`).
		Order(`"date" ASC`).
		Order(`"time" ASC`).
		Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

func (r *gormTodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Save(todo).Error
}

func (r *gormTodoRepository) SetDone(ctx context.Context, id uint, done bool, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Todo{}).
		Scopes(visibleTo(userID)).
		Where("id = ?", id).
		Update("done", done)
	return result.RowsAffected, result.Error
}

// Reorder writes sort_order = position in ids, in one transaction.
func (r *gormTodoRepository) Reorder(ctx context.Context, ids []uint, userID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			result := tx.Model(&domain.Todo{}).
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

func (r *gormTodoRepository) UpdateDate(ctx context.Context, ids []uint, date *time.Time, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Todo{}).
		Scopes(visibleTo(userID)).
		Where("id IN ?", ids).
		Update("date", date)
	return result.RowsAffected, result.Error
}

func (r *gormTodoRepository) Delete(ctx context.Context, id, userID uint) (int64, error) {
	// Soft delete through gorm.Model's DeletedAt
	result := r.db.WithContext(ctx).Scopes(visibleTo(userID)).Delete(&domain.Todo{}, id)
	return result.RowsAffected, result.Error
}

func (r *gormTodoRepository) DeleteMany(ctx context.Context, ids []uint, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Scopes(visibleTo(userID)).Where("id IN ?", ids).Delete(&domain.Todo{})
	return result.RowsAffected, result.Error
}
