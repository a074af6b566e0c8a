package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Tomlord1122/planner-backend/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MealRepository covers the meal catalog and the per-day meal plan.
type MealRepository interface {
	CreateMeal(ctx context.Context, meal *domain.Meal) error
	FindMeal(ctx context.Context, id uint) (*domain.Meal, error)
	ListMeals(ctx context.Context) ([]domain.Meal, error)
	UpdateMeal(ctx context.Context, meal *domain.Meal) error
	DeleteMeal(ctx context.Context, id uint) (int64, error)

	FindPlan(ctx context.Context, date time.Time) (*domain.MealPlan, error)
	FindPlansFrom(ctx context.Context, from time.Time) ([]domain.MealPlan, error)
	SavePlan(ctx context.Context, plan *domain.MealPlan) error
	DeletePlan(ctx context.Context, date time.Time) (int64, error)
}

type gormMealRepository struct {
	db *gorm.DB
}

func NewGormMealRepository(db *gorm.DB) MealRepository {
	return &gormMealRepository{db: db}
}

func (r *gormMealRepository) CreateMeal(ctx context.Context, meal *domain.Meal) error {
	return r.db.WithContext(ctx).Create(meal).Error
}

func (r *gormMealRepository) FindMeal(ctx context.Context, id uint) (*domain.Meal, error) {
	var meal domain.Meal
	if err := r.db.WithContext(ctx).First(&meal, id).Error; err != nil {
		return nil, err
	}
	return &meal, nil
}

func (r *gormMealRepository) ListMeals(ctx context.Context) ([]domain.Meal, error) {
	var meals []domain.Meal
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&meals).Error; err != nil {
		return nil, err
	}
	return meals, nil
}

func (r *gormMealRepository) UpdateMeal(ctx context.Context, meal *domain.Meal) error {
	return r.db.WithContext(ctx).Save(meal).Error
}

func (r *gormMealRepository) DeleteMeal(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Meal{}, id)
	return result.RowsAffected, result.Error
}

// FindPlan returns the plan for date, or nil without error when the day has none.
func (r *gormMealRepository) FindPlan(ctx context.Context, date time.Time) (*domain.MealPlan, error) {
	var plan domain.MealPlan
	err := r.db.WithContext(ctx).
		Preload("Lunch").
		Preload("Dinner").
		Where(`"date" = ?`, date).
		Order("id ASC").
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *gormMealRepository) FindPlansFrom(ctx context.Context, from time.Time) ([]domain.MealPlan, error) {
	var plans []domain.MealPlan
	err := r.db.WithContext(ctx).
		Preload("Lunch").
		Preload("Dinner").
		Where(`"date" >= ?`, from).
		Order(`"date" ASC`).
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// SavePlan inserts the plan or replaces lunch and dinner of the existing plan
// for the same day.
func (r *gormMealRepository) SavePlan(ctx context.Context, plan *domain.MealPlan) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"lunch_id", "dinner_id", "updated_at"}),
	}).Omit("Lunch", "Dinner").Create(plan).Error
}

func (r *gormMealRepository) DeletePlan(ctx context.Context, date time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where(`"date" = ?`, date).Delete(&domain.MealPlan{})
	return result.RowsAffected, result.Error
}
