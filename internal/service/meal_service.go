package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tomlord1122/planner-backend/internal/dates"
	"github.com/Tomlord1122/planner-backend/internal/domain"
	"github.com/Tomlord1122/planner-backend/internal/realtime"
	"github.com/Tomlord1122/planner-backend/internal/repository"

	"gorm.io/gorm"
)

// MealService manages the household's meal catalog and the per-day plan.
type MealService interface {
	ListMeals(ctx context.Context) ([]MealResponse, error)
	AddMeal(ctx context.Context, req MealRequest) (*MealResponse, error)
	UpdateMeal(ctx context.Context, id uint, req MealRequest) (*MealResponse, error)
	DeleteMeal(ctx context.Context, id uint) error

	GetMealPlan(ctx context.Context, date time.Time) (*MealPlanResponse, error)
	// SetMealPlan replaces lunch and dinner of date. Clearing both removes
	// the day's plan; the response is then nil.
	SetMealPlan(ctx context.Context, date time.Time, req MealPlanRequest) (*MealPlanResponse, error)
}

type mealService struct {
	meals  repository.MealRepository
	dates  *dates.Service
	events realtime.Publisher
}

func NewMealService(meals repository.MealRepository, d *dates.Service, events realtime.Publisher) MealService {
	return &mealService{meals: meals, dates: d, events: events}
}

func validateMeal(req MealRequest) (string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", invalid("name cannot be empty")
	}
	if req.Duration != nil && *req.Duration < 0 {
		return "", invalid("duration cannot be negative")
	}
	if req.Costs != nil && *req.Costs < 0 {
		return "", invalid("costs cannot be negative")
	}
	return name, nil
}

func (s *mealService) ListMeals(ctx context.Context) ([]MealResponse, error) {
	meals, err := s.meals.ListMeals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	out := make([]MealResponse, 0, len(meals))
	for i := range meals {
		out = append(out, *toMealResponse(&meals[i]))
	}
	return out, nil
}

func (s *mealService) AddMeal(ctx context.Context, req MealRequest) (*MealResponse, error) {
	name, err := validateMeal(req)
	if err != nil {
		return nil, err
	}
	meal := &domain.Meal{Name: name, Duration: req.Duration, Costs: req.Costs}
	if err := s.meals.CreateMeal(ctx, meal); err != nil {
		return nil, fmt.Errorf("failed to create meal: %w", err)
	}
	return toMealResponse(meal), nil
}

func (s *mealService) UpdateMeal(ctx context.Context, id uint, req MealRequest) (*MealResponse, error) {
	name, err := validateMeal(req)
	if err != nil {
		return nil, err
	}
	meal, err := s.meals.FindMeal(ctx, id)
	if err != nil {
		return nil, notFound(err, "meal", id)
	}
	meal.Name, meal.Duration, meal.Costs = name, req.Duration, req.Costs
	if err := s.meals.UpdateMeal(ctx, meal); err != nil {
		return nil, fmt.Errorf("failed to update meal %d: %w", id, err)
	}
	return toMealResponse(meal), nil
}

func (s *mealService) DeleteMeal(ctx context.Context, id uint) error {
	rows, err := s.meals.DeleteMeal(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete meal %d: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("meal with ID %d %w", id, ErrNotFound)
	}
	return nil
}

func (s *mealService) GetMealPlan(ctx context.Context, date time.Time) (*MealPlanResponse, error) {
	plan, err := s.meals.FindPlan(ctx, dates.Day(date))
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plan: %w", err)
	}
	if plan == nil {
		return nil, nil
	}
	return toMealPlanResponse(s.dates, *plan), nil
}

func (s *mealService) SetMealPlan(ctx context.Context, date time.Time, req MealPlanRequest) (*MealPlanResponse, error) {
	date = dates.Day(date)

	for _, id := range []*uint{req.LunchID, req.DinnerID} {
		if id == nil {
			continue
		}
		if _, err := s.meals.FindMeal(ctx, *id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, invalid("unknown meal %d", *id)
			}
			return nil, fmt.Errorf("failed to check meal %d: %w", *id, err)
		}
	}

	if req.LunchID == nil && req.DinnerID == nil {
		if _, err := s.meals.DeletePlan(ctx, date); err != nil {
			return nil, fmt.Errorf("failed to clear meal plan: %w", err)
		}
		s.publish(realtime.ActionDelete, 0, date)
		return nil, nil
	}

	plan := &domain.MealPlan{Date: date, LunchID: req.LunchID, DinnerID: req.DinnerID}
	if err := s.meals.SavePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to save meal plan: %w", err)
	}
	saved, err := s.meals.FindPlan(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to reload meal plan: %w", err)
	}
	if saved == nil {
		return nil, errors.New("meal plan missing after save")
	}
	s.publish(realtime.ActionUpdate, saved.ID, date)
	return toMealPlanResponse(s.dates, *saved), nil
}

func (s *mealService) publish(action realtime.Action, id uint, date time.Time) {
	if s.events == nil {
		return
	}
	s.events.Publish(realtime.Event{Table: realtime.TableMealPlan, Action: action, ID: id, Date: &date})
}
