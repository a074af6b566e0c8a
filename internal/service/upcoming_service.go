package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Tomlord1122/planner-backend/internal/dates"
	"github.com/Tomlord1122/planner-backend/internal/domain"
	"github.com/Tomlord1122/planner-backend/internal/repository"
	"github.com/Tomlord1122/planner-backend/internal/upcoming"
)

// UpcomingService builds the cross-day view: everything without a date or
// dated today or later, grouped by day.
type UpcomingService interface {
	// GetUpcoming returns the grouped view. A blank Search is ignored, so
	// searching for whitespace shows the same list as not searching.
	GetUpcoming(ctx context.Context, userID uint, q UpcomingQuery) ([]upcoming.Group, error)
	GetMealPlans(ctx context.Context) ([]MealPlanResponse, error)
	// CalendarEntries lists every dated entry visible to the user.
	CalendarEntries(ctx context.Context, userID uint) ([]upcoming.Entry, error)
}

type upcomingService struct {
	appointments repository.AppointmentRepository
	todos        repository.TodoRepository
	meals        repository.MealRepository
	dates        *dates.Service
	grouper      *upcoming.Grouper
}

func NewUpcomingService(
	appointments repository.AppointmentRepository,
	todos repository.TodoRepository,
	meals repository.MealRepository,
	d *dates.Service,
) UpcomingService {
	return &upcomingService{
		appointments: appointments,
		todos:        todos,
		meals:        meals,
		dates:        d,
		grouper:      upcoming.NewGrouper(d),
	}
}

func (s *upcomingService) GetUpcoming(ctx context.Context, userID uint, q UpcomingQuery) ([]upcoming.Group, error) {
	if !q.Assignment.Valid() {
		return nil, invalid("unknown assignment %d", q.Assignment)
	}
	if !q.DateFilter.Valid() {
		return nil, invalid("unknown date filter %d", q.DateFilter)
	}
	if q.Type != 0 && q.Type != domain.EntryAppointment && q.Type != domain.EntryTodo {
		return nil, invalid("unknown entry type %d", q.Type)
	}

	search := strings.TrimSpace(q.Search)
	today := s.dates.Today()

	appointments, err := s.appointments.FindUpcoming(ctx, today, userID, q.Assignment, search)
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming appointments: %w", err)
	}
	todos, err := s.todos.FindUpcoming(ctx, today, userID, q.Assignment, search)
	if err != nil {
		return nil, fmt.Errorf("failed to load upcoming todos: %w", err)
	}

	entries := upcoming.Merge(appointments, todos)
	now := s.dates.CurrentTime()
	for i := range entries {
		e := &entries[i]
		if e.Type == domain.EntryAppointment && e.Date != nil && s.dates.IsToday(*e.Date) {
			e.Past = e.Time != nil && *e.Time < now
		}
	}

	groups := s.grouper.Group(entries)
	groups = s.grouper.FilterByDate(groups, q.DateFilter)
	if q.Type != 0 {
		groups = s.grouper.FilterByType(groups, q.Type)
	}
	return groups, nil
}

func (s *upcomingService) GetMealPlans(ctx context.Context) ([]MealPlanResponse, error) {
	plans, err := s.meals.FindPlansFrom(ctx, s.dates.Today())
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plans: %w", err)
	}
	out := make([]MealPlanResponse, 0, len(plans))
	for _, p := range plans {
		out = append(out, *toMealPlanResponse(s.dates, p))
	}
	return out, nil
}

func (s *upcomingService) CalendarEntries(ctx context.Context, userID uint) ([]upcoming.Entry, error) {
	appointments, err := s.appointments.FindDated(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments: %w", err)
	}
	todos, err := s.todos.FindDated(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load todos: %w", err)
	}
	return upcoming.Merge(appointments, todos), nil
}
