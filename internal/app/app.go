// Package app assembles repositories and services for the binaries.
package app

import (
	"time"

	"gorm.io/gorm"

	"github.com/Tomlord1122/planner-backend/internal/dates"
	"github.com/Tomlord1122/planner-backend/internal/realtime"
	"github.com/Tomlord1122/planner-backend/internal/repository"
	"github.com/Tomlord1122/planner-backend/internal/server"
	"github.com/Tomlord1122/planner-backend/internal/service"
)

// Repositories holds the gorm-backed stores.
type Repositories struct {
	Appointments repository.AppointmentRepository
	Todos        repository.TodoRepository
	Meals        repository.MealRepository
	Grocery      repository.GroceryRepository
	Users        repository.UserRepository
	Sessions     repository.SessionRepository
	Preferences  repository.PreferenceRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Appointments: repository.NewGormAppointmentRepository(db),
		Todos:        repository.NewGormTodoRepository(db),
		Meals:        repository.NewGormMealRepository(db),
		Grocery:      repository.NewGormGroceryRepository(db),
		Users:        repository.NewGormUserRepository(db),
		Sessions:     repository.NewGormSessionRepository(db),
		Preferences:  repository.NewGormPreferenceRepository(db),
	}
}

// NewServices builds the services. events may be nil when nobody listens
// for changes, as in one-shot commands.
func NewServices(repos Repositories, d *dates.Service, events realtime.Publisher, sessionTTL time.Duration) server.Services {
	if events == nil {
		events = discard{}
	}
	return server.Services{
		Auth:        service.NewAuthService(repos.Users, repos.Sessions, d, sessionTTL),
		Planner:     service.NewPlannerService(repos.Appointments, repos.Todos, repos.Meals, d, events),
		Meals:       service.NewMealService(repos.Meals, d, events),
		Upcoming:    service.NewUpcomingService(repos.Appointments, repos.Todos, repos.Meals, d),
		Grocery:     service.NewGroceryService(repos.Grocery, events),
		Preferences: service.NewPreferenceService(repos.Preferences),
	}
}

type discard struct{}

func (discard) Publish(realtime.Event) {}
