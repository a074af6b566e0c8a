package realtime

import (
	"time"

	"github.com/Tomlord1122/planner-backend/internal/dates"
	"github.com/Tomlord1122/planner-backend/internal/domain"
)

type ViewName string

const (
	ViewPlanner  ViewName = "planner"
	ViewUpcoming ViewName = "upcoming"
)

// View is what a connected client is looking at.
type View struct {
	Name       ViewName
	Date       time.Time // selected day (planner) or today (upcoming)
	UserID     uint
	Assignment domain.Assignment
}

// ShouldReload reports whether e affects the list the client shows.
//
// Changes to shared rows on the selected day and changes to the user's own
// todos reload todos; appointments only reload for shared rows; the meal plan
// reloads when its day is the selected one.
func (v View) ShouldReload(e Event) bool {
	shared := e.UserID == nil
	mine := e.UserID != nil && *e.UserID == v.UserID
	sameDate := e.Date != nil && dates.SameDate(*e.Date, v.Date)

	switch v.Name {
	case ViewPlanner:
		switch e.Table {
		case TableTodos:
			return (shared && sameDate) || mine
		case TableAppointments:
			return shared && sameDate
		case TableMealPlan:
			return sameDate
		case TableGrocery:
			return shared || mine
		}
	case ViewUpcoming:
		switch e.Table {
		case TableTodos:
			return (shared && sameDate) || mine
		case TableAppointments:
			return v.Assignment == domain.AssignmentAll && shared
		case TableMealPlan:
			return e.Date != nil && !dates.Day(*e.Date).Before(dates.Day(v.Date))
		}
	}
	return false
}
