package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Errors returned by the services. Handlers map them to status codes with
// errors.Is; anything else is an internal failure.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// notFound translates gorm's missing-row error into ErrNotFound and wraps
// everything else with context.
func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s with ID %d %w", what, id, ErrNotFound)
	}
	return fmt.Errorf("failed to retrieve %s %d: %w", what, id, err)
}

// Op names an operation for user-facing failure messages.
type Op string

const (
	OpLoadDay           Op = "load_day"
	OpLoadTodos         Op = "load_todos"
	OpAddTodo           Op = "add_todo"
	OpUpdateTodo        Op = "update_todo"
	OpDeleteTodo        Op = "delete_todo"
	OpMarkTodo          Op = "mark_todo"
	OpReorderTodos      Op = "reorder_todos"
	OpAddAppointment    Op = "add_appointment"
	OpUpdateAppointment Op = "update_appointment"
	OpDeleteAppointment Op = "delete_appointment"
	OpMoveTodos         Op = "move_todos"
	OpMoveAppointments  Op = "move_appointments"
	OpMoveBoth          Op = "move_both"
	OpDeleteTodos       Op = "delete_todos"
	OpDeleteAppts       Op = "delete_appointments"
	OpDeleteBoth        Op = "delete_both"
	OpLoadUpcoming      Op = "load_upcoming"
	OpSearch            Op = "search"
	OpLoadMealPlan      Op = "load_meal_plan"
	OpSaveMealPlan      Op = "save_meal_plan"
	OpMeals             Op = "meals"
	OpGrocery           Op = "grocery"
	OpPreferences       Op = "preferences"
	OpSignIn            Op = "sign_in"
	OpSignUp            Op = "sign_up"
	OpResetPassword     Op = "reset_password"
	OpUpdateUser        Op = "update_user"
	OpExport            Op = "export"
	OpUnknown           Op = "unknown"
)

var failureMessages = map[string]map[Op]string{
	"en": {
		OpLoadDay:           "The day could not be loaded.",
		OpLoadTodos:         "Todos could not be loaded.",
		OpAddTodo:           "Todo could not be added.",
		OpUpdateTodo:        "Todo could not be updated.",
		OpDeleteTodo:        "Todo could not be deleted.",
		OpMarkTodo:          "Todo could not be checked off.",
		OpReorderTodos:      "The order of the todos could not be changed.",
		OpAddAppointment:    "Appointment could not be added.",
		OpUpdateAppointment: "Appointment could not be updated.",
		OpDeleteAppointment: "Appointment could not be deleted.",
		OpMoveTodos:         "Selected todos could not be moved.",
		OpMoveAppointments:  "Selected appointments could not be moved.",
		OpMoveBoth:          "Selected todos and appointments could not be moved.",
		OpDeleteTodos:       "Selected todos could not be deleted.",
		OpDeleteAppts:       "Selected appointments could not be deleted.",
		OpDeleteBoth:        "Selected todos and appointments could not be deleted.",
		OpLoadUpcoming:      "Upcoming appointments and todos could not be loaded.",
		OpSearch:            "The search failed.",
		OpLoadMealPlan:      "Meal plan could not be loaded.",
		OpSaveMealPlan:      "Meal plan could not be saved.",
		OpMeals:             "Meals could not be updated.",
		OpGrocery:           "The grocery list could not be updated.",
		OpPreferences:       "Settings could not be saved.",
		OpSignIn:            "Sign in failed.",
		OpSignUp:            "Sign up failed.",
		OpResetPassword:     "Password could not be reset.",
		OpUpdateUser:        "Account could not be updated.",
		OpExport:            "The calendar could not be exported.",
		OpUnknown:           "An unknown error occurred.",
	},
	"de": {
		OpLoadDay:           "Der Tag konnte nicht geladen werden.",
		OpLoadTodos:         "Aufgaben konnten nicht geladen werden.",
		OpAddTodo:           "Aufgabe konnte nicht hinzugefügt werden.",
		OpUpdateTodo:        "Aufgabe konnte nicht aktualisiert werden.",
		OpDeleteTodo:        "Aufgabe konnte nicht gelöscht werden.",
		OpMarkTodo:          "Aufgabe konnte nicht abgehakt werden.",
		OpReorderTodos:      "Die Reihenfolge der Aufgaben konnte nicht geändert werden.",
		OpAddAppointment:    "Termin konnte nicht hinzugefügt werden.",
		OpUpdateAppointment: "Termin konnte nicht aktualisiert werden.",
		OpDeleteAppointment: "Termin konnte nicht gelöscht werden.",
		OpMoveTodos:         "Ausgewählte Aufgaben konnten nicht verschoben werden.",
		OpMoveAppointments:  "Ausgewählte Termine konnten nicht verschoben werden.",
		OpMoveBoth:          "Ausgewählte Aufgaben und Termine konnten nicht verschoben werden.",
		OpDeleteTodos:       "Ausgewählte Aufgaben konnten nicht gelöscht werden.",
		OpDeleteAppts:       "Ausgewählte Termine konnten nicht gelöscht werden.",
		OpDeleteBoth:        "Ausgewählte Aufgaben und Termine konnten nicht gelöscht werden.",
		OpLoadUpcoming:      "Bevorstehende Termine und Aufgaben konnten nicht geladen werden.",
		OpSearch:            "Die Suche ist fehlgeschlagen.",
		OpLoadMealPlan:      "Essensplan konnte nicht geladen werden.",
		OpSaveMealPlan:      "Essensplan konnte nicht gespeichert werden.",
		OpMeals:             "Gerichte konnten nicht aktualisiert werden.",
		OpGrocery:           "Die Einkaufsliste konnte nicht aktualisiert werden.",
		OpPreferences:       "Einstellungen konnten nicht gespeichert werden.",
		OpSignIn:            "Anmeldung fehlgeschlagen.",
		OpSignUp:            "Registrierung fehlgeschlagen.",
		OpResetPassword:     "Passwort konnte nicht zurückgesetzt werden.",
		OpUpdateUser:        "Konto konnte nicht aktualisiert werden.",
		OpExport:            "Der Kalender konnte nicht exportiert werden.",
		OpUnknown:           "Ein unbekannter Fehler ist eingetreten.",
	},
}

// FailureMessage is the generic message shown when op fails for a reason the
// user cannot fix.
func FailureMessage(locale string, op Op) string {
	msgs, ok := failureMessages[locale]
	if !ok {
		msgs = failureMessages["en"]
	}
	if m, ok := msgs[op]; ok {
		return m
	}
	return msgs[OpUnknown]
}
