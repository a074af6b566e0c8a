package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Tomlord1122/planner-backend/internal/service"
)

func (s *Server) getDayHandler(w http.ResponseWriter, r *http.Request) {
	date, ok := s.parseDay(w, r)
	if !ok {
		return
	}
	day, err := s.services.Planner.GetDay(r.Context(), currentUser(r).ID, date)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpLoadDay)
		return
	}
	respondWithJSON(w, http.StatusOK, day)
}

// moveTodoHandler drags a todo within a day's list. The date "none" addresses
// the list of todos without a date.
func (s *Server) moveTodoHandler(w http.ResponseWriter, r *http.Request) {
	var date *time.Time
	if chi.URLParam(r, "date") != "none" {
		d, ok := s.parseDay(w, r)
		if !ok {
			return
		}
		date = &d
	}

	var req service.MoveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	todos, err := s.services.Planner.MoveTodo(r.Context(), currentUser(r).ID, date, req.From, req.To)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpReorderTodos)
		return
	}
	respondWithJSON(w, http.StatusOK, todos)
}

func (s *Server) createAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	var req service.EntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	appointment, err := s.services.Planner.AddAppointment(r.Context(), currentUser(r).ID, req)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpAddAppointment)
		return
	}
	respondWithJSON(w, http.StatusCreated, appointment)
}

func (s *Server) updateAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "appointment")
	if !ok {
		return
	}
	var req service.UpdateEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Done != nil {
		respondWithError(w, http.StatusBadRequest, "Appointments cannot be marked done")
		return
	}
	appointment, err := s.services.Planner.UpdateAppointment(r.Context(), currentUser(r).ID, id, req)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpUpdateAppointment)
		return
	}
	respondWithJSON(w, http.StatusOK, appointment)
}

func (s *Server) deleteAppointmentHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "appointment")
	if !ok {
		return
	}
	if err := s.services.Planner.DeleteAppointment(r.Context(), currentUser(r).ID, id); err != nil {
		s.respondWithServiceError(w, r, err, service.OpDeleteAppointment)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createTodoHandler(w http.ResponseWriter, r *http.Request) {
	var req service.EntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	todo, err := s.services.Planner.AddTodo(r.Context(), currentUser(r).ID, req)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpAddTodo)
		return
	}
	respondWithJSON(w, http.StatusCreated, todo)
}

func (s *Server) updateTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "todo")
	if !ok {
		return
	}
	var req service.UpdateEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	todo, err := s.services.Planner.UpdateTodo(r.Context(), currentUser(r).ID, id, req)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpUpdateTodo)
		return
	}
	respondWithJSON(w, http.StatusOK, todo)
}

type doneRequest struct {
	Done *bool `json:"done"`
}

func (s *Server) markTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "todo")
	if !ok {
		return
	}
	var req doneRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Done == nil {
		respondWithError(w, http.StatusBadRequest, "Field done is required")
		return
	}
	todo, err := s.services.Planner.MarkTodo(r.Context(), currentUser(r).ID, id, *req.Done)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpMarkTodo)
		return
	}
	respondWithJSON(w, http.StatusOK, todo)
}

func (s *Server) reorderTodosHandler(w http.ResponseWriter, r *http.Request) {
	var req service.ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.services.Planner.ReorderTodos(r.Context(), currentUser(r).ID, req.IDs); err != nil {
		s.respondWithServiceError(w, r, err, service.OpReorderTodos)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "todo")
	if !ok {
		return
	}
	if err := s.services.Planner.DeleteTodo(r.Context(), currentUser(r).ID, id); err != nil {
		s.respondWithServiceError(w, r, err, service.OpDeleteTodo)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// multiActionOp picks the failure message matching the selection.
func multiActionOp(req service.MultiActionRequest) service.Op {
	apps, todos := len(req.Appointments) > 0, len(req.Todos) > 0
	if req.Action == service.MultiActionDelete {
		switch {
		case apps && todos:
			return service.OpDeleteBoth
		case apps:
			return service.OpDeleteAppts
		default:
			return service.OpDeleteTodos
		}
	}
	switch {
	case apps && todos:
		return service.OpMoveBoth
	case apps:
		return service.OpMoveAppointments
	default:
		return service.OpMoveTodos
	}
}

func (s *Server) multiActionHandler(w http.ResponseWriter, r *http.Request) {
	var req service.MultiActionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.services.Planner.MultiAction(r.Context(), currentUser(r).ID, req)
	if err != nil {
		s.respondWithServiceError(w, r, err, multiActionOp(req))
		return
	}
	respondWithJSON(w, http.StatusOK, resp)
}

// --- meals ---

func (s *Server) listMealsHandler(w http.ResponseWriter, r *http.Request) {
	meals, err := s.services.Meals.ListMeals(r.Context())
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpMeals)
		return
	}
	respondWithJSON(w, http.StatusOK, meals)
}

func (s *Server) createMealHandler(w http.ResponseWriter, r *http.Request) {
	var req service.MealRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	meal, err := s.services.Meals.AddMeal(r.Context(), req)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpMeals)
		return
	}
	respondWithJSON(w, http.StatusCreated, meal)
}

func (s *Server) updateMealHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "meal")
	if !ok {
		return
	}
	var req service.MealRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	meal, err := s.services.Meals.UpdateMeal(r.Context(), id, req)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpMeals)
		return
	}
	respondWithJSON(w, http.StatusOK, meal)
}

func (s *Server) deleteMealHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "meal")
	if !ok {
		return
	}
	if err := s.services.Meals.DeleteMeal(r.Context(), id); err != nil {
		s.respondWithServiceError(w, r, err, service.OpMeals)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getMealPlanHandler(w http.ResponseWriter, r *http.Request) {
	date, ok := s.parseDay(w, r)
	if !ok {
		return
	}
	plan, err := s.services.Meals.GetMealPlan(r.Context(), date)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpLoadMealPlan)
		return
	}
	if plan == nil {
		respondWithError(w, http.StatusNotFound, "No meal plan for this day")
		return
	}
	respondWithJSON(w, http.StatusOK, plan)
}

func (s *Server) setMealPlanHandler(w http.ResponseWriter, r *http.Request) {
	date, ok := s.parseDay(w, r)
	if !ok {
		return
	}
	var req service.MealPlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	plan, err := s.services.Meals.SetMealPlan(r.Context(), date, req)
	if err != nil {
		s.respondWithServiceError(w, r, err, service.OpSaveMealPlan)
		return
	}
	if plan == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondWithJSON(w, http.StatusOK, plan)
}
