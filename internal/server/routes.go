package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Tomlord1122/planner-backend/internal/dates"
	"github.com/Tomlord1122/planner-backend/internal/service"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(extractQueryToken)
	r.Use(middleware.RequestLogger(s.accessLog))
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.HelloWorldHandler)

	r.Get("/health", s.healthHandler)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", s.signUpHandler)
		r.Post("/signin", s.signInHandler)
		r.Post("/reset", s.requestResetHandler)
		r.Post("/reset/confirm", s.confirmResetHandler)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/signout", s.signOutHandler)
			r.Put("/user", s.updateUserHandler)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/planner/{date}", s.getDayHandler)
		r.Post("/planner/{date}/todos/move", s.moveTodoHandler)

		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", s.createAppointmentHandler)
			r.Put("/{id}", s.updateAppointmentHandler)
			r.Delete("/{id}", s.deleteAppointmentHandler)
		})

		r.Route("/todos", func(r chi.Router) {
			r.Post("/", s.createTodoHandler)
			r.Put("/order", s.reorderTodosHandler)
			r.Put("/{id}", s.updateTodoHandler)
			r.Patch("/{id}/done", s.markTodoHandler)
			r.Delete("/{id}", s.deleteTodoHandler)
		})

		r.Post("/entries/multiaction", s.multiActionHandler)

		r.Route("/meals", func(r chi.Router) {
			r.Get("/", s.listMealsHandler)
			r.Post("/", s.createMealHandler)
			r.Put("/{id}", s.updateMealHandler)
			r.Delete("/{id}", s.deleteMealHandler)
		})
		r.Get("/mealplan/{date}", s.getMealPlanHandler)
		r.Put("/mealplan/{date}", s.setMealPlanHandler)

		r.Get("/upcoming", s.upcomingHandler)
		r.Get("/upcoming/mealplan", s.upcomingMealPlanHandler)

		r.Route("/grocery", func(r chi.Router) {
			r.Get("/", s.listGroceryHandler)
			r.Post("/", s.createGroceryHandler)
			r.Put("/order", s.reorderGroceryHandler)
			r.Delete("/done", s.clearDoneGroceryHandler)
			r.Put("/{id}", s.updateGroceryHandler)
			r.Patch("/{id}/done", s.markGroceryHandler)
			r.Delete("/{id}", s.deleteGroceryHandler)
		})

		r.Get("/preferences", s.getPreferencesHandler)
		r.Put("/preferences/{key}", s.setPreferenceHandler)

		r.Get("/calendar/month/{month}", s.calendarMonthHandler)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuthOrQueryToken)

		r.Get("/changes", s.changesHandler)
		r.Get("/calendar.ics", s.calendarICSHandler)
	})

	return r
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Hello World from the Household Planner!"})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if s.db == nil {
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "down", "error": "no database configured"})
		return
	}
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

// decodeJSON reads the request body into dst and answers malformed bodies
// with a 400. It reports whether the handler may continue.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(dst)
	if err == nil {
		return true
	}

	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &syntaxError) {
		msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	} else if errors.Is(err, io.ErrUnexpectedEOF) {
		msg := "Request body contains badly-formed JSON"
		respondWithError(w, http.StatusBadRequest, msg)
	} else if errors.As(err, &unmarshalTypeError) {
		msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
		respondWithError(w, http.StatusBadRequest, msg)
	} else if strings.HasPrefix(err.Error(), "json: unknown field ") {
		fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
		msg := fmt.Sprintf("Request body contains unknown field %s", fieldName)
		respondWithError(w, http.StatusBadRequest, msg)
	} else if errors.Is(err, io.EOF) {
		msg := "Request body must not be empty"
		respondWithError(w, http.StatusBadRequest, msg)
	} else {
		log.Printf("Error decoding request body: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Error processing request")
	}
	return false
}

// respondWithServiceError maps service errors to status codes. Unexpected
// errors are logged and answered with the generic message for op.
func (s *Server) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, op service.Op) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		respondWithError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrConflict):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("[%s] %s failed: %v", middleware.GetReqID(r.Context()), op, err)
		respondWithError(w, http.StatusInternalServerError, service.FailureMessage(s.locale, op))
	}
}

func parseID(w http.ResponseWriter, r *http.Request, what string) (uint, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s ID provided", what))
		return 0, false
	}
	return uint(id), true
}

// parseDay reads the {date} URL parameter. "today" resolves in the
// configured zone.
func (s *Server) parseDay(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := chi.URLParam(r, "date")
	if raw == "today" {
		return s.dates.Today(), true
	}
	d, err := dates.ParseDate(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
