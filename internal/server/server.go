package server

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Tomlord1122/planner-backend/internal/config"
	"github.com/Tomlord1122/planner-backend/internal/database"
	"github.com/Tomlord1122/planner-backend/internal/dates"
	"github.com/Tomlord1122/planner-backend/internal/realtime"
	"github.com/Tomlord1122/planner-backend/internal/service"
)

// Services bundles the business logic the handlers call into.
type Services struct {
	Auth        service.AuthService
	Planner     service.PlannerService
	Meals       service.MealService
	Upcoming    service.UpcomingService
	Grocery     service.GroceryService
	Preferences service.PreferenceService
}

type Server struct {
	port      int
	locale    string
	services  Services
	db        database.Service
	broker    *realtime.Broker
	dates     *dates.Service
	keepAlive time.Duration
	accessLog middleware.LogFormatter
}

// New wires the handlers. db may be nil, in which case /health reports the
// database as down.
func New(cfg config.Config, services Services, db database.Service, broker *realtime.Broker, d *dates.Service) *Server {
	return &Server{
		port:      cfg.Port,
		locale:    cfg.Locale,
		services:  services,
		db:        db,
		broker:    broker,
		dates:     d,
		keepAlive: 25 * time.Second,
		accessLog: &middleware.DefaultLogFormatter{Logger: log.New(os.Stdout, "", log.LstdFlags), NoColor: true},
	}
}

func NewServer(cfg config.Config, services Services, db database.Service, broker *realtime.Broker, d *dates.Service) *http.Server {
	appServer := New(cfg, services, db, broker, d)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // lifted per request for /changes
	}
}
