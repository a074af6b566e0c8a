package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Tomlord1122/planner-backend/internal/app"
	"github.com/Tomlord1122/planner-backend/internal/config"
	"github.com/Tomlord1122/planner-backend/internal/database"
	"github.com/Tomlord1122/planner-backend/internal/dates"
	"github.com/Tomlord1122/planner-backend/internal/realtime"
	"github.com/Tomlord1122/planner-backend/internal/server"

	_ "github.com/joho/godotenv/autoload"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, broker *realtime.Broker, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// Open change streams never finish on their own; end them first.
	broker.Close()

	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	if dbService != nil {
		log.Println("Closing database connection pool...")
		if err := dbService.Close(); err != nil {
			log.Printf("Error closing database connection pool: %v", err)
		} else {
			log.Println("Database connection pool closed.")
		}
	}

	log.Println("Server exiting")

	done <- true
}

func main() {
	cfg := config.Load()

	// 1. Initialize Database
	dbService, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if cfg.AutoMigrate {
		if err := dbService.Migrate(); err != nil {
			log.Fatalf("Failed to auto-migrate database: %v", err)
		}
	}

	// 2. Initialize Repositories and Services
	d := dates.New(cfg.Timezone, cfg.Locale)
	broker := realtime.NewBroker(32)
	services := app.NewServices(app.NewRepositories(dbService.GetDB()), d, broker, cfg.SessionTTL)

	// 3. Initialize Server/Router
	chiServer := server.NewServer(cfg, services, dbService, broker, d)

	done := make(chan bool, 1)
	go gracefulShutdown(chiServer, dbService, broker, done)

	log.Printf("Starting server on %s (zone %s, locale %s)", chiServer.Addr, cfg.Timezone, cfg.Locale)
	err = chiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server ListenAndServe error: %v", err)
	}

	<-done
	log.Println("Graceful shutdown complete.")
}
