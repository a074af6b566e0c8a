package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// Config holds everything the server and the CLI read from the environment.
type Config struct {
	Port int

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSchema   string
	DBLogLevel string

	Timezone    *time.Location
	Locale      string
	SessionTTL  time.Duration
	AutoMigrate bool
}

const (
	defaultPort       = 8080
	defaultTimezone   = "Europe/Berlin"
	defaultLocale     = "en"
	defaultSessionTTL = 30 * 24 * time.Hour
	defaultDBLogLevel = "warn"
)

// Load reads the configuration. Invalid values fall back to their defaults
// with a logged warning, the same way PORT always has.
func Load() Config {
	cfg := Config{
		Port:        defaultPort,
		DBHost:      os.Getenv("BLUEPRINT_DB_HOST"),
		DBPort:      os.Getenv("BLUEPRINT_DB_PORT"),
		DBName:      os.Getenv("BLUEPRINT_DB_DATABASE"),
		DBUser:      os.Getenv("BLUEPRINT_DB_USERNAME"),
		DBPassword:  os.Getenv("BLUEPRINT_DB_PASSWORD"),
		DBSchema:    os.Getenv("BLUEPRINT_DB_SCHEMA"),
		DBLogLevel:  defaultDBLogLevel,
		Locale:      defaultLocale,
		SessionTTL:  defaultSessionTTL,
		AutoMigrate: true,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 {
			log.Printf("Warning: Invalid PORT environment variable '%s'. Using default %d.", portStr, defaultPort)
		} else {
			cfg.Port = port
		}
	}

	tzName := os.Getenv("PLANNER_TIMEZONE")
	if tzName == "" {
		tzName = defaultTimezone
	}
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("Warning: Unknown PLANNER_TIMEZONE '%s', falling back to UTC: %v", tzName, err)
		loc = time.UTC
	}
	cfg.Timezone = loc

	switch locale := strings.ToLower(os.Getenv("PLANNER_LOCALE")); locale {
	case "":
	case "en", "de":
		cfg.Locale = locale
	default:
		log.Printf("Warning: Unsupported PLANNER_LOCALE '%s'. Using %s.", locale, defaultLocale)
	}

	if ttl := os.Getenv("PLANNER_SESSION_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil || d <= 0 {
			log.Printf("Warning: Invalid PLANNER_SESSION_TTL '%s'. Using %s.", ttl, defaultSessionTTL)
		} else {
			cfg.SessionTTL = d
		}
	}

	if v := os.Getenv("PLANNER_AUTO_MIGRATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("Warning: Invalid PLANNER_AUTO_MIGRATE '%s'. Using true.", v)
		} else {
			cfg.AutoMigrate = b
		}
	}

	switch lvl := strings.ToLower(os.Getenv("PLANNER_DB_LOG_LEVEL")); lvl {
	case "":
	case "silent", "error", "warn", "info":
		cfg.DBLogLevel = lvl
	default:
		log.Printf("Warning: Invalid PLANNER_DB_LOG_LEVEL '%s'. Using %s.", lvl, defaultDBLogLevel)
	}

	return cfg
}
