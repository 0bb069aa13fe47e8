// Package config loads application configuration from environment
// variables.
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds the runtime configuration.  Each field maps to one
// environment variable; required ones are enforced by must() and abort
// startup when missing.
type Config struct {
	Env            string        // application environment (dev/test/prod)
	Port           string        // HTTP port to listen on
	DBUser         string        // database username
	DBPass         string        // database password (optional)
	DBHost         string        // database host address
	DBPort         string        // database port number
	DBName         string        // database name
	JWTSecret      string        // secret used to sign JWTs
	AccessTTLMin   int           // access token lifetime in minutes
	RefreshTTLDays int           // refresh token lifetime in days
	AMQPURL        string        // broker URL; empty disables publishing
	FinishSweep    time.Duration // period of the finished-event sweep
}

// Load reads the configuration from the environment.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		AMQPURL:        os.Getenv("RABBITMQ_URL"),
		FinishSweep:    envDur("FINISH_SWEEP_INTERVAL", time.Minute),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but parses the value as an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
