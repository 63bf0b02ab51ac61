package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Required variables are enforced by must() and a
// missing value stops the process at startup rather than at first request.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	JWTSecret      string // secret used to verify bearer tokens (optional; empty disables identity extraction)
	TableLayout    string // comma-separated table capacities; empty selects the default layout
	AssignRetryMax int    // max assignment retries after a lost table race
	MigrationsDir  string // directory holding *.up.sql files applied at startup
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must(); optional values fall
// back to sensible defaults.
func Load() Config {
	return Config{
		Env:            must("APP_ENV"),      // environment (dev/test/prod)
		Port:           must("APP_PORT"),     // port to bind the HTTP server
		DBUser:         must("DB_USER"),      // database user
		DBPass:         os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:         must("DB_HOST"),      // database host
		DBPort:         must("DB_PORT"),      // database port
		DBName:         must("DB_NAME"),      // database name
		JWTSecret:      os.Getenv("JWT_SECRET"),
		TableLayout:    os.Getenv("TABLE_LAYOUT"),
		AssignRetryMax: optInt("ASSIGN_RETRY_MAX", 3),
		MigrationsDir:  opt("MIGRATIONS_DIR", "migrations"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// opt returns the value of an environment variable or the given default when
// unset or empty.
func opt(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// optInt is like opt() but converts the value to an integer, falling back to
// the default on parse failure.
func optInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
