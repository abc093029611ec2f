package config // package config loads application configuration from environment variables

import (
	"fmt"     // fmt formats the redacted remote endpoint
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
)

// Config holds the core runtime configuration values.  Each field corresponds
// to an environment variable.  The remote store settings are optional: when
// DB_HOST is empty the application runs against the local mirror only.
type Config struct {
	Env               string // application environment (e.g. "dev", "prod")
	Port              string // HTTP port to listen on
	DBUser            string // remote store username
	DBPass            string // remote store password (optional)
	DBHost            string // remote store host; empty means not configured
	DBPort            string // remote store port number
	DBName            string // remote store database name
	JWTSecret         string // secret used to sign staff JWTs
	StaffPasscodeHash string // bcrypt hash of the back office passcode
	StaffTokenTTLMin  int    // staff token time-to-live in minutes
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  The DB_* variables
// become required only once DB_HOST is set.
func Load() Config {
	c := Config{
		Env:               envStr("APP_ENV", "dev"),            // environment (dev/test/prod)
		Port:              must("APP_PORT"),                    // port to bind the HTTP server
		DBHost:            os.Getenv("DB_HOST"),                // remote store host (optional)
		DBPass:            os.Getenv("DB_PASS"),                // remote store password (empty allowed)
		JWTSecret:         must("JWT_SECRET"),                  // secret used for signing JWTs
		StaffPasscodeHash: os.Getenv("STAFF_PASSCODE_HASH"),    // empty disables staff login
		StaffTokenTTLMin:  envInt("STAFF_TOKEN_TTL_MIN", 240),  // TTL for staff tokens in minutes
	}
	if c.DBHost != "" {
		c.DBUser = must("DB_USER")
		c.DBPort = envStr("DB_PORT", "3306")
		c.DBName = must("DB_NAME")
	}
	return c
}

// RemoteConfigured reports whether remote store credentials are present.
func (c Config) RemoteConfigured() bool {
	return c.DBHost != ""
}

// RemoteEndpoint describes the remote store without credentials, for the
// connection probe.
func (c Config) RemoteEndpoint() string {
	if !c.RemoteConfigured() {
		return ""
	}
	return fmt.Sprintf("mysql://%s:%s/%s", c.DBHost, c.DBPort, c.DBName)
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
