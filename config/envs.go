package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP             string // Host IP for the server
	RESTPort           int    // Port for the REST API
	DBHost             string // Hostname or IP address for the database
	DBPort             int    // Port number for the database
	DBUser             string // Username for the database
	DBPassword         string // Password for the database
	DBName             string // Name of the database
	GinMode            string // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret          string // Secret key for JWT signing
	JWTIssuer          string // Issuer claim for JWTs
	RedisAddr          string // Redis address; empty disables the result cache
	RedisPassword      string // Password for Redis
	RedisDB            int    // Redis logical database
	CacheTTLSeconds    int    // Lifetime of cached search results
	GridMaxDimension   int    // Largest accepted row or column count
	SessionIdleSeconds int    // Idle time after which a grid session is dropped
	MaxSessionsPerUser int    // Grid sessions a single user may hold
}

var ErrMissingEnv = errors.New("environment variable is not set")

// Envs holds the configuration after Load succeeds.
var Envs Config

// Load reads the .env file if present and populates Envs from the environment.
func Load() (Config, error) {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	cfg, err := fromEnv()
	if err != nil {
		return Config{}, err
	}
	Envs = cfg
	return cfg, nil
}

// fromEnv builds a Config from the process environment.
func fromEnv() (Config, error) {
	var r envReader
	cfg := Config{
		HostIP:             r.required("HOST_IP"),
		RESTPort:           r.requiredInt("REST_PORT"),
		DBHost:             r.required("DB_HOST"),
		DBPort:             r.requiredInt("DB_PORT"),
		DBUser:             r.required("DB_USER"),
		DBPassword:         r.required("DB_PASS"),
		DBName:             r.required("DB_NAME"),
		JWTSecret:          r.required("JWT_SECRET"),
		JWTIssuer:          r.required("JWT_ISSUER"),
		GinMode:            getEnvWithDefault("GIN_MODE", "release"),
		RedisAddr:          getEnvWithDefault("REDIS_ADDR", ""),
		RedisPassword:      getEnvWithDefault("REDIS_PASSWORD", ""),
		RedisDB:            r.intWithDefault("REDIS_DB", 0),
		CacheTTLSeconds:    r.intWithDefault("CACHE_TTL_SECONDS", 300),
		GridMaxDimension:   r.intWithDefault("GRID_MAX_DIMENSION", 100),
		SessionIdleSeconds: r.intWithDefault("SESSION_IDLE_TTL_SECONDS", 1800),
		MaxSessionsPerUser: r.intWithDefault("MAX_SESSIONS_PER_USER", 8),
	}
	return cfg, r.err
}

// envReader keeps the first lookup error so a whole Config can be read in one expression.
type envReader struct {
	err error
}

func (r *envReader) required(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists && r.err == nil {
		r.err = fmt.Errorf("%s: %w", key, ErrMissingEnv)
	}
	return value
}

func (r *envReader) requiredInt(key string) int {
	return r.parseInt(key, r.required(key))
}

func (r *envReader) intWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	return r.parseInt(key, valueStr)
}

func (r *envReader) parseInt(key, valueStr string) int {
	if r.err != nil {
		return 0
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		r.err = fmt.Errorf("environment variable %s must be an integer: %w", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
