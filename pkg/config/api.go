package config

import "time"

// APIConfig holds runtime configuration for the API service.
type APIConfig struct {
	Environment string
	Addr        string

	DatabaseURL   string
	MigrationsDir string

	JWTSecret  string
	SessionTTL time.Duration

	CORSOrigin string

	OddsAPIKey  string
	OddsBaseURL string

	OddsCacheRedisAddr     string
	OddsCacheRedisPassword string
	OddsCacheRedisDB       int
	OddsCacheTTL           time.Duration
}

// LoadAPIConfig constructs an APIConfig from environment variables.
func LoadAPIConfig() APIConfig {
	return APIConfig{
		Environment:            GetString("APP_ENV", "development"),
		Addr:                   GetString("API_ADDR", ":5000"),
		DatabaseURL:            GetString("DATABASE_URL", ""),
		MigrationsDir:          GetString("DB_MIGRATIONS_DIR", "./db/migrations"),
		JWTSecret:              GetString("JWT_SECRET", ""),
		SessionTTL:             time.Duration(GetInt("SESSION_TTL_HOURS", 168)) * time.Hour,
		CORSOrigin:             GetString("CORS_ORIGIN", "*"),
		OddsAPIKey:             GetString("ODDS_API_KEY", ""),
		OddsBaseURL:            GetString("ODDS_BASE_URL", "https://api.the-odds-api.com/v4"),
		OddsCacheRedisAddr:     GetString("ODDS_CACHE_REDIS_ADDR", ""),
		OddsCacheRedisPassword: GetString("ODDS_CACHE_REDIS_PASSWORD", ""),
		OddsCacheRedisDB:       GetInt("ODDS_CACHE_REDIS_DB", 0),
		OddsCacheTTL:           time.Duration(GetInt("ODDS_CACHE_TTL_SECONDS", 30)) * time.Second,
	}
}
