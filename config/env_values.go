package config

import (
	"aquabot-ai/internal/constants"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Environment struct {
	// Server configs
	IsDocker          bool
	Port              string
	Environment       string
	CorsAllowedOrigin string

	// Auth configs
	JWTSecret                        string
	JWTExpirationMilliseconds        int
	JWTRefreshExpirationMilliseconds int
	AdminUser                        string
	AdminPassword                    string

	// Database configs
	MongoURI          string
	MongoDatabaseName string

	// Redis configs
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string

	// Telemetry/alerts SQL store (postgres, mysql or clickhouse)
	TelemetryDBDriver string
	TelemetryDBDSN    string

	// Equipment action API (spreadsheet-backed upstream)
	EquipmentAPIBaseURL       string
	EquipmentAPIToken         string
	TransportTimeoutMs        int
	TransportMaxRetries       int
	TransportRetryBaseDelayMs int

	// IoT water meter API
	WaterMeterAPIBaseURL string
	WaterMeterAPIKey     string

	// Chat memory configs
	SessionContinuityHours int
	SessionTitleMaxLength  int
	HistoryMessageLimit    int

	// AI provider configs
	DefaultAIProvider string
	AIProviderOrder   []string
	AgentMaxRounds    int

	// OpenAI configs
	OpenAIAPIKey              string
	OpenAIModel               string
	OpenAIMaxCompletionTokens int
	OpenAITemperature         float64

	// Gemini configs
	GeminiAPIKey              string
	GeminiModel               string
	GeminiMaxCompletionTokens int
	GeminiTemperature         float64
}

var Env Environment

var missingRequiredEnv []string

// LoadEnv loads environment variables from .env file if present
// and validates required variables
func LoadEnv() error {
	missingRequiredEnv = nil

	// Check if running in Docker
	Env.IsDocker = os.Getenv("IS_DOCKER") == "true"

	// Load .env file only if not running in Docker
	if !Env.IsDocker {
		if err := godotenv.Load(); err != nil {
			fmt.Printf("Warning: .env file not found: %v\n", err)
		}
	}

	// Server configs
	Env.Port = getEnvWithDefault("PORT", "3000")
	Env.Environment = getEnvWithDefault("ENVIRONMENT", "DEVELOPMENT")
	Env.CorsAllowedOrigin = getEnvWithDefault("CORS_ALLOWED_ORIGIN", "http://localhost:5173")

	// Auth configs
	Env.JWTSecret = getRequiredEnv("JWT_SECRET", "aquabot_jwt_secret")
	Env.JWTExpirationMilliseconds = getIntEnvWithDefault("JWT_EXPIRATION_MILLISECONDS", 1000*60*60*24*10)                 // 10 days default
	Env.JWTRefreshExpirationMilliseconds = getIntEnvWithDefault("JWT_REFRESH_EXPIRATION_MILLISECONDS", 1000*60*60*24*30) // 30 days default
	Env.AdminUser = getEnvWithDefault("AQUABOT_ADMIN_USERNAME", "admin")
	Env.AdminPassword = getEnvWithDefault("AQUABOT_ADMIN_PASSWORD", "admin")

	// Database configs
	Env.MongoURI = getRequiredEnv("AQUABOT_MONGODB_URI", "mongodb://localhost:27017/aquabot")
	Env.MongoDatabaseName = getRequiredEnv("AQUABOT_MONGODB_NAME", "aquabot")
	Env.RedisHost = getRequiredEnv("AQUABOT_REDIS_HOST", "localhost")
	Env.RedisPort = getRequiredEnv("AQUABOT_REDIS_PORT", "6379")
	Env.RedisUsername = getRequiredEnv("AQUABOT_REDIS_USERNAME", "aquabot")
	Env.RedisPassword = getRequiredEnv("AQUABOT_REDIS_PASSWORD", "aquabot")
	Env.TelemetryDBDriver = getEnvWithDefault("AQUABOT_TELEMETRY_DB_DRIVER", "postgres")
	Env.TelemetryDBDSN = getRequiredEnv("AQUABOT_TELEMETRY_DB_DSN", "host=localhost user=aquabot password=aquabot dbname=aquabot port=5432 sslmode=disable")

	// Equipment action API
	Env.EquipmentAPIBaseURL = getRequiredEnv("EQUIPMENT_API_BASE_URL", "")
	Env.EquipmentAPIToken = getEnvWithDefault("EQUIPMENT_API_TOKEN", "")
	Env.TransportTimeoutMs = getIntEnvWithDefault("TRANSPORT_TIMEOUT_MS", 30000)
	Env.TransportMaxRetries = getIntEnvWithDefault("TRANSPORT_MAX_RETRIES", 3)
	Env.TransportRetryBaseDelayMs = getIntEnvWithDefault("TRANSPORT_RETRY_BASE_DELAY_MS", 1000)

	// IoT water meter API
	Env.WaterMeterAPIBaseURL = getEnvWithDefault("WATER_METER_API_BASE_URL", "")
	Env.WaterMeterAPIKey = getEnvWithDefault("WATER_METER_API_KEY", "")

	// Chat memory configs
	Env.SessionContinuityHours = getIntEnvWithDefault("SESSION_CONTINUITY_HOURS", constants.DefaultSessionContinuityHours)
	Env.SessionTitleMaxLength = getIntEnvWithDefault("SESSION_TITLE_MAX_LENGTH", constants.DefaultSessionTitleMaxLength)
	Env.HistoryMessageLimit = getIntEnvWithDefault("HISTORY_MESSAGE_LIMIT", constants.DefaultHistoryMessageLimit)

	// AI provider configs
	Env.DefaultAIProvider = getEnvWithDefault("DEFAULT_AI_PROVIDER", constants.OpenAI)
	Env.AIProviderOrder = getListEnvWithDefault("AI_PROVIDER_ORDER", []string{constants.OpenAI, constants.Gemini})
	Env.AgentMaxRounds = getIntEnvWithDefault("AGENT_MAX_ROUNDS", constants.DefaultAgentMaxRounds)

	// OpenAI configs
	Env.OpenAIAPIKey = getEnvWithDefault("OPENAI_API_KEY", "")
	Env.OpenAIModel = getEnvWithDefault("OPENAI_MODEL", constants.OpenAIModel)
	Env.OpenAIMaxCompletionTokens = getIntEnvWithDefault("OPENAI_MAX_COMPLETION_TOKENS", constants.OpenAIMaxCompletionTokens)
	Env.OpenAITemperature = getFloatEnvWithDefault("OPENAI_TEMPERATURE", constants.OpenAITemperature)

	// Gemini configs
	Env.GeminiAPIKey = getEnvWithDefault("GEMINI_API_KEY", "")
	Env.GeminiModel = getEnvWithDefault("GEMINI_MODEL", constants.GeminiModel)
	Env.GeminiMaxCompletionTokens = getIntEnvWithDefault("GEMINI_MAX_COMPLETION_TOKENS", constants.GeminiMaxCompletionTokens)
	Env.GeminiTemperature = getFloatEnvWithDefault("GEMINI_TEMPERATURE", constants.GeminiTemperature)

	return validateConfig()
}

// Helper functions to get environment variables with defaults and validation
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getRequiredEnv falls back to a usable default but records the key as
// missing when no default exists; validateConfig fails the startup then.
func getRequiredEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if defaultValue == "" {
		missingRequiredEnv = append(missingRequiredEnv, key)
		return ""
	}
	return defaultValue
}

func getIntEnvWithDefault(key string, defaultValue int) int {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(strValue)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s, using default: %d\n", key, defaultValue)
		return defaultValue
	}
	return value
}

func getFloatEnvWithDefault(key string, defaultValue float64) float64 {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		fmt.Printf("Warning: Invalid value for %s, using default: %f\n", key, defaultValue)
		return defaultValue
	}
	return value
}

func getListEnvWithDefault(key string, defaultValue []string) []string {
	strValue := os.Getenv(key)
	if strValue == "" {
		return defaultValue
	}

	parts := strings.Split(strValue, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}

func validateConfig() error {
	if len(missingRequiredEnv) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missingRequiredEnv, ", "))
	}

	// Validate MongoDB URI format
	if !isValidURI(Env.MongoURI) {
		return fmt.Errorf("invalid MONGODB_URI format: %s", Env.MongoURI)
	}

	// Validate JWT expiration
	if Env.JWTExpirationMilliseconds <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_MILLISECONDS must be positive, got: %d", Env.JWTExpirationMilliseconds)
	}

	if Env.SessionContinuityHours <= 0 {
		return fmt.Errorf("SESSION_CONTINUITY_HOURS must be positive, got: %d", Env.SessionContinuityHours)
	}

	if Env.AgentMaxRounds <= 0 {
		return fmt.Errorf("AGENT_MAX_ROUNDS must be positive, got: %d", Env.AgentMaxRounds)
	}

	return nil
}

func isValidURI(uri string) bool {
	return len(uri) > 0 && (len(uri) > 10)
}
