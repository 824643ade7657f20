package config

import (
	"os"
	"strconv"
	"time"

	"github.com/unseriousprof/edgi-vid-library/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig `validate:"required"`
	AI       AIConfig       `validate:"required"`
	Server   ServerConfig   `validate:"required"`
	Tagging  TaggingConfig
	Games    GamesConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string `validate:"required"`
	SSLMode string
}

// AIConfig holds Gemini/LLM related settings
type AIConfig struct {
	GeminiKey   string `validate:"required"`
	GeminiModel string `validate:"required"`
	Temperature float64
	PromptsDir  string `validate:"required"`
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string `validate:"required"`
	OpsPort string
	GinMode string
}

// TaggingConfig holds batch tagging settings
type TaggingConfig struct {
	BatchSize     int
	MaxConcurrent int64
	SleepInterval time.Duration
	MinTranscript int
}

// GamesConfig holds mini-game generation settings
type GamesConfig struct {
	SampleSize   int
	EduThreshold float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	aiConfig, err := loadAIConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AI configuration")
	}
	config.AI = *aiConfig

	config.Server = *loadServerConfig()
	config.Tagging = *loadTaggingConfig()
	config.Games = *loadGamesConfig()

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// LoadDatabaseOnly loads just enough configuration to reach postgres; used
// by the migrate CLI, which has no business requiring a Gemini key.
func LoadDatabaseOnly() (*DatabaseConfig, error) {
	return loadDatabaseConfig()
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{
		URL:     url,
		SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
	}, nil
}

func loadAIConfig() (*AIConfig, error) {
	geminiKey := os.Getenv("GEMINI_API_KEY")
	if geminiKey == "" {
		return nil, errors.ConfigInvalid("GEMINI_API_KEY is required")
	}

	promptsDir := os.Getenv("PROMPTS_DIR")
	if promptsDir == "" {
		promptsDir = "./prompts" // default
	}

	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gemini-2.0-flash-lite" // default
	}

	return &AIConfig{
		GeminiKey:   geminiKey,
		GeminiModel: model,
		Temperature: getEnvFloatOrDefault("TEMPERATURE", 0.1),
		PromptsDir:  promptsDir,
	}, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		OpsPort: getEnvOrDefault("OPS_PORT", "8081"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
	}
}

func loadTaggingConfig() *TaggingConfig {
	return &TaggingConfig{
		BatchSize:     getEnvIntOrDefault("TAG_BATCH_SIZE", 100),
		MaxConcurrent: int64(getEnvIntOrDefault("TAG_MAX_CONCURRENT", 3)),
		SleepInterval: getEnvDurationOrDefault("TAG_SLEEP_INTERVAL", 5*time.Second),
		MinTranscript: getEnvIntOrDefault("TAG_MIN_TRANSCRIPT", 20),
	}
}

func loadGamesConfig() *GamesConfig {
	return &GamesConfig{
		SampleSize:   getEnvIntOrDefault("GAME_SAMPLE_SIZE", 1000),
		EduThreshold: getEnvFloatOrDefault("GAME_EDU_THRESHOLD", 0.4),
	}
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("database URL is required")
	}
	if config.AI.GeminiKey == "" {
		return errors.ConfigInvalid("Gemini API key is required")
	}
	if config.AI.PromptsDir == "" {
		return errors.ConfigInvalid("prompts directory is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
