package models

import (
	"os"
	"strconv"
)

// AIConfig holds Gemini configuration for the ai package.
type AIConfig struct {
	GeminiKey   string
	GeminiModel string
	Temperature float64
	PromptsDir  string // Directory for external prompt files
}

// DefaultAIConfig returns sensible defaults for AI configuration.
func DefaultAIConfig() *AIConfig {
	config := &AIConfig{
		GeminiKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel: os.Getenv("LLM_MODEL"),
		Temperature: 0.1, // default
		PromptsDir:  "./prompts",
	}
	if config.GeminiModel == "" {
		config.GeminiModel = "gemini-2.0-flash-lite"
	}

	// Parse Temperature from environment
	if tempStr := os.Getenv("LLM_TEMPERATURE"); tempStr != "" {
		if temp, err := strconv.ParseFloat(tempStr, 64); err == nil {
			config.Temperature = temp
		}
	}

	return config
}
