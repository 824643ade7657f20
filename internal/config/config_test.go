package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/vidlib?sslmode=disable")
	t.Setenv("GEMINI_API_KEY", "test-key")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AI.GeminiModel != "gemini-2.0-flash-lite" {
		t.Errorf("default model = %s", cfg.AI.GeminiModel)
	}
	if cfg.Server.Port != "8080" || cfg.Server.OpsPort != "8081" {
		t.Errorf("default ports = %s/%s", cfg.Server.Port, cfg.Server.OpsPort)
	}
	if cfg.Tagging.BatchSize != 100 || cfg.Tagging.MaxConcurrent != 3 {
		t.Errorf("tagging defaults = %+v", cfg.Tagging)
	}
	if cfg.Games.EduThreshold != 0.4 || cfg.Games.SampleSize != 1000 {
		t.Errorf("games defaults = %+v", cfg.Games)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("LLM_MODEL", "gemini-2.5-flash")
	t.Setenv("TAG_MAX_CONCURRENT", "8")
	t.Setenv("TAG_SLEEP_INTERVAL", "250ms")
	t.Setenv("GAME_EDU_THRESHOLD", "0.6")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AI.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("model = %s", cfg.AI.GeminiModel)
	}
	if cfg.Tagging.MaxConcurrent != 8 {
		t.Errorf("max concurrent = %d", cfg.Tagging.MaxConcurrent)
	}
	if cfg.Tagging.SleepInterval != 250*time.Millisecond {
		t.Errorf("sleep interval = %v", cfg.Tagging.SleepInterval)
	}
	if cfg.Games.EduThreshold != 0.6 {
		t.Errorf("edu threshold = %v", cfg.Games.EduThreshold)
	}
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GEMINI_API_KEY", "test-key")

	if _, err := Load(); err == nil {
		t.Error("missing DATABASE_URL should fail")
	}
}

func TestLoadMissingGeminiKey(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/vidlib")
	t.Setenv("GEMINI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("missing GEMINI_API_KEY should fail")
	}
}

func TestLoadDatabaseOnly(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/vidlib")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := LoadDatabaseOnly()
	if err != nil {
		t.Fatalf("migrate CLI config should not need a Gemini key: %v", err)
	}
	if cfg.URL == "" {
		t.Error("database URL missing")
	}
}
