package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/unseriousprof/edgi-vid-library/adapters/postgres"
	"github.com/unseriousprof/edgi-vid-library/ai"
	"github.com/unseriousprof/edgi-vid-library/app"
	"github.com/unseriousprof/edgi-vid-library/internal"
	"github.com/unseriousprof/edgi-vid-library/internal/config"
	"github.com/unseriousprof/edgi-vid-library/models"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewDefaultLogger()

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	aiConfig := &models.AIConfig{
		GeminiKey:   appConfig.AI.GeminiKey,
		GeminiModel: appConfig.AI.GeminiModel,
		Temperature: appConfig.AI.Temperature,
		PromptsDir:  appConfig.AI.PromptsDir,
	}
	drafter := ai.NewGameDesigner(aiConfig, logger)

	videoRepo := postgres.NewVideoRepository(db)
	gameRepo := postgres.NewGameRepository(db)
	service := app.NewGameService(videoRepo, gameRepo, drafter, appConfig.Games, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stats, err := service.Run(ctx)
	if err != nil {
		log.Fatalf("Game run aborted after %d videos: %v", stats.Processed, err)
	}
	logger.Info("Game generation complete: %d processed, %d succeeded, %d failed",
		stats.Processed, stats.Succeeded, stats.Failed)
}
