package main

import (
	"context"
	"log"

	"github.com/unseriousprof/edgi-vid-library/adapters/postgres"
	"github.com/unseriousprof/edgi-vid-library/internal"
	"github.com/unseriousprof/edgi-vid-library/internal/config"
	"github.com/unseriousprof/edgi-vid-library/internal/migration"
	"github.com/unseriousprof/edgi-vid-library/internal/report"
	"github.com/unseriousprof/edgi-vid-library/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(appConfig.Server.GinMode)

	logger := internal.NewDefaultLogger()

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Apply any pending migrations before serving traffic.
	runner, err := migration.NewRunner(db, migration.Normalization())
	if err != nil {
		log.Fatalf("Invalid migration sequence: %v", err)
	}
	if err := runner.Up(context.Background()); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	logger.Info("Migrations up to date")

	videoRepo := postgres.NewVideoRepository(db)
	assignmentRepo := postgres.NewAssignmentRepository(db)
	creatorRepo := postgres.NewCreatorRepository(db)
	gameRepo := postgres.NewGameRepository(db)

	verifier := report.NewVerifier(videoRepo, assignmentRepo, creatorRepo, logger)

	ops := ui.NewOpsApp(runner, verifier)
	go func() {
		if err := ops.Start(":" + appConfig.Server.OpsPort); err != nil {
			log.Fatalf("Ops server failed: %v", err)
		}
	}()

	server := ui.NewServer(videoRepo, assignmentRepo, creatorRepo, gameRepo)
	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
