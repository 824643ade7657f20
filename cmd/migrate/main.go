package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/unseriousprof/edgi-vid-library/adapters/postgres"
	"github.com/unseriousprof/edgi-vid-library/internal"
	"github.com/unseriousprof/edgi-vid-library/internal/config"
	"github.com/unseriousprof/edgi-vid-library/internal/migration"
	"github.com/unseriousprof/edgi-vid-library/internal/report"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const usage = `Usage: migrate <command>

Commands:
  up              apply all pending migrations
  status          show applied vs pending migrations
  verify          audit the normalized tables against the source JSONB
  export <path>   write the verification report as an xlsx workbook`

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	dbConfig, err := config.LoadDatabaseOnly()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", dbConfig.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	runner, err := migration.NewRunner(db, migration.Normalization())
	if err != nil {
		log.Fatalf("Invalid migration sequence: %v", err)
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "up":
		runUp(ctx, runner)
	case "status":
		runStatus(ctx, runner)
	case "verify":
		runVerify(ctx, db, "")
	case "export":
		if len(os.Args) < 3 {
			log.Fatal("export requires an output path")
		}
		runVerify(ctx, db, os.Args[2])
	default:
		log.Fatal(usage)
	}
}

func runUp(ctx context.Context, runner *migration.Runner) {
	if err := runner.Up(ctx); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("All migrations applied")
}

func runStatus(ctx context.Context, runner *migration.Runner) {
	statuses, err := runner.Statuses(ctx)
	if err != nil {
		log.Fatalf("Failed to read migration status: %v", err)
	}
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = fmt.Sprintf("applied %s", s.AppliedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("%s  %-20s %s\n", s.Version, s.Name, state)
	}
}

func runVerify(ctx context.Context, db *sqlx.DB, exportPath string) {
	logger := internal.NewDefaultLogger()
	verifier := report.NewVerifier(
		postgres.NewVideoRepository(db),
		postgres.NewAssignmentRepository(db),
		postgres.NewCreatorRepository(db),
		logger,
	)

	rep, err := verifier.Run(ctx, 100)
	if err != nil {
		log.Fatalf("Verification failed: %v", err)
	}

	fmt.Print(report.RenderMarkdown(rep))

	if exportPath != "" {
		if err := report.ExportXLSX(exportPath, rep); err != nil {
			log.Fatalf("Failed to write workbook: %v", err)
		}
		log.Printf("Workbook written to %s", exportPath)
	}

	if !rep.Clean() {
		os.Exit(1)
	}
}
