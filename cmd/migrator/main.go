package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/milboard/milboard/internal/catalog"
	"github.com/milboard/milboard/internal/config"
	"github.com/milboard/milboard/internal/db/repository"
	sqlcgen "github.com/milboard/milboard/internal/db/sqlc"
)

func main() {
	var (
		command = flag.String("command", "up", "Command: up, down, status, or seed")
		dir     = flag.String("dir", "db/migrations", "Directory containing migration files")
		quizzes = flag.String("quizzes", "content/quizzes.yaml", "Quiz catalog to load with -command=seed")
	)
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load("configs/.env")
	}

	var pg config.Postgres
	if err := env.Parse(&pg); err != nil {
		log.Fatal().Err(err).Msg("invalid postgres configuration")
	}

	switch *command {
	case "seed":
		if err := seed(pg, *quizzes); err != nil {
			log.Fatal().Err(err).Msg("seed failed")
		}
		return
	case "up", "down", "status":
	default:
		log.Fatal().Str("command", *command).Msg("unknown command. Use: up, down, status, or seed")
	}

	migrationDir, err := filepath.Abs(*dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *dir).Msg("failed to resolve migration directory")
	}
	if _, err := os.Stat(migrationDir); os.IsNotExist(err) {
		log.Fatal().Str("dir", migrationDir).Msg("migration directory does not exist")
	}

	// goose needs database/sql, so go through the pgx stdlib driver.
	db, err := sql.Open("pgx", pg.DSN())
	if err != nil {
		log.Fatal().Err(err).Str("host", pg.Host).Int("port", pg.Port).Msg("failed to open database connection")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	log.Info().
		Str("host", pg.Host).
		Int("port", pg.Port).
		Str("database", pg.Database).
		Str("migration_dir", migrationDir).
		Msg("connected to database")

	goose.SetBaseFS(nil)
	goose.SetTableName("goose_db_version")
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal().Err(err).Msg("failed to set goose dialect")
	}

	switch *command {
	case "up":
		if err := goose.Up(db, migrationDir); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations up")
		}
		log.Info().Msg("migrations applied successfully")

	case "down":
		if err := goose.Down(db, migrationDir); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations down")
		}
		log.Info().Msg("migrations rolled back successfully")

	case "status":
		if err := goose.Status(db, migrationDir); err != nil {
			log.Fatal().Err(err).Msg("failed to get migration status")
		}
	}
}

// seed validates the YAML catalog and writes it to Postgres in one transaction.
func seed(pg config.Postgres, path string) error {
	defs, err := catalog.LoadFile(path)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := pgx.Connect(ctx, pg.DSN())
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	repo := repository.NewQuizRepository(sqlcgen.New(conn).WithTx(tx))
	if err := catalog.Seed(ctx, repo, defs); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	log.Info().Int("quizzes", len(defs)).Str("path", path).Msg("quiz catalog seeded")
	return nil
}
