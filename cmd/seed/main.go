package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/upb/rest-api-modernized/config"
	"github.com/upb/rest-api-modernized/internal/observability"
	"github.com/upb/rest-api-modernized/repositories/postgres"
	"github.com/upb/rest-api-modernized/services/seed"
	"go.uber.org/zap"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// seedRunner is satisfied by *seed.Seeder
type seedRunner interface {
	Run(ctx context.Context, reset bool) (seed.Result, error)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("seed", flag.ContinueOnError)
	flags.SetOutput(stderr)
	reset := flags.Bool("reset", false, "delete existing rows from domain tables before seeding")
	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load(".env")

	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		fmt.Fprintln(stderr, "DATABASE_URL is not set. Configure it in your environment/.env before seeding.")
		return exitError
	}

	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger, err := observability.NewLogger(level, "console")
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitError
	}
	defer func() { _ = logger.Sync() }()

	factory, err := postgres.NewRepositoryFactory(config.DatabaseConfig{
		ConnectionString: dsn,
		MaxOpenConns:     2,
		MaxIdleConns:     1,
		ConnMaxLifetime:  time.Minute,
	}, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Seed failed: %v\n", err)
		return exitError
	}
	defer func() { _ = factory.Close() }()

	if err := factory.GetDB().InitSchema(ctx); err != nil {
		fmt.Fprintf(stderr, "Seed failed: %v\n", err)
		return exitError
	}

	seeder := seed.NewSeeder(factory.NewRepositories(), factory.GetTransactionManager(), seed.DefaultDataset(), logger)
	if err := execute(ctx, seeder, *reset, stdout, logger); err != nil {
		fmt.Fprintf(stderr, "Seed failed: %v\n", err)
		return exitError
	}
	return exitOK
}

// execute runs the seeder and reports the outcome on stdout
func execute(ctx context.Context, seeder seedRunner, reset bool, stdout io.Writer, logger *zap.Logger) error {
	if reset {
		fmt.Fprintln(stdout, "Reset enabled: deleting existing rows from domain tables...")
	}

	result, err := seeder.Run(ctx, reset)
	if err != nil {
		return err
	}

	if result.Skipped {
		fmt.Fprintln(stdout, "Seed skipped: existing data found. Use `--reset` to clear tables and reseed.")
		return nil
	}

	logger.Info("seed complete",
		zap.Int("projects", result.Projects),
		zap.Int("tasks", result.Tasks),
		zap.Int("vulnerabilities", result.Vulnerabilities))
	fmt.Fprintf(stdout, "Seed complete: %d projects, %d tasks, %d vulnerabilities.\n",
		result.Projects, result.Tasks, result.Vulnerabilities)
	return nil
}
