package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

func main() {
	var (
		migrationsPath string
		logLevel       string
	)
	flag.StringVar(&migrationsPath, "path", "", "Migrations directory (default: embedded migrations)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	}, "storefront-migrate")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if migrationsPath != "" {
		abs, err := filepath.Abs(migrationsPath)
		if err != nil {
			log.Fatal("Failed to resolve migrations path", zap.Error(err))
		}
		cfg.Database.MigrationsPath = abs
	}

	// create and list work on files only
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("Migration name required. Usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		for _, dir := range sourceDirs(cfg) {
			mf, err := migration.CreateMigration(dir, args[1], description)
			if err != nil {
				log.Fatal("Failed to create migration", zap.Error(err))
			}
			log.Info("Migration created",
				zap.String("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
		}
		return
	case "list":
		for _, dir := range sourceDirs(cfg) {
			names, err := migration.ListMigrations(dir)
			if err != nil {
				log.Fatal("Failed to list migrations", zap.Error(err))
			}
			log.Info("Available migrations", zap.String("dir", dir), zap.Int("count", len(names)))
			for _, n := range names {
				fmt.Println("  -", n)
			}
		}
		return
	}

	m, err := migration.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to create migrator", zap.Error(err))
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("driver", cfg.Database.Driver),
	)

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "step":
		var n int
		n, err = strconv.Atoi(argAt(args, 1, log))
		if err == nil {
			err = m.Steps(n)
		}
	case "goto":
		var v uint64
		v, err = strconv.ParseUint(argAt(args, 1, log), 10, 32)
		if err == nil {
			err = m.GoTo(uint(v))
		}
	case "version":
		version, dirty, verr := m.Version()
		err = verr
		if err == nil {
			log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
	case "force":
		var v int
		v, err = strconv.Atoi(argAt(args, 1, log))
		if err == nil {
			err = m.Force(v)
		}
	case "drop":
		if len(args) < 2 || (args[1] != "-confirm" && args[1] != "--confirm") {
			log.Fatal("Drop cancelled. Use 'migrate drop -confirm' to confirm.")
		}
		err = m.Drop()
	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal("Migration command failed", zap.String("command", command), zap.Error(err))
	}
}

// sourceDirs returns the directories create and list operate on
func sourceDirs(cfg *config.Config) []string {
	if cfg.Database.MigrationsPath != "" {
		return []string{cfg.Database.MigrationsPath}
	}
	return []string{
		filepath.Join("migrations", config.DriverSQLite),
		filepath.Join("migrations", config.DriverPostgres),
	}
}

func argAt(args []string, i int, log *zap.Logger) string {
	if len(args) <= i {
		log.Fatal("Missing argument", zap.String("command", args[0]))
	}
	return args[i]
}

func printUsage() {
	fmt.Println(`Storefront Database Migration Tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations (positive=up, negative=down)
  goto <version>        Migrate to a specific version
  version               Show current migration version
  force <version>       Force set migration version
  drop -confirm         Drop all tables
  create <name> [desc]  Create a migration pair for every driver
  list                  List available migrations

Flags:
  -path string          Migrations directory (default: embedded migrations)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  STOREFRONT_DATABASE_DRIVER, STOREFRONT_DATABASE_PATH,
  STOREFRONT_DATABASE_HOST, STOREFRONT_DATABASE_PORT, STOREFRONT_DATABASE_USER,
  STOREFRONT_DATABASE_PASSWORD, STOREFRONT_DATABASE_DBNAME, STOREFRONT_DATABASE_SSLMODE`)
}
