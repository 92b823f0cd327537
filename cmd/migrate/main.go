package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/partnerpro/product-manager/internal/infrastructure/config"
	"github.com/partnerpro/product-manager/internal/infrastructure/logger"
	"github.com/partnerpro/product-manager/internal/infrastructure/migration"
	"github.com/partnerpro/product-manager/migrations"
	"go.uber.org/zap"
)

// dbCommand runs against an open migrator; args excludes the command name
type dbCommand func(m *migration.Migrator, log *zap.Logger, args []string) error

var dbCommands = map[string]dbCommand{
	"up":   func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Up() },
	"down": func(m *migration.Migrator, _ *zap.Logger, _ []string) error { return m.Down() },
	"step": func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		n, err := intArg(args, "step <n>")
		if err != nil {
			return err
		}
		return m.Steps(n)
	},
	"goto": func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		v, err := intArg(args, "goto <version>")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("version must not be negative: %d", v)
		}
		return m.GoTo(uint(v))
	},
	"force": func(m *migration.Migrator, _ *zap.Logger, args []string) error {
		v, err := intArg(args, "force <version>")
		if err != nil {
			return err
		}
		return m.Force(v)
	},
	"version": func(m *migration.Migrator, log *zap.Logger, _ []string) error {
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		if version == 0 {
			log.Info("No migrations applied")
			return nil
		}
		log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	},
}

func main() {
	migrationsPath := flag.String("path", "", "Read migrations from this directory instead of the embedded set")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command, rest := args[0], args[1:]

	log, err := logger.New(&logger.Config{
		Level:      *logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log = log.With(zap.String("command", command))
	log.Debug("Migration CLI started", zap.String("source", sourceLabel(*migrationsPath)))

	switch command {
	case "create":
		err = createMigration(log, *migrationsPath, rest)
	case "list":
		err = listMigrations(log, *migrationsPath)
	default:
		run, ok := dbCommands[command]
		if !ok {
			log.Error("Unknown command")
			printUsage()
			os.Exit(1)
		}
		err = withMigrator(log, *migrationsPath, func(m *migration.Migrator) error {
			return run(m, log, rest)
		})
	}
	if err != nil {
		log.Fatal("Migration command failed", zap.Error(err))
	}
}

// withMigrator opens the configured database for the lifetime of fn
func withMigrator(log *zap.Logger, dir string, fn func(*migration.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	var m *migration.Migrator
	if dir == "" {
		m, err = migration.New(db, log)
	} else {
		m, err = migration.NewFromDir(db, dir, log)
	}
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}

func createMigration(log *zap.Logger, dir string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: migrate -path <dir> create <name> [description]")
	}
	if dir == "" {
		dir = "migrations"
	}
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	mf, err := migration.CreateMigration(dir, args[0], description)
	if err != nil {
		return err
	}
	log.Info("Migration created",
		zap.Uint("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
	return nil
}

func listMigrations(log *zap.Logger, dir string) error {
	var fsys fs.FS = migrations.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	list, err := migration.ListMigrations(fsys)
	if err != nil {
		return err
	}
	log.Info("Available migrations", zap.Int("count", len(list)), zap.String("source", sourceLabel(dir)))
	for _, m := range list {
		fmt.Printf("  %06d  %s\n", m.Version, m.Name)
	}
	return nil
}

func intArg(args []string, usage string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("usage: migrate %s", usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", args[0])
	}
	return n, nil
}

func sourceLabel(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

func printUsage() {
	fmt.Println(`Product Manager schema migrations

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  step <n>              Apply n migrations, negative n rolls back
  goto <version>        Migrate up or down to version
  version               Print the applied version
  force <version>       Mark version as applied and clear the dirty flag
  create <name> [desc]  Write the next numbered up/down pair
  list                  List the available migrations

Flags:
  -path string          Migrations directory (embedded set by default, "migrations" for create)
  -log-level string     debug, info, warn or error (default info)

Database settings come from config.toml or PM_DATABASE_* variables.`)
}
