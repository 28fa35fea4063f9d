package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/config"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/logger"
	"github.com/Geogebrd/scaond-hand-platform/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

var errUsage = errors.New("invalid usage")

// fileCommands only touch the migrations directory
var fileCommands = map[string]func(log *zap.Logger, dir string, args []string) error{
	"create": createMigration,
	"list":   listMigrations,
}

// dbCommands need a connection to the configured PostgreSQL database
var dbCommands = map[string]func(log *zap.Logger, m *migration.Migrator, args []string) error{
	"up":   func(_ *zap.Logger, m *migration.Migrator, _ []string) error { return m.Up() },
	"down": func(_ *zap.Logger, m *migration.Migrator, _ []string) error { return m.Down() },
	"step": func(_ *zap.Logger, m *migration.Migrator, args []string) error {
		n, err := intArg(args, "step <n>")
		if err != nil {
			return err
		}
		return m.Steps(n)
	},
	"force": func(_ *zap.Logger, m *migration.Migrator, args []string) error {
		v, err := intArg(args, "force <version>")
		if err != nil {
			return err
		}
		return m.Force(v)
	},
	"version": func(log *zap.Logger, m *migration.Migrator, _ []string) error {
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
	dir := flag.String("path", "", "Path to migrations directory (default: ./migrations)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() == 0 {
		printUsage()
		os.Exit(2)
	}

	log, err := logger.New(logger.Config{Level: *logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	err = run(log, *dir, flag.Arg(0), flag.Args()[1:])
	_ = log.Sync()
	switch {
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		printUsage()
		os.Exit(2)
	case err != nil:
		log.Error("Migration command failed", zap.String("command", flag.Arg(0)), zap.Error(err))
		os.Exit(1)
	}
}

func run(log *zap.Logger, dir, command string, args []string) error {
	dir, err := resolveMigrationsPath(dir)
	if err != nil {
		return fmt.Errorf("resolve migrations path: %w", err)
	}
	log.Info("Migration CLI started", zap.String("command", command), zap.String("migrations_path", dir))

	if cmd, ok := fileCommands[command]; ok {
		return cmd(log, dir, args)
	}
	cmd, ok := dbCommands[command]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("SQL migrations target PostgreSQL, driver %q creates its schema at server start", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, dir, log)
	if err != nil {
		return err
	}
	defer m.Close()

	return cmd(log, m, args)
}

func createMigration(log *zap.Logger, dir string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: migrate create <name> [description]", errUsage)
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
		zap.String("version", mf.Version),
		zap.String("up_file", mf.UpPath),
		zap.String("down_file", mf.DownPath),
	)
	return nil
}

func listMigrations(log *zap.Logger, dir string, _ []string) error {
	names, err := migration.ListMigrations(dir)
	if err != nil {
		return err
	}
	log.Info("Available migrations", zap.Int("count", len(names)))
	for _, name := range names {
		fmt.Println("  -", name)
	}
	return nil
}

func intArg(args []string, usage string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: migrate %s", errUsage, usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", errUsage, args[0])
	}
	return n, nil
}

// resolveMigrationsPath falls back to ./migrations, then to the repository
// root relative to the binary
func resolveMigrationsPath(path string) (string, error) {
	if path != "" {
		return filepath.Abs(path)
	}
	candidates := []string{defaultMigrationsPath}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, filepath.Join(filepath.Dir(exe), "..", "..", defaultMigrationsPath))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return filepath.Abs(c)
		}
	}
	return filepath.Abs(defaultMigrationsPath)
}

func commandNames() []string {
	names := make([]string, 0, len(fileCommands)+len(dbCommands))
	for name := range fileCommands {
		names = append(names, name)
	}
	for name := range dbCommands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Marketplace database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands: %v
  up | down             Apply or roll back every migration
  step <n>              Apply n migrations, negative n rolls back
  version               Show the applied version
  force <version>       Record version as applied after a failed run
  create <name> [desc]  Write a new up/down file pair
  list                  List migration files

Flags:
  -path string          Migrations directory (default ./migrations)
  -log-level string     debug, info, warn or error (default info)

Connection settings come from config.toml or MARKET_DATABASE_* variables.
`, commandNames())
}
