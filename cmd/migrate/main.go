package main

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/erp/backoffice/internal/infrastructure/logger"
	"github.com/erp/backoffice/internal/infrastructure/migration"
	"github.com/erp/backoffice/migrations"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsPath = "migrations"

type options struct {
	path     string
	logLevel string
	log      *zap.Logger
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "ERP back office database migration tool",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			log, err := logger.New(&logger.Config{
				Level:      opts.logLevel,
				Format:     "console",
				Output:     "stdout",
				TimeFormat: "2006-01-02 15:04:05",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.log = log
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.log != nil {
				_ = logger.Sync(opts.log)
			}
		},
	}
	root.PersistentFlags().StringVar(&opts.path, "path", "", "migrations directory on disk (default: the migrations embedded in the binary)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	root.AddCommand(
		migratorCommand(opts, "up", "Apply all pending migrations", cobra.NoArgs,
			func(m *migration.Migrator, _ []string) error { return m.Up() }),
		migratorCommand(opts, "down", "Roll back all migrations", cobra.NoArgs,
			func(m *migration.Migrator, _ []string) error { return m.Down() }),
		migratorCommand(opts, "step <n>", "Apply n migrations (positive up, negative down)", cobra.ExactArgs(1),
			func(m *migration.Migrator, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				return m.Steps(n)
			}),
		migratorCommand(opts, "goto <version>", "Migrate to a specific version", cobra.ExactArgs(1),
			func(m *migration.Migrator, args []string) error {
				version, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return m.GoTo(uint(version))
			}),
		migratorCommand(opts, "version", "Show the current migration version", cobra.NoArgs,
			func(m *migration.Migrator, _ []string) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if version == 0 {
					opts.log.Info("No migrations applied")
					return nil
				}
				opts.log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
				return nil
			}),
		migratorCommand(opts, "force <version>", "Force the recorded version (clears the dirty flag)", cobra.ExactArgs(1),
			func(m *migration.Migrator, args []string) error {
				version, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				opts.log.Warn("Forcing migration version", zap.Int("version", version))
				return m.Force(version)
			}),
		createCommand(opts),
		listCommand(opts),
	)
	return root
}

// migratorCommand builds a subcommand that runs against the configured database
func migratorCommand(opts *options, use, short string, args cobra.PositionalArgs, run func(*migration.Migrator, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if cfg.Database.Driver == "sqlite" {
				return fmt.Errorf("versioned migrations target postgres; sqlite databases use auto-migrate")
			}

			db, err := sql.Open("postgres", cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = db.Close() }()
			if err := db.PingContext(cmd.Context()); err != nil {
				return fmt.Errorf("failed to ping database: %w", err)
			}

			var m *migration.Migrator
			if opts.path != "" {
				m, err = migration.NewFromDir(db, opts.path, opts.log)
			} else {
				m, err = migration.New(db, opts.log)
			}
			if err != nil {
				return err
			}
			defer func() { _ = m.Close() }()

			opts.log.Info("Running migration command", zap.String("command", cmd.Name()))
			return run(m, args)
		},
	}
}

func createCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> [description]",
		Short: "Create a new up/down migration file pair",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := opts.path
			if dir == "" {
				dir = defaultMigrationsPath
			}
			description := ""
			if len(args) > 1 {
				description = args[1]
			}
			mf, err := migration.CreateMigration(dir, args[0], description)
			if err != nil {
				return err
			}
			opts.log.Info("Migration created",
				zap.String("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			return nil
		},
	}
}

func listCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var fsys fs.FS = migrations.FS
			if opts.path != "" {
				fsys = os.DirFS(opts.path)
			}
			list, err := migration.ListMigrations(fsys)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				opts.log.Info("No migrations found")
				return nil
			}
			for _, m := range list {
				fmt.Fprintln(cmd.OutOrStdout(), "  -", m)
			}
			return nil
		},
	}
}
