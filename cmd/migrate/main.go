package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fieldline/backend/internal/infrastructure/config"
	"github.com/fieldline/backend/internal/infrastructure/logger"
	"github.com/fieldline/backend/internal/infrastructure/migration"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "internal/infrastructure/migration/sql"

var (
	logLevel      string
	migrationsDir string
	confirmDown   bool

	log *zap.Logger

	rootCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Fieldline database migration tool",
		Long: `Applies the schema migrations embedded in the binary to the database
configured through config.toml or FIELDLINE_DATABASE_* environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logger.New(logger.Config{Level: logLevel, Format: "console", Output: "stdout"}, "development")
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			log = l
			return nil
		},
	}

	upCmd = &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *migration.Migrator) error {
				res, err := m.Up()
				if err != nil {
					return err
				}
				if res.Dirty {
					return fmt.Errorf("schema left dirty at version %d", res.ToVersion)
				}
				return nil
			})
		},
	}

	downCmd = &cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmDown {
				return fmt.Errorf("down drops every table; rerun with --confirm")
			}
			return withMigrator(func(m *migration.Migrator) error {
				if err := m.Down(); err != nil {
					return err
				}
				log.Warn("All migrations rolled back")
				return nil
			})
		},
	}

	stepsCmd = &cobra.Command{
		Use:   "steps <n>",
		Short: "Apply n migrations (negative rolls back)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			return withMigrator(func(m *migration.Migrator) error {
				return m.Steps(n)
			})
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Show the applied migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(m *migration.Migrator) error {
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
			})
		},
	}

	forceCmd = &cobra.Command{
		Use:   "force <version>",
		Short: "Set the version without running migrations and clear the dirty flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return withMigrator(func(m *migration.Migrator) error {
				return m.Force(version)
			})
		},
	}

	createCmd = &cobra.Command{
		Use:   "create <name>",
		Short: "Create the next numbered up/down migration pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := migration.Create(migrationsDir, args[0])
			if err != nil {
				return err
			}
			log.Info("Migration created",
				zap.Uint("version", f.Version),
				zap.String("up_file", f.UpPath),
				zap.String("down_file", f.DownPath))
			return nil
		},
	}

	listCmd = &cobra.Command{
		Use:   "list",
		Short: "List the migrations embedded in this binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := migration.Embedded()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
)

// withMigrator opens a migrator on the configured database for one command
func withMigrator(fn func(*migration.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	m, err := migration.New(cfg.Database.DSN(), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Failed to close migrator", zap.Error(err))
		}
	}()
	return fn(m)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	createCmd.Flags().StringVar(&migrationsDir, "dir", defaultMigrationsDir, "directory the new files are written to")
	downCmd.Flags().BoolVar(&confirmDown, "confirm", false, "confirm rolling back every migration")

	rootCmd.AddCommand(upCmd, downCmd, stepsCmd, versionCmd, forceCmd, createCmd, listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if log != nil {
			_ = log.Sync()
		}
		os.Exit(1)
	}
	if log != nil {
		_ = log.Sync()
	}
}
