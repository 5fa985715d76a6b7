package admin

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/storefront/internal/config"
	"github.com/cloo-solutions/storefront/internal/database"
)

const defaultMigrationsDir = "migrations"

// MigrateCmd groups the schema migration commands.
func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}
	cmd.PersistentFlags().String("migrations", defaultMigrationsDir, "Directory containing the migration files")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE:  runMigrateUp,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMigrateDown,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE:  runMigrateVersion,
	})

	return cmd
}

func migrationTarget(cmd *cobra.Command) (string, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", "", fmt.Errorf("failed to load config: %w", err)
	}
	dir, _ := cmd.Flags().GetString("migrations")
	return cfg.DatabaseURL, dir, nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	url, dir, err := migrationTarget(cmd)
	if err != nil {
		return err
	}
	applied, err := database.Migrate(url, dir)
	if err != nil {
		return err
	}
	if applied {
		fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
	}
	return nil
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(args[0])
	if err != nil || steps < 1 {
		return 0, fmt.Errorf("steps must be a positive integer, got %q", args[0])
	}
	return steps, nil
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	steps, err := parseSteps(args)
	if err != nil {
		return err
	}
	url, dir, err := migrationTarget(cmd)
	if err != nil {
		return err
	}
	if err := database.MigrateDown(url, dir, steps); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", steps)
	return nil
}

func runMigrateVersion(cmd *cobra.Command, args []string) error {
	url, dir, err := migrationTarget(cmd)
	if err != nil {
		return err
	}
	version, dirty, err := database.MigrationVersion(url, dir)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		fmt.Fprintf(cmd.OutOrStdout(), "%d (dirty)\n", version)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), version)
	return nil
}
