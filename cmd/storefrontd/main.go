package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/storefront/internal/cli"
	"github.com/cloo-solutions/storefront/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "storefrontd",
		Short: "Storefront API server",
		Long:  "Storefront daemon for running the API server, migrating the schema and seeding the catalog",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.MigrateCmd())
	rootCmd.AddCommand(admin.SeedCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
