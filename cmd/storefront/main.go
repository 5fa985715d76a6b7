package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/storefront/internal/cli"
	"github.com/cloo-solutions/storefront/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "storefront",
		Short: "Storefront CLI - browse and manage the shop from the terminal",
		Long: `Storefront CLI searches and browses the catalog, sends contact messages and
manages products and home page content.

Environment variables:
  STOREFRONT_API_URL         API base URL (default: http://localhost:8080)
  STOREFRONT_LOCALE          Page locale: en or nl (default: en)
  STOREFRONT_ADMIN_TOKEN     Token for the admin commands
  STOREFRONT_SEARCH_TIMEOUT  Per-request timeout (default: 10s)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	rootCmd.PersistentFlags().String("admin-token", "", "Admin token (overrides env)")
	rootCmd.PersistentFlags().String("locale", "", "Page locale (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.SearchCmd())
	rootCmd.AddCommand(client.BrowseCmd())
	rootCmd.AddCommand(client.HomeCmd())
	rootCmd.AddCommand(client.CollectionCmd())
	rootCmd.AddCommand(client.ProductCmd())
	rootCmd.AddCommand(client.AboutCmd())
	rootCmd.AddCommand(client.ContactCmd())
	rootCmd.AddCommand(client.ConfigCmd())
	rootCmd.AddCommand(client.AdminCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
