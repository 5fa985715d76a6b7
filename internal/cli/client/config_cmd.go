package client

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/storefront/internal/i18n"
)

// ConfigCmd creates the config parent command
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage storefront client defaults",
		Long:  "Set, show and clear the API URL and locale stored in the global config",
	}

	cmd.AddCommand(ConfigSetCmd())
	cmd.AddCommand(ConfigClearCmd())
	cmd.AddCommand(ConfigShowCmd())

	return cmd
}

// ConfigSetCmd creates the config set command
func ConfigSetCmd() *cobra.Command {
	var apiURL, locale string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store defaults",
		Long:  "Store the API URL and locale in the global config (~/.config/storefront/config.json)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd.OutOrStdout(), apiURL, locale)
		},
	}

	cmd.Flags().StringVar(&apiURL, "url", "", "API URL")
	cmd.Flags().StringVar(&locale, "default-locale", "", "Default locale (en, nl)")

	return cmd
}

// ConfigClearCmd creates the config clear command
func ConfigClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove stored defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := DeleteGlobalConfig(); err != nil {
				return fmt.Errorf("failed to clear config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Config cleared")
			return nil
		},
	}
}

// ConfigShowCmd creates the config show command
func ConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective client configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			flagURL, _ := cmd.Flags().GetString("api-url")
			c, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}
			return runConfigShow(cmd.OutOrStdout(), flagURL, c.Locale(), outputJSON)
		},
	}
}

func runConfigSet(w io.Writer, apiURL, locale string) error {
	if apiURL == "" && locale == "" {
		return fmt.Errorf("nothing to set (use --url and/or --default-locale)")
	}
	if apiURL != "" && !IsValidAPIURL(apiURL) {
		return fmt.Errorf("invalid API URL %q", apiURL)
	}
	if locale != "" && !i18n.IsSupported(locale) {
		return fmt.Errorf("unsupported locale %q (supported: %v)", locale, i18n.Locales())
	}

	config, err := LoadGlobalConfig()
	if err != nil {
		return err
	}
	if config == nil {
		config = &GlobalConfig{}
	}
	if apiURL != "" {
		config.APIURL = apiURL
	}
	if locale != "" {
		config.Locale = locale
	}

	if err := SaveGlobalConfig(config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintln(w, "Config saved")
	return nil
}

func runConfigShow(w io.Writer, flagURL, locale string, outputJSON bool) error {
	source, apiURL := GetAPIURLSource(flagURL)

	if outputJSON {
		data, err := json.MarshalIndent(map[string]string{
			"api_url": apiURL,
			"source":  string(source),
			"locale":  locale,
		}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	fmt.Fprintf(w, "API URL: %s\n", apiURL)
	fmt.Fprintf(w, "Source: %s\n", source)
	fmt.Fprintf(w, "Locale: %s\n", locale)
	return nil
}
