package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hvillar/gastos/internal/adapter"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the gastos configuration",
	Long: `Manage the configuration stored in ~/.config/gastos/config.yaml.

Values can also be overridden per run with GASTOS_* environment
variables, e.g. GASTOS_UI_LANGUAGE=en.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := adapter.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		cmd.Printf("Server:   %s\n", orUnset(cfg.Server.URL))
		cmd.Printf("Token:    %s\n", maskToken(cfg.Server.Token))
		cmd.Printf("Language: %s\n", cfg.UI.Language)
		cmd.Printf("View:     %s\n", cfg.UI.DefaultView)
		cmd.Printf("Log:      %s (%s)\n", cfg.Logging.File, cfg.Logging.Level)
		cmd.Println()
		cmd.Printf("Config:   %s\n", adapter.ConfigFilePath())
		cmd.Printf("Cache:    %s\n", adapter.GetCachePath())

		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(adapter.ConfigFilePath())
	},
}

var configClearCacheCmd = &cobra.Command{
	Use:   "clear-cache",
	Short: "Delete the local expense cache",
	Long: `Delete the on-disk expense cache. The next launch refetches
everything from the server. Use this when cached months look stale
or the cache file is damaged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := adapter.ClearCache(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		cmd.Println("Cache cleared")
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the server URL and token",
	Long: `Remove the server URL and access token from the config file.
The next launch runs the setup flow again. Other settings are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := adapter.ClearServerConfig(); err != nil {
			return fmt.Errorf("failed to reset server config: %w", err)
		}
		cmd.Println("Server configuration removed. Run gastos to set up again.")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configClearCacheCmd)
	configCmd.AddCommand(configResetCmd)
	rootCmd.AddCommand(configCmd)
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// maskToken keeps just enough of the token to recognize it
func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
