package cmd

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/hvillar/gastos/internal/adapter"
	"github.com/hvillar/gastos/internal/api"
	"github.com/hvillar/gastos/internal/i18n"
	"github.com/hvillar/gastos/internal/service"
	"github.com/hvillar/gastos/internal/store"
	"github.com/hvillar/gastos/internal/stream"
	"github.com/hvillar/gastos/internal/tui"
)

// Version is set at build time via ldflags
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "gastos",
	Short: "Terminal UI for the expense tracking server",
	Long: `Gastos browses the expenses your mail sync server detects, lets you
categorize and confirm them, and follows live sync progress as the
server works through your inboxes.

Running gastos with no arguments opens the TUI. The first run walks
you through connecting to your server.`,
	RunE: runTUI,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("gastos %s\n", Version)
	},
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// The TUI owns the terminal, so without a usable log file the
		// logs are dropped rather than written over the screen.
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	i18n.SetLanguage(cfg.UI.Language)

	logger.Info("starting gastos", "version", Version)

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg)
	}

	client := api.NewClient(cfg.Server.URL, cfg.Server.Token, logger)
	opener := stream.NewOpener(cfg.Server.URL, cfg.Server.Token, logger)

	cache, err := store.NewExpenseStore(adapter.GetCachePath(), cfg.Server.URL)
	if err != nil {
		logger.Warn("cache unavailable, running memory-only", "error", err)
		cache, _ = store.NewExpenseStore("", "")
	}
	defer cache.Close()

	expenseSvc := service.NewExpenseService(client, client, cache, logger)
	syncSvc := service.NewSyncService(client, opener, logger)
	searchSvc := service.NewSearchService(logger)
	ruleSvc := service.NewRuleService(client, cache, logger)
	conflictSvc := service.NewConflictService(client, logger)
	summarySvc := service.NewSummaryService(client, logger)
	browser := adapter.NewBrowser("", logger)

	model := tui.NewModel(*cfg, expenseSvc, syncSvc, searchSvc, ruleSvc, conflictSvc, summarySvc, browser, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
