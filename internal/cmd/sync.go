package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hvillar/gastos/internal/adapter"
	"github.com/hvillar/gastos/internal/api"
	"github.com/hvillar/gastos/internal/domain"
	"github.com/hvillar/gastos/internal/i18n"
	"github.com/hvillar/gastos/internal/service"
	"github.com/hvillar/gastos/internal/stream"
)

var (
	syncVerbose bool
	syncAttach  bool
)

// readyInterval spaces out the readiness probes before a headless run
const readyInterval = 2 * time.Second

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a sync and follow its progress in the terminal",
	Long: `Start a server-side sync run and print its progress as plain text,
one line per update. If a run is already active the server hands that
run back instead of starting a second one.

Unlike the TUI, this command exits as soon as the run reports a
terminal state: exit code 0 on completion, 1 on failure.

Examples:
  gastos sync            # start a run and follow it
  gastos sync --attach   # follow the current run without starting one
  gastos sync --verbose  # dump diagnostics to stderr while following`,
	RunE: runHeadlessSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncAttach, "attach", false, "Follow the current run instead of starting one")
	syncCmd.Flags().BoolVar(&syncVerbose, "verbose", false, "Log diagnostics to stderr")
	rootCmd.AddCommand(syncCmd)
}

func runHeadlessSync(cmd *cobra.Command, args []string) error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.IsConfigured() {
		return fmt.Errorf("no server configured, run gastos first")
	}

	level := cfg.Logging.Level
	if syncVerbose {
		level = "DEBUG"
	}
	logger := adapter.TextLogger(cmd.ErrOrStderr(), level)
	slog.SetDefault(logger)

	i18n.SetLanguage(cfg.UI.Language)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.NewClient(cfg.Server.URL, cfg.Server.Token, logger)
	if err := client.WaitReady(ctx, cfg.Sync.ReadyAttempts, readyInterval); err != nil {
		return err
	}

	opener := stream.NewOpener(cfg.Server.URL, cfg.Server.Token, logger)
	syncSvc := service.NewSyncService(client, opener, logger)

	var session domain.SyncSession
	if syncAttach {
		session, err = syncSvc.Current(ctx)
	} else {
		session, err = syncSvc.Start(ctx)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if !session.Subscribable() {
		fmt.Fprintln(out, i18n.T(i18n.KeyNoSync))
		return nil
	}

	fmt.Fprintf(out, "%s #%d\n", i18n.T(i18n.KeySyncTitle), session.ID)

	feed, err := syncSvc.Attach(ctx, session)
	if err != nil {
		return err
	}
	defer feed.Close()

	// Close is what unblocks a Next stuck on a quiet connection, so an
	// interrupt has to reach the stream, not just the context.
	go func() {
		<-ctx.Done()
		feed.Close()
	}()

	return follow(out, feed, session)
}

// follow prints each progress event until the run reaches a terminal
// state. A stream that dies before then is reported as an error so the
// exit code reflects that the outcome is unknown.
func follow(out io.Writer, feed domain.ProgressStream, session domain.SyncSession) error {
	names := make(map[int64]string)
	for _, a := range session.Accounts {
		names[a.AccountID] = a.Name
	}

	for {
		ev, err := feed.Next()
		if err != nil {
			return fmt.Errorf("sync ended without a terminal status: %w", err)
		}

		switch ev.Type {
		case domain.EventProgressUpdate:
			printCounters(out, ev)

		case domain.EventAccountUpdate:
			name := names[ev.AccountID]
			if name == "" {
				name = fmt.Sprintf("#%d", ev.AccountID)
			}
			fmt.Fprintf(out, "  %s: %d%% (%d/%d)\n", name, ev.Percent, ev.Processed, ev.Total)

		case domain.EventCompleted:
			fmt.Fprintf(out, "%s. %s %d, %s %d\n",
				i18n.T(i18n.KeySyncCompleted),
				i18n.T(i18n.KeyProcessedEmails), ev.Processed,
				i18n.T(i18n.KeyDetectedExpenses), ev.Detected)
			return nil

		case domain.EventFailed:
			if ev.Error != "" {
				return fmt.Errorf("%s: %s", i18n.T(i18n.KeySyncFailed), ev.Error)
			}
			return errors.New(i18n.T(i18n.KeySyncErrorGeneric))

		default:
			// initial_status and anything unrecognized carry a full
			// snapshot; pick up the account names from it.
			for _, a := range ev.Accounts {
				names[a.AccountID] = a.Name
			}
			printCounters(out, ev)
		}
	}
}

func printCounters(out io.Writer, ev domain.SyncEvent) {
	fmt.Fprintf(out, "%3d%%  %s %d, %s %d\n",
		ev.Percent,
		i18n.T(i18n.KeyProcessedEmails), ev.Processed,
		i18n.T(i18n.KeyDetectedExpenses), ev.Detected)
}
