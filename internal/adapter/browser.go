package adapter

import (
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
)

// Browser opens receipt URLs in an external web browser
type Browser struct {
	command string // configured opener command, empty for system default
	logger  *slog.Logger
}

// openerCandidates defines the preferred opener order for each platform
var openerCandidates = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open", "sensible-browser", "x-www-browser"},
	"windows": {"rundll32"},
}

// NewBrowser creates a Browser. An empty command means the platform
// default opener is detected at call time.
func NewBrowser(command string, logger *slog.Logger) *Browser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{command: command, logger: logger}
}

// Open launches the URL in a browser without waiting for it to exit
func (b *Browser) Open(url string) error {
	if url == "" {
		return fmt.Errorf("no URL to open")
	}

	if b.command != "" {
		b.logger.Debug("opening url with configured command", "command", b.command, "url", url)
		return tryOpenWithCommand(b.command, url)
	}

	candidates, ok := openerCandidates[runtime.GOOS]
	if !ok {
		candidates = openerCandidates["linux"]
	}

	var lastErr error
	for _, opener := range candidates {
		var err error
		if opener == "rundll32" {
			err = tryOpenWithCommand("rundll32", "url.dll,FileProtocolHandler", url)
		} else {
			err = tryOpenWithCommand(opener, url)
		}
		if err == nil {
			b.logger.Debug("opened url", "opener", opener, "url", url)
			return nil
		}
		b.logger.Debug("opener unavailable", "opener", opener, "error", err)
		lastErr = err
	}

	return fmt.Errorf("no browser opener found: %w", lastErr)
}

// tryOpenWithCommand starts the opener asynchronously.
// Returns an error if the command is not in PATH or fails to start.
func tryOpenWithCommand(command string, args ...string) error {
	if _, err := exec.LookPath(command); err != nil {
		return err
	}
	cmd := exec.Command(command, args...)
	return cmd.Start()
}
