package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/hvillar/gastos/internal/adapter"
	"github.com/hvillar/gastos/internal/api"
	"github.com/hvillar/gastos/internal/domain"
)

var setupSpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

// runSetupFlow handles the initial setup when no server is configured
func runSetupFlow(cfg *adapter.Config) error {
	fmt.Println()
	fmt.Println("Welcome to gastos!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	// Loop until we get a reachable server URL
	var serverURL string
	for {
		fmt.Print("Enter your expense server URL (e.g., http://localhost:8600): ")
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		serverURL = strings.TrimSpace(input)

		if serverURL == "" {
			fmt.Println("Server URL cannot be empty. Please try again.")
			continue
		}

		fmt.Println()
		if err := probeServerWithSpinner(serverURL); err != nil {
			fmt.Printf("\n✗ Could not reach the server: %v\n", err)
			fmt.Println("Please check the URL and try again.")
			fmt.Println()
			continue
		}
		break
	}

	// Loop until the server accepts a token. ReadPassword keeps the
	// token off the screen and out of shell history.
	var token string
	for {
		fmt.Print("Enter your access token: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		token = strings.TrimSpace(string(raw))

		if token == "" {
			fmt.Println("Token cannot be empty. Please try again.")
			continue
		}

		if err := verifyToken(serverURL, token); err != nil {
			if errors.Is(err, domain.ErrAuthFailed) {
				fmt.Println("✗ The server rejected that token. Please try again.")
				continue
			}
			return fmt.Errorf("token verification failed: %w", err)
		}

		fmt.Println("✓ Token accepted")
		break
	}

	cfg.Server.URL = serverURL
	cfg.Server.Token = token

	if err := adapter.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run gastos again to start the application.")

	return nil
}

// probeServerWithSpinner polls the health endpoint with a visual spinner
func probeServerWithSpinner(serverURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resultCh := make(chan error, 1)

	go func() {
		client := api.NewClient(serverURL, "", adapter.NullLogger())
		resultCh <- client.WaitReady(ctx, 3, readyInterval)
	}()

	frame := 0
	fmt.Printf("\r%s Checking the server...", setupSpinnerFrames[frame])

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if err != nil {
				return err
			}
			fmt.Println("✓ Server is ready")
			return nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Checking the server...", setupSpinnerFrames[frame%len(setupSpinnerFrames)])

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return fmt.Errorf("probe timed out")
		}
	}
}

// verifyToken makes an authenticated call so a typo fails here instead
// of on the first screen of the TUI
func verifyToken(serverURL, token string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client := api.NewClient(serverURL, token, adapter.NullLogger())
	_, err := client.GetAccounts(ctx)
	return err
}
