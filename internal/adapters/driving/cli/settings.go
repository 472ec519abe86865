package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var errNoSettings = errors.New("settings service not configured")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	RunE:  runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsURLCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Set the workspace service URL",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsURL,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the workspace token",
	Long: `Reads a workspace token from the terminal without echoing it and
stores it in the configuration file.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

// readToken reads the token from the user. Replaced in tests.
var readToken = readPassword

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsURLCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(loginCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	s, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("[Workspace]")
	url := s.Workspace.URL
	if url == "" {
		url = "(not set)"
	}
	cmd.Printf("  URL: %s\n", url)
	token := "(not set)"
	if s.Workspace.Token != "" {
		token = maskToken(s.Workspace.Token)
	}
	cmd.Printf("  Token: %s\n", token)
	cmd.Printf("  Insecure: %t\n", s.Workspace.Insecure)
	cmd.Printf("  Page size: %d\n", s.Workspace.PageSize)
	cmd.Printf("  Rate limit: %g req/s\n", s.Workspace.RateLimit)
	cmd.Printf("  Resolve cache: %d\n", s.Workspace.ResolveCacheSize)
	cmd.Printf("  Timeout: %s\n", s.Workspace.Timeout)
	if err := s.Workspace.Validate(); err != nil {
		cmd.Printf("  Status: %v\n", err)
	}
	cmd.Println()

	cmd.Println("[Processor]")
	cmd.Printf("  Max retries: %d\n", s.Processor.MaxRetries)
	cmd.Printf("  Backoff: %s to %s\n", s.Processor.BackoffInitial, s.Processor.BackoffMax)
	cmd.Printf("  Poll interval: %s\n", s.Processor.PollInterval)
	cmd.Println()

	cmd.Println("[Storage]")
	dataDir := s.Storage.DataDir
	if dataDir == "" {
		dataDir = "(config directory)"
	}
	cmd.Printf("  Data dir: %s\n", dataDir)
	return nil
}

func runSettingsURL(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	if err := settingsService.SetWorkspaceURL(strings.TrimSpace(args[0])); err != nil {
		return err
	}
	cmd.Printf("Workspace URL set to %s\n", args[0])
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	cmd.Print("Workspace token: ")
	token := strings.TrimSpace(readToken())
	cmd.Println()
	if token == "" {
		return errors.New("no token entered")
	}
	if err := settingsService.SetToken(token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	cmd.Println("Token stored.")
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
