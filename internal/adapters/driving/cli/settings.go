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

var indexDataDir string

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the submission index and third-party credentials.

Stored settings live in ~/.formflow/config.toml. Any key can be
overridden with an environment variable, e.g. FORMFLOW_RECAPTCHA_SECRET_KEY,
or from a .env file in the working directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsReCaptchaCmd = &cobra.Command{
	Use:   "recaptcha",
	Short: "Configure reCAPTCHA keys",
	Long: `Configure the site and secret keys used by reCAPTCHA fields.
Without both keys reCAPTCHA fields cannot be added to forms.`,
	Args: cobra.NoArgs,
	RunE: runSettingsReCaptcha,
}

var settingsMailChimpCmd = &cobra.Command{
	Use:   "mailchimp",
	Short: "Configure the MailChimp API key",
	Long: `Configure the API key newsletter fields subscribe with.
The key includes its data centre, e.g. 0123456789abcdef-us6.`,
	Args: cobra.NoArgs,
	RunE: runSettingsMailChimp,
}

var settingsIndexCmd = &cobra.Command{
	Use:   "index [type]",
	Short: "Select the submission index",
	Long: `Select where submissions are stored.

Available types:
  memory - In-process, lost on exit (default)
  sqlite - SQLite database in the data directory`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsIndex,
}

func init() {
	settingsIndexCmd.Flags().StringVar(&indexDataDir, "data-dir", "", "directory for file-backed indexes")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsReCaptchaCmd)
	settingsCmd.AddCommand(settingsMailChimpCmd)
	settingsCmd.AddCommand(settingsIndexCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Index]")
	cmd.Printf("  Type: %s\n", settings.Index.Type)
	if settings.Index.DataDir != "" {
		cmd.Printf("  Data Dir: %s\n", settings.Index.DataDir)
	}
	cmd.Println()

	cmd.Println("[reCAPTCHA]")
	cmd.Printf("  Site Key: %s\n", valueOrUnset(settings.ReCaptcha.SiteKey))
	cmd.Printf("  Secret Key: %s\n", maskedOrUnset(settings.ReCaptcha.SecretKey))
	cmd.Printf("  Timeout: %s\n", settings.ReCaptcha.Timeout)
	cmd.Printf("  Status: %s\n", configuredStatus(settings.ReCaptcha.IsConfigured()))
	cmd.Println()

	cmd.Println("[MailChimp]")
	cmd.Printf("  API Key: %s\n", maskedOrUnset(settings.MailChimp.APIKey))
	cmd.Printf("  Status: %s\n", configuredStatus(settings.MailChimp.IsConfigured()))

	return nil
}

func runSettingsReCaptcha(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Print("Enter site key: ")
	siteKey := readLine(reader)
	cmd.Print("Enter secret key: ")
	secretKey := readPassword(cmd, reader)
	cmd.Println()

	if err := settingsService.SetReCaptchaKeys(siteKey, secretKey); err != nil {
		return fmt.Errorf("failed to configure reCAPTCHA: %w", err)
	}

	cmd.Println("reCAPTCHA keys saved.")
	return nil
}

func runSettingsMailChimp(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Print("Enter API key: ")
	apiKey := readPassword(cmd, reader)
	cmd.Println()
	if apiKey == "" {
		return errors.New("API key is required")
	}

	if err := settingsService.SetMailChimpAPIKey(apiKey); err != nil {
		return fmt.Errorf("failed to configure MailChimp: %w", err)
	}

	cmd.Printf("MailChimp API key saved: %s\n", maskAPIKey(apiKey))
	return nil
}

func runSettingsIndex(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetIndexType(args[0], indexDataDir); err != nil {
		return fmt.Errorf("failed to set index: %w", err)
	}

	cmd.Printf("Index set to: %s\n", strings.TrimSpace(args[0]))
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// readPassword reads without echo when input is a terminal.
func readPassword(cmd *cobra.Command, reader *bufio.Reader) string {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func maskedOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return maskAPIKey(v)
}

func configuredStatus(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
