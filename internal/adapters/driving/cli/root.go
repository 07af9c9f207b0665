// Package cli provides the cobra command tree for formflow.
package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/formflow/internal/core/ports/driving"
	"github.com/custodia-labs/formflow/internal/logger"
)

// version is set at build time by SetVersion.
var version = "dev"

// verbose enables debug logging for every command.
var verbose bool

// Services used by the commands. Set by SetServices before Execute.
var (
	submissionService driving.SubmissionService
	entryService      driving.EntryService
	formService       driving.FormService
	settingsService   driving.SettingsService
	formWatcher       func(ctx context.Context) error
)

// Services holds the core services the commands drive.
type Services struct {
	Submission driving.SubmissionService
	Entries    driving.EntryService
	Forms      driving.FormService
	Settings   driving.SettingsService

	// WatchForms reloads form definitions as they change until the
	// context ends. Long-running commands start it. Optional.
	WatchForms func(ctx context.Context) error
}

var rootCmd = &cobra.Command{
	Use:   "formflow",
	Short: "Form submission engine",
	Long: `formflow binds, validates and stores form submissions.

Forms are YAML or JSON definitions in ~/.formflow/forms. Submissions are
checked against field rules and cross-field validations, stored in the
configured index, and can be listed or exported as CSV.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	// cmd.Print* falls back to stderr; command output belongs on stdout.
	rootCmd.SetOut(os.Stdout)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects the core services.
func SetServices(s Services) {
	submissionService = s.Submission
	entryService = s.Entries
	formService = s.Forms
	settingsService = s.Settings
	formWatcher = s.WatchForms
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
