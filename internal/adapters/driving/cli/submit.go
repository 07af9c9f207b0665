package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/fields"
)

// ErrSubmissionRejected is returned when a submission fails validation.
var ErrSubmissionRejected = errors.New("submission rejected")

var (
	submitFields      []string
	submitContentID   string
	submitRemoteIP    string
	submitMemberID    string
	submitMemberName  string
	submitMemberEmail string
	submitJSON        bool
)

var submitCmd = &cobra.Command{
	Use:   "submit [form-id]",
	Short: "Submit data to a form",
	Long: `Runs posted values through the form's fields and validations.

Values are given as name=value pairs keyed by the field's form-safe name
(its name with spaces replaced by underscores). Repeating a name submits
several values, as a checkbox group would.

Valid submissions are stored in the form's index. Invalid submissions
are reported and not stored.

Examples:
  formflow submit contact -f Name=Jane -f Email=jane@example.com
  formflow submit contact -f Topics=Sales -f Topics=Support --json`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().StringArrayVarP(&submitFields, "field", "f", nil, "field value as name=value (repeatable)")
	submitCmd.Flags().StringVar(&submitContentID, "content-id", "", "form instance id (defaults to the form id)")
	submitCmd.Flags().StringVar(&submitRemoteIP, "remote-ip", "", "requester address passed to challenge verification")
	submitCmd.Flags().StringVar(&submitMemberID, "member-id", "", "id of the logged-in member")
	submitCmd.Flags().StringVar(&submitMemberName, "member-name", "", "name of the logged-in member")
	submitCmd.Flags().StringVar(&submitMemberEmail, "member-email", "", "email of the logged-in member")
	submitCmd.Flags().BoolVar(&submitJSON, "json", false, "output the outcome as JSON")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	if submissionService == nil {
		return errors.New("submission service not configured")
	}

	raw, err := parseFieldValues(submitFields)
	if err != nil {
		return err
	}

	cc := domain.ContentContext{
		ContentID: submitContentID,
		RemoteIP:  submitRemoteIP,
	}
	if submitMemberID != "" || submitMemberName != "" || submitMemberEmail != "" {
		cc.Principal = &domain.Principal{
			ID:    submitMemberID,
			Name:  submitMemberName,
			Email: submitMemberEmail,
		}
	}

	outcome, err := submissionService.Submit(cmd.Context(), args[0], raw, cc)
	if err != nil {
		return fmt.Errorf("submit failed: %w", err)
	}

	if submitJSON {
		if err := printJSON(cmd, outcome); err != nil {
			return err
		}
	} else {
		printOutcome(cmd, outcome)
	}

	if !outcome.Valid {
		return ErrSubmissionRejected
	}
	return nil
}

// parseFieldValues turns name=value pairs into posted data. Repeated
// names are joined the way multi-select fields expect them.
func parseFieldValues(pairs []string) (map[string]string, error) {
	raw := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("field %q must look like name=value: %w", pair, domain.ErrInvalidInput)
		}
		if prev, seen := raw[name]; seen {
			value = prev + fields.MultiValueDelimiter + value
		}
		raw[name] = value
	}
	return raw, nil
}

func printOutcome(cmd *cobra.Command, outcome *domain.SubmitOutcome) {
	if outcome.Valid {
		cmd.Printf("Submission accepted. Row: %s\n", outcome.RowID)
	} else {
		cmd.Println("Submission rejected.")
		if len(outcome.InvalidFields) > 0 {
			cmd.Printf("  Invalid fields: %s\n", strings.Join(outcome.InvalidFields, ", "))
		}
		for _, v := range outcome.Validations {
			if v.Invalid && v.Validation.ErrorMessage != "" {
				cmd.Printf("  - %s\n", v.Validation.ErrorMessage)
			}
		}
	}

	if len(outcome.Actions) > 0 {
		cmd.Println()
		cmd.Println("Actions:")
		for _, a := range outcome.Actions {
			cmd.Printf("  %s -> %s\n", a.Task, a.FieldID)
		}
	}

	if outcome.Valid && len(outcome.Email.Lines) > 0 {
		cmd.Println()
		cmd.Println("Notification:")
		if len(outcome.Email.Recipients) > 0 {
			cmd.Printf("  To: %s\n", strings.Join(outcome.Email.Recipients, ", "))
		}
		for _, line := range outcome.Email.Lines {
			cmd.Printf("  %s: %s\n", line.Label, line.Value)
		}
	}
}
