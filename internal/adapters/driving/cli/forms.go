package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/formflow/internal/adapters/driven/config/file"
)

var renderPretty bool

var formsCmd = &cobra.Command{
	Use:   "forms",
	Short: "Manage form definitions",
	Long:  `List, render or import the form definitions submissions are checked against.`,
}

var formsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List forms",
	Args:  cobra.NoArgs,
	RunE:  runFormsList,
}

var formsRenderCmd = &cobra.Command{
	Use:   "render [form-id]",
	Short: "Print the client-side model of a form",
	Long: `Prints the JSON a front end needs to draw the form: field defaults,
placeholders, validations and actions to evaluate as values change.`,
	Args: cobra.ExactArgs(1),
	RunE: runFormsRender,
}

var formsImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Check and store a form definition",
	Long: `Reads a YAML or JSON form definition, checks its field types, rules
and operators, and stores it with the other forms.`,
	Args: cobra.ExactArgs(1),
	RunE: runFormsImport,
}

func init() {
	formsRenderCmd.Flags().BoolVar(&renderPretty, "pretty", false, "indent the JSON output")

	formsCmd.AddCommand(formsListCmd)
	formsCmd.AddCommand(formsRenderCmd)
	formsCmd.AddCommand(formsImportCmd)
	rootCmd.AddCommand(formsCmd)
}

func runFormsList(cmd *cobra.Command, _ []string) error {
	if formService == nil {
		return errors.New("form service not configured")
	}

	forms, err := formService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list forms: %w", err)
	}

	if len(forms) == 0 {
		cmd.Println("No forms found.")
		return nil
	}

	cmd.Println("Forms:")
	cmd.Println()
	for i := range forms {
		name := forms[i].Name
		if name == "" {
			name = "(unnamed)"
		}
		cmd.Printf("  %s\n", forms[i].ID)
		cmd.Printf("    Name: %s\n", name)
		cmd.Printf("    Fields: %d, Validations: %d, Actions: %d\n",
			len(forms[i].Fields), len(forms[i].Validations), len(forms[i].Actions))
		cmd.Println()
	}
	cmd.Printf("Total: %d forms\n", len(forms))
	return nil
}

func runFormsRender(cmd *cobra.Command, args []string) error {
	if formService == nil {
		return errors.New("form service not configured")
	}

	data, err := formService.Render(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to render form: %w", err)
	}

	if renderPretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return fmt.Errorf("failed to indent output: %w", err)
		}
		data = buf.Bytes()
	}

	cmd.Println(string(data))
	return nil
}

func runFormsImport(cmd *cobra.Command, args []string) error {
	if formService == nil {
		return errors.New("form service not configured")
	}

	form, err := file.LoadForm(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	if err := formService.Import(cmd.Context(), *form); err != nil {
		return fmt.Errorf("failed to import form: %w", err)
	}

	cmd.Printf("Form %s imported.\n", form.ID)
	return nil
}
