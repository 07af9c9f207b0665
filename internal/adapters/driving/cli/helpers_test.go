package cli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/custodia-labs/formflow/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/fields"
	"github.com/custodia-labs/formflow/internal/core/services"
	"github.com/custodia-labs/formflow/internal/logger"
)

// testForm is a small contact form with one validation and one action.
func testForm() domain.Form {
	return domain.Form{
		ID:   "contact",
		Name: "Contact",
		Fields: []domain.FieldDefinition{
			{ID: "f-name", Type: domain.FieldTypeTextBox, Name: "Name", Required: true},
			{ID: "f-email", Type: domain.FieldTypeEmail, Name: "Email"},
			{ID: "f-topics", Type: domain.FieldTypeCheckboxGroup, Name: "Topics",
				FieldValues: []domain.FieldValue{{Value: "Sales"}, {Value: "Support"}}},
		},
		Validations: []domain.Validation{{
			Rules:        []domain.Rule{{FieldID: "f-name", Condition: &domain.Condition{Operator: domain.OperatorEquals, Operand: "spam"}}},
			ErrorMessage: "No spam please",
		}},
		Actions: []domain.Action{{
			Rules:   []domain.Rule{{FieldID: "f-topics", Condition: &domain.Condition{Operator: domain.OperatorContains, Operand: "support"}}},
			FieldID: "f-email",
			Task:    domain.TaskShowField,
		}},
	}
}

// testServices are the real services over in-memory adapters.
type testServices struct {
	config *memory.ConfigStore
}

// setupTestServices wires the commands to in-memory services and returns
// a cleanup function restoring the previous state.
func setupTestServices() (*testServices, func()) {
	forms := memory.NewFormStore(testForm())
	indexes := memory.NewIndexStore()
	factory := services.NewIndexFactory(domain.IndexTypeMemory, indexes.Index)
	registry := fields.NewRegistry(fields.Env{})
	config := memory.NewConfigStore()

	SetServices(Services{
		Submission: services.NewSubmissionService(forms, factory, registry, nil),
		Entries:    services.NewEntryService(forms, factory, registry),
		Forms:      services.NewFormService(forms, registry, nil),
		Settings:   services.NewSettingsService(config),
	})
	logger.SetOutput(io.Discard)

	return &testServices{config: config}, func() {
		SetServices(Services{})
		logger.SetOutput(os.Stderr)
	}
}

// execute runs the root command with args and stdin, returning everything
// written to stdout and stderr.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores flag variables between command runs.
func resetFlags() {
	verbose = false
	submitFields = nil
	submitContentID, submitRemoteIP = "", ""
	submitMemberID, submitMemberName, submitMemberEmail = "", "", ""
	submitJSON = false
	entriesQuery, entriesSort = "", ""
	entriesDesc, entriesJSON = false, false
	entriesPage, entriesPerPage = 1, domain.DefaultPerPage
	exportOutput = ""
	entriesContentID = ""
	renderPretty = false
	indexDataDir = ""
	mcpPort = 0
}
