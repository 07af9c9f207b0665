package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/formflow/internal/core/domain"
)

// SubmitInput is the input schema for the submit_form tool.
type SubmitInput struct {
	FormID    string            `json:"form_id" jsonschema:"id of the form to submit to"`
	Values    map[string]string `json:"values" jsonschema:"posted values keyed by field form-safe name; separate multiple choices with commas"`
	ContentID string            `json:"content_id,omitempty" jsonschema:"form instance id (defaults to the form id)"`
	RemoteIP  string            `json:"remote_ip,omitempty" jsonschema:"requester address for challenge verification"`
}

// SubmitOutput is the output schema for the submit_form tool.
type SubmitOutput struct {
	Valid         bool           `json:"valid"`
	RowID         string         `json:"row_id,omitempty"`
	InvalidFields []string       `json:"invalid_fields,omitempty"`
	Errors        []string       `json:"errors,omitempty"`
	Actions       []ActionOutput `json:"actions,omitempty"`
}

// ActionOutput is one eligible action.
type ActionOutput struct {
	FieldID string `json:"field_id"`
	Task    string `json:"task"`
}

// ListEntriesInput is the input schema for the list_entries tool.
type ListEntriesInput struct {
	FormID    string `json:"form_id" jsonschema:"id of the form whose entries to list"`
	ContentID string `json:"content_id,omitempty" jsonschema:"form instance the entries were submitted under (defaults to the form id)"`
	Query     string `json:"query,omitempty" jsonschema:"only entries containing this text"`
	Page      int    `json:"page,omitempty" jsonschema:"1-based page number (default 1)"`
	PerPage   int    `json:"per_page,omitempty" jsonschema:"entries per page (default 20)"`
}

// ListEntriesOutput is the output schema for the list_entries tool.
type ListEntriesOutput struct {
	Entries   []EntryOutput `json:"entries"`
	TotalRows int           `json:"total_rows"`
	Page      int           `json:"page"`
	PerPage   int           `json:"per_page"`
}

// EntryOutput is one formatted entry.
type EntryOutput struct {
	RowID     string            `json:"row_id"`
	CreatedAt string            `json:"created_at"`
	Values    map[string]string `json:"values"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "submit_form",
		Description: "Submit values to a form and report whether they were accepted",
	}, s.handleSubmit)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_entries",
		Description: "List stored submissions of a form",
	}, s.handleListEntries)
}

// handleSubmit handles the submit_form tool invocation.
func (s *Server) handleSubmit(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SubmitInput,
) (*mcp.CallToolResult, SubmitOutput, error) {
	cc := domain.ContentContext{
		ContentID: input.ContentID,
		RemoteIP:  input.RemoteIP,
	}

	outcome, err := s.ports.Submission.Submit(ctx, input.FormID, input.Values, cc)
	if err != nil {
		return nil, SubmitOutput{}, err
	}

	output := SubmitOutput{
		Valid:         outcome.Valid,
		RowID:         outcome.RowID,
		InvalidFields: outcome.InvalidFields,
	}
	for _, v := range outcome.Validations {
		if v.Invalid {
			output.Errors = append(output.Errors, v.Validation.ErrorMessage)
		}
	}
	for _, a := range outcome.Actions {
		output.Actions = append(output.Actions, ActionOutput{FieldID: a.FieldID, Task: string(a.Task)})
	}

	return nil, output, nil
}

// handleListEntries handles the list_entries tool invocation.
func (s *Server) handleListEntries(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListEntriesInput,
) (*mcp.CallToolResult, ListEntriesOutput, error) {
	if s.ports.Entries == nil {
		return nil, ListEntriesOutput{Entries: []EntryOutput{}}, nil
	}

	scope := domain.EntryScope{FormID: input.FormID, ContentID: input.ContentID}
	page, err := s.ports.Entries.List(ctx, scope, domain.SearchCriteria{
		Query:   input.Query,
		Page:    input.Page,
		PerPage: input.PerPage,
	})
	if err != nil {
		return nil, ListEntriesOutput{}, err
	}

	return nil, toListOutput(page), nil
}

func toListOutput(page *domain.EntryPage) ListEntriesOutput {
	output := ListEntriesOutput{
		Entries:   make([]EntryOutput, len(page.Entries)),
		TotalRows: page.TotalRows,
		Page:      page.Page,
		PerPage:   page.PerPage,
	}
	for i := range page.Entries {
		output.Entries[i] = toEntryOutput(&page.Entries[i])
	}
	return output
}

// toEntryOutput keys values by label, falling back to the field id when
// two fields share a label.
func toEntryOutput(entry *domain.Entry) EntryOutput {
	out := EntryOutput{
		RowID:     entry.RowID,
		CreatedAt: entry.CreatedAt.UTC().Format(time.RFC3339),
		Values:    make(map[string]string, len(entry.Values)),
	}
	for _, v := range entry.Values {
		key := v.Label
		if _, taken := out.Values[key]; taken || key == "" {
			key = v.FieldID
		}
		out.Values[key] = v.Value
	}
	return out
}
