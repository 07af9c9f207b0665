package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/formflow/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for formflow resources.
	uriScheme = "formflow://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "forms",
		Name:        "forms",
		Description: "List of all form definitions",
		MIMEType:    "application/json",
	}, s.handleFormsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "forms/{formId}/entries",
		Name:        "form-entries",
		Description: "First page of stored submissions for a form",
		MIMEType:    "application/json",
	}, s.handleEntriesResource)
}

// handleFormsResource returns a summary of every form.
func (s *Server) handleFormsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	forms, err := s.ports.Forms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing forms: %w", err)
	}

	type fieldInfo struct {
		ID           string `json:"id"`
		Type         string `json:"type"`
		Name         string `json:"name"`
		FormSafeName string `json:"formSafeName"`
	}
	type formInfo struct {
		ID     string      `json:"id"`
		Name   string      `json:"name"`
		Fields []fieldInfo `json:"fields"`
	}

	infos := make([]formInfo, len(forms))
	for i := range forms {
		info := formInfo{
			ID:     forms[i].ID,
			Name:   forms[i].Name,
			Fields: make([]fieldInfo, len(forms[i].Fields)),
		}
		for j, def := range forms[i].Fields {
			info.Fields[j] = fieldInfo{
				ID:           def.ID,
				Type:         def.Type,
				Name:         def.Name,
				FormSafeName: def.SafeName(),
			}
		}
		infos[i] = info
	}

	return jsonResult(req.Params.URI, infos)
}

// handleEntriesResource returns the first page of entries for a form.
func (s *Server) handleEntriesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Entries == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract formId from URI: formflow://forms/{formId}/entries
	formID := extractFormID(req.Params.URI)
	if formID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	page, err := s.ports.Entries.List(ctx, domain.EntryScope{FormID: formID}, domain.SearchCriteria{})
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	return jsonResult(req.Params.URI, toListOutput(page))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractFormID extracts the form ID from a URI like formflow://forms/{formId}/entries.
func extractFormID(uri string) string {
	const prefix = uriScheme + "forms/"
	const suffix = "/entries"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if !strings.HasSuffix(uri, suffix) {
		return ""
	}

	id := strings.TrimSuffix(uri, suffix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
