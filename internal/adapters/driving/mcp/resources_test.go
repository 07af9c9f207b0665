package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/formflow/internal/core/domain"
)

func TestExtractFormID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid form entries URI",
			uri:      "formflow://forms/contact/entries",
			expected: "contact",
		},
		{
			name:     "invalid prefix",
			uri:      "file://forms/contact/entries",
			expected: "",
		},
		{
			name:     "missing entries suffix",
			uri:      "formflow://forms/contact",
			expected: "",
		},
		{
			name:     "nested path",
			uri:      "formflow://forms/a/b/entries",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractFormID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleFormsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns forms with field names", func(t *testing.T) {
		forms := &mockFormService{forms: []domain.Form{{
			ID:   "contact",
			Name: "Contact",
			Fields: []domain.FieldDefinition{
				{ID: "f-email", Type: domain.FieldTypeEmail, Name: "Email address"},
			},
		}}}
		server := newTestServer(t, &Ports{Forms: forms})

		result, err := server.handleFormsResource(ctx, makeReadResourceRequest("formflow://forms"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var got []struct {
			ID     string `json:"id"`
			Fields []struct {
				FormSafeName string `json:"formSafeName"`
			} `json:"fields"`
		}
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "contact", got[0].ID)
		assert.Equal(t, "Email_address", got[0].Fields[0].FormSafeName)
	})

	t.Run("no forms returns empty list", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		result, err := server.handleFormsResource(ctx, makeReadResourceRequest("formflow://forms"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		forms := &mockFormService{err: errors.New("disk error")}
		server := newTestServer(t, &Ports{Forms: forms})

		_, err := server.handleFormsResource(ctx, makeReadResourceRequest("formflow://forms"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing forms")
	})
}

func TestServer_handleEntriesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil entry service returns not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{})

		_, err := server.handleEntriesResource(ctx, makeReadResourceRequest("formflow://forms/contact/entries"))

		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{Entries: &mockEntryService{}})

		_, err := server.handleEntriesResource(ctx, makeReadResourceRequest("formflow://invalid/uri"))

		require.Error(t, err)
	})

	t.Run("returns first page of entries", func(t *testing.T) {
		entries := &mockEntryService{page: &domain.EntryPage{
			Entries: []domain.Entry{{
				RowID:  "row-9",
				Values: []domain.EntryValue{{FieldID: "f-name", Label: "Name", Value: "Jane"}},
			}},
			TotalRows: 1,
			Page:      1,
			PerPage:   domain.DefaultPerPage,
		}}
		server := newTestServer(t, &Ports{Entries: entries})

		result, err := server.handleEntriesResource(ctx, makeReadResourceRequest("formflow://forms/contact/entries"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "row-9")
		assert.Contains(t, result.Contents[0].Text, `"Name": "Jane"`)
		assert.Equal(t, domain.EntryScope{FormID: "contact"}, entries.scope)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		entries := &mockEntryService{err: domain.ErrNotFound}
		server := newTestServer(t, &Ports{Entries: entries})

		_, err := server.handleEntriesResource(ctx, makeReadResourceRequest("formflow://forms/missing/entries"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing entries")
	})
}
