// Package mcp provides an MCP (Model Context Protocol) server adapter for formflow.
// It lets AI assistants submit to forms and read stored entries.
package mcp

import "errors"

var (
	// ErrMissingSubmissionService is returned when the submission service is not provided.
	ErrMissingSubmissionService = errors.New("mcp: submission service is required")

	// ErrMissingFormService is returned when the form service is not provided.
	ErrMissingFormService = errors.New("mcp: form service is required")
)
