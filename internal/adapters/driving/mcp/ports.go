package mcp

import (
	"github.com/custodia-labs/formflow/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Submission runs posted data through the form pipeline.
	Submission driving.SubmissionService

	// Forms lists form definitions.
	Forms driving.FormService

	// Entries reads stored submissions. Optional; without it the entry
	// tool and resource report nothing found.
	Entries driving.EntryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Submission == nil {
		return ErrMissingSubmissionService
	}
	if p.Forms == nil {
		return ErrMissingFormService
	}
	return nil
}
