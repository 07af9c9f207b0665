package mcp

import (
	"context"
	"io"

	"github.com/custodia-labs/formflow/internal/core/domain"
)

// mockSubmissionService is a mock implementation of driving.SubmissionService.
type mockSubmissionService struct {
	outcome *domain.SubmitOutcome
	err     error

	formID string
	raw    map[string]string
	cc     domain.ContentContext
}

func (m *mockSubmissionService) Submit(
	_ context.Context,
	formID string,
	raw map[string]string,
	cc domain.ContentContext,
) (*domain.SubmitOutcome, error) {
	m.formID, m.raw, m.cc = formID, raw, cc
	return m.outcome, m.err
}

// mockFormService is a mock implementation of driving.FormService.
type mockFormService struct {
	forms []domain.Form
	err   error
}

func (m *mockFormService) Get(_ context.Context, _ string) (*domain.Form, error) {
	if len(m.forms) == 0 {
		return nil, domain.ErrNotFound
	}
	return &m.forms[0], m.err
}

func (m *mockFormService) List(_ context.Context) ([]domain.Form, error) {
	return m.forms, m.err
}

func (m *mockFormService) Import(_ context.Context, _ domain.Form) error {
	return m.err
}

func (m *mockFormService) Render(_ context.Context, _ string) ([]byte, error) {
	return []byte("{}"), m.err
}

// mockEntryService is a mock implementation of driving.EntryService.
type mockEntryService struct {
	page     *domain.EntryPage
	err      error
	scope    domain.EntryScope
	criteria domain.SearchCriteria
}

func (m *mockEntryService) List(_ context.Context, scope domain.EntryScope, criteria domain.SearchCriteria) (*domain.EntryPage, error) {
	m.scope, m.criteria = scope, criteria
	return m.page, m.err
}

func (m *mockEntryService) Get(_ context.Context, _ domain.EntryScope, _ string) (*domain.Entry, error) {
	return nil, m.err
}

func (m *mockEntryService) Delete(_ context.Context, _ domain.EntryScope, _ string) error {
	return m.err
}

func (m *mockEntryService) ExportCSV(_ context.Context, _ domain.EntryScope, _ io.Writer) error {
	return m.err
}
