package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/fields"
	"github.com/custodia-labs/formflow/internal/core/ports/driven"
	"github.com/custodia-labs/formflow/internal/core/ports/driving"
	"github.com/custodia-labs/formflow/internal/logger"
)

// Ensure EntryService implements the interface.
var _ driving.EntryService = (*EntryService)(nil)

// CSV export column headers preceding the field columns.
const (
	CSVHeaderRowID   = "Row ID"
	CSVHeaderCreated = "Created"
)

// EntryService reads stored submissions back through the field formatters.
type EntryService struct {
	forms    driven.FormStore
	indexes  driven.IndexFactory
	registry *fields.Registry
}

// NewEntryService creates a new entry service.
func NewEntryService(forms driven.FormStore, indexes driven.IndexFactory, registry *fields.Registry) *EntryService {
	return &EntryService{
		forms:    forms,
		indexes:  indexes,
		registry: registry,
	}
}

// List returns a page of entries formatted for the data view.
func (s *EntryService) List(ctx context.Context, scope domain.EntryScope, criteria domain.SearchCriteria) (*domain.EntryPage, error) {
	form, cc, err := s.load(ctx, scope)
	if err != nil {
		return nil, err
	}

	criteria = criteria.Normalise()
	result, err := s.indexes.GetIndex(cc.ContentID).Search(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("search entries of %s: %w", cc.ContentID, err)
	}

	set := s.registry.BuildAll(form.Fields)

	page := &domain.EntryPage{
		Entries:   make([]domain.Entry, 0, len(result.Rows)),
		TotalRows: result.TotalRows,
		Page:      criteria.Page,
		PerPage:   criteria.PerPage,
	}
	for _, row := range result.Rows {
		page.Entries = append(page.Entries, formatEntry(set, row, fields.TargetDataView, cc))
	}
	return page, nil
}

// Get returns one entry formatted for the data view.
func (s *EntryService) Get(ctx context.Context, scope domain.EntryScope, rowID string) (*domain.Entry, error) {
	form, cc, err := s.load(ctx, scope)
	if err != nil {
		return nil, err
	}

	sub, err := s.indexes.GetIndex(cc.ContentID).Get(ctx, rowID)
	if err != nil {
		return nil, fmt.Errorf("entry %s of %s: %w", rowID, cc.ContentID, err)
	}

	entry := formatEntry(s.registry.BuildAll(form.Fields), *sub, fields.TargetDataView, cc)
	return &entry, nil
}

// Delete removes one entry. Returns domain.ErrNotFound if it does not exist.
func (s *EntryService) Delete(ctx context.Context, scope domain.EntryScope, rowID string) error {
	_, cc, err := s.load(ctx, scope)
	if err != nil {
		return err
	}

	deleted, err := s.indexes.GetIndex(cc.ContentID).Delete(ctx, rowID)
	if err != nil {
		return fmt.Errorf("delete entry %s of %s: %w", rowID, cc.ContentID, err)
	}
	if !deleted {
		return fmt.Errorf("entry %s of %s: %w", rowID, cc.ContentID, domain.ErrNotFound)
	}
	logger.Debug("deleted entry %s of %s", rowID, cc.ContentID)
	return nil
}

// ExportCSV writes every entry, oldest first, using each field's CSV
// formatting. The header row is the row id, the creation time and one
// column per value field labelled with its label or name.
func (s *EntryService) ExportCSV(ctx context.Context, scope domain.EntryScope, w io.Writer) error {
	form, cc, err := s.load(ctx, scope)
	if err != nil {
		return err
	}

	idx := s.indexes.GetIndex(cc.ContentID)
	set := s.registry.BuildAll(form.Fields)
	columns := set.ValueFields()

	out := csv.NewWriter(w)
	header := []string{CSVHeaderRowID, CSVHeaderCreated}
	for _, f := range columns {
		header = append(header, fields.LabelOrName(f))
	}
	if err := out.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	criteria := domain.SearchCriteria{SortField: domain.SortCreated, PerPage: domain.MaxPerPage}
	written := 0
	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		criteria.Page = page
		result, err := idx.Search(ctx, criteria)
		if err != nil {
			return fmt.Errorf("search entries of %s: %w", cc.ContentID, err)
		}

		for _, row := range result.Rows {
			entry := formatEntry(set, row, fields.TargetCSVExport, cc)
			record := []string{entry.RowID, entry.CreatedAt.UTC().Format(time.RFC3339)}
			for _, v := range entry.Values {
				record = append(record, v.Value)
			}
			if err := out.Write(record); err != nil {
				return fmt.Errorf("write csv row %s: %w", row.RowID, err)
			}
		}
		written += len(result.Rows)

		if len(result.Rows) == 0 || written >= result.TotalRows {
			break
		}
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	logger.Debug("exported %d entries of %s", written, cc.ContentID)
	return nil
}

// load resolves the form of scope and the content context its entries
// are formatted under.
func (s *EntryService) load(ctx context.Context, scope domain.EntryScope) (*domain.Form, domain.ContentContext, error) {
	form, err := s.forms.Get(ctx, scope.FormID)
	if err != nil {
		return nil, domain.ContentContext{}, fmt.Errorf("load form %s: %w", scope.FormID, err)
	}
	scope.FormID = form.ID
	return form, domain.ContentContext{ContentID: scope.IndexID()}, nil
}

// formatEntry renders a stored submission against the form's current
// fields. Fields missing from the submission, unbound, or omitted by
// their formatter render as empty strings.
func formatEntry(set fields.Set, sub domain.Submission, target fields.Target, cc domain.ContentContext) domain.Entry {
	entry := domain.Entry{
		RowID:     sub.RowID,
		CreatedAt: sub.CreatedAt,
		Values:    []domain.EntryValue{},
	}
	for _, f := range set.ValueFields() {
		ev := domain.EntryValue{FieldID: f.ID(), Label: fields.LabelOrName(f)}
		if snap, ok := sub.Field(f.ID()); ok {
			if raw, bound := snap.Value(); bound {
				if formatted, keep := fields.FormatValue(f, target, raw, cc, sub.RowID); keep {
					ev.Value = formatted
				}
			}
		}
		entry.Values = append(entry.Values, ev)
	}
	return entry
}
