package driving

import (
	"context"
	"io"

	"github.com/custodia-labs/formflow/internal/core/domain"
)

// EntryService reads and manages stored submissions.
// Entries are formatted with the fields of scope.FormID and read from the
// index of scope.IndexID().
type EntryService interface {
	// List returns a page of entries formatted for the data view.
	List(ctx context.Context, scope domain.EntryScope, criteria domain.SearchCriteria) (*domain.EntryPage, error)

	// Get returns one formatted entry.
	Get(ctx context.Context, scope domain.EntryScope, rowID string) (*domain.Entry, error)

	// Delete removes one entry.
	Delete(ctx context.Context, scope domain.EntryScope, rowID string) error

	// ExportCSV writes all entries as CSV.
	ExportCSV(ctx context.Context, scope domain.EntryScope, w io.Writer) error
}
