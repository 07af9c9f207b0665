package driven

import (
	"context"

	"github.com/custodia-labs/formflow/internal/core/domain"
)

// Index stores the submissions of exactly one form instance.
// Implementations must be safe for concurrent use: several submissions
// of the same form may be added at once.
type Index interface {
	// ContentID returns the form instance this index is bound to.
	ContentID() string

	// Add stores a submission and returns its generated row id.
	Add(ctx context.Context, fields []domain.FieldSnapshot) (string, error)

	// Get retrieves one submission.
	// Returns domain.ErrNotFound if the row does not exist.
	Get(ctx context.Context, rowID string) (*domain.Submission, error)

	// Delete removes one submission. Returns false if it did not exist.
	Delete(ctx context.Context, rowID string) (bool, error)

	// Search returns a page of submissions matching the criteria.
	Search(ctx context.Context, criteria domain.SearchCriteria) (*domain.SearchResult, error)

	// Count returns the number of stored submissions.
	Count(ctx context.Context) (int, error)
}

// IndexBuilder creates the Index for a content id.
type IndexBuilder func(contentID string) (Index, error)

// IndexFactory resolves the configured Index implementation.
// GetIndex never fails: builder errors, nil results and panics are logged
// and the built-in default index is returned instead.
type IndexFactory interface {
	// GetIndex returns an index bound to the content id.
	GetIndex(contentID string) Index

	// Register adds an index builder under a configuration key.
	Register(key string, builder IndexBuilder)

	// SupportedTypes returns all registered index keys.
	SupportedTypes() []string

	// Validate reports whether the configured key is registered.
	// Returns domain.ErrUnsupportedType if it is not.
	Validate() error
}
