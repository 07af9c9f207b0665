package driven

import (
	"context"

	"github.com/custodia-labs/formflow/internal/core/domain"
)

// FormStore provides form definitions.
// Returned forms are shared and must be treated as read-only.
type FormStore interface {
	// Get retrieves a form by id.
	// Returns domain.ErrNotFound if the form does not exist.
	Get(ctx context.Context, id string) (*domain.Form, error)

	// List returns all forms ordered by id.
	List(ctx context.Context) ([]domain.Form, error)

	// Save stores or replaces a form definition.
	Save(ctx context.Context, form domain.Form) error
}
