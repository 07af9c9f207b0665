package driving

import (
	"context"

	"github.com/custodia-labs/formflow/internal/core/domain"
)

// FormService exposes form definitions to front ends.
type FormService interface {
	// Get retrieves a form by id.
	Get(ctx context.Context, formID string) (*domain.Form, error)

	// List returns all forms.
	List(ctx context.Context) ([]domain.Form, error)

	// Import validates and stores a form definition.
	Import(ctx context.Context, form domain.Form) error

	// Render serialises the form's client-side model as JSON.
	Render(ctx context.Context, formID string) ([]byte, error)
}
