package driving

import (
	"context"

	"github.com/custodia-labs/formflow/internal/core/domain"
)

// SubmissionService runs posted data through the bind, validate,
// format and index pipeline.
type SubmissionService interface {
	// Submit processes one submission of the form.
	// Invalid submissions are reported in the outcome, not as an error.
	Submit(ctx context.Context, formID string, raw map[string]string, cc domain.ContentContext) (*domain.SubmitOutcome, error)
}
