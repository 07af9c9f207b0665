package mailchimp

import (
	"fmt"

	"github.com/custodia-labs/formflow/internal/core/domain"
)

// APIError is a non-2xx reply from the Marketing API.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Title == "" {
		return fmt.Sprintf("mailchimp: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("mailchimp: status %d: %s: %s", e.StatusCode, e.Title, e.Detail)
}

// Unwrap reports every API failure as a failed subscription.
func (e *APIError) Unwrap() error {
	return domain.ErrSubscriptionFailed
}
