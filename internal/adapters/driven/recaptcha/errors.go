package recaptcha

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrRateLimited indicates the verification endpoint throttled us.
var ErrRateLimited = errors.New("recaptcha: rate limit exceeded")

// APIError is returned when siteverify answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("recaptcha: siteverify returned %s", e.Status)
}

// Is lets errors.Is(err, ErrRateLimited) match 429 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrRateLimited && e.StatusCode == http.StatusTooManyRequests
}
