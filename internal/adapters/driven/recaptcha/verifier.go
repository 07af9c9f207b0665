package recaptcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/formflow/internal/core/ports/driven"
	"github.com/custodia-labs/formflow/internal/logger"
)

// DefaultEndpoint is Google's verification URL.
const DefaultEndpoint = "https://www.google.com/recaptcha/api/siteverify"

// DefaultTimeout bounds a single verification round trip.
const DefaultTimeout = 10 * time.Second

// Ensure Verifier implements the interface.
var _ driven.ChallengeVerifier = (*Verifier)(nil)

// Verifier calls the siteverify endpoint.
type Verifier struct {
	endpoint string
	client   *http.Client
	limiter  *RateLimiter
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithEndpoint overrides the verification URL.
func WithEndpoint(endpoint string) Option {
	return func(v *Verifier) { v.endpoint = endpoint }
}

// WithHTTPClient replaces the HTTP client. Its Timeout bounds each call.
func WithHTTPClient(client *http.Client) Option {
	return func(v *Verifier) { v.client = client }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(v *Verifier) {
		if d > 0 {
			v.client.Timeout = d
		}
	}
}

// WithRateLimiter replaces the request limiter.
func WithRateLimiter(l *RateLimiter) Option {
	return func(v *Verifier) { v.limiter = l }
}

// NewVerifier creates a verifier with Google's endpoint and default limits.
func NewVerifier(opts ...Option) *Verifier {
	v := &Verifier{
		endpoint: DefaultEndpoint,
		client:   &http.Client{Timeout: DefaultTimeout},
		limiter:  NewRateLimiter(DefaultRequestsPerSecond, DefaultBurstSize),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// siteVerifyResponse is the JSON body returned by siteverify.
type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify asks siteverify whether response is a valid solution.
// An error means the service could not give an answer.
func (v *Verifier) Verify(ctx context.Context, secret, response, remoteIP string) (bool, error) {
	if err := v.limiter.Wait(ctx); err != nil {
		return false, err
	}

	query := url.Values{}
	query.Set("secret", secret)
	query.Set("response", response)
	if remoteIP != "" {
		query.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return false, fmt.Errorf("recaptcha: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("recaptcha: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusTooManyRequests {
			v.limiter.Backoff(retryAfter(resp.Header.Get("Retry-After")))
		}
		return false, &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var body siteVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("recaptcha: decoding response: %w", err)
	}

	if !body.Success {
		logger.Debug("recaptcha rejected response: %s", strings.Join(body.ErrorCodes, ", "))
	}
	return body.Success, nil
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
