package mailchimp

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // MailChimp identifies members by the MD5 of their address
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/ports/driven"
	"github.com/custodia-labs/formflow/internal/logger"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 15 * time.Second

// StatusSubscribed is the member status requested and expected back.
const StatusSubscribed = "subscribed"

// Ensure Client implements the interface.
var _ driven.NewsletterSubscriber = (*Client)(nil)

// Client talks to one MailChimp account.
type Client struct {
	apiKey     string
	dataCenter string
	baseURL    string
	http       *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the data-centre derived API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimSuffix(baseURL, "/") }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.http = client }
}

// NewClient validates the API key and creates a client for its data centre.
// Returns domain.ErrInvalidAPIKey when the key is not "<key>-<dc>".
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	dc, err := DataCenter(apiKey)
	if err != nil {
		return nil, err
	}

	c := &Client{
		apiKey:     apiKey,
		dataCenter: dc,
		baseURL:    fmt.Sprintf("https://%s.api.mailchimp.com/3.0", dc),
		http:       &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// DataCenter extracts the data centre suffix of an API key.
func DataCenter(apiKey string) (string, error) {
	parts := strings.Split(strings.TrimSpace(apiKey), "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("mailchimp: %w", domain.ErrInvalidAPIKey)
	}
	return parts[1], nil
}

// MemberHash is the member id MailChimp derives from an address.
func MemberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email)))) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// memberRequest is the PUT body for a list member.
type memberRequest struct {
	EmailAddress string            `json:"email_address"`
	Status       string            `json:"status"`
	StatusIfNew  string            `json:"status_if_new"`
	MergeFields  map[string]string `json:"merge_fields,omitempty"`
}

// memberResponse holds the fields we check in the reply.
type memberResponse struct {
	EmailAddress string `json:"email_address"`
	Status       string `json:"status"`
	Title        string `json:"title"`
	Detail       string `json:"detail"`
}

// Subscribe upserts the address as a subscribed member of the list.
func (c *Client) Subscribe(ctx context.Context, sub driven.Subscription) error {
	if sub.ListID == "" || strings.TrimSpace(sub.Email) == "" {
		return fmt.Errorf("mailchimp: list id and email are required: %w", domain.ErrInvalidInput)
	}

	body := memberRequest{
		EmailAddress: sub.Email,
		Status:       StatusSubscribed,
		StatusIfNew:  StatusSubscribed,
	}
	if len(sub.MergeFields) > 0 {
		body.MergeFields = make(map[string]string, len(sub.MergeFields))
		for k, v := range sub.MergeFields {
			body.MergeFields[strings.ToUpper(k)] = v
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("mailchimp: encoding member: %w", err)
	}

	endpoint := fmt.Sprintf("%s/lists/%s/members/%s", c.baseURL, url.PathEscape(sub.ListID), MemberHash(sub.Email))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("mailchimp: building request: %w", err)
	}
	req.SetBasicAuth("-", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	logger.Debug("mailchimp: subscribing to list %s (dc %s)", sub.ListID, c.dataCenter)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("mailchimp: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("mailchimp: reading response: %w", err)
	}

	var member memberResponse
	if err := json.Unmarshal(raw, &member); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Detail: "unreadable response"}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Title: member.Title, Detail: member.Detail}
	}

	if !strings.EqualFold(member.Status, StatusSubscribed) || !strings.EqualFold(member.EmailAddress, sub.Email) {
		return fmt.Errorf("mailchimp: member %s is %q: %w", sub.Email, member.Status, domain.ErrSubscriptionFailed)
	}
	return nil
}
