package domain

import "time"

// Index type keys understood by the default index factory.
const (
	IndexTypeMemory = "memory"
	IndexTypeSQLite = "sqlite"
)

// DefaultVerificationTimeout bounds external verification calls.
const DefaultVerificationTimeout = 10 * time.Second

// IndexSettings selects the index implementation.
type IndexSettings struct {
	// Type is a registered index key. Empty means the built-in default.
	Type string

	// DataDir is where file-backed indexes keep their data.
	DataDir string
}

// ReCaptchaSettings holds the anti-automation verification keys.
type ReCaptchaSettings struct {
	// SiteKey is the public key rendered into the form.
	SiteKey string

	// SecretKey is the private key used for server-side verification.
	SecretKey string

	// Timeout bounds a single verification call.
	Timeout time.Duration
}

// IsConfigured returns true if both keys are present.
func (r ReCaptchaSettings) IsConfigured() bool {
	return r.SiteKey != "" && r.SecretKey != ""
}

// MailChimpSettings holds newsletter subscription credentials.
type MailChimpSettings struct {
	// APIKey has the form "<key>-<datacenter>".
	APIKey string
}

// IsConfigured returns true if an API key is present.
func (m MailChimpSettings) IsConfigured() bool {
	return m.APIKey != ""
}

// AppSettings holds all settings consumed by the core.
type AppSettings struct {
	Index     IndexSettings
	ReCaptcha ReCaptchaSettings
	MailChimp MailChimpSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Third-party credentials are left unconfigured, which disables the
// fields that depend on them.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Index: IndexSettings{
			Type: IndexTypeMemory,
		},
		ReCaptcha: ReCaptchaSettings{
			Timeout: DefaultVerificationTimeout,
		},
	}
}
