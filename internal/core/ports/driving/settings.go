package driving

import "github.com/custodia-labs/formflow/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings with environment overrides applied.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetIndexType selects the index implementation.
	SetIndexType(indexType, dataDir string) error

	// SetReCaptchaKeys configures challenge verification.
	SetReCaptchaKeys(siteKey, secretKey string) error

	// SetMailChimpAPIKey configures newsletter subscription.
	SetMailChimpAPIKey(apiKey string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
