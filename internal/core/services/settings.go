package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/ports/driven"
	"github.com/custodia-labs/formflow/internal/core/ports/driving"
	"github.com/custodia-labs/formflow/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyIndexType        = "index.type"
	KeyIndexDataDir     = "index.data_dir"
	KeyReCaptchaSiteKey = "recaptcha.site_key"
	KeyReCaptchaSecret  = "recaptcha.secret_key"
	KeyReCaptchaTimeout = "recaptcha.timeout_seconds"
	KeyMailChimpAPIKey  = "mailchimp.api_key"
)

// EnvPrefix prefixes environment variables overriding config keys.
const EnvPrefix = "FORMFLOW_"

// EnvVar returns the environment variable overriding a config key,
// e.g. "recaptcha.secret_key" -> "FORMFLOW_RECAPTCHA_SECRET_KEY".
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// SettingsService manages application settings.
// Environment variables override stored values when reading; setters
// only ever persist what they are given, so secrets supplied through the
// environment never end up in the config file.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service reading overrides
// from the process environment.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings with environment overrides applied.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Index: domain.IndexSettings{
			Type:    s.getString(KeyIndexType, defaults.Index.Type),
			DataDir: s.getString(KeyIndexDataDir, defaults.Index.DataDir),
		},
		ReCaptcha: domain.ReCaptchaSettings{
			SiteKey:   s.getString(KeyReCaptchaSiteKey, ""),
			SecretKey: s.getString(KeyReCaptchaSecret, ""),
			Timeout:   s.getSeconds(KeyReCaptchaTimeout, defaults.ReCaptcha.Timeout),
		},
		MailChimp: domain.MailChimpSettings{
			APIKey: s.getString(KeyMailChimpAPIKey, ""),
		},
	}

	return settings, nil
}

// Save persists application settings. Empty credentials are not written,
// so saving never erases a configured key.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(KeyIndexType, settings.Index.Type); err != nil {
		return fmt.Errorf("save index type: %w", err)
	}
	if err := s.configStore.Set(KeyIndexDataDir, settings.Index.DataDir); err != nil {
		return fmt.Errorf("save index data_dir: %w", err)
	}

	if settings.ReCaptcha.SiteKey != "" {
		if err := s.configStore.Set(KeyReCaptchaSiteKey, settings.ReCaptcha.SiteKey); err != nil {
			return fmt.Errorf("save recaptcha site_key: %w", err)
		}
	}
	if settings.ReCaptcha.SecretKey != "" {
		if err := s.configStore.Set(KeyReCaptchaSecret, settings.ReCaptcha.SecretKey); err != nil {
			return fmt.Errorf("save recaptcha secret_key: %w", err)
		}
	}
	if settings.ReCaptcha.Timeout > 0 {
		if err := s.configStore.Set(KeyReCaptchaTimeout, int(settings.ReCaptcha.Timeout/time.Second)); err != nil {
			return fmt.Errorf("save recaptcha timeout: %w", err)
		}
	}

	if settings.MailChimp.APIKey != "" {
		if err := s.configStore.Set(KeyMailChimpAPIKey, settings.MailChimp.APIKey); err != nil {
			return fmt.Errorf("save mailchimp api_key: %w", err)
		}
	}

	return nil
}

// SetIndexType selects the index implementation. An empty dataDir keeps
// the stored one.
func (s *SettingsService) SetIndexType(indexType, dataDir string) error {
	indexType = strings.TrimSpace(indexType)
	if indexType == "" {
		return fmt.Errorf("index type is required: %w", domain.ErrInvalidInput)
	}

	if err := s.configStore.Set(KeyIndexType, indexType); err != nil {
		return fmt.Errorf("save index type: %w", err)
	}
	if dataDir != "" {
		if err := s.configStore.Set(KeyIndexDataDir, dataDir); err != nil {
			return fmt.Errorf("save index data_dir: %w", err)
		}
	}
	return nil
}

// SetReCaptchaKeys configures challenge verification. Both keys are required.
func (s *SettingsService) SetReCaptchaKeys(siteKey, secretKey string) error {
	siteKey, secretKey = strings.TrimSpace(siteKey), strings.TrimSpace(secretKey)
	if siteKey == "" || secretKey == "" {
		return fmt.Errorf("recaptcha site and secret keys are required: %w", domain.ErrMissingConfiguration)
	}

	if err := s.configStore.Set(KeyReCaptchaSiteKey, siteKey); err != nil {
		return fmt.Errorf("save recaptcha site_key: %w", err)
	}
	if err := s.configStore.Set(KeyReCaptchaSecret, secretKey); err != nil {
		return fmt.Errorf("save recaptcha secret_key: %w", err)
	}
	return nil
}

// SetMailChimpAPIKey configures newsletter subscription. The key must
// carry its data centre suffix ("<key>-<dc>").
func (s *SettingsService) SetMailChimpAPIKey(apiKey string) error {
	apiKey = strings.TrimSpace(apiKey)
	parts := strings.Split(apiKey, "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("mailchimp api key must look like <key>-<dc>: %w", domain.ErrInvalidAPIKey)
	}

	if err := s.configStore.Set(KeyMailChimpAPIKey, apiKey); err != nil {
		return fmt.Errorf("save mailchimp api_key: %w", err)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// getString resolves a key: environment, then stored value, then default.
func (s *SettingsService) getString(key, defaultVal string) string {
	if v, ok := s.lookupEnv(EnvVar(key)); ok && v != "" {
		return v
	}
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return defaultVal
}

// getSeconds resolves a whole number of seconds. Non-positive or
// unparsable values fall back to the default.
func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if v, ok := s.lookupEnv(EnvVar(key)); ok && v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
		logger.Warn("ignoring %s=%q: expected a positive number of seconds", EnvVar(key), v)
	}
	if n := s.configStore.GetInt(key); n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}
