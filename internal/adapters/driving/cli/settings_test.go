package cli

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/services"
)

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(settingsCmd.Commands()))
	for _, cmd := range settingsCmd.Commands() {
		names = append(names, cmd.Name())
	}

	assert.ElementsMatch(t, []string{"show", "recaptcha", "mailchimp", "index"}, names)
}

func TestSettingsShowCmd_Defaults(t *testing.T) {
	t.Setenv("FORMFLOW_RECAPTCHA_SITE_KEY", "")
	t.Setenv("FORMFLOW_RECAPTCHA_SECRET_KEY", "")
	t.Setenv("FORMFLOW_MAILCHIMP_API_KEY", "")
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Type: memory")
	assert.Contains(t, out, "Site Key: (not set)")
	assert.Contains(t, out, "Timeout: 10s")
	assert.Contains(t, out, "Status: not configured")
}

func TestSettingsCmd_DefaultsToShow(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
}

func TestSettingsShowCmd_ServiceNotConfigured(t *testing.T) {
	_, err := execute(t, "", "settings", "show")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestSettingsReCaptchaCmd(t *testing.T) {
	t.Setenv("FORMFLOW_RECAPTCHA_SECRET_KEY", "")
	env, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "site-key-123\nsecret-key-456789\n", "settings", "recaptcha")
	require.NoError(t, err)
	assert.Contains(t, out, "reCAPTCHA keys saved.")
	assert.Equal(t, "site-key-123", env.config.GetString(services.KeyReCaptchaSiteKey))
	assert.Equal(t, "secret-key-456789", env.config.GetString(services.KeyReCaptchaSecret))

	out, err = execute(t, "", "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Secret Key: secr...6789")
	assert.NotContains(t, out, "secret-key-456789")
}

func TestSettingsReCaptchaCmd_MissingSecret(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "site-key\n\n", "settings", "recaptcha")

	assert.ErrorIs(t, err, domain.ErrMissingConfiguration)
}

func TestSettingsMailChimpCmd(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "0123456789abcdef-us6\n", "settings", "mailchimp")

	require.NoError(t, err)
	assert.Contains(t, out, "MailChimp API key saved: 0123...-us6")
	assert.Equal(t, "0123456789abcdef-us6", env.config.GetString(services.KeyMailChimpAPIKey))
}

func TestSettingsMailChimpCmd_InvalidKey(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "no-data-centre-here\n", "settings", "mailchimp")
	assert.ErrorIs(t, err, domain.ErrInvalidAPIKey)

	_, err = execute(t, "\n", "settings", "mailchimp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestSettingsIndexCmd(t *testing.T) {
	env, cleanup := setupTestServices()
	defer cleanup()
	dir := t.TempDir()

	out, err := execute(t, "", "settings", "index", "sqlite", "--data-dir", dir)

	require.NoError(t, err)
	assert.Contains(t, out, "Index set to: sqlite")
	assert.Equal(t, domain.IndexTypeSQLite, env.config.GetString(services.KeyIndexType))
	assert.Equal(t, dir, env.config.GetString(services.KeyIndexDataDir))
}

func TestSettingsIndexCmd_RequiresType(t *testing.T) {
	_, err := execute(t, "", "settings", "index")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestReadPassword_FallsBackToLine(t *testing.T) {
	rootCmd.SetIn(strings.NewReader("  hunter2  \n"))
	defer rootCmd.SetIn(nil)

	got := readPassword(rootCmd, bufio.NewReader(rootCmd.InOrStdin()))

	assert.Equal(t, "hunter2", got)
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Short key", "abc123", "****"},
		{"Exactly 8 chars", "12345678", "****"},
		{"Long key", "0123456789abcdef-us6", "0123...-us6"},
		{"Empty key", "", "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, maskAPIKey(tt.input))
		})
	}
}

func TestConfiguredStatus(t *testing.T) {
	assert.Equal(t, "configured", configuredStatus(true))
	assert.Equal(t, "not configured", configuredStatus(false))
	assert.Equal(t, "(not set)", valueOrUnset(""))
	assert.Equal(t, "(not set)", maskedOrUnset(""))
	assert.Equal(t, "site", valueOrUnset("site"))
}
