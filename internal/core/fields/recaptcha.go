package fields

import (
	"context"
	"strings"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/ports/driven"
	"github.com/custodia-labs/formflow/internal/logger"
)

// ReCaptchaResponseKey is the posted key carrying the challenge response.
const ReCaptchaResponseKey = "g-recaptcha-response"

const reCaptchaName = "reCAPTCHA"

// ReCaptchaField verifies an anti-automation challenge. It has no value of
// its own and is never indexed.
type ReCaptchaField struct {
	base
	settings domain.ReCaptchaSettings
	verifier driven.ChallengeVerifier
	response string
	invalid  bool
}

// NewReCaptchaField creates a challenge field bound to the configured keys.
// verifier may be nil, in which case every response fails validation.
func NewReCaptchaField(def domain.FieldDefinition, settings domain.ReCaptchaSettings, verifier driven.ChallengeVerifier) *ReCaptchaField {
	return &ReCaptchaField{
		base:     base{def: def},
		settings: settings,
		verifier: verifier,
	}
}

func (f *ReCaptchaField) Name() string {
	if f.def.Name != "" {
		return f.def.Name
	}
	return reCaptchaName
}

func (f *ReCaptchaField) FormSafeName() string { return f.Name() }

// CanBeAddedToForm requires both the site key and the secret key.
func (f *ReCaptchaField) CanBeAddedToForm() bool {
	return f.settings.IsConfigured()
}

// SiteKey is the public key the front end renders the widget with.
func (f *ReCaptchaField) SiteKey() string { return f.settings.SiteKey }

func (f *ReCaptchaField) Invalid() bool           { return f.invalid }
func (f *ReCaptchaField) SetInvalid(invalid bool) { f.invalid = invalid }

func (f *ReCaptchaField) CollectSubmittedValue(raw map[string]string, _ domain.ContentContext) {
	response, ok := raw[ReCaptchaResponseKey]
	if !ok {
		return
	}
	if !f.settings.IsConfigured() {
		logger.Warn("reCAPTCHA is not configured; set recaptcha.site_key and recaptcha.secret_key")
		return
	}
	f.response = response
}

// ValidateSubmittedValue fails immediately on a blank response and
// otherwise asks the verifier, bounded by the configured timeout.
func (f *ReCaptchaField) ValidateSubmittedValue(ctx context.Context, _ []Field, cc domain.ContentContext) bool {
	if strings.TrimSpace(f.response) == "" {
		return false
	}
	if f.verifier == nil {
		logger.Warn("reCAPTCHA field %q has no verifier; rejecting response", f.ID())
		return false
	}

	if f.settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.settings.Timeout)
		defer cancel()
	}

	ok, err := f.verifier.Verify(ctx, f.settings.SecretKey, f.response, NormaliseRemoteIP(cc.RemoteIP))
	if err != nil {
		logger.Warn("reCAPTCHA field %q could not verify response: %v", f.ID(), err)
		return false
	}
	return ok
}

// NormaliseRemoteIP maps the IPv6 loopback to its IPv4 form.
func NormaliseRemoteIP(ip string) string {
	if ip == "::1" {
		return "127.0.0.1"
	}
	return ip
}
