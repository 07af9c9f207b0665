package fields

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/logger"
)

var configuredKeys = domain.ReCaptchaSettings{SiteKey: "site", SecretKey: "secret", Timeout: time.Second}

func newReCaptcha(settings domain.ReCaptchaSettings, v *mockVerifier) *ReCaptchaField {
	return NewReCaptchaField(domain.FieldDefinition{ID: "captcha", Type: domain.FieldTypeReCaptcha}, settings, v)
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return &buf
}

func TestReCaptchaField_Identity(t *testing.T) {
	f := newReCaptcha(configuredKeys, nil)

	assert.Equal(t, "reCAPTCHA", f.Name())
	assert.Equal(t, "reCAPTCHA", f.FormSafeName())
	assert.Equal(t, "site", f.SiteKey())
	_, isValue := any(f).(ValueField)
	assert.False(t, isValue)
}

func TestReCaptchaField_CanBeAddedToForm(t *testing.T) {
	assert.True(t, newReCaptcha(configuredKeys, nil).CanBeAddedToForm())
	assert.False(t, newReCaptcha(domain.ReCaptchaSettings{SiteKey: "site"}, nil).CanBeAddedToForm())
	assert.False(t, newReCaptcha(domain.ReCaptchaSettings{}, nil).CanBeAddedToForm())
}

func TestReCaptchaField_EmptyResponseSkipsVerifier(t *testing.T) {
	for _, response := range []string{"", "   ", "\t\n"} {
		v := &mockVerifier{ok: true}
		f := newReCaptcha(configuredKeys, v)
		f.CollectSubmittedValue(map[string]string{ReCaptchaResponseKey: response}, domain.ContentContext{})

		assert.False(t, f.ValidateSubmittedValue(context.Background(), nil, domain.ContentContext{}))
		assert.Equal(t, 0, v.calls)
	}
}

func TestReCaptchaField_MissingResponseKey(t *testing.T) {
	v := &mockVerifier{ok: true}
	f := newReCaptcha(configuredKeys, v)
	f.CollectSubmittedValue(map[string]string{}, domain.ContentContext{})

	assert.False(t, f.ValidateSubmittedValue(context.Background(), nil, domain.ContentContext{}))
	assert.Equal(t, 0, v.calls)
}

func TestReCaptchaField_Verified(t *testing.T) {
	v := &mockVerifier{ok: true}
	f := newReCaptcha(configuredKeys, v)
	f.CollectSubmittedValue(map[string]string{ReCaptchaResponseKey: "token"}, domain.ContentContext{})

	ok := f.ValidateSubmittedValue(context.Background(), nil, domain.ContentContext{RemoteIP: "::1"})

	assert.True(t, ok)
	assert.Equal(t, 1, v.calls)
	assert.Equal(t, "127.0.0.1", v.lastIP)
}

func TestReCaptchaField_Rejected(t *testing.T) {
	v := &mockVerifier{ok: false}
	f := newReCaptcha(configuredKeys, v)
	f.CollectSubmittedValue(map[string]string{ReCaptchaResponseKey: "token"}, domain.ContentContext{})

	assert.False(t, f.ValidateSubmittedValue(context.Background(), nil, domain.ContentContext{RemoteIP: "10.0.0.1"}))
	assert.Equal(t, "10.0.0.1", v.lastIP)
}

func TestReCaptchaField_VerifierErrorIsLoggedAndFails(t *testing.T) {
	buf := captureLog(t)
	v := &mockVerifier{err: errors.New("connection refused")}
	f := newReCaptcha(configuredKeys, v)
	f.CollectSubmittedValue(map[string]string{ReCaptchaResponseKey: "token"}, domain.ContentContext{})

	assert.False(t, f.ValidateSubmittedValue(context.Background(), nil, domain.ContentContext{}))
	assert.Contains(t, buf.String(), "[WARN]")
	assert.Contains(t, buf.String(), "connection refused")
}

func TestReCaptchaField_UnconfiguredIgnoresResponse(t *testing.T) {
	buf := captureLog(t)
	v := &mockVerifier{ok: true}
	f := newReCaptcha(domain.ReCaptchaSettings{}, v)
	f.CollectSubmittedValue(map[string]string{ReCaptchaResponseKey: "token"}, domain.ContentContext{})

	assert.False(t, f.ValidateSubmittedValue(context.Background(), nil, domain.ContentContext{}))
	assert.Equal(t, 0, v.calls)
	assert.Contains(t, buf.String(), "not configured")
}

func TestNormaliseRemoteIP(t *testing.T) {
	assert.Equal(t, "127.0.0.1", NormaliseRemoteIP("::1"))
	assert.Equal(t, "192.168.1.2", NormaliseRemoteIP("192.168.1.2"))
	assert.Equal(t, "", NormaliseRemoteIP(""))
}
