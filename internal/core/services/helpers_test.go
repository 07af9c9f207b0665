package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/formflow/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/fields"
	"github.com/custodia-labs/formflow/internal/core/ports/driven"
	"github.com/custodia-labs/formflow/internal/logger"
)

// syncBuffer is a log sink safe for concurrent writers and readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// captureLog redirects logger output for the duration of the test.
func captureLog(t *testing.T) *syncBuffer {
	t.Helper()
	buf := &syncBuffer{}
	logger.SetOutput(buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return buf
}

// stubVerifier answers every verification the same way.
type stubVerifier struct {
	mu     sync.Mutex
	ok     bool
	err    error
	calls  int
	before func()
}

func (v *stubVerifier) Verify(_ context.Context, _, _, _ string) (bool, error) {
	v.mu.Lock()
	v.calls++
	before := v.before
	v.mu.Unlock()
	if before != nil {
		before()
	}
	return v.ok, v.err
}

// stubSubscriber records subscriptions.
type stubSubscriber struct {
	mu   sync.Mutex
	subs []driven.Subscription
	err  error
}

func (s *stubSubscriber) Subscribe(_ context.Context, sub driven.Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
	return s.err
}

func (s *stubSubscriber) calls() []driven.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]driven.Subscription(nil), s.subs...)
}

// failingIndex wraps an index and fails every Add.
type failingIndex struct {
	driven.Index
}

func (failingIndex) Add(context.Context, []domain.FieldSnapshot) (string, error) {
	return "", errors.New("disk full")
}

// contactForm exercises most field types, one validation and one action.
func contactForm() domain.Form {
	return domain.Form{
		ID:   "contact",
		Name: "Contact",
		Fields: []domain.FieldDefinition{
			{ID: "f-name", Type: domain.FieldTypeTextBox, Name: "Name", Label: "Your name", Required: true},
			{ID: "f-email", Type: domain.FieldTypeEmail, Name: "Email"},
			{ID: "f-confirm", Type: domain.FieldTypeConfirmation, Name: "Confirm email",
				Settings: map[string]string{domain.SettingConfirms: "f-email"}},
			{ID: "f-topics", Type: domain.FieldTypeCheckboxGroup, Name: "Topics",
				FieldValues: []domain.FieldValue{{Value: "Sales"}, {Value: "Support"}}},
			{ID: "f-heading", Type: domain.FieldTypeHeading, Name: "Thanks"},
			{ID: "f-news", Type: domain.FieldTypeNewsletter, Name: "Newsletter",
				Settings: map[string]string{domain.SettingListID: "list-1", "merge.fname": "f-name"}},
		},
		Validations: []domain.Validation{{
			Rules:        []domain.Rule{{FieldID: "f-name", Condition: &domain.Condition{Operator: domain.OperatorEquals, Operand: "spam"}}},
			ErrorMessage: "No spam please",
		}},
		Actions: []domain.Action{{
			Rules:   []domain.Rule{{FieldID: "f-topics", Condition: &domain.Condition{Operator: domain.OperatorContains, Operand: "support"}}},
			FieldID: "f-email",
			Task:    domain.TaskShowField,
		}},
	}
}

// captchaForm guards a single text field with reCAPTCHA.
func captchaForm() domain.Form {
	return domain.Form{
		ID: "guarded",
		Fields: []domain.FieldDefinition{
			{ID: "f-comment", Type: domain.FieldTypeTextArea, Name: "Comment"},
			{ID: "f-captcha", Type: domain.FieldTypeReCaptcha, Name: "reCAPTCHA"},
		},
	}
}

// testEnv wires the services against in-memory adapters.
type testEnv struct {
	forms      *memory.FormStore
	indexes    *memory.IndexStore
	factory    *IndexFactory
	registry   *fields.Registry
	verifier   *stubVerifier
	subscriber *stubSubscriber
	submit     *SubmissionService
	entries    *EntryService
	formSvc    *FormService
}

func newTestEnv(t *testing.T, forms ...domain.Form) *testEnv {
	t.Helper()
	env := &testEnv{
		forms:      memory.NewFormStore(forms...),
		indexes:    memory.NewIndexStore(),
		verifier:   &stubVerifier{ok: true},
		subscriber: &stubSubscriber{},
	}
	env.factory = NewIndexFactory(domain.IndexTypeMemory, env.indexes.Index)
	env.registry = fields.NewRegistry(fields.Env{
		ReCaptcha:  domain.ReCaptchaSettings{SiteKey: "site", SecretKey: "secret"},
		Verifier:   env.verifier,
		Subscriber: env.subscriber,
	})
	env.submit = NewSubmissionService(env.forms, env.factory, env.registry, nil)
	env.entries = NewEntryService(env.forms, env.factory, env.registry)
	env.formSvc = NewFormService(env.forms, env.registry, nil)
	return env
}

// count returns the number of stored submissions for a form.
func (e *testEnv) count(t *testing.T, formID string) int {
	t.Helper()
	n, err := e.factory.GetIndex(formID).Count(context.Background())
	require.NoError(t, err)
	return n
}

// validContact is posted data that passes every contact form check.
func validContact(name string) map[string]string {
	return map[string]string{
		"Name":          name,
		"Email":         "jane@example.com",
		"Confirm_email": "jane@example.com",
		"Topics":        "Sales,Support",
		"Newsletter":    "on",
	}
}
