// Package fields implements the runtime form field variants.
//
// A runtime field is built fresh from a shared domain.FieldDefinition for
// every submission and carries only that submission's bound state, so a
// definition can be shared by any number of concurrent submissions.
// Behaviour beyond identity is exposed through small capability
// interfaces which callers query with a type assertion.
package fields

import (
	"context"
	"strings"

	"github.com/custodia-labs/formflow/internal/core/domain"
)

// Field is the identity every runtime field exposes.
type Field interface {
	ID() string
	Type() string
	Name() string
	FormSafeName() string

	// CanBeAddedToForm is false when required configuration is missing.
	CanBeAddedToForm() bool
}

// ValueField is a field that participates in submission.
type ValueField interface {
	Field

	// SubmittedValue returns the bound value and whether one was bound.
	SubmittedValue() (string, bool)

	// HasSubmittedValue is true when a non-empty value was bound.
	HasSubmittedValue() bool

	Invalid() bool
}

// Bindable fields collect their value from posted data or request context.
type Bindable interface {
	CollectSubmittedValue(raw map[string]string, cc domain.ContentContext)
}

// Validatable fields check their bound value once every field is bound.
type Validatable interface {
	ValidateSubmittedValue(ctx context.Context, all []Field, cc domain.ContentContext) bool
}

// Invalidatable fields record the outcome of validation.
type Invalidatable interface {
	Invalid() bool
	SetInvalid(invalid bool)
	ErrorMessage() string
}

// Formattable fields render a raw value for each output target.
// A false result means the value should be omitted.
type Formattable interface {
	FormatValueForEmail(value string, cc domain.ContentContext, rowID string) (string, bool)
	FormatValueForDataView(value string, cc domain.ContentContext, rowID string) (string, bool)
	FormatValueForCSVExport(value string, cc domain.ContentContext, rowID string) (string, bool)
	FormatValueForFrontend(value string, cc domain.ContentContext, rowID string) (string, bool)
}

// EmailSource fields can supply receipt recipients.
type EmailSource interface {
	// EmailAddresses returns nil when no valid address can be extracted.
	EmailAddresses() []string
}

// OptionSet fields choose from a fixed, ordered list of values.
type OptionSet interface {
	FieldValues() []domain.FieldValue
	IsMultiSelectEnabled() bool
	SubmittedValues() []string
	DefaultText() string
}

// DefaultSelectable fields are on/off switches with a default state.
type DefaultSelectable interface {
	Selected() bool
}

// Labeled fields carry a display label separate from their name.
type Labeled interface {
	Label() string
}

// PostSubmitHook fields run a side effect after a valid submission is stored.
type PostSubmitHook interface {
	AfterSubmit(ctx context.Context, all []Field, cc domain.ContentContext) error
}

// base carries the identity shared by every variant.
type base struct {
	def domain.FieldDefinition
}

func (b *base) ID() string                         { return b.def.ID }
func (b *base) Type() string                       { return b.def.Type }
func (b *base) Name() string                       { return b.def.Name }
func (b *base) FormSafeName() string               { return b.def.SafeName() }
func (b *base) CanBeAddedToForm() bool             { return true }
func (b *base) Definition() domain.FieldDefinition { return b.def }

// Label returns the declared label.
func (b *base) Label() string { return b.def.Label }

// ErrorMessage returns the message shown when the field is invalid.
func (b *base) ErrorMessage() string { return b.def.ErrorMessage }

// valueBase holds the per-submission state of a value field.
// The zero value is unbound and valid.
type valueBase struct {
	base
	value   *string
	invalid bool
}

func newValueBase(def domain.FieldDefinition) valueBase {
	return valueBase{base: base{def: def}}
}

func (v *valueBase) SubmittedValue() (string, bool) {
	if v.value == nil {
		return "", false
	}
	return *v.value, true
}

func (v *valueBase) HasSubmittedValue() bool {
	return v.value != nil && *v.value != ""
}

func (v *valueBase) Invalid() bool           { return v.invalid }
func (v *valueBase) SetInvalid(invalid bool) { v.invalid = invalid }

func (v *valueBase) setValue(value string) {
	v.value = &value
}

// CollectSubmittedValue reads the value posted under the form safe name.
// An absent key leaves the field unbound.
func (v *valueBase) CollectSubmittedValue(raw map[string]string, _ domain.ContentContext) {
	if value, ok := raw[v.FormSafeName()]; ok {
		v.setValue(value)
	}
}

func (v *valueBase) FormatValueForEmail(value string, _ domain.ContentContext, _ string) (string, bool) {
	return value, true
}

func (v *valueBase) FormatValueForDataView(value string, _ domain.ContentContext, _ string) (string, bool) {
	return value, true
}

func (v *valueBase) FormatValueForCSVExport(value string, _ domain.ContentContext, _ string) (string, bool) {
	return value, true
}

func (v *valueBase) FormatValueForFrontend(value string, _ domain.ContentContext, _ string) (string, bool) {
	return value, true
}

// satisfiesRequired is false only for a required field with a blank value.
func (v *valueBase) satisfiesRequired() bool {
	if !v.def.Required {
		return true
	}
	value, _ := v.SubmittedValue()
	return strings.TrimSpace(value) != ""
}

// Snapshot captures the field's bound state for the index.
func (v *valueBase) Snapshot() domain.FieldSnapshot {
	snap := domain.FieldSnapshot{
		FieldID:      v.ID(),
		Type:         v.Type(),
		Name:         v.Name(),
		FormSafeName: v.FormSafeName(),
		Invalid:      v.invalid,
	}
	if v.value != nil {
		value := *v.value
		snap.SubmittedValue = &value
	}
	return snap
}
