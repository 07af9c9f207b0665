package fields

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/logger"
	"github.com/custodia-labs/formflow/internal/validation"
)

// DateLayout is the format date fields are posted and stored in.
const DateLayout = "2006-01-02"

// TextField is a free-text value field (single or multi-line).
type TextField struct {
	valueBase
}

// NewTextField creates a text field from its definition.
func NewTextField(def domain.FieldDefinition) *TextField {
	return &TextField{valueBase: newValueBase(def)}
}

func (f *TextField) ValidateSubmittedValue(_ context.Context, _ []Field, _ domain.ContentContext) bool {
	return f.satisfiesRequired()
}

// EmailField holds an email address and supplies it as a receipt recipient.
type EmailField struct {
	valueBase
}

// NewEmailField creates an email field from its definition.
func NewEmailField(def domain.FieldDefinition) *EmailField {
	return &EmailField{valueBase: newValueBase(def)}
}

func (f *EmailField) ValidateSubmittedValue(_ context.Context, _ []Field, _ domain.ContentContext) bool {
	value, _ := f.SubmittedValue()
	if strings.TrimSpace(value) == "" {
		return f.satisfiesRequired()
	}
	return validation.IsEmail(value)
}

func (f *EmailField) EmailAddresses() []string {
	value, _ := f.SubmittedValue()
	if !validation.IsEmail(value) {
		return nil
	}
	return []string{strings.TrimSpace(value)}
}

// NumberField holds a decimal number.
type NumberField struct {
	valueBase
}

// NewNumberField creates a number field from its definition.
func NewNumberField(def domain.FieldDefinition) *NumberField {
	return &NumberField{valueBase: newValueBase(def)}
}

func (f *NumberField) ValidateSubmittedValue(_ context.Context, _ []Field, _ domain.ContentContext) bool {
	value, _ := f.SubmittedValue()
	value = strings.TrimSpace(value)
	if value == "" {
		return f.satisfiesRequired()
	}
	_, err := strconv.ParseFloat(value, 64)
	return err == nil
}

// DateField holds a calendar date in DateLayout.
type DateField struct {
	valueBase
}

// NewDateField creates a date field from its definition.
func NewDateField(def domain.FieldDefinition) *DateField {
	return &DateField{valueBase: newValueBase(def)}
}

func (f *DateField) ValidateSubmittedValue(_ context.Context, _ []Field, _ domain.ContentContext) bool {
	value, _ := f.SubmittedValue()
	value = strings.TrimSpace(value)
	if value == "" {
		return f.satisfiesRequired()
	}
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

// CheckboxField is a single on/off switch.
type CheckboxField struct {
	valueBase
}

// NewCheckboxField creates a checkbox from its definition.
func NewCheckboxField(def domain.FieldDefinition) *CheckboxField {
	return &CheckboxField{valueBase: newValueBase(def)}
}

// Selected reports whether the checkbox is checked by default.
func (f *CheckboxField) Selected() bool {
	return isTruthy(f.def.Setting(domain.SettingSelected))
}

// Checked reports whether the submission checked the box.
func (f *CheckboxField) Checked() bool {
	value, _ := f.SubmittedValue()
	return isTruthy(value)
}

func (f *CheckboxField) ValidateSubmittedValue(_ context.Context, _ []Field, _ domain.ContentContext) bool {
	return !f.def.Required || f.Checked()
}

// isTruthy accepts the values browsers and clients post for a checked box.
func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "on", "yes", "1":
		return true
	default:
		return false
	}
}

// ConfirmationField must repeat the value of another field, such as a
// second entry of an email address.
type ConfirmationField struct {
	valueBase
}

// NewConfirmationField creates a confirmation field from its definition.
func NewConfirmationField(def domain.FieldDefinition) *ConfirmationField {
	return &ConfirmationField{valueBase: newValueBase(def)}
}

// Confirms returns the id of the field this one must match.
func (f *ConfirmationField) Confirms() string {
	return f.def.Setting(domain.SettingConfirms)
}

func (f *ConfirmationField) ValidateSubmittedValue(_ context.Context, all []Field, _ domain.ContentContext) bool {
	if !f.satisfiesRequired() {
		return false
	}
	target := f.Confirms()
	if target == "" {
		logger.Warn("confirmation field %q has no %q setting; skipping match check", f.ID(), domain.SettingConfirms)
		return true
	}
	other, ok := Set(all).Lookup(target)
	if !ok {
		logger.Warn("confirmation field %q confirms unknown field %q", f.ID(), target)
		return true
	}
	vf, ok := other.(ValueField)
	if !ok {
		logger.Warn("confirmation field %q confirms %q which holds no value", f.ID(), target)
		return true
	}
	mine, _ := f.SubmittedValue()
	theirs, _ := vf.SubmittedValue()
	return mine == theirs
}

// HeadingField is layout only: it has no value and never validates.
type HeadingField struct {
	base
}

// NewHeadingField creates a heading from its definition.
func NewHeadingField(def domain.FieldDefinition) *HeadingField {
	return &HeadingField{base: base{def: def}}
}
