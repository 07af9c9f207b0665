package domain

import (
	"regexp"
	"strings"
)

// Field type discriminators. These strings are part of the front-end
// contract and must never change.
const (
	FieldTypeTextBox         = "core.textbox"
	FieldTypeTextArea        = "core.textarea"
	FieldTypeEmail           = "core.email"
	FieldTypeNumber          = "core.number"
	FieldTypeDate            = "core.date"
	FieldTypeCheckbox        = "core.checkbox"
	FieldTypeDropdown        = "core.dropdown"
	FieldTypeRadioButtonList = "core.radiobuttonlist"
	FieldTypeCheckboxGroup   = "core.checkboxgroup"
	FieldTypeConfirmation    = "core.confirmation"
	FieldTypeMemberInfo      = "core.memberinfo"
	FieldTypeReCaptcha       = "core.recaptcha"
	FieldTypeNewsletter      = "core.newsletter"
	FieldTypeHeading         = "core.heading"
)

// Field setting keys read from FieldDefinition.Settings.
const (
	// SettingConfirms names the field id a confirmation field must match.
	SettingConfirms = "confirms"

	// SettingListID is the newsletter list a subscription field targets.
	SettingListID = "listId"

	// SettingSelected marks a checkbox as checked by default.
	SettingSelected = "selected"
)

// FieldValue is a single selectable option of a choice-style field.
// Order within the owning field is display order.
type FieldValue struct {
	// Value is the option value posted back on submission.
	Value string `json:"value" yaml:"value" validate:"required"`

	// Selected marks the option as part of the default selection.
	Selected bool `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// FieldDefinition is the immutable declaration of one form field.
// Definitions are loaded once and shared read-only across submissions;
// per-submission state lives on runtime fields built from them.
type FieldDefinition struct {
	// ID uniquely identifies the field within its form.
	ID string `json:"id" yaml:"id" validate:"required"`

	// Type is the stable discriminator used to re-hydrate the variant.
	Type string `json:"type" yaml:"type" validate:"required"`

	// Name is the human-facing field name.
	Name string `json:"name" yaml:"name"`

	// FormSafeName is the key used in posted data. Derived from Name when empty.
	FormSafeName string `json:"formSafeName,omitempty" yaml:"formSafeName,omitempty"`

	// Label is the optional display label; Name is used when empty.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Required marks a value field as mandatory.
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// ErrorMessage is shown when the field is invalid.
	ErrorMessage string `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`

	// FieldValues is the ordered option set of choice-style fields.
	FieldValues []FieldValue `json:"fieldValues,omitempty" yaml:"fieldValues,omitempty" validate:"dive"`

	// IsMultiSelectEnabled allows several options to be submitted.
	IsMultiSelectEnabled bool `json:"isMultiSelectEnabled,omitempty" yaml:"isMultiSelectEnabled,omitempty"`

	// DefaultText is the placeholder shown when nothing is selected.
	DefaultText string `json:"defaultText,omitempty" yaml:"defaultText,omitempty"`

	// Settings holds type-specific configuration.
	Settings map[string]string `json:"settings,omitempty" yaml:"settings,omitempty"`
}

var reNotFormSafe = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// SafeName returns FormSafeName, deriving it from Name when unset.
func (d FieldDefinition) SafeName() string {
	if d.FormSafeName != "" {
		return d.FormSafeName
	}
	return FormSafeName(d.Name)
}

// Setting returns a type-specific setting or the empty string.
func (d FieldDefinition) Setting(key string) string {
	if d.Settings == nil {
		return ""
	}
	return d.Settings[key]
}

// FormSafeName converts a display name into a posted-data key:
// non-alphanumeric runs collapse to "_" and the ends are trimmed.
func FormSafeName(name string) string {
	safe := reNotFormSafe.ReplaceAllString(strings.TrimSpace(name), "_")
	return strings.Trim(safe, "_")
}
