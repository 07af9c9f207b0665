package fields

import (
	"context"
	"slices"
	"strings"

	"github.com/custodia-labs/formflow/internal/core/domain"
)

// MultiValueDelimiter separates the values of a multi-select submission.
const MultiValueDelimiter = ","

// Dropdown defaults used when a definition declares no options.
var (
	DefaultDropdownValues = []string{"Value 1", "Value 2"}
	DefaultDropdownText   = "Select..."
)

// OptionField is a choice field: dropdown, radio button list or checkbox group.
type OptionField struct {
	valueBase
	values      []domain.FieldValue
	multi       bool
	defaultText string
}

// NewOptionField creates a choice field from its definition.
// The option list is copied so the shared definition is never aliased.
// Single-select fields keep only the first default selection.
func NewOptionField(def domain.FieldDefinition) *OptionField {
	f := &OptionField{
		valueBase:   newValueBase(def),
		values:      slices.Clone(def.FieldValues),
		multi:       def.IsMultiSelectEnabled || def.Type == domain.FieldTypeCheckboxGroup,
		defaultText: def.DefaultText,
	}

	if def.Type == domain.FieldTypeDropdown {
		if len(f.values) == 0 {
			for _, v := range DefaultDropdownValues {
				f.values = append(f.values, domain.FieldValue{Value: v})
			}
		}
		if f.defaultText == "" {
			f.defaultText = DefaultDropdownText
		}
	}

	if !f.multi {
		seen := false
		for i := range f.values {
			if f.values[i].Selected && seen {
				f.values[i].Selected = false
			}
			seen = seen || f.values[i].Selected
		}
	}
	return f
}

func (f *OptionField) FieldValues() []domain.FieldValue {
	return slices.Clone(f.values)
}

func (f *OptionField) IsMultiSelectEnabled() bool { return f.multi }

func (f *OptionField) DefaultText() string { return f.defaultText }

// DefaultSelection returns the values selected before any submission.
func (f *OptionField) DefaultSelection() []string {
	var selected []string
	for _, v := range f.values {
		if v.Selected {
			selected = append(selected, v.Value)
		}
	}
	return selected
}

// SubmittedValues returns the bound values in submission order.
func (f *OptionField) SubmittedValues() []string {
	value, ok := f.SubmittedValue()
	if !ok {
		return nil
	}
	if !f.multi {
		if strings.TrimSpace(value) == "" {
			return nil
		}
		return []string{value}
	}
	return splitMulti(value)
}

func (f *OptionField) ValidateSubmittedValue(_ context.Context, _ []Field, _ domain.ContentContext) bool {
	submitted := f.SubmittedValues()
	if len(submitted) == 0 {
		return !f.def.Required
	}
	for _, s := range submitted {
		if !f.hasOption(s) {
			return false
		}
	}
	return true
}

func (f *OptionField) hasOption(value string) bool {
	for _, v := range f.values {
		if v.Value == value {
			return true
		}
	}
	return false
}

func (f *OptionField) FormatValueForEmail(value string, _ domain.ContentContext, _ string) (string, bool) {
	return f.display(value), true
}

func (f *OptionField) FormatValueForDataView(value string, _ domain.ContentContext, _ string) (string, bool) {
	return f.display(value), true
}

func (f *OptionField) FormatValueForCSVExport(value string, _ domain.ContentContext, _ string) (string, bool) {
	return f.display(value), true
}

// display joins multi-select values for human readers.
func (f *OptionField) display(value string) string {
	if !f.multi {
		return value
	}
	return strings.Join(splitMulti(value), ", ")
}

func splitMulti(value string) []string {
	var values []string
	for _, part := range strings.Split(value, MultiValueDelimiter) {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	return values
}
