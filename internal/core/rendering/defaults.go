package rendering

import (
	"strings"
	"text/template"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/fields"
)

// jsUndefined is emitted when a field has no default value.
const jsUndefined = "undefined"

// HasDefaultValue reports whether the front end should preset the field.
func HasDefaultValue(f fields.Field) bool {
	if _, ok := f.(fields.DefaultSelectable); ok {
		return true
	}
	if vf, ok := f.(fields.ValueField); ok && vf.HasSubmittedValue() {
		return true
	}
	if opts, ok := f.(fields.OptionSet); ok {
		for _, v := range opts.FieldValues() {
			if v.Selected {
				return true
			}
		}
	}
	return false
}

// DefaultValue returns the field's preset value as a JavaScript literal:
// a quoted string, an array of strings, true, a Date constructor, or
// undefined. A submitted value takes precedence over declared defaults.
func DefaultValue(f fields.Field) string {
	if ds, ok := f.(fields.DefaultSelectable); ok {
		if ds.Selected() {
			return "true"
		}
		return jsUndefined
	}

	opts, isOptionSet := f.(fields.OptionSet)
	if vf, ok := f.(fields.ValueField); ok && vf.HasSubmittedValue() {
		value, _ := vf.SubmittedValue()
		switch {
		case f.Type() == domain.FieldTypeDate:
			return `new Date("` + template.JSEscapeString(value) + `")`
		case isOptionSet:
			return selectionLiteral(opts.SubmittedValues(), opts.IsMultiSelectEnabled())
		default:
			return jsString(value)
		}
	}

	if !isOptionSet {
		return jsUndefined
	}
	var selected []string
	for _, v := range opts.FieldValues() {
		if v.Selected {
			selected = append(selected, v.Value)
		}
	}
	return selectionLiteral(selected, opts.IsMultiSelectEnabled())
}

// Placeholder returns the option prompt text, shown only when the field
// has neither a default selection nor a submitted value.
func Placeholder(f fields.Field) string {
	opts, ok := f.(fields.OptionSet)
	if !ok || opts.DefaultText() == "" || HasDefaultValue(f) {
		return ""
	}
	return opts.DefaultText()
}

// SetSubmittedValue binds a single value to the field through its own
// binding logic, as if it had been posted.
func SetSubmittedValue(f fields.Field, value string, cc domain.ContentContext) {
	if b, ok := f.(fields.Bindable); ok {
		b.CollectSubmittedValue(map[string]string{f.FormSafeName(): value}, cc)
	}
}

// LabelOrName returns the sanitised label, or the name when no label is set.
func LabelOrName(f fields.Field) string {
	return SanitizeText(fields.LabelOrName(f))
}

func selectionLiteral(values []string, multi bool) string {
	if multi {
		quoted := make([]string, len(values))
		for i, v := range values {
			quoted[i] = jsString(v)
		}
		return "[" + strings.Join(quoted, ",") + "]"
	}
	if len(values) == 0 {
		return jsUndefined
	}
	return jsString(values[0])
}

func jsString(value string) string {
	return `"` + template.JSEscapeString(value) + `"`
}
