package fields

import "github.com/custodia-labs/formflow/internal/core/domain"

// Target is an output representation of a submitted value.
type Target int

const (
	TargetEmail Target = iota
	TargetDataView
	TargetCSVExport
	TargetFrontend
)

// String returns the target name used in logs.
func (t Target) String() string {
	switch t {
	case TargetEmail:
		return "email"
	case TargetDataView:
		return "data view"
	case TargetCSVExport:
		return "csv export"
	case TargetFrontend:
		return "frontend"
	default:
		return "unknown"
	}
}

// FormatValue renders value for a target using the field's formatter.
// Fields without Formattable render the raw value.
func FormatValue(f Field, target Target, value string, cc domain.ContentContext, rowID string) (string, bool) {
	fm, ok := f.(Formattable)
	if !ok {
		return value, true
	}
	switch target {
	case TargetEmail:
		return fm.FormatValueForEmail(value, cc, rowID)
	case TargetDataView:
		return fm.FormatValueForDataView(value, cc, rowID)
	case TargetCSVExport:
		return fm.FormatValueForCSVExport(value, cc, rowID)
	default:
		return fm.FormatValueForFrontend(value, cc, rowID)
	}
}

// SubmittedValueForEmail renders the field's own bound value for an
// email body. False means the field should be left out of the email.
func SubmittedValueForEmail(f Field, cc domain.ContentContext, rowID string) (string, bool) {
	vf, ok := f.(ValueField)
	if !ok {
		return "", false
	}
	value, ok := vf.SubmittedValue()
	if !ok {
		return "", false
	}
	return FormatValue(f, TargetEmail, value, cc, rowID)
}

// LabelOrName returns the field's label, or its name when no label is set.
func LabelOrName(f Field) string {
	if l, ok := f.(Labeled); ok && l.Label() != "" {
		return l.Label()
	}
	return f.Name()
}
