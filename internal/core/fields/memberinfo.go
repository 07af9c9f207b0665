package fields

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/validation"
)

// MemberInfoDelimiter separates the parts of a member info value:
// "{name}|{email}|{id}".
const MemberInfoDelimiter = "|"

// MemberInfoField records who submitted the form. When a principal is
// signed in the value is composed from it and posted data is ignored.
type MemberInfoField struct {
	valueBase
}

// NewMemberInfoField creates a member info field from its definition.
func NewMemberInfoField(def domain.FieldDefinition) *MemberInfoField {
	return &MemberInfoField{valueBase: newValueBase(def)}
}

func (f *MemberInfoField) CollectSubmittedValue(raw map[string]string, cc domain.ContentContext) {
	if cc.Principal == nil {
		f.valueBase.CollectSubmittedValue(raw, cc)
		return
	}
	p := cc.Principal
	f.setValue(strings.Join([]string{p.Name, p.Email, p.ID}, MemberInfoDelimiter))
}

// The email target has no fallback: an unparseable value is left out.
func (f *MemberInfoField) FormatValueForEmail(value string, _ domain.ContentContext, _ string) (string, bool) {
	return formatMemberInfo(value)
}

func (f *MemberInfoField) FormatValueForDataView(value string, _ domain.ContentContext, _ string) (string, bool) {
	if display, ok := formatMemberInfo(value); ok {
		return display, true
	}
	return value, true
}

func (f *MemberInfoField) FormatValueForCSVExport(value string, _ domain.ContentContext, _ string) (string, bool) {
	if display, ok := formatMemberInfo(value); ok {
		return display, true
	}
	return value, true
}

func (f *MemberInfoField) FormatValueForFrontend(value string, _ domain.ContentContext, _ string) (string, bool) {
	if display, ok := formatMemberInfo(value); ok {
		return display, true
	}
	return value, true
}

func (f *MemberInfoField) EmailAddresses() []string {
	value, _ := f.SubmittedValue()
	parts, ok := splitMemberInfo(value)
	if !ok || !validation.IsEmail(parts[1]) {
		return nil
	}
	return []string{strings.TrimSpace(parts[1])}
}

// formatMemberInfo renders "Name (email)"; fewer than two parts is not renderable.
func formatMemberInfo(value string) (string, bool) {
	parts, ok := splitMemberInfo(value)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s (%s)", parts[0], parts[1]), true
}

func splitMemberInfo(value string) ([]string, bool) {
	if value == "" {
		return nil, false
	}
	parts := strings.Split(value, MemberInfoDelimiter)
	if len(parts) < 2 {
		return nil, false
	}
	return parts, true
}
