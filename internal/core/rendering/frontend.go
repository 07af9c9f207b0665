// Package rendering converts bound fields, validations and actions into
// the versioned JSON shape front-end scripts consume. Field type strings
// and JSON keys are a compatibility contract.
package rendering

import (
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/fields"
)

// Version identifies the envelope shape.
const Version = "1"

// FieldData is the front-end view of one field's bound state.
type FieldData struct {
	Name           string  `json:"name"`
	FormSafeName   string  `json:"formSafeName"`
	SubmittedValue *string `json:"submittedValue"`
	Invalid        bool    `json:"invalid"`
}

// ConditionData is the front-end view of a condition.
// Type is empty for unconditional rules.
type ConditionData struct {
	Type    string `json:"type,omitempty"`
	Operand string `json:"operand,omitempty"`
}

// RuleData is the front-end view of a rule.
type RuleData struct {
	Field     FieldData     `json:"field"`
	Condition ConditionData `json:"condition"`
}

// ValidationData is the front-end view of an evaluated validation.
type ValidationData struct {
	Rules        []RuleData `json:"rules"`
	Invalid      bool       `json:"invalid"`
	ErrorMessage string     `json:"errorMessage"`
}

// ActionData is the front-end view of an action.
type ActionData struct {
	Rules []RuleData `json:"rules"`
	Field FieldData  `json:"field"`
	Task  string     `json:"task"`
}

// FieldModel describes how to draw one field before or after a submission.
type FieldModel struct {
	ID               string              `json:"id"`
	Type             string              `json:"type"`
	Label            string              `json:"label"`
	FormSafeName     string              `json:"formSafeName"`
	Required         bool                `json:"required,omitempty"`
	ErrorMessage     string              `json:"errorMessage,omitempty"`
	CanBeAddedToForm bool                `json:"canBeAddedToForm"`
	HasDefaultValue  bool                `json:"hasDefaultValue"`
	DefaultValue     string              `json:"defaultValue"`
	Placeholder      string              `json:"placeholder,omitempty"`
	Options          []domain.FieldValue `json:"options,omitempty"`
	MultiSelect      bool                `json:"multiSelect,omitempty"`
	SiteKey          string              `json:"siteKey,omitempty"`
}

// Envelope is the complete client-side model of a form.
type Envelope struct {
	Version     string           `json:"version"`
	FormID      string           `json:"formId"`
	Fields      []FieldData      `json:"fields"`
	Validations []ValidationData `json:"validations"`
	Actions     []ActionData     `json:"actions"`
	Model       []FieldModel     `json:"model"`
}

// NewEnvelope builds the envelope for a bound (or freshly built) field set.
func NewEnvelope(formID string, set fields.Set, validations []domain.ValidationOutcome, actions []domain.Action) Envelope {
	return Envelope{
		Version:     Version,
		FormID:      formID,
		Fields:      ForFrontEnd(set),
		Validations: Validations(validations, set),
		Actions:     Actions(actions, set),
		Model:       Models(set),
	}
}

// Marshal encodes the envelope.
func (e Envelope) Marshal() ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return data, nil
}

// ToFieldData converts a field. Value fields expose their bound value,
// validation-only fields their invalid flag, anything else is empty.
func ToFieldData(f fields.Field) FieldData {
	if f == nil {
		return FieldData{}
	}
	if vf, ok := f.(fields.ValueField); ok {
		data := FieldData{
			Name:         vf.Name(),
			FormSafeName: vf.FormSafeName(),
			Invalid:      vf.Invalid(),
		}
		if value, bound := vf.SubmittedValue(); bound {
			data.SubmittedValue = &value
		}
		return data
	}
	if inv, ok := f.(fields.Invalidatable); ok {
		return FieldData{
			Name:         f.Name(),
			FormSafeName: f.FormSafeName(),
			Invalid:      inv.Invalid(),
		}
	}
	return FieldData{}
}

// ForFrontEnd converts every field that holds a value or validates.
func ForFrontEnd(set fields.Set) []FieldData {
	data := make([]FieldData, 0, len(set))
	for _, f := range set {
		_, isValue := f.(fields.ValueField)
		_, isInvalidatable := f.(fields.Invalidatable)
		if isValue || isInvalidatable {
			data = append(data, ToFieldData(f))
		}
	}
	return data
}

// Rules converts rules, resolving field references in the set.
// An unresolvable reference renders as an empty field.
func Rules(rules []domain.Rule, set fields.Set) []RuleData {
	data := make([]RuleData, 0, len(rules))
	for _, r := range rules {
		rd := RuleData{}
		if f, ok := set.Lookup(r.FieldID); ok {
			rd.Field = ToFieldData(f)
		}
		if r.Condition != nil {
			rd.Condition = ConditionData{
				Type:    r.Condition.Operator.String(),
				Operand: r.Condition.Operand,
			}
		}
		data = append(data, rd)
	}
	return data
}

// Validations converts evaluated validations.
func Validations(outcomes []domain.ValidationOutcome, set fields.Set) []ValidationData {
	data := make([]ValidationData, 0, len(outcomes))
	for _, o := range outcomes {
		data = append(data, ValidationData{
			Rules:        Rules(o.Validation.Rules, set),
			Invalid:      o.Invalid,
			ErrorMessage: SanitizeText(o.Validation.ErrorMessage),
		})
	}
	return data
}

// Actions converts actions.
func Actions(actions []domain.Action, set fields.Set) []ActionData {
	data := make([]ActionData, 0, len(actions))
	for _, a := range actions {
		ad := ActionData{
			Rules: Rules(a.Rules, set),
			Task:  string(a.Task),
		}
		if f, ok := set.Lookup(a.FieldID); ok {
			ad.Field = ToFieldData(f)
		}
		data = append(data, ad)
	}
	return data
}

// Models builds the drawing model of each field.
func Models(set fields.Set) []FieldModel {
	models := make([]FieldModel, 0, len(set))
	for _, f := range set {
		m := FieldModel{
			ID:               f.ID(),
			Type:             f.Type(),
			Label:            LabelOrName(f),
			FormSafeName:     f.FormSafeName(),
			CanBeAddedToForm: f.CanBeAddedToForm(),
			HasDefaultValue:  HasDefaultValue(f),
			DefaultValue:     DefaultValue(f),
			Placeholder:      SanitizeText(Placeholder(f)),
		}
		if d, ok := f.(interface{ Definition() domain.FieldDefinition }); ok {
			m.Required = d.Definition().Required
		}
		if inv, ok := f.(fields.Invalidatable); ok {
			m.ErrorMessage = SanitizeText(inv.ErrorMessage())
		}
		if opts, ok := f.(fields.OptionSet); ok {
			m.Options = opts.FieldValues()
			m.MultiSelect = opts.IsMultiSelectEnabled()
		}
		if rc, ok := f.(interface{ SiteKey() string }); ok {
			m.SiteKey = rc.SiteKey()
		}
		models = append(models, m)
	}
	return models
}
