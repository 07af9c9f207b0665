package domain

// Form is a loaded form definition identified by its content id.
// It is shared read-only between concurrent submissions.
type Form struct {
	// ID is the content id the form's index is bound to.
	ID string `json:"id" yaml:"id" validate:"required"`

	// Name is the human-readable form name.
	Name string `json:"name" yaml:"name"`

	// Fields are the field declarations in display order.
	Fields []FieldDefinition `json:"fields" yaml:"fields" validate:"dive"`

	// Validations are cross-field rules evaluated after binding.
	Validations []Validation `json:"validations,omitempty" yaml:"validations,omitempty"`

	// Actions are conditional tasks whose eligibility is computed per submission.
	Actions []Action `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// Field returns the definition with the given id.
func (f Form) Field(id string) (FieldDefinition, bool) {
	for _, def := range f.Fields {
		if def.ID == id {
			return def, true
		}
	}
	return FieldDefinition{}, false
}
