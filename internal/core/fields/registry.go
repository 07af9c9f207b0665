package fields

import (
	"fmt"
	"sort"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/ports/driven"
	"github.com/custodia-labs/formflow/internal/logger"
)

// Env carries the configuration and collaborators field variants need.
// It is passed explicitly at construction instead of being looked up.
type Env struct {
	ReCaptcha  domain.ReCaptchaSettings
	Verifier   driven.ChallengeVerifier
	Subscriber driven.NewsletterSubscriber
}

// BuilderFunc creates a runtime field from its definition.
type BuilderFunc func(def domain.FieldDefinition, env Env) Field

// Registry maps field type discriminators to their builders.
// Register all types before sharing a registry between goroutines.
type Registry struct {
	env      Env
	builders map[string]BuilderFunc
}

// NewRegistry creates a registry with every built-in field type.
func NewRegistry(env Env) *Registry {
	r := &Registry{
		env:      env,
		builders: make(map[string]BuilderFunc),
	}
	for fieldType, builder := range defaultBuilders() {
		r.Register(fieldType, builder)
	}
	return r
}

func defaultBuilders() map[string]BuilderFunc {
	text := func(def domain.FieldDefinition, _ Env) Field { return NewTextField(def) }
	option := func(def domain.FieldDefinition, _ Env) Field { return NewOptionField(def) }

	return map[string]BuilderFunc{
		domain.FieldTypeTextBox:         text,
		domain.FieldTypeTextArea:        text,
		domain.FieldTypeDropdown:        option,
		domain.FieldTypeRadioButtonList: option,
		domain.FieldTypeCheckboxGroup:   option,
		domain.FieldTypeEmail: func(def domain.FieldDefinition, _ Env) Field {
			return NewEmailField(def)
		},
		domain.FieldTypeNumber: func(def domain.FieldDefinition, _ Env) Field {
			return NewNumberField(def)
		},
		domain.FieldTypeDate: func(def domain.FieldDefinition, _ Env) Field {
			return NewDateField(def)
		},
		domain.FieldTypeCheckbox: func(def domain.FieldDefinition, _ Env) Field {
			return NewCheckboxField(def)
		},
		domain.FieldTypeConfirmation: func(def domain.FieldDefinition, _ Env) Field {
			return NewConfirmationField(def)
		},
		domain.FieldTypeMemberInfo: func(def domain.FieldDefinition, _ Env) Field {
			return NewMemberInfoField(def)
		},
		domain.FieldTypeHeading: func(def domain.FieldDefinition, _ Env) Field {
			return NewHeadingField(def)
		},
		domain.FieldTypeReCaptcha: func(def domain.FieldDefinition, env Env) Field {
			return NewReCaptchaField(def, env.ReCaptcha, env.Verifier)
		},
		domain.FieldTypeNewsletter: func(def domain.FieldDefinition, env Env) Field {
			return NewNewsletterField(def, env.Subscriber)
		},
	}
}

// Register adds or replaces the builder for a field type.
func (r *Registry) Register(fieldType string, builder BuilderFunc) {
	r.builders[fieldType] = builder
}

// Has returns true if the field type is registered.
func (r *Registry) Has(fieldType string) bool {
	_, ok := r.builders[fieldType]
	return ok
}

// Types returns all registered field types, sorted.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.builders))
	for t := range r.builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Build creates a fresh runtime field for one submission.
// Returns domain.ErrUnsupportedType if the type is not registered.
func (r *Registry) Build(def domain.FieldDefinition) (Field, error) {
	builder, ok := r.builders[def.Type]
	if !ok {
		return nil, fmt.Errorf("field %q of type %q: %w", def.ID, def.Type, domain.ErrUnsupportedType)
	}
	return builder(def, r.env), nil
}

// BuildAll creates a fresh field set in declaration order.
// Fields of unknown type are logged and left out rather than failing
// the whole form.
func (r *Registry) BuildAll(defs []domain.FieldDefinition) Set {
	set := make(Set, 0, len(defs))
	for _, def := range defs {
		f, err := r.Build(def)
		if err != nil {
			logger.Error("skipping field: %v", err)
			continue
		}
		set = append(set, f)
	}
	return set
}
