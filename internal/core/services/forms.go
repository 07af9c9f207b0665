package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/fields"
	"github.com/custodia-labs/formflow/internal/core/ports/driven"
	"github.com/custodia-labs/formflow/internal/core/ports/driving"
	"github.com/custodia-labs/formflow/internal/core/rendering"
	"github.com/custodia-labs/formflow/internal/core/rules"
	"github.com/custodia-labs/formflow/internal/validation"
)

// Ensure FormService implements the interface.
var _ driving.FormService = (*FormService)(nil)

// FormService manages form definitions and their front-end model.
type FormService struct {
	store     driven.FormStore
	registry  *fields.Registry
	evaluator *rules.Evaluator
}

// NewFormService creates a new form service.
// A nil evaluator selects rules.Default().
func NewFormService(store driven.FormStore, registry *fields.Registry, evaluator *rules.Evaluator) *FormService {
	if evaluator == nil {
		evaluator = rules.Default()
	}
	return &FormService{
		store:     store,
		registry:  registry,
		evaluator: evaluator,
	}
}

// Get retrieves a form by id.
func (s *FormService) Get(ctx context.Context, formID string) (*domain.Form, error) {
	form, err := s.store.Get(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("load form %s: %w", formID, err)
	}
	return form, nil
}

// List returns all forms.
func (s *FormService) List(ctx context.Context) ([]domain.Form, error) {
	return s.store.List(ctx)
}

// Import validates a form definition and stores it.
func (s *FormService) Import(ctx context.Context, form domain.Form) error {
	if err := s.Check(form); err != nil {
		return err
	}
	if err := s.store.Save(ctx, form); err != nil {
		return fmt.Errorf("save form %s: %w", form.ID, err)
	}
	return nil
}

// Check reports every problem with a definition: struct constraints,
// duplicate field ids, unregistered field types, rules referencing
// unknown fields and unsupported operators.
func (s *FormService) Check(form domain.Form) error {
	var errs []error

	if err := validation.Struct(form); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
	}

	ids := make(map[string]bool, len(form.Fields))
	for _, def := range form.Fields {
		if def.ID != "" && ids[def.ID] {
			errs = append(errs, fmt.Errorf("duplicate field id %q: %w", def.ID, domain.ErrAlreadyExists))
		}
		ids[def.ID] = true

		if def.Type != "" && !s.registry.Has(def.Type) {
			errs = append(errs, fmt.Errorf("field %q type %q: %w", def.ID, def.Type, domain.ErrUnsupportedType))
		}
		if def.Type == domain.FieldTypeConfirmation {
			target := def.Setting(domain.SettingConfirms)
			if _, ok := form.Field(target); target != "" && !ok {
				errs = append(errs, fmt.Errorf("field %q confirms %q: %w", def.ID, target, domain.ErrUnknownField))
			}
		}
	}

	for i, v := range form.Validations {
		errs = append(errs, s.checkRules(fmt.Sprintf("validation %d", i), v.Rules, ids)...)
	}
	for i, a := range form.Actions {
		where := fmt.Sprintf("action %d", i)
		errs = append(errs, s.checkRules(where, a.Rules, ids)...)
		if !ids[a.FieldID] {
			errs = append(errs, fmt.Errorf("%s target %q: %w", where, a.FieldID, domain.ErrUnknownField))
		}
		if a.Task == "" {
			errs = append(errs, fmt.Errorf("%s has no task: %w", where, domain.ErrInvalidInput))
		}
	}

	return errors.Join(errs...)
}

func (s *FormService) checkRules(where string, rs []domain.Rule, ids map[string]bool) []error {
	var errs []error
	if len(rs) == 0 {
		errs = append(errs, fmt.Errorf("%s has no rules: %w", where, domain.ErrInvalidInput))
	}
	for j, r := range rs {
		if !ids[r.FieldID] {
			errs = append(errs, fmt.Errorf("%s rule %d field %q: %w", where, j, r.FieldID, domain.ErrUnknownField))
		}
		if r.Condition != nil && !s.evaluator.Supports(r.Condition.Operator) {
			errs = append(errs, fmt.Errorf("%s rule %d operator %q: %w", where, j, r.Condition.Operator, domain.ErrUnknownOperator))
		}
	}
	return errs
}

// Render serialises the form's client-side model: field defaults and
// placeholders, every validation (none yet invalid) and every action
// for the front end to evaluate as values change.
func (s *FormService) Render(ctx context.Context, formID string) ([]byte, error) {
	form, err := s.store.Get(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("load form %s: %w", formID, err)
	}

	set := s.registry.BuildAll(form.Fields)
	validations := make([]domain.ValidationOutcome, 0, len(form.Validations))
	for _, v := range form.Validations {
		validations = append(validations, domain.ValidationOutcome{Validation: v})
	}

	return rendering.NewEnvelope(form.ID, set, validations, form.Actions).Marshal()
}
