package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/fields"
	"github.com/custodia-labs/formflow/internal/core/ports/driven"
	"github.com/custodia-labs/formflow/internal/core/ports/driving"
	"github.com/custodia-labs/formflow/internal/core/rules"
	"github.com/custodia-labs/formflow/internal/logger"
)

// Ensure SubmissionService implements the interface.
var _ driving.SubmissionService = (*SubmissionService)(nil)

// SubmissionService runs the bind, validate, index and format pipeline.
type SubmissionService struct {
	forms     driven.FormStore
	indexes   driven.IndexFactory
	registry  *fields.Registry
	evaluator *rules.Evaluator
}

// NewSubmissionService creates a new submission service.
// A nil evaluator selects rules.Default().
func NewSubmissionService(
	forms driven.FormStore,
	indexes driven.IndexFactory,
	registry *fields.Registry,
	evaluator *rules.Evaluator,
) *SubmissionService {
	if evaluator == nil {
		evaluator = rules.Default()
	}
	return &SubmissionService{
		forms:     forms,
		indexes:   indexes,
		registry:  registry,
		evaluator: evaluator,
	}
}

// Submit processes one submission of the form.
//
// Every field is bound before any is validated. A submission is valid
// when every field validates and no form-level validation matches; only
// valid submissions are indexed. If ctx is cancelled before the index
// write, the bound state is discarded and ctx.Err() returned.
func (s *SubmissionService) Submit(
	ctx context.Context,
	formID string,
	raw map[string]string,
	cc domain.ContentContext,
) (*domain.SubmitOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	form, err := s.forms.Get(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("load form %s: %w", formID, err)
	}
	if cc.ContentID == "" {
		cc.ContentID = form.ID
	}

	logger.Section("Submit " + form.ID)

	// Fresh runtime fields: the shared definitions are never written to
	set := s.registry.BuildAll(form.Fields)
	set.Bind(raw, cc)
	fieldsValid := set.Validate(ctx, cc)

	validations := s.evaluator.EvaluateValidations(form.Validations, set)
	actions := s.evaluator.EligibleActions(form.Actions, set)

	outcome := &domain.SubmitOutcome{
		Valid:         fieldsValid && !anyInvalid(validations),
		Fields:        set.Snapshots(),
		InvalidFields: set.InvalidFields(),
		Validations:   validations,
		Actions:       actions,
	}

	if err := ctx.Err(); err != nil {
		logger.Debug("submission to %s abandoned: %v", form.ID, err)
		return nil, err
	}

	if !outcome.Valid {
		logger.Debug("submission to %s invalid: fields %v", form.ID, outcome.InvalidFields)
		return outcome, nil
	}

	idx := s.indexes.GetIndex(cc.ContentID)
	rowID, err := idx.Add(ctx, outcome.Fields)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("index submission to %s: %w", cc.ContentID, err)
	}
	outcome.RowID = rowID
	logger.Debug("indexed submission %s of %s to %s", rowID, form.ID, cc.ContentID)

	s.runHooks(ctx, set, cc)
	outcome.Email = composeEmail(set, cc, rowID)

	return outcome, nil
}

// runHooks executes post-submit side effects. Failures never affect the
// stored submission and are only logged.
func (s *SubmissionService) runHooks(ctx context.Context, set fields.Set, cc domain.ContentContext) {
	for _, f := range set {
		hook, ok := f.(fields.PostSubmitHook)
		if !ok {
			continue
		}
		if err := hook.AfterSubmit(ctx, set, cc); err != nil {
			logger.Error("post-submit hook for field %q: %v", f.ID(), err)
		}
	}
}

// composeEmail renders the notification body and receipt recipients.
func composeEmail(set fields.Set, cc domain.ContentContext, rowID string) domain.EmailMessage {
	msg := domain.EmailMessage{
		Recipients: set.EmailAddresses(),
		Lines:      []domain.EmailLine{},
	}
	for _, f := range set {
		value, ok := fields.SubmittedValueForEmail(f, cc, rowID)
		if !ok {
			continue
		}
		msg.Lines = append(msg.Lines, domain.EmailLine{Label: fields.LabelOrName(f), Value: value})
	}
	return msg
}

func anyInvalid(outcomes []domain.ValidationOutcome) bool {
	for _, o := range outcomes {
		if o.Invalid {
			return true
		}
	}
	return false
}
