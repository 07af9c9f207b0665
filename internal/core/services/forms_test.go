package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/rendering"
)

func TestFormService_GetAndList(t *testing.T) {
	env := newTestEnv(t, contactForm(), captchaForm())
	ctx := context.Background()

	form, err := env.formSvc.Get(ctx, "contact")
	require.NoError(t, err)
	assert.Equal(t, "Contact", form.Name)

	_, err = env.formSvc.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	forms, err := env.formSvc.List(ctx)
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Equal(t, "contact", forms[0].ID)
	assert.Equal(t, "guarded", forms[1].ID)
}

func TestFormService_Import(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.formSvc.Import(ctx, contactForm()))

	form, err := env.formSvc.Get(ctx, "contact")
	require.NoError(t, err)
	assert.Len(t, form.Fields, 6)
}

func TestFormService_Check(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.Form)
		want   error
	}{
		{
			name:   "missing form id",
			mutate: func(f *domain.Form) { f.ID = "" },
			want:   domain.ErrInvalidInput,
		},
		{
			name:   "field without type",
			mutate: func(f *domain.Form) { f.Fields[0].Type = "" },
			want:   domain.ErrInvalidInput,
		},
		{
			name:   "duplicate field id",
			mutate: func(f *domain.Form) { f.Fields[1].ID = f.Fields[0].ID },
			want:   domain.ErrAlreadyExists,
		},
		{
			name:   "unregistered field type",
			mutate: func(f *domain.Form) { f.Fields[0].Type = "custom.signature" },
			want:   domain.ErrUnsupportedType,
		},
		{
			name:   "confirmation of unknown field",
			mutate: func(f *domain.Form) { f.Fields[2].Settings[domain.SettingConfirms] = "f-ghost" },
			want:   domain.ErrUnknownField,
		},
		{
			name:   "rule on unknown field",
			mutate: func(f *domain.Form) { f.Validations[0].Rules[0].FieldID = "f-ghost" },
			want:   domain.ErrUnknownField,
		},
		{
			name:   "action on unknown field",
			mutate: func(f *domain.Form) { f.Actions[0].FieldID = "f-ghost" },
			want:   domain.ErrUnknownField,
		},
		{
			name:   "unsupported operator",
			mutate: func(f *domain.Form) { f.Actions[0].Rules[0].Condition.Operator = "matches" },
			want:   domain.ErrUnknownOperator,
		},
		{
			name:   "validation without rules",
			mutate: func(f *domain.Form) { f.Validations[0].Rules = nil },
			want:   domain.ErrInvalidInput,
		},
		{
			name:   "action without task",
			mutate: func(f *domain.Form) { f.Actions[0].Task = "" },
			want:   domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			form := contactForm()
			tt.mutate(&form)

			err := env.formSvc.Import(context.Background(), form)

			assert.ErrorIs(t, err, tt.want)
			forms, listErr := env.formSvc.List(context.Background())
			require.NoError(t, listErr)
			assert.Empty(t, forms, "rejected forms are not stored")
		})
	}
}

func TestFormService_Check_ReportsEveryProblem(t *testing.T) {
	env := newTestEnv(t)
	form := contactForm()
	form.Fields[0].Type = "custom.signature"
	form.Actions[0].FieldID = "f-ghost"

	err := env.formSvc.Check(form)

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.ErrorIs(t, err, domain.ErrUnknownField)
}

func TestFormService_Render(t *testing.T) {
	form := domain.Form{
		ID: "survey",
		Fields: []domain.FieldDefinition{
			{ID: "f-choice", Type: domain.FieldTypeDropdown, Name: "Choice"},
			{ID: "f-name", Type: domain.FieldTypeTextBox, Name: "Name", Label: "<b>Name</b><script>x</script>"},
		},
		Validations: []domain.Validation{{
			Rules:        []domain.Rule{{FieldID: "f-name", Condition: &domain.Condition{Operator: domain.OperatorEmpty}}},
			ErrorMessage: "Name please",
		}},
		Actions: []domain.Action{{
			Rules:   []domain.Rule{{FieldID: "f-choice"}},
			FieldID: "f-name",
			Task:    domain.TaskHideField,
		}},
	}
	env := newTestEnv(t, form)

	data, err := env.formSvc.Render(context.Background(), "survey")
	require.NoError(t, err)

	var envelope rendering.Envelope
	require.NoError(t, json.Unmarshal(data, &envelope))

	assert.Equal(t, rendering.Version, envelope.Version)
	assert.Equal(t, "survey", envelope.FormID)
	require.Len(t, envelope.Fields, 2)
	assert.Nil(t, envelope.Fields[0].SubmittedValue)

	require.Len(t, envelope.Model, 2)
	dropdown := envelope.Model[0]
	assert.Equal(t, domain.FieldTypeDropdown, dropdown.Type)
	assert.False(t, dropdown.HasDefaultValue)
	assert.Equal(t, "undefined", dropdown.DefaultValue)
	assert.Equal(t, "Select...", dropdown.Placeholder)
	assert.Len(t, dropdown.Options, 2)

	require.Len(t, envelope.Validations, 1)
	assert.False(t, envelope.Validations[0].Invalid)
	assert.Equal(t, "Name please", envelope.Validations[0].ErrorMessage)

	require.Len(t, envelope.Actions, 1)
	assert.Equal(t, string(domain.TaskHideField), envelope.Actions[0].Task)

	assert.Equal(t, "<b>Name</b>", envelope.Model[1].Label)
}

func TestFormService_Render_UnknownForm(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.formSvc.Render(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
