package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/fields"
)

var registry = fields.NewRegistry(fields.Env{})

func build(t *testing.T, def domain.FieldDefinition) fields.Field {
	t.Helper()
	if def.ID == "" {
		def.ID = "f"
	}
	if def.Name == "" {
		def.Name = "f"
	}
	f, err := registry.Build(def)
	require.NoError(t, err)
	return f
}

func TestDefaultValue_DropdownWithoutSubmission(t *testing.T) {
	t.Run("default values none selected", func(t *testing.T) {
		f := build(t, domain.FieldDefinition{Type: domain.FieldTypeDropdown})

		assert.False(t, HasDefaultValue(f))
		assert.Equal(t, "undefined", DefaultValue(f))
		assert.Equal(t, "Select...", Placeholder(f))
	})

	t.Run("first selected value", func(t *testing.T) {
		f := build(t, domain.FieldDefinition{
			Type: domain.FieldTypeDropdown,
			FieldValues: []domain.FieldValue{
				{Value: "Value 1", Selected: true},
				{Value: "Value 2", Selected: true},
			},
		})

		assert.True(t, HasDefaultValue(f))
		assert.Equal(t, `"Value 1"`, DefaultValue(f))
		assert.Empty(t, Placeholder(f))
	})
}

func TestDefaultValue_MultiSelect(t *testing.T) {
	f := build(t, domain.FieldDefinition{
		Type: domain.FieldTypeCheckboxGroup,
		FieldValues: []domain.FieldValue{
			{Value: "a", Selected: true},
			{Value: "b"},
			{Value: "c", Selected: true},
		},
	})
	assert.Equal(t, `["a","c"]`, DefaultValue(f))

	SetSubmittedValue(f, "b,c", domain.ContentContext{})
	assert.Equal(t, `["b","c"]`, DefaultValue(f))

	empty := build(t, domain.FieldDefinition{Type: domain.FieldTypeCheckboxGroup})
	assert.Equal(t, `[]`, DefaultValue(empty))
}

func TestDefaultValue_SubmittedValues(t *testing.T) {
	tests := []struct {
		name     string
		def      domain.FieldDefinition
		value    string
		expected string
	}{
		{"text", domain.FieldDefinition{Type: domain.FieldTypeTextBox}, "Jane", `"Jane"`},
		{"text escaped", domain.FieldDefinition{Type: domain.FieldTypeTextBox}, `say "hi"</script>`, `"say \"hi\"\u003C/script\u003E"`},
		{"date", domain.FieldDefinition{Type: domain.FieldTypeDate}, "2024-01-31", `new Date("2024-01-31")`},
		{"single option", domain.FieldDefinition{Type: domain.FieldTypeDropdown}, "Value 2", `"Value 2"`},
		{"empty submission", domain.FieldDefinition{Type: domain.FieldTypeTextBox}, "", "undefined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := build(t, tt.def)
			SetSubmittedValue(f, tt.value, domain.ContentContext{})
			assert.Equal(t, tt.expected, DefaultValue(f))
		})
	}
}

func TestDefaultValue_DefaultSelectable(t *testing.T) {
	checked := build(t, domain.FieldDefinition{Type: domain.FieldTypeCheckbox, Settings: map[string]string{domain.SettingSelected: "true"}})
	unchecked := build(t, domain.FieldDefinition{Type: domain.FieldTypeCheckbox})

	assert.True(t, HasDefaultValue(checked))
	assert.True(t, HasDefaultValue(unchecked))
	assert.Equal(t, "true", DefaultValue(checked))
	assert.Equal(t, "undefined", DefaultValue(unchecked))
}

func TestDefaultValue_NoValueField(t *testing.T) {
	heading := build(t, domain.FieldDefinition{Type: domain.FieldTypeHeading})

	assert.False(t, HasDefaultValue(heading))
	assert.Equal(t, "undefined", DefaultValue(heading))
	assert.Empty(t, Placeholder(heading))
}

func TestLabelOrName(t *testing.T) {
	labelled := build(t, domain.FieldDefinition{Type: domain.FieldTypeTextBox, Name: "name", Label: "Your <b>name</b><script>x()</script>"})
	plain := build(t, domain.FieldDefinition{Type: domain.FieldTypeTextBox, Name: "name"})

	assert.Equal(t, "Your <b>name</b>", LabelOrName(labelled))
	assert.Equal(t, "name", LabelOrName(plain))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "", SanitizeText("   "))
	assert.Equal(t, "Hello", SanitizeText(`<img src=x onerror="alert(1)">Hello`))
	assert.Equal(t, "<em>Required</em>", SanitizeText("<em>Required</em>"))
}
