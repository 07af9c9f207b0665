package domain

// Operator identifies a condition comparison. The set is extensible:
// evaluators are registered by operator name.
type Operator string

// Built-in condition operators.
const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "notequals"
	OperatorContains    Operator = "contains"
	OperatorNotContains Operator = "notcontains"
	OperatorStartsWith  Operator = "startswith"
	OperatorEndsWith    Operator = "endswith"
	OperatorEmpty       Operator = "empty"
	OperatorNotEmpty    Operator = "notempty"
	OperatorGreaterThan Operator = "greaterthan"
	OperatorLessThan    Operator = "lessthan"
)

// String returns the string representation.
func (o Operator) String() string {
	return string(o)
}

// Task identifies what an eligible action asks the front end to do.
type Task string

// Built-in action tasks.
const (
	TaskShowField Task = "core.showfield"
	TaskHideField Task = "core.hidefield"
)

// Condition tests a field's submitted value against an operand.
type Condition struct {
	Operator Operator `json:"operator" yaml:"operator"`
	Operand  string   `json:"operand,omitempty" yaml:"operand,omitempty"`
}

// Rule pairs a field reference with an optional condition.
// A nil condition means the rule always holds.
type Rule struct {
	// FieldID is a weak reference resolved against the bound field set.
	FieldID   string     `json:"fieldId" yaml:"fieldId"`
	Condition *Condition `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// Validation marks a submission invalid when all of its rules hold.
type Validation struct {
	Rules        []Rule `json:"rules" yaml:"rules"`
	ErrorMessage string `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
}

// Action makes Task eligible for FieldID when all of its rules hold.
type Action struct {
	Rules   []Rule `json:"rules" yaml:"rules"`
	FieldID string `json:"fieldId" yaml:"fieldId"`
	Task    Task   `json:"task" yaml:"task"`
}

// ValidationOutcome is the evaluated state of one Validation.
type ValidationOutcome struct {
	Validation Validation `json:"validation"`
	Invalid    bool       `json:"invalid"`
}
