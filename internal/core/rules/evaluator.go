// Package rules evaluates the condition, validation and action model
// against a bound field set. Evaluation is a pure function of the bound
// state: nothing here mutates fields or runs action tasks.
package rules

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/fields"
	"github.com/custodia-labs/formflow/internal/logger"
)

// Evaluator holds the operator set conditions are evaluated with.
// It is safe for concurrent use.
type Evaluator struct {
	mu        sync.RWMutex
	operators map[domain.Operator]OperatorFunc
}

// New creates an evaluator with the built-in operators.
func New() *Evaluator {
	return &Evaluator{operators: builtinOperators()}
}

var defaultEvaluator = New()

// Default returns the process-wide evaluator.
func Default() *Evaluator { return defaultEvaluator }

// RegisterOperator adds or replaces an operator on the default evaluator.
func RegisterOperator(op domain.Operator, fn OperatorFunc) {
	defaultEvaluator.Register(op, fn)
}

// Register adds or replaces an operator. Names are case-insensitive.
func (e *Evaluator) Register(op domain.Operator, fn OperatorFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.operators[normalise(op)] = fn
}

// Operators returns the registered operator names, sorted.
func (e *Evaluator) Operators() []domain.Operator {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ops := make([]domain.Operator, 0, len(e.operators))
	for op := range e.operators {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// Supports reports whether an operator is registered.
func (e *Evaluator) Supports(op domain.Operator) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.operators[normalise(op)]
	return ok
}

func normalise(op domain.Operator) domain.Operator {
	return domain.Operator(strings.ToLower(strings.TrimSpace(string(op))))
}

// EvaluateCondition tests values against a condition. A nil condition
// always holds. An unregistered operator evaluates false and returns
// domain.ErrUnknownOperator.
func (e *Evaluator) EvaluateCondition(c *domain.Condition, values []string) (bool, error) {
	if c == nil {
		return true, nil
	}
	e.mu.RLock()
	fn, ok := e.operators[normalise(c.Operator)]
	e.mu.RUnlock()
	if !ok {
		return false, fmt.Errorf("operator %q: %w", c.Operator, domain.ErrUnknownOperator)
	}
	return fn(values, c.Operand), nil
}

// EvaluateRule resolves the rule's field in the bound set and tests its
// condition. A rule without a condition always holds.
func (e *Evaluator) EvaluateRule(r domain.Rule, set fields.Set) (bool, error) {
	if r.Condition == nil {
		return true, nil
	}
	f, ok := set.Lookup(r.FieldID)
	if !ok {
		return false, fmt.Errorf("rule field %q: %w", r.FieldID, domain.ErrUnknownField)
	}
	ok, err := e.EvaluateCondition(r.Condition, submittedValues(f))
	if err != nil {
		return false, fmt.Errorf("rule field %q: %w", r.FieldID, err)
	}
	return ok, nil
}

// EvaluateRules combines rules with AND in declaration order, stopping at
// the first rule that does not hold. An empty rule set never matches.
func (e *Evaluator) EvaluateRules(rules []domain.Rule, set fields.Set) (bool, error) {
	if len(rules) == 0 {
		return false, nil
	}
	for _, r := range rules {
		ok, err := e.EvaluateRule(r, set)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// EvaluateValidations marks each validation invalid when all of its rules
// match. Evaluation errors are logged and leave the validation valid.
func (e *Evaluator) EvaluateValidations(validations []domain.Validation, set fields.Set) []domain.ValidationOutcome {
	outcomes := make([]domain.ValidationOutcome, 0, len(validations))
	for i, v := range validations {
		matched, err := e.EvaluateRules(v.Rules, set)
		if err != nil {
			logger.Error("validation %d: %v", i, err)
		}
		outcomes = append(outcomes, domain.ValidationOutcome{Validation: v, Invalid: matched})
	}
	return outcomes
}

// EligibleActions returns the actions whose rules all match, in
// declaration order. Evaluation errors are logged and the action skipped.
func (e *Evaluator) EligibleActions(actions []domain.Action, set fields.Set) []domain.Action {
	var eligible []domain.Action
	for i, a := range actions {
		matched, err := e.EvaluateRules(a.Rules, set)
		if err != nil {
			logger.Error("action %d (%s on %q): %v", i, a.Task, a.FieldID, err)
			continue
		}
		if matched {
			eligible = append(eligible, a)
		}
	}
	return eligible
}

// submittedValues returns what a condition compares against: the list of
// selected options for option sets, else the single bound value.
func submittedValues(f fields.Field) []string {
	if opts, ok := f.(fields.OptionSet); ok {
		return opts.SubmittedValues()
	}
	vf, ok := f.(fields.ValueField)
	if !ok {
		return nil
	}
	value, ok := vf.SubmittedValue()
	if !ok {
		return nil
	}
	return []string{value}
}
