package rules

import (
	"strconv"
	"strings"

	"github.com/custodia-labs/formflow/internal/core/domain"
)

// OperatorFunc compares a field's submitted values with a condition operand.
// Single-value fields pass one value; unbound fields pass none.
type OperatorFunc func(values []string, operand string) bool

func builtinOperators() map[domain.Operator]OperatorFunc {
	return map[domain.Operator]OperatorFunc{
		domain.OperatorEquals:      anyValue(strings.EqualFold),
		domain.OperatorNotEquals:   not(anyValue(strings.EqualFold)),
		domain.OperatorContains:    anyValue(containsFold),
		domain.OperatorNotContains: not(anyValue(containsFold)),
		domain.OperatorStartsWith: anyValue(func(v, operand string) bool {
			return strings.HasPrefix(strings.ToLower(v), strings.ToLower(operand))
		}),
		domain.OperatorEndsWith: anyValue(func(v, operand string) bool {
			return strings.HasSuffix(strings.ToLower(v), strings.ToLower(operand))
		}),
		domain.OperatorEmpty:       isEmpty,
		domain.OperatorNotEmpty:    not(isEmpty),
		domain.OperatorGreaterThan: compareNumbers(func(a, b float64) bool { return a > b }),
		domain.OperatorLessThan:    compareNumbers(func(a, b float64) bool { return a < b }),
	}
}

// anyValue matches when at least one submitted value satisfies match.
func anyValue(match func(value, operand string) bool) OperatorFunc {
	return func(values []string, operand string) bool {
		for _, v := range values {
			if match(v, operand) {
				return true
			}
		}
		return false
	}
}

func not(fn OperatorFunc) OperatorFunc {
	return func(values []string, operand string) bool {
		return !fn(values, operand)
	}
}

func containsFold(value, operand string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(operand))
}

func isEmpty(values []string, _ string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// compareNumbers matches when any submitted value is a number that
// satisfies cmp against the operand. A non-numeric operand never matches.
func compareNumbers(cmp func(a, b float64) bool) OperatorFunc {
	return func(values []string, operand string) bool {
		b, err := strconv.ParseFloat(strings.TrimSpace(operand), 64)
		if err != nil {
			return false
		}
		return anyValue(func(value, _ string) bool {
			a, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			return err == nil && cmp(a, b)
		})(values, operand)
	}
}
