package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown field type or index type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Rule Errors.

	// ErrUnknownOperator indicates a condition uses an operator with no registered evaluator.
	// This is a configuration error reported at evaluation time.
	ErrUnknownOperator = errors.New("unknown condition operator")

	// ErrUnknownField indicates a rule references a field id that is not part of the form.
	ErrUnknownField = errors.New("unknown field reference")

	// Configuration Errors.

	// ErrMissingConfiguration indicates a capability is disabled because
	// required configuration (keys, credentials) is absent.
	ErrMissingConfiguration = errors.New("missing configuration")

	// ErrInvalidAPIKey indicates a third-party API key has the wrong shape.
	ErrInvalidAPIKey = errors.New("invalid API key")

	// External Call Errors.

	// ErrVerificationFailed indicates an external verification call did not succeed.
	ErrVerificationFailed = errors.New("verification failed")

	// ErrSubscriptionFailed indicates a newsletter subscription call did not succeed.
	ErrSubscriptionFailed = errors.New("subscription failed")
)
