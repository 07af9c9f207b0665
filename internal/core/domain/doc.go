// Package domain defines the core business entities for formflow.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - FieldDefinition: An immutable field declaration within a form
//   - Form: A set of field definitions plus validations and actions
//   - Rule, Condition, Validation, Action: The conditional behaviour model
//   - Submission: One indexed set of field snapshots keyed by (content, row)
//   - AppSettings: Configuration consumed by the core
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
