// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Index: Per-form submission storage and search
//   - IndexFactory: Resolves the configured Index for a content id
//   - FormStore: Form definition lookup
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the fields that need them degrade gracefully:
//
//   - ChallengeVerifier: Anti-automation challenge verification. Without it
//     challenge fields always fail validation.
//   - NewsletterSubscriber: Mailing list subscription. Without it newsletter
//     fields skip their post-submit hook.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
