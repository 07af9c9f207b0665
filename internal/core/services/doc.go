// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The submission pipeline builds a fresh runtime field set for every
// call, so services are safe to share between goroutines.
package services
