// Package recaptcha verifies reCAPTCHA responses against Google's
// siteverify endpoint. It implements driven.ChallengeVerifier.
//
// Requests are bounded by the HTTP client timeout and throttled by a
// token bucket so a flood of submissions cannot exhaust the site's quota.
// A 429 response backs the limiter off for the Retry-After period.
package recaptcha
