package driven

import "context"

// ChallengeVerifier checks an anti-automation challenge response with a
// third-party service. Implementations must bound the call with a timeout.
type ChallengeVerifier interface {
	// Verify returns whether the response is valid for the remote ip.
	// A non-nil error means the service could not be asked.
	Verify(ctx context.Context, secret, response, remoteIP string) (bool, error)
}
