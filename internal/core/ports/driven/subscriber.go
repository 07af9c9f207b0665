package driven

import "context"

// Subscription describes one mailing list signup.
type Subscription struct {
	ListID string
	Email  string

	// MergeFields are extra list attributes keyed by name.
	MergeFields map[string]string
}

// NewsletterSubscriber adds addresses to a mailing list.
type NewsletterSubscriber interface {
	// Subscribe adds or updates the list member.
	// Returns domain.ErrSubscriptionFailed if the service did not confirm.
	Subscribe(ctx context.Context, sub Subscription) error
}
