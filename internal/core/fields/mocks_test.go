package fields

import (
	"context"
	"sync"

	"github.com/custodia-labs/formflow/internal/core/ports/driven"
)

// mockVerifier records calls and returns a canned answer.
type mockVerifier struct {
	mu     sync.Mutex
	ok     bool
	err    error
	calls  int
	lastIP string
}

func (m *mockVerifier) Verify(_ context.Context, _, _, remoteIP string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastIP = remoteIP
	return m.ok, m.err
}

var _ driven.ChallengeVerifier = (*mockVerifier)(nil)

// mockSubscriber records subscriptions.
type mockSubscriber struct {
	subs []driven.Subscription
	err  error
}

func (m *mockSubscriber) Subscribe(_ context.Context, sub driven.Subscription) error {
	m.subs = append(m.subs, sub)
	return m.err
}

var _ driven.NewsletterSubscriber = (*mockSubscriber)(nil)
