// Package mailchimp subscribes addresses to MailChimp audiences through
// the Marketing API v3. It implements driven.NewsletterSubscriber.
//
// API keys carry their data centre as a suffix ("<key>-us6"); the suffix
// selects the API host. Members are upserted with PUT so a repeat
// subscription is idempotent.
package mailchimp
