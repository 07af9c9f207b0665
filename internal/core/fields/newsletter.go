package fields

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/ports/driven"
	"github.com/custodia-labs/formflow/internal/logger"
)

// mergeSettingPrefix marks settings mapping a list merge field to a form
// field id, e.g. "merge.fname": "first-name".
const mergeSettingPrefix = "merge."

// NewsletterField is an opt-in checkbox. When checked, the first email
// address in the submission is subscribed to the configured list.
type NewsletterField struct {
	CheckboxField
	subscriber driven.NewsletterSubscriber
}

// NewNewsletterField creates an opt-in field. subscriber may be nil when
// no subscription service is configured.
func NewNewsletterField(def domain.FieldDefinition, subscriber driven.NewsletterSubscriber) *NewsletterField {
	return &NewsletterField{
		CheckboxField: CheckboxField{valueBase: newValueBase(def)},
		subscriber:    subscriber,
	}
}

// CanBeAddedToForm requires a configured subscription service.
func (f *NewsletterField) CanBeAddedToForm() bool {
	return f.subscriber != nil
}

// ListID returns the target mailing list.
func (f *NewsletterField) ListID() string {
	return f.def.Setting(domain.SettingListID)
}

func (f *NewsletterField) AfterSubmit(ctx context.Context, all []Field, _ domain.ContentContext) error {
	if !f.Checked() {
		return nil
	}
	if f.subscriber == nil || f.ListID() == "" {
		return fmt.Errorf("newsletter field %q: %w", f.ID(), domain.ErrMissingConfiguration)
	}

	email := Set(all).FirstEmailAddress()
	if email == "" {
		logger.Debug("newsletter field %q: no email address in submission", f.ID())
		return nil
	}

	sub := driven.Subscription{
		ListID:      f.ListID(),
		Email:       email,
		MergeFields: f.mergeFields(all),
	}
	if err := f.subscriber.Subscribe(ctx, sub); err != nil {
		return fmt.Errorf("subscribe %s to list %s: %w", email, sub.ListID, err)
	}
	return nil
}

func (f *NewsletterField) mergeFields(all []Field) map[string]string {
	merge := make(map[string]string)
	for key, fieldID := range f.def.Settings {
		name, ok := strings.CutPrefix(key, mergeSettingPrefix)
		if !ok || name == "" {
			continue
		}
		other, ok := Set(all).Lookup(fieldID)
		if !ok {
			continue
		}
		if vf, ok := other.(ValueField); ok {
			if value, ok := vf.SubmittedValue(); ok {
				merge[name] = value
			}
		}
	}
	return merge
}
