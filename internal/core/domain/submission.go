package domain

import "time"

// Principal is the authenticated member making a request, if any.
type Principal struct {
	ID    string
	Name  string
	Email string
}

// ContentContext identifies the form instance and requester for one request.
type ContentContext struct {
	// ContentID is the form instance the submission belongs to.
	ContentID string

	// Principal is the logged-in member, nil for anonymous requests.
	Principal *Principal

	// RemoteIP is the requester address as seen by the request layer.
	RemoteIP string
}

// FieldSnapshot is the persisted state of one value field at submission time.
type FieldSnapshot struct {
	FieldID      string `json:"fieldId"`
	Type         string `json:"type"`
	Name         string `json:"name"`
	FormSafeName string `json:"formSafeName"`

	// SubmittedValue is nil when the field was never bound.
	SubmittedValue *string `json:"submittedValue"`

	Invalid bool `json:"invalid,omitempty"`
}

// Value returns the submitted value and whether one was bound.
func (s FieldSnapshot) Value() (string, bool) {
	if s.SubmittedValue == nil {
		return "", false
	}
	return *s.SubmittedValue, true
}

// Submission is one index entry keyed by (ContentID, RowID).
type Submission struct {
	ContentID string          `json:"contentId"`
	RowID     string          `json:"rowId"`
	CreatedAt time.Time       `json:"createdAt"`
	Fields    []FieldSnapshot `json:"fields"`
}

// Field returns the snapshot for a field id.
func (s Submission) Field(fieldID string) (FieldSnapshot, bool) {
	for _, f := range s.Fields {
		if f.FieldID == fieldID {
			return f, true
		}
	}
	return FieldSnapshot{}, false
}

// EmailLine is one label/value pair of a notification email body.
type EmailLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// EmailMessage is the rendered content handed to the mail collaborator.
// Delivery itself happens outside the core.
type EmailMessage struct {
	// Recipients are receipt addresses extracted from email-capable fields.
	Recipients []string    `json:"recipients,omitempty"`
	Lines      []EmailLine `json:"lines"`
}

// SubmitOutcome is the result of running one submission through the pipeline.
type SubmitOutcome struct {
	// RowID is empty when the submission was not indexed.
	RowID string `json:"rowId,omitempty"`

	Valid         bool                `json:"valid"`
	Fields        []FieldSnapshot     `json:"fields"`
	InvalidFields []string            `json:"invalidFields,omitempty"`
	Validations   []ValidationOutcome `json:"validations,omitempty"`

	// Actions are the actions whose rules matched, in declaration order.
	Actions []Action `json:"actions,omitempty"`

	Email EmailMessage `json:"email"`
}
