package fields

import (
	"context"

	"github.com/custodia-labs/formflow/internal/core/domain"
)

// Set is the runtime field set of one submission, in declaration order.
type Set []Field

// Lookup resolves a field id within the set.
func (s Set) Lookup(id string) (Field, bool) {
	for _, f := range s {
		if f.ID() == id {
			return f, true
		}
	}
	return nil, false
}

// ValueFields returns the fields that hold submitted values.
func (s Set) ValueFields() []ValueField {
	var values []ValueField
	for _, f := range s {
		if vf, ok := f.(ValueField); ok {
			values = append(values, vf)
		}
	}
	return values
}

// Bind collects every bindable field's value. A field failing to bind
// stays unbound and never stops its siblings.
func (s Set) Bind(raw map[string]string, cc domain.ContentContext) {
	for _, f := range s {
		if b, ok := f.(Bindable); ok {
			b.CollectSubmittedValue(raw, cc)
		}
	}
}

// Validate runs every validatable field against the fully bound set and
// records each result on the field. Fields without Validatable are valid.
// It returns whether every field passed.
func (s Set) Validate(ctx context.Context, cc domain.ContentContext) bool {
	valid := true
	for _, f := range s {
		if !ValidateField(ctx, f, s, cc) {
			valid = false
		}
	}
	return valid
}

// ValidateField validates one field and stores the result on it.
func ValidateField(ctx context.Context, f Field, all []Field, cc domain.ContentContext) bool {
	v, ok := f.(Validatable)
	if !ok {
		return true
	}
	ok = v.ValidateSubmittedValue(ctx, all, cc)
	if inv, isInv := f.(Invalidatable); isInv {
		inv.SetInvalid(!ok)
	}
	return ok
}

// InvalidFields returns the ids of fields marked invalid.
func (s Set) InvalidFields() []string {
	var ids []string
	for _, f := range s {
		if inv, ok := f.(Invalidatable); ok && inv.Invalid() {
			ids = append(ids, f.ID())
		}
	}
	return ids
}

// Snapshots captures the bound state of every value field for the index.
func (s Set) Snapshots() []domain.FieldSnapshot {
	var snaps []domain.FieldSnapshot
	for _, f := range s {
		if sn, ok := f.(interface{ Snapshot() domain.FieldSnapshot }); ok {
			snaps = append(snaps, sn.Snapshot())
		}
	}
	return snaps
}

// FirstEmailAddress returns the first address any EmailSource supplies.
func (s Set) FirstEmailAddress() string {
	if addrs := s.EmailAddresses(); len(addrs) > 0 {
		return addrs[0]
	}
	return ""
}

// EmailAddresses collects receipt recipients in field order, without duplicates.
func (s Set) EmailAddresses() []string {
	var addrs []string
	seen := make(map[string]bool)
	for _, f := range s {
		src, ok := f.(EmailSource)
		if !ok {
			continue
		}
		for _, a := range src.EmailAddresses() {
			if !seen[a] {
				seen[a] = true
				addrs = append(addrs, a)
			}
		}
	}
	return addrs
}
