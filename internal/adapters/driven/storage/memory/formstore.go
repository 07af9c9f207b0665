package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/ports/driven"
)

// Ensure FormStore implements the interface.
var _ driven.FormStore = (*FormStore)(nil)

// FormStore is an in-memory implementation of driven.FormStore.
type FormStore struct {
	mu    sync.RWMutex
	forms map[string]*domain.Form
}

// NewFormStore creates a form store seeded with the given forms.
func NewFormStore(forms ...domain.Form) *FormStore {
	s := &FormStore{forms: make(map[string]*domain.Form)}
	for _, f := range forms {
		form := f
		s.forms[f.ID] = &form
	}
	return s
}

// Get retrieves a form by id. The returned form is shared; do not modify it.
func (s *FormStore) Get(_ context.Context, id string) (*domain.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	form, ok := s.forms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return form, nil
}

// List returns all forms ordered by id.
func (s *FormStore) List(_ context.Context) ([]domain.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	forms := make([]domain.Form, 0, len(s.forms))
	for _, f := range s.forms {
		forms = append(forms, *f)
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].ID < forms[j].ID })
	return forms, nil
}

// Save stores or replaces a form. The stored copy is never mutated, so
// callers holding the previous pointer keep a consistent view.
func (s *FormStore) Save(_ context.Context, form domain.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forms[form.ID] = &form
	return nil
}
