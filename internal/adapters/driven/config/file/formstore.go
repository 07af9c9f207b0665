package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/ports/driven"
	"github.com/custodia-labs/formflow/internal/logger"
	"github.com/custodia-labs/formflow/internal/validation"
)

// Ensure FormStore implements the interface.
var _ driven.FormStore = (*FormStore)(nil)

// FormsDirName is the forms directory under the formflow home.
const FormsDirName = "forms"

// formExtensions are the file suffixes recognised as form definitions.
var formExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// FormStore serves form definitions from a directory, one form per file.
// Reads go through an atomically swapped snapshot, so a reload never
// mutates a form a running submission already holds.
type FormStore struct {
	dir      string
	writeMu  sync.Mutex
	snapshot atomic.Pointer[map[string]*domain.Form]
}

// NewFormStore loads every form definition in dir, creating it if needed.
// Files that fail to parse or validate are logged and skipped.
func NewFormStore(dir string) (*FormStore, error) {
	if dir == "" {
		home, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, FormsDirName)
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	s := &FormStore{dir: dir}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Dir returns the directory forms are read from.
func (s *FormStore) Dir() string {
	return s.dir
}

// Get retrieves a form by id. The returned form is shared; do not modify it.
func (s *FormStore) Get(_ context.Context, id string) (*domain.Form, error) {
	form, ok := (*s.snapshot.Load())[id]
	if !ok {
		return nil, fmt.Errorf("form %q: %w", id, domain.ErrNotFound)
	}
	return form, nil
}

// List returns all forms ordered by id.
func (s *FormStore) List(_ context.Context) ([]domain.Form, error) {
	current := *s.snapshot.Load()
	forms := make([]domain.Form, 0, len(current))
	for _, f := range current {
		forms = append(forms, *f)
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].ID < forms[j].ID })
	return forms, nil
}

// Save writes the form to <id>.yaml and publishes it immediately.
func (s *FormStore) Save(_ context.Context, form domain.Form) error {
	if form.ID == "" || form.ID != filepath.Base(form.ID) || strings.HasPrefix(form.ID, ".") {
		return fmt.Errorf("form id %q: %w", form.ID, domain.ErrInvalidInput)
	}

	data, err := yaml.Marshal(form)
	if err != nil {
		return fmt.Errorf("encode form %s: %w", form.ID, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := os.WriteFile(filepath.Join(s.dir, form.ID+".yaml"), data, 0600); err != nil {
		return fmt.Errorf("write form %s: %w", form.ID, err)
	}

	// Copy-on-write so readers of the previous snapshot are unaffected
	current := *s.snapshot.Load()
	next := make(map[string]*domain.Form, len(current)+1)
	for id, f := range current {
		next[id] = f
	}
	next[form.ID] = &form
	s.snapshot.Store(&next)
	return nil
}

// Reload re-reads the directory and swaps in the new set of forms.
func (s *FormStore) Reload() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read forms dir: %w", err)
	}

	next := make(map[string]*domain.Form)
	source := make(map[string]string)
	for _, entry := range entries {
		if !isFormFile(entry.Name()) || entry.IsDir() {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		form, err := LoadForm(path)
		if err != nil {
			logger.Error("skipping form file %s: %v", path, err)
			continue
		}

		if prev, dup := source[form.ID]; dup {
			logger.Warn("form %q in %s overrides %s", form.ID, entry.Name(), prev)
		}
		next[form.ID] = form
		source[form.ID] = entry.Name()
	}

	s.snapshot.Store(&next)
	logger.Debug("loaded %d form(s) from %s", len(next), s.dir)
	return nil
}

// Watch reloads the store whenever a form file in the directory changes.
// It blocks until ctx is cancelled.
func (s *FormStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isFormFile(event.Name) || event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			logger.Debug("form file %s changed (%s)", event.Name, event.Op)
			if err := s.Reload(); err != nil {
				logger.Error("reloading forms: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("form watcher: %v", err)
		}
	}
}

func isFormFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return formExtensions[strings.ToLower(filepath.Ext(base))]
}

// LoadForm reads one form definition. .json files are decoded as JSON,
// anything else as YAML.
func LoadForm(path string) (*domain.Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var form domain.Form
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &form)
	} else {
		err = yaml.Unmarshal(data, &form)
	}
	if err != nil {
		return nil, err
	}
	if form.ID == "" {
		return nil, errors.New("missing form id")
	}
	if err := validation.Struct(form); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return &form, nil
}
