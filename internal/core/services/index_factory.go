package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/ports/driven"
	"github.com/custodia-labs/formflow/internal/logger"
)

// Ensure IndexFactory implements the interface.
var _ driven.IndexFactory = (*IndexFactory)(nil)

// IndexFactory resolves the configured index implementation by key.
// The default builder is registered under domain.IndexTypeMemory and
// must never fail; it backs every resolution that goes wrong.
type IndexFactory struct {
	mu         sync.RWMutex
	builders   map[string]driven.IndexBuilder
	configured string
	fallback   driven.IndexBuilder
}

// NewIndexFactory creates a factory resolving configured, falling back to
// defaultBuilder. An empty configured key selects the default.
func NewIndexFactory(configured string, defaultBuilder driven.IndexBuilder) *IndexFactory {
	f := &IndexFactory{
		builders:   make(map[string]driven.IndexBuilder),
		configured: configured,
		fallback:   defaultBuilder,
	}
	f.builders[domain.IndexTypeMemory] = defaultBuilder
	return f
}

// Register adds an index builder under a configuration key.
func (f *IndexFactory) Register(key string, builder driven.IndexBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[key] = builder
}

// SupportedTypes returns all registered index keys, sorted.
func (f *IndexFactory) SupportedTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]string, 0, len(f.builders))
	for key := range f.builders {
		types = append(types, key)
	}
	sort.Strings(types)
	return types
}

// Configured returns the configured index key.
func (f *IndexFactory) Configured() string {
	return f.configured
}

// Validate reports an unregistered configured key. Call it at startup:
// GetIndex would otherwise silently use the default for every form.
func (f *IndexFactory) Validate() error {
	if f.configured == "" {
		return nil
	}

	f.mu.RLock()
	_, ok := f.builders[f.configured]
	f.mu.RUnlock()

	if !ok {
		return fmt.Errorf("index type %q (registered: %v): %w", f.configured, f.SupportedTypes(), domain.ErrUnsupportedType)
	}
	return nil
}

// GetIndex returns an index bound to the content id. It never returns
// nil: any failure of the configured builder is logged and the default
// index is used instead.
func (f *IndexFactory) GetIndex(contentID string) driven.Index {
	key := f.configured
	if key == "" {
		key = domain.IndexTypeMemory
	}

	f.mu.RLock()
	builder, ok := f.builders[key]
	f.mu.RUnlock()

	if !ok {
		logger.Warn("index type %q is not registered; using %s index for %s", key, domain.IndexTypeMemory, contentID)
		return f.defaultIndex(contentID)
	}

	idx, err := safeBuild(builder, contentID)
	if err != nil {
		logger.Error("building %s index for %s: %v; using %s index", key, contentID, err, domain.IndexTypeMemory)
		return f.defaultIndex(contentID)
	}

	logger.Debug("using %s index for %s", key, contentID)
	return idx
}

func (f *IndexFactory) defaultIndex(contentID string) driven.Index {
	idx, err := safeBuild(f.fallback, contentID)
	if err != nil {
		// The default builder is in-process and cannot fail short of a programming error
		panic(fmt.Sprintf("default index builder failed for %s: %v", contentID, err))
	}
	return idx
}

// safeBuild runs a builder, converting errors, nil results and panics
// into an error.
func safeBuild(builder driven.IndexBuilder, contentID string) (idx driven.Index, err error) {
	defer func() {
		if r := recover(); r != nil {
			idx, err = nil, fmt.Errorf("index builder panicked: %v", r)
		}
	}()

	idx, err = builder(contentID)
	if err != nil {
		return nil, err
	}
	if idx == nil {
		return nil, fmt.Errorf("index builder returned no index")
	}
	return idx, nil
}
