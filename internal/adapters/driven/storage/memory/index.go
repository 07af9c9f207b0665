package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.Index = (*Index)(nil)

// IndexStore keeps submissions for any number of forms in memory.
// It is the built-in default index and cannot fail to build.
type IndexStore struct {
	mu   sync.RWMutex
	rows map[string][]domain.Submission
	now  func() time.Time
}

// NewIndexStore creates an empty in-memory index store.
func NewIndexStore() *IndexStore {
	return &IndexStore{
		rows: make(map[string][]domain.Submission),
		now:  time.Now,
	}
}

// Index returns the index bound to a content id.
// Its signature matches driven.IndexBuilder.
func (s *IndexStore) Index(contentID string) (driven.Index, error) {
	return &Index{store: s, contentID: contentID}, nil
}

// Index is one form's view of an IndexStore.
type Index struct {
	store     *IndexStore
	contentID string
}

// ContentID returns the form instance this index is bound to.
func (i *Index) ContentID() string {
	return i.contentID
}

// Add stores a submission under a new UUID row id.
func (i *Index) Add(ctx context.Context, fields []domain.FieldSnapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sub := domain.Submission{
		ContentID: i.contentID,
		RowID:     uuid.New().String(),
		Fields:    cloneSnapshots(fields),
	}

	i.store.mu.Lock()
	defer i.store.mu.Unlock()
	sub.CreatedAt = i.store.now()
	i.store.rows[i.contentID] = append(i.store.rows[i.contentID], sub)
	return sub.RowID, nil
}

// Get retrieves one submission.
func (i *Index) Get(_ context.Context, rowID string) (*domain.Submission, error) {
	i.store.mu.RLock()
	defer i.store.mu.RUnlock()
	for _, sub := range i.store.rows[i.contentID] {
		if sub.RowID == rowID {
			out := sub
			out.Fields = cloneSnapshots(sub.Fields)
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Delete removes one submission.
func (i *Index) Delete(_ context.Context, rowID string) (bool, error) {
	i.store.mu.Lock()
	defer i.store.mu.Unlock()
	rows := i.store.rows[i.contentID]
	for n, sub := range rows {
		if sub.RowID == rowID {
			i.store.rows[i.contentID] = append(rows[:n:n], rows[n+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Search filters, sorts and pages the form's submissions.
func (i *Index) Search(_ context.Context, criteria domain.SearchCriteria) (*domain.SearchResult, error) {
	criteria = criteria.Normalise()
	query := strings.ToLower(strings.TrimSpace(criteria.Query))

	i.store.mu.RLock()
	var matched []domain.Submission
	for _, sub := range i.store.rows[i.contentID] {
		if query == "" || matches(sub, query) {
			matched = append(matched, sub)
		}
	}
	i.store.mu.RUnlock()

	sortSubmissions(matched, criteria.SortField, criteria.SortDescending)

	result := &domain.SearchResult{TotalRows: len(matched), Rows: []domain.Submission{}}
	start := criteria.Offset()
	if start >= len(matched) {
		return result, nil
	}
	end := min(start+criteria.PerPage, len(matched))
	for _, sub := range matched[start:end] {
		sub.Fields = cloneSnapshots(sub.Fields)
		result.Rows = append(result.Rows, sub)
	}
	return result, nil
}

// Count returns the number of stored submissions.
func (i *Index) Count(_ context.Context) (int, error) {
	i.store.mu.RLock()
	defer i.store.mu.RUnlock()
	return len(i.store.rows[i.contentID]), nil
}

func matches(sub domain.Submission, query string) bool {
	for _, f := range sub.Fields {
		if v, ok := f.Value(); ok && strings.Contains(strings.ToLower(v), query) {
			return true
		}
	}
	return false
}

// sortSubmissions keeps insertion order among equal keys.
func sortSubmissions(rows []domain.Submission, field string, desc bool) {
	less := func(a, b domain.Submission) bool {
		if field == domain.SortCreated {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return sortValue(a, field) < sortValue(b, field)
	}
	sort.SliceStable(rows, func(x, y int) bool {
		if desc {
			return less(rows[y], rows[x])
		}
		return less(rows[x], rows[y])
	})
}

func sortValue(sub domain.Submission, formSafeName string) string {
	for _, f := range sub.Fields {
		if f.FormSafeName == formSafeName {
			v, _ := f.Value()
			return strings.ToLower(v)
		}
	}
	return ""
}

func cloneSnapshots(in []domain.FieldSnapshot) []domain.FieldSnapshot {
	out := make([]domain.FieldSnapshot, len(in))
	for n, f := range in {
		if f.SubmittedValue != nil {
			v := *f.SubmittedValue
			f.SubmittedValue = &v
		}
		out[n] = f
	}
	return out
}
