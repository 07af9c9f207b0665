package domain

import "time"

// Default paging values for index searches.
const (
	DefaultPerPage = 20
	MaxPerPage     = 500
)

// SortCreated sorts search results by submission time.
const SortCreated = "_created"

// SearchCriteria configures an index search.
type SearchCriteria struct {
	// Query filters rows whose values contain the text (case-insensitive).
	Query string

	// SortField is a form safe name or SortCreated (the default).
	SortField string

	// SortDescending reverses the sort order.
	SortDescending bool

	// Page is 1-based.
	Page int

	// PerPage is the page size.
	PerPage int
}

// Normalise clamps paging values and fills defaults.
func (c SearchCriteria) Normalise() SearchCriteria {
	if c.Page < 1 {
		c.Page = 1
	}
	if c.PerPage <= 0 {
		c.PerPage = DefaultPerPage
	}
	if c.PerPage > MaxPerPage {
		c.PerPage = MaxPerPage
	}
	if c.SortField == "" {
		c.SortField = SortCreated
	}
	return c
}

// Offset returns the number of rows to skip.
func (c SearchCriteria) Offset() int {
	return (c.Page - 1) * c.PerPage
}

// SearchResult is one page of index rows.
type SearchResult struct {
	Rows      []Submission
	TotalRows int
}

// EntryScope selects the stored entries of one form. ContentID names the
// index the submissions were stored under; empty means the form's own.
type EntryScope struct {
	FormID    string
	ContentID string
}

// IndexID returns the content id whose index holds the entries.
func (s EntryScope) IndexID() string {
	if s.ContentID != "" {
		return s.ContentID
	}
	return s.FormID
}

// EntryValue is one formatted value of an entry.
type EntryValue struct {
	FieldID string `json:"fieldId"`
	Label   string `json:"label"`
	Value   string `json:"value"`
}

// Entry is a submission formatted for the data view.
type Entry struct {
	RowID     string       `json:"rowId"`
	CreatedAt time.Time    `json:"createdAt"`
	Values    []EntryValue `json:"values"`
}

// EntryPage is one page of formatted entries.
type EntryPage struct {
	Entries   []Entry `json:"entries"`
	TotalRows int     `json:"totalRows"`
	Page      int     `json:"page"`
	PerPage   int     `json:"perPage"`
}
