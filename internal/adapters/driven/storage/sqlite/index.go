package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/formflow/internal/core/domain"
	"github.com/custodia-labs/formflow/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.Index = (*Index)(nil)

// Index is one form's view of a Store.
type Index struct {
	store     *Store
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

	rowID := uuid.New().String()
	created := i.store.now().UTC()

	tx, err := i.store.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO submissions (row_id, content_id, created_at) VALUES (?, ?, ?)",
		rowID, i.contentID, created.UnixNano())
	if err != nil {
		return "", fmt.Errorf("inserting submission: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO submission_values
			(row_id, position, field_id, field_type, name, form_safe_name, value, invalid)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return "", fmt.Errorf("preparing values: %w", err)
	}
	defer stmt.Close()

	for pos, f := range fields {
		var value sql.NullString
		if f.SubmittedValue != nil {
			value = sql.NullString{String: *f.SubmittedValue, Valid: true}
		}
		_, err := stmt.ExecContext(ctx, rowID, pos, f.FieldID, f.Type, f.Name, f.FormSafeName, value, boolToInt(f.Invalid))
		if err != nil {
			return "", fmt.Errorf("inserting value %s: %w", f.FieldID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing submission: %w", err)
	}
	return rowID, nil
}

// Get retrieves one submission.
func (i *Index) Get(ctx context.Context, rowID string) (*domain.Submission, error) {
	var created int64
	err := i.store.db.QueryRowContext(ctx,
		"SELECT created_at FROM submissions WHERE row_id = ? AND content_id = ?",
		rowID, i.contentID).Scan(&created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting submission: %w", err)
	}

	sub := &domain.Submission{
		ContentID: i.contentID,
		RowID:     rowID,
		CreatedAt: time.Unix(0, created).UTC(),
	}
	values, err := i.loadValues(ctx, []string{rowID})
	if err != nil {
		return nil, err
	}
	sub.Fields = values[rowID]
	return sub, nil
}

// Delete removes one submission and its values.
func (i *Index) Delete(ctx context.Context, rowID string) (bool, error) {
	tx, err := i.store.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM submissions WHERE row_id = ? AND content_id = ?", rowID, i.contentID)
	if err != nil {
		return false, fmt.Errorf("deleting submission: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking delete: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	// Cascade covers this, but stay correct on connections without foreign keys
	if _, err := tx.ExecContext(ctx, "DELETE FROM submission_values WHERE row_id = ?", rowID); err != nil {
		return false, fmt.Errorf("deleting values: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing delete: %w", err)
	}
	return true, nil
}

// Search filters, sorts and pages the form's submissions.
// Ties keep insertion order in both directions.
func (i *Index) Search(ctx context.Context, criteria domain.SearchCriteria) (*domain.SearchResult, error) {
	criteria = criteria.Normalise()
	query := strings.ToLower(strings.TrimSpace(criteria.Query))

	where := "s.content_id = ?"
	args := []any{i.contentID}
	if query != "" {
		where += ` AND EXISTS (
			SELECT 1 FROM submission_values v
			WHERE v.row_id = s.row_id AND v.value IS NOT NULL AND instr(lower(v.value), ?) > 0
		)`
		args = append(args, query)
	}

	var total int
	if err := i.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM submissions s WHERE "+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting submissions: %w", err)
	}

	result := &domain.SearchResult{TotalRows: total, Rows: []domain.Submission{}}
	if criteria.Offset() >= total {
		return result, nil
	}

	direction := "ASC"
	if criteria.SortDescending {
		direction = "DESC"
	}

	var order string
	if criteria.SortField == domain.SortCreated {
		order = "s.created_at " + direction + ", s.rowid ASC"
	} else {
		order = `COALESCE((
			SELECT lower(v.value) FROM submission_values v
			WHERE v.row_id = s.row_id AND v.form_safe_name = ?
			ORDER BY v.position LIMIT 1
		), '') ` + direction + ", s.rowid ASC"
		args = append(args, criteria.SortField)
	}
	args = append(args, criteria.PerPage, criteria.Offset())

	rows, err := i.store.db.QueryContext(ctx,
		"SELECT s.row_id, s.created_at FROM submissions s WHERE "+where+
			" ORDER BY "+order+" LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, fmt.Errorf("searching submissions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var (
			rowID   string
			created int64
		)
		if err := rows.Scan(&rowID, &created); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}
		ids = append(ids, rowID)
		result.Rows = append(result.Rows, domain.Submission{
			ContentID: i.contentID,
			RowID:     rowID,
			CreatedAt: time.Unix(0, created).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating submissions: %w", err)
	}

	values, err := i.loadValues(ctx, ids)
	if err != nil {
		return nil, err
	}
	for n := range result.Rows {
		result.Rows[n].Fields = values[result.Rows[n].RowID]
	}
	return result, nil
}

// Count returns the number of stored submissions.
func (i *Index) Count(ctx context.Context) (int, error) {
	var n int
	err := i.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM submissions WHERE content_id = ?", i.contentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting submissions: %w", err)
	}
	return n, nil
}

// loadValues reads the field snapshots of the given rows keyed by row id.
func (i *Index) loadValues(ctx context.Context, rowIDs []string) (map[string][]domain.FieldSnapshot, error) {
	out := make(map[string][]domain.FieldSnapshot, len(rowIDs))
	if len(rowIDs) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(rowIDs)), ",")
	args := make([]any, len(rowIDs))
	for n, id := range rowIDs {
		args[n] = id
		out[id] = []domain.FieldSnapshot{}
	}

	rows, err := i.store.db.QueryContext(ctx, `
		SELECT row_id, field_id, field_type, name, form_safe_name, value, invalid
		FROM submission_values
		WHERE row_id IN (`+placeholders+`)
		ORDER BY row_id, position
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("loading values: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rowID   string
			f       domain.FieldSnapshot
			value   sql.NullString
			invalid int
		)
		if err := rows.Scan(&rowID, &f.FieldID, &f.Type, &f.Name, &f.FormSafeName, &value, &invalid); err != nil {
			return nil, fmt.Errorf("scanning value: %w", err)
		}
		if value.Valid {
			v := value.String
			f.SubmittedValue = &v
		}
		f.Invalid = invalid != 0
		out[rowID] = append(out[rowID], f)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
