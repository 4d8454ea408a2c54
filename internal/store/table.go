package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/roach88/investcrm/internal/resource"
)

// Table is a resource.Repository backed by one SQLite table. It is the
// single generic implementation behind all five resource collections; only
// the table name and column list differ per kind.
//
// All statements are parameterized (values are never interpolated) and all
// writes use RETURNING so the caller always sees the row as persisted.
type Table struct {
	db      *sql.DB
	name    string
	columns []string // without id
}

// NewTable creates a repository over the named table. columns lists the
// non-id columns in their schema order.
func NewTable(s *Store, name string, columns []string) *Table {
	return &Table{db: s.db, name: name, columns: columns}
}

// Insert adds a row with a store-assigned id and returns it.
func (t *Table) Insert(ctx context.Context, fields resource.Fields) (resource.Row, error) {
	return t.insert(ctx, fields, nil)
}

// InsertWithID adds a row forced to the given id. A duplicate id surfaces
// as the primary-key constraint error, unmodified.
func (t *Table) InsertWithID(ctx context.Context, id int64, fields resource.Fields) (resource.Row, error) {
	return t.insert(ctx, fields, &id)
}

func (t *Table) insert(ctx context.Context, fields resource.Fields, id *int64) (resource.Row, error) {
	cols := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	if id != nil {
		cols = append(cols, quoteIdent("id"))
		args = append(args, *id)
	}
	for _, f := range fields {
		cols = append(cols, quoteIdent(f.Column))
		args = append(args, f.Value)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		quoteIdent(t.name),
		strings.Join(cols, ", "),
		placeholders(len(cols)),
		t.selectList(),
	)

	row, err := t.queryOne(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", t.name, err)
	}
	return row, nil
}

// SelectAll returns every row in natural (rowid) order.
func (t *Table) SelectAll(ctx context.Context) ([]resource.Row, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", t.selectList(), quoteIdent(t.name))

	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", t.name, err)
	}
	defer rows.Close()

	var out []resource.Row
	for rows.Next() {
		r, err := t.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", t.name, err)
	}

	// Return empty slice instead of nil
	if out == nil {
		out = []resource.Row{}
	}
	return out, nil
}

// SelectByID returns the row for id, or resource.ErrNotFound.
func (t *Table) SelectByID(ctx context.Context, id int64) (resource.Row, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", t.selectList(), quoteIdent(t.name))

	row, err := t.queryOne(ctx, query, id)
	if err != nil {
		if err == errNoRow {
			return nil, fmt.Errorf("%s %d: %w", t.name, id, resource.ErrNotFound)
		}
		return nil, fmt.Errorf("select %s %d: %w", t.name, id, err)
	}
	return row, nil
}

// UpdateByID overwrites the given columns of one row and returns the row as
// persisted. The id column itself is never rewritten.
func (t *Table) UpdateByID(ctx context.Context, id int64, fields resource.Fields) (resource.Row, error) {
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for _, f := range fields {
		sets = append(sets, quoteIdent(f.Column)+" = ?")
		args = append(args, f.Value)
	}
	args = append(args, id)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ? RETURNING %s",
		quoteIdent(t.name),
		strings.Join(sets, ", "),
		t.selectList(),
	)

	row, err := t.queryOne(ctx, query, args...)
	if err != nil {
		if err == errNoRow {
			return nil, fmt.Errorf("%s %d: %w", t.name, id, resource.ErrNotFound)
		}
		return nil, fmt.Errorf("update %s %d: %w", t.name, id, err)
	}
	return row, nil
}

// UpdateAll overwrites the given columns of every row in one statement.
func (t *Table) UpdateAll(ctx context.Context, fields resource.Fields) error {
	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		sets = append(sets, quoteIdent(f.Column)+" = ?")
		args = append(args, f.Value)
	}

	query := fmt.Sprintf("UPDATE %s SET %s", quoteIdent(t.name), strings.Join(sets, ", "))
	if _, err := t.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update all %s: %w", t.name, err)
	}
	return nil
}

// DeleteByID removes one row. Removing an absent id is not an error.
func (t *Table) DeleteByID(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", quoteIdent(t.name))
	if _, err := t.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete %s %d: %w", t.name, id, err)
	}
	return nil
}

// DeleteAll removes every row.
func (t *Table) DeleteAll(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s", quoteIdent(t.name))
	if _, err := t.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("delete all %s: %w", t.name, err)
	}
	return nil
}

// errNoRow is an internal marker for "query returned zero rows"; callers
// translate it into resource.ErrNotFound with context.
var errNoRow = sql.ErrNoRows

// queryOne runs a query expected to yield at most one row.
func (t *Table) queryOne(ctx context.Context, query string, args ...any) (resource.Row, error) {
	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, errNoRow
	}
	r, err := t.scanRow(rows)
	if err != nil {
		return nil, err
	}
	return r, rows.Err()
}

// scanRow scans the current row into a flat column→scalar map.
// TEXT columns can arrive as []byte; they are normalized to string so the
// engine's equality checks and JSON encoding see one representation.
func (t *Table) scanRow(rows *sql.Rows) (resource.Row, error) {
	cols := make([]string, 0, len(t.columns)+1)
	cols = append(cols, "id")
	cols = append(cols, t.columns...)

	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, err
	}

	row := make(resource.Row, len(cols))
	for i, col := range cols {
		v := values[i]
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		row[col] = v
	}
	return row, nil
}

// selectList returns the quoted column list, id first, in schema order.
func (t *Table) selectList() string {
	parts := make([]string, 0, len(t.columns)+1)
	parts = append(parts, quoteIdent("id"))
	for _, c := range t.columns {
		parts = append(parts, quoteIdent(c))
	}
	return strings.Join(parts, ", ")
}

// quoteIdent double-quotes an identifier. Several schema names ("user",
// "desc") collide with SQL keywords.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// placeholders returns n comma-separated "?" markers.
func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}
