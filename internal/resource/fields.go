package resource

// Field is a single named column value destined for (or read from) a row.
// Values are restricted to the scalar types the store round-trips: nil,
// int64, float64, and string. Dates travel as ISO-8601 strings.
type Field struct {
	Column string
	Value  any
}

// Fields is an ordered field set. Order follows the resource's column order
// so generated SQL is stable and diffable in logs.
type Fields []Field

// Columns returns the column names in field order.
func (f Fields) Columns() []string {
	cols := make([]string, len(f))
	for i, fld := range f {
		cols[i] = fld.Column
	}
	return cols
}

// Get returns the value for a column and whether the column is present.
func (f Fields) Get(column string) (any, bool) {
	for _, fld := range f {
		if fld.Column == column {
			return fld.Value, true
		}
	}
	return nil, false
}

// Without returns a copy of f with the named columns removed.
// Used by the bulk paths to strip reference columns before a
// collection-wide write.
func (f Fields) Without(columns ...string) Fields {
	if len(columns) == 0 {
		return f
	}
	drop := make(map[string]bool, len(columns))
	for _, c := range columns {
		drop[c] = true
	}
	out := make(Fields, 0, len(f))
	for _, fld := range f {
		if !drop[fld.Column] {
			out = append(out, fld)
		}
	}
	return out
}

// Row is a stored row as a flat column→scalar mapping, including "id".
type Row map[string]any

// ID returns the row's integer primary key. Rows always come from the
// store, which scans ids as int64.
func (r Row) ID() int64 {
	id, _ := r["id"].(int64)
	return id
}

// matches reports whether every field in f equals the corresponding column
// of the row. Columns absent from f are not compared. This is the no-op
// detection predicate for both Replace and Patch.
func (r Row) matches(f Fields) bool {
	for _, fld := range f {
		if !equalValue(fld.Value, r[fld.Column]) {
			return false
		}
	}
	return true
}

// equalValue compares an incoming field value with a stored column value.
// SQLite's type affinity can hand back int64 for a value written as float64
// (and vice versa), so numeric values compare numerically. TEXT columns can
// scan as []byte depending on the driver path.
func equalValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if bs, ok := b.([]byte); ok {
		b = string(bs)
	}
	if as, ok := a.([]byte); ok {
		a = string(as)
	}
	switch av := a.(type) {
	case int64:
		switch bv := b.(type) {
		case int64:
			return av == bv
		case float64:
			return float64(av) == bv
		}
	case float64:
		switch bv := b.(type) {
		case int64:
			return av == float64(bv)
		case float64:
			return av == bv
		}
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		// Stored as 0/1 in SQLite.
		if bv, ok := b.(int64); ok {
			return av == (bv != 0)
		}
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return a == b
}
