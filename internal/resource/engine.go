package resource

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound reports that the addressed id has no corresponding row.
// It is a first-class outcome for reads and deletes, not a store failure.
var ErrNotFound = errors.New("resource not found")

// ErrEmptyPatch reports a partial update that set zero fields. This is a
// contract violation rejected before any store access.
var ErrEmptyPatch = errors.New("patch must set at least one field")

// Outcome classifies the result of a Replace or Patch decision.
type Outcome int

const (
	// OutcomeCreated: the id was absent and a new row was inserted (Replace only).
	OutcomeCreated Outcome = iota
	// OutcomeUnchanged: every compared field already held the incoming value;
	// no mutating statement was issued.
	OutcomeUnchanged
	// OutcomeUpdated: at least one field differed and the row was rewritten.
	OutcomeUpdated
)

// String returns the outcome name for logging.
func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeUpdated:
		return "updated"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result pairs an Outcome with the row it applies to. Row is nil for
// OutcomeUnchanged (nothing was written) and for OutcomeCreated via Replace
// (the transport reports 201 with no body, matching create).
type Result struct {
	Outcome Outcome
	Row     Row
}

// Repository is the store port the engine drives, one instance per resource
// kind. Implementations issue exactly one statement per call. Lookup misses
// are reported as ErrNotFound (possibly wrapped).
type Repository interface {
	// Insert adds a row with a store-assigned id and returns it.
	Insert(ctx context.Context, fields Fields) (Row, error)
	// InsertWithID adds a row forced to the given id. Duplicate-id behavior
	// is left to the store's primary-key constraint.
	InsertWithID(ctx context.Context, id int64, fields Fields) (Row, error)
	// SelectAll returns every row in the store's natural order.
	SelectAll(ctx context.Context) ([]Row, error)
	// SelectByID returns the row for id, or ErrNotFound.
	SelectByID(ctx context.Context, id int64) (Row, error)
	// UpdateByID overwrites the given columns of one row and returns it.
	UpdateByID(ctx context.Context, id int64, fields Fields) (Row, error)
	// UpdateAll overwrites the given columns of every row.
	UpdateAll(ctx context.Context, fields Fields) error
	// DeleteByID removes one row. Removing an absent id is not an error.
	DeleteByID(ctx context.Context, id int64) error
	// DeleteAll removes every row.
	DeleteAll(ctx context.Context) error
}

// Engine applies the uniform write semantics for one resource kind.
//
// refColumns lists foreign-key-like columns excluded from bulk writes: a
// collection-wide statement that set every row's owner_id to the same value
// would silently re-parent the whole collection, so those columns are
// stripped on the bulk paths only. Per-id writes apply them normally.
type Engine struct {
	repo       Repository
	refColumns []string
}

// NewEngine creates an engine over the given repository. refColumns names
// the columns withheld from ReplaceAll/PatchAll.
func NewEngine(repo Repository, refColumns ...string) *Engine {
	return &Engine{repo: repo, refColumns: refColumns}
}

// Create inserts a new row with a store-assigned id and returns the
// persisted row, capturing any store-side normalization.
func (e *Engine) Create(ctx context.Context, fields Fields) (Row, error) {
	row, err := e.repo.Insert(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	return row, nil
}

// List returns every row. Absent rows are an empty slice, never nil.
func (e *Engine) List(ctx context.Context) ([]Row, error) {
	rows, err := e.repo.SelectAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}

// Get returns the row for id, or ErrNotFound.
func (e *Engine) Get(ctx context.Context, id int64) (Row, error) {
	return e.repo.SelectByID(ctx, id)
}

// Replace is the upsert contract for PUT /{id}:
//
//	absent  → insert at the addressed id, OutcomeCreated
//	present, all fields equal → OutcomeUnchanged, zero writes
//	present, any field differs → full overwrite, OutcomeUpdated
//
// The full incoming field set must be supplied; comparison is restricted to
// its keys. Replaying the identical call is therefore idempotent: CREATED
// once, UNCHANGED thereafter.
func (e *Engine) Replace(ctx context.Context, id int64, fields Fields) (Result, error) {
	current, err := e.repo.SelectByID(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		if _, err := e.repo.InsertWithID(ctx, id, fields); err != nil {
			return Result{}, fmt.Errorf("replace %d: %w", id, err)
		}
		return Result{Outcome: OutcomeCreated}, nil
	case err != nil:
		return Result{}, fmt.Errorf("replace %d: %w", id, err)
	}

	if current.matches(fields) {
		return Result{Outcome: OutcomeUnchanged}, nil
	}

	row, err := e.repo.UpdateByID(ctx, id, fields)
	if err != nil {
		return Result{}, fmt.Errorf("replace %d: %w", id, err)
	}
	return Result{Outcome: OutcomeUpdated, Row: row}, nil
}

// Patch applies a partial field set to an existing row:
//
//	absent → ErrNotFound; patch never creates
//	present, all supplied fields equal → OutcomeUnchanged, zero writes
//	otherwise → overwrite of the supplied columns only, OutcomeUpdated
//
// Unset columns are ignored entirely: not compared, not written. An empty
// field set is ErrEmptyPatch (the transport rejects it earlier; this is a
// second line of defense).
func (e *Engine) Patch(ctx context.Context, id int64, fields Fields) (Result, error) {
	if len(fields) == 0 {
		return Result{}, ErrEmptyPatch
	}

	current, err := e.repo.SelectByID(ctx, id)
	if err != nil {
		return Result{}, err
	}

	if current.matches(fields) {
		return Result{Outcome: OutcomeUnchanged}, nil
	}

	row, err := e.repo.UpdateByID(ctx, id, fields)
	if err != nil {
		return Result{}, fmt.Errorf("patch %d: %w", id, err)
	}
	return Result{Outcome: OutcomeUpdated, Row: row}, nil
}

// ReplaceAll applies a full field set to every row in the collection with a
// single bulk statement. An empty collection is a no-op: no statement is
// issued. Reference columns are stripped (see Engine doc); there is no
// per-row no-op detection on this path.
func (e *Engine) ReplaceAll(ctx context.Context, fields Fields) error {
	return e.updateEvery(ctx, fields)
}

// PatchAll is ReplaceAll restricted to the supplied columns.
func (e *Engine) PatchAll(ctx context.Context, fields Fields) error {
	if len(fields) == 0 {
		return ErrEmptyPatch
	}
	return e.updateEvery(ctx, fields)
}

func (e *Engine) updateEvery(ctx context.Context, fields Fields) error {
	rows, err := e.repo.SelectAll(ctx)
	if err != nil {
		return fmt.Errorf("bulk update: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	applied := fields.Without(e.refColumns...)
	if len(applied) == 0 {
		// Every supplied column was a reference column.
		return nil
	}
	if err := e.repo.UpdateAll(ctx, applied); err != nil {
		return fmt.Errorf("bulk update: %w", err)
	}
	return nil
}

// Delete removes the row for id, or reports ErrNotFound if it was never
// there. The existence check and the delete are separate statements.
func (e *Engine) Delete(ctx context.Context, id int64) error {
	if _, err := e.repo.SelectByID(ctx, id); err != nil {
		return err
	}
	if err := e.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete %d: %w", id, err)
	}
	return nil
}

// DeleteAll unconditionally empties the collection.
func (e *Engine) DeleteAll(ctx context.Context) error {
	if err := e.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete all: %w", err)
	}
	return nil
}
